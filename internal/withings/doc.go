// Package withings provides an HTTP client for the Withings body scale (WBS) API.
//
// # Overview
//
// The client maps each WBS action onto one method. It builds the query string,
// issues a GET against the configured host and port, and returns the decoded
// JSON envelope. The service answers every action with:
//
//	{"status": 0, "body": {...}}
//
// A zero status means success. The client returns the envelope verbatim as a
// *Response and leaves status interpretation to the caller, except for the
// nonce step of GetUsersList.
//
// # Client Usage
//
//	client, err := withings.NewClient(withings.Options{
//		Host: "wbsapi.withings.net",
//		Port: 80,
//	})
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	resp, err := client.GetMeasurements(ctx, 29, "b71d7e2ce8c8e4a3", withings.MeasureQuery{
//		MeasureType: withings.TypeWeight,
//		Limit:       10,
//	})
//
// # Actions
//
//   - measure?action=getmeas: GetMeasurements
//   - user?action=getbyuserid: GetUserInfo
//   - once?action=get + account?action=getuserslist: GetUsersList
//   - user/update, notify/subscribe, notify/revoke, notify/get: not issued,
//     the methods return ErrNotImplemented
//
// Optional getmeas filters are appended after action, userid and publickey in
// a fixed order: startdate, enddate, meastype, lastupdate, category, limit,
// offset. A zero field in MeasureQuery leaves its key out of the request.
//
// # Credentials
//
// GetUsersList fetches a one-time nonce and sends
//
//	md5(email + ":" + md5(password) + ":" + nonce)
//
// as the hash parameter. The service mandates md5 here. The password is only
// used to compute the digest; it is not stored, and request logging records
// the path and status only.
//
// # Proxy
//
// When Options.ProxyHost is set, every request is routed through
// http://ProxyHost:ProxyPort. The proxy belongs to the client's own transport;
// nothing process-wide changes.
//
// # Error Handling
//
//   - "execute request: ...": transport failures
//   - "api /measure returned status 500": non-2xx responses
//   - "decode response: ...": malformed JSON
//   - ErrServiceUnavailable: the nonce request reported a non-zero status
//
// No request is retried.
package withings

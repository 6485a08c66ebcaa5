// Package app is the composition root for bodyscale.
//
// # Dashboard
//
// Run wires configuration, logging, the Withings client, the shared store,
// the poller and the UI:
//
//	Run()
//	 ├─> config.Load()        TOML + .env + BODYSCALE_* overrides
//	 ├─> logging.New()        JSON records in <log_dir>/bodyscale.log
//	 ├─> withings.NewClient() HTTP client, optional proxy
//	 ├─> StartPoller()        background refresh
//	 └─> ui.Run()             Bubble Tea program (blocks)
//
// # Polling
//
// The first refresh fetches the user record and the full measurement history.
// Later refreshes pass lastupdate so the service returns only groups changed
// since the previous sync; the store merges them by group id.
//
// After a failed refresh the next attempt waits interval * 2^failures, capped
// at 30 minutes. A success resets the delay. Failures are logged and shown in
// the UI header; polling never stops on its own.
//
// # One-shot Commands
//
// PrintMeasures, PrintUser and PrintUsersList issue a single action and print
// the response verbatim as indented JSON. A non-zero service status is
// returned as a *withings.StatusError after the payload is printed.
//
// ReadPassword takes the account password from BODYSCALE_PASSWORD or the
// first line of stdin. It is handed to the client and dropped.
package app

package withings

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Service defines the WBS API actions exposed by the client.
// This interface is implemented by *Client and can be used for testing.
type Service interface {
	GetMeasurements(ctx context.Context, userID int64, publicKey string, query MeasureQuery) (*Response, error)
	GetUserInfo(ctx context.Context, userID int64, publicKey string) (*Response, error)
	GetUsersList(ctx context.Context, email, password string) (*Response, error)
	Update(ctx context.Context, userID int64, publicKey string, public bool) (*Response, error)
	Subscribe(ctx context.Context, userID int64, publicKey, callbackURL string) (*Response, error)
	Revoke(ctx context.Context, userID int64, publicKey, callbackURL string) (*Response, error)
	CheckSubscription(ctx context.Context, userID int64, publicKey, callbackURL string) (*Response, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

var (
	// ErrServiceUnavailable is returned when the nonce request reports a non-zero status.
	ErrServiceUnavailable = errors.New("could not communicate with withings")
	// ErrNotImplemented is returned by actions the client does not issue.
	ErrNotImplemented = errors.New("withings action not implemented")
)

const (
	DefaultHost      = "wbsapi.withings.net"
	DefaultPort      = 80
	DefaultProxyPort = 80

	defaultUserAgent = "bodyscale/0.1"
	requestTimeout   = 10 * time.Second
)

// Options configure a Client.
type Options struct {
	Host      string
	Port      int
	ProxyHost string // empty disables the proxy
	ProxyPort int    // zero uses DefaultProxyPort
	UserAgent string
	Timeout   time.Duration
	// Transport replaces the default *http.Transport. A proxy can only be
	// combined with an *http.Transport.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Client talks to the Withings body scale API.
type Client struct {
	baseURL  string
	proxyURL *url.URL
	http     *resty.Client
	logger   *slog.Logger
}

// NewClient builds a Client. No network activity happens here.
func NewClient(opts Options) (*Client, error) {
	base, err := buildBaseURL(opts.Host, opts.Port)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetLogger(restyLogger{logger}).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
	if opts.Transport != nil {
		rc.SetTransport(opts.Transport)
	}

	c := &Client{baseURL: base, http: rc, logger: logger}

	if host := strings.TrimSpace(opts.ProxyHost); host != "" {
		if _, ok := rc.GetClient().Transport.(*http.Transport); !ok {
			return nil, fmt.Errorf("proxy %q requires an *http.Transport", host)
		}
		port := opts.ProxyPort
		if port <= 0 {
			port = DefaultProxyPort
		}
		proxy := &url.URL{Scheme: "http", Host: net.JoinHostPort(host, strconv.Itoa(port))}
		rc.SetProxy(proxy.String())
		c.proxyURL = proxy
	}

	rc.OnAfterResponse(c.logResponse)
	return c, nil
}

// BaseURL returns the scheme, host and port requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ProxyURL returns the configured proxy, or nil when requests go direct.
func (c *Client) ProxyURL() *url.URL {
	if c.proxyURL == nil {
		return nil
	}
	dup := *c.proxyURL
	return &dup
}

// MeasureQuery holds the optional getmeas filters. Zero values are omitted
// from the request.
type MeasureQuery struct {
	StartDate   time.Time
	EndDate     time.Time
	MeasureType MeasureType
	LastUpdate  time.Time
	Category    Category
	Limit       int
	Offset      int
}

func (q MeasureQuery) appendTo(p *params) {
	if !q.StartDate.IsZero() {
		p.addInt("startdate", q.StartDate.Unix())
	}
	if !q.EndDate.IsZero() {
		p.addInt("enddate", q.EndDate.Unix())
	}
	if q.MeasureType != 0 {
		p.addInt("meastype", int64(q.MeasureType))
	}
	if !q.LastUpdate.IsZero() {
		p.addInt("lastupdate", q.LastUpdate.Unix())
	}
	if q.Category != 0 {
		p.addInt("category", int64(q.Category))
	}
	if q.Limit > 0 {
		p.addInt("limit", int64(q.Limit))
	}
	if q.Offset > 0 {
		p.addInt("offset", int64(q.Offset))
	}
}

// GetMeasurements implements measure/getmeas.
func (c *Client) GetMeasurements(ctx context.Context, userID int64, publicKey string, query MeasureQuery) (*Response, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	p := newParams("getmeas")
	p.addInt("userid", userID)
	p.add("publickey", publicKey)
	query.appendTo(p)
	return c.get(ctx, "measure", p)
}

// GetUserInfo implements user/getbyuserid.
func (c *Client) GetUserInfo(ctx context.Context, userID int64, publicKey string) (*Response, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	p := newParams("getbyuserid")
	p.addInt("userid", userID)
	p.add("publickey", publicKey)
	return c.get(ctx, "user", p)
}

// GetUsersList implements account/getuserslist. It fetches a nonce first and
// sends a digest of the credentials; the password itself never leaves this call.
func (c *Client) GetUsersList(ctx context.Context, email, password string) (*Response, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	once, err := c.get(ctx, "once", newParams("get"))
	if err != nil {
		return nil, err
	}
	if once.Status != 0 {
		return nil, ErrServiceUnavailable
	}
	var body OnceBody
	if err := once.DecodeBody(&body); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body.Once) == "" {
		return nil, fmt.Errorf("%w: empty nonce", ErrServiceUnavailable)
	}

	p := newParams("getuserslist")
	p.add("email", email)
	p.add("hash", CredentialsDigest(email, password, body.Once))
	return c.get(ctx, "account", p)
}

// Update would implement user/update. It issues no request.
func (c *Client) Update(ctx context.Context, userID int64, publicKey string, public bool) (*Response, error) {
	return nil, ErrNotImplemented
}

// Subscribe would implement notify/subscribe. It issues no request.
func (c *Client) Subscribe(ctx context.Context, userID int64, publicKey, callbackURL string) (*Response, error) {
	return nil, ErrNotImplemented
}

// Revoke would implement notify/revoke. It issues no request.
func (c *Client) Revoke(ctx context.Context, userID int64, publicKey, callbackURL string) (*Response, error) {
	return nil, ErrNotImplemented
}

// CheckSubscription would implement notify/get. It issues no request.
func (c *Client) CheckSubscription(ctx context.Context, userID int64, publicKey, callbackURL string) (*Response, error) {
	return nil, ErrNotImplemented
}

// CredentialsDigest computes md5(email:md5(password):once) as hex.
func CredentialsDigest(email, password, once string) string {
	inner := md5.Sum([]byte(password))
	outer := md5.Sum([]byte(email + ":" + hex.EncodeToString(inner[:]) + ":" + once))
	return hex.EncodeToString(outer[:])
}

func (c *Client) get(ctx context.Context, path string, p *params) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Get(path + "?" + p.encode())
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("api /%s returned status %d", path, resp.StatusCode())
	}

	raw := resp.Body()
	var payload Response
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	payload.Raw = raw
	return &payload, nil
}

// logResponse records the action path and status. Query strings are never
// logged since they carry keys and credential digests.
func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	path := ""
	if raw := resp.Request.RawRequest; raw != nil && raw.URL != nil {
		path = raw.URL.Path
	}
	c.logger.Debug("withings request",
		"method", resp.Request.Method,
		"path", path,
		"status", resp.StatusCode(),
		"elapsed", resp.Time(),
	)
	return nil
}

// params builds a query string that keeps keys in insertion order.
type params struct {
	parts []string
}

func newParams(action string) *params {
	p := &params{}
	p.add("action", action)
	return p
}

func (p *params) add(key, value string) {
	p.parts = append(p.parts, key+"="+url.QueryEscape(value))
}

func (p *params) addInt(key string, value int64) {
	p.parts = append(p.parts, key+"="+strconv.FormatInt(value, 10))
}

func (p *params) encode() string {
	return strings.Join(p.parts, "&")
}

func buildBaseURL(host string, port int) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	if port < 0 || port > 65535 {
		return "", fmt.Errorf("invalid port %d", port)
	}
	if strings.Contains(host, "/") {
		return "", fmt.Errorf("invalid host %q", host)
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// restyLogger routes resty's internal warnings to slog.
type restyLogger struct {
	l *slog.Logger
}

func (r restyLogger) Errorf(format string, v ...any) {
	r.l.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (r restyLogger) Warnf(format string, v ...any) {
	r.l.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (r restyLogger) Debugf(format string, v ...any) {
	r.l.Debug(fmt.Sprintf(format, v...), "component", "resty")
}

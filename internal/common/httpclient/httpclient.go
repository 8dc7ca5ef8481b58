package httpclient

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tansive/libdesk/internal/common/logtrace"
)

// Request is a single unit of work for the dispatcher.
type Request struct {
	Method string      // HTTP method, GET when empty
	Path   string      // relative path (resolved through the route table) or absolute URL
	Query  url.Values  // optional, merged into any query already in Path
	Body   any         // nil, pre-encoded payload, or a value to JSON-encode
	Header http.Header // optional extra headers
	NoAuth bool        // never send credentials, e.g. for login
}

// Response is a received HTTP response with its body already decoded.
type Response struct {
	StatusCode int
	Header     http.Header
	Raw        []byte
	Body       any
}

// Dispatcher sends authenticated requests to the configured API.
type Dispatcher struct {
	config     Configurator
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.httpClient = c
		}
	}
}

// WithTransport sets the round tripper of the underlying client.
func WithTransport(rt http.RoundTripper) Option {
	return func(d *Dispatcher) {
		d.httpClient.Transport = rt
	}
}

// WithTimeout bounds each call. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// WithInsecureSkipVerify disables TLS certificate validation, for
// development backends with self-signed certificates.
func WithInsecureSkipVerify() Option {
	return func(d *Dispatcher) {
		d.httpClient.Transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}
}

// NewDispatcher creates a dispatcher reading its settings from config.
func NewDispatcher(config Configurator, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		config:     config,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Request sends a request and returns the decoded body.
func (d *Dispatcher) Request(ctx context.Context, path, method string, body any) (any, error) {
	resp, err := d.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Do sends r. The stored session is never modified here, whatever the status.
func (d *Dispatcher) Do(ctx context.Context, r Request) (*Response, error) {
	ctx, requestID := logtrace.WithRequestID(ctx)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = http.MethodGet
	}

	target, err := d.buildURL(r.Path, r.Query)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(r.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, ErrUnsupported.MsgErr("failed to create request", err)
	}
	for k, vals := range r.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(logtrace.RequestIDHeader, requestID)
	d.applyAuth(req, r.NoAuth)

	logger := log.Ctx(ctx)
	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("method", method).Str("url", target).Msg("request failed without response")
		return nil, &HTTPError{
			StatusCode: 0,
			Message:    ErrNetwork.Error(),
			cause:      ErrNetwork.Err(err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    ErrReadBody.Error(),
			cause:      ErrReadBody.Err(err),
		}
	}

	logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Str("duration", strconv.FormatInt(time.Since(start).Milliseconds(), 10)+"ms").
		Msg("request completed")

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Raw:        raw,
		Body:       DecodeBody(raw),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(out.Body, statusText(resp)),
			Details:    out.Body,
		}
	}
	return out, nil
}

func (d *Dispatcher) buildURL(p string, query url.Values) (string, error) {
	target := p
	if !IsAbsoluteURL(p) {
		base := strings.TrimRight(d.config.GetServerURL(), "/")
		if !IsAbsoluteURL(base) {
			return "", ErrInvalidURL.Msg("invalid server URL: " + strconv.Quote(base))
		}
		target = base + d.config.GetRouteTable().Resolve(p)
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", ErrInvalidURL.MsgErr("invalid request URL: "+strconv.Quote(target), err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vals := range query {
			for _, v := range vals {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// applyAuth attaches the bearer token when usable and strips any
// Authorization header otherwise.
func (d *Dispatcher) applyAuth(req *http.Request, noAuth bool) {
	token := strings.TrimSpace(d.config.GetToken())
	if !noAuth && IsUsableToken(token) {
		req.Header.Set("Authorization", "Bearer "+token)
		return
	}
	req.Header.Del("Authorization")
}

// statusText is the reason phrase of the status line, or the standard text.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// Client executes requests described by a RequestSpec. It is safe for
// concurrent use.
type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
	defaultHeaders map[string]string
	rateLimit      float64
	limiter        *rate.Limiter
	logger         logrus.FieldLogger
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
		defaultHeaders: make(map[string]string),
		logger:         logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if c.proxyURL != "" {
		proxyURL, err := neturl.Parse(c.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	if c.rateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(c.rateLimit), 1)
	}

	// The deadline is carried by the request context so a spec can extend it.
	c.httpClient = &http.Client{
		Transport:     transport,
		CheckRedirect: redirectPolicy,
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

// WithDefaultHeaders sets multiple default headers for all requests
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithRateLimit caps outgoing requests at rps requests per second.
// Zero disables limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.rateLimit = rps
	}
}

func WithLogger(logger logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Timeout returns the per-call timeout used when a spec does not set one.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Execute sends one request built from spec and path and returns the captured
// response. Any status code is returned as data. Errors are either an
// InvalidSpecError (nothing was sent) or a TransportError.
func (c *Client) Execute(ctx context.Context, method, path string, spec *RequestSpec, body any) (*Response, error) {
	if spec == nil {
		spec = Override()
	}

	target, err := spec.ResolveURL(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateURL(target); err != nil {
		return nil, &InvalidSpecError{Field: "url", Reason: err.Error()}
	}

	payload, contentType, err := encodeBody(body, spec.ContentType())
	if err != nil {
		return nil, &InvalidSpecError{Field: "body", Reason: err.Error()}
	}

	timeout := c.timeout
	if spec.Timeout() > 0 {
		timeout = spec.Timeout()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &InvalidSpecError{Field: "request", Reason: err.Error()}
	}

	for k, v := range c.defaultHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range spec.Headers() {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newTransportError(method, target, err)
		}
	}

	filters := spec.Filters()
	for _, f := range filters {
		f.BeforeRequest(httpReq)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"method": method, "url": target}).WithError(err).Debug("request failed")
		return nil, newTransportError(method, target, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	end := time.Now()
	if err != nil {
		return nil, newTransportError(method, target, fmt.Errorf("reading response body: %w", err))
	}

	headers := make(map[string]string)
	for k := range httpResp.Header {
		headers[k] = httpResp.Header.Get(k)
	}

	resp := &Response{
		Method:     method,
		URL:        target,
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    headers,
		Body:       respBody,
		Start:      start,
		End:        end,
		Duration:   end.Sub(start),
	}

	for _, f := range filters {
		f.AfterResponse(resp)
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      target,
		"status":   resp.StatusCode,
		"duration": resp.Duration.String(),
	}).Debug("request completed")

	return resp, nil
}

func (c *Client) Get(ctx context.Context, spec *RequestSpec, path string) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, path, spec, nil)
}

func (c *Client) Post(ctx context.Context, spec *RequestSpec, path string, body any) (*Response, error) {
	return c.Execute(ctx, http.MethodPost, path, spec, body)
}

func (c *Client) Put(ctx context.Context, spec *RequestSpec, path string, body any) (*Response, error) {
	return c.Execute(ctx, http.MethodPut, path, spec, body)
}

func (c *Client) Patch(ctx context.Context, spec *RequestSpec, path string, body any) (*Response, error) {
	return c.Execute(ctx, http.MethodPatch, path, spec, body)
}

func (c *Client) Delete(ctx context.Context, spec *RequestSpec, path string) (*Response, error) {
	return c.Execute(ctx, http.MethodDelete, path, spec, nil)
}

// encodeBody serializes body for ct. Raw bytes and strings are sent as is;
// any other value is JSON unless ct asks for form or text encoding.
func encodeBody(body any, ct ContentType) ([]byte, string, error) {
	if body == nil {
		return nil, ct.MIME(), nil
	}

	switch b := body.(type) {
	case []byte:
		return b, ct.MIME(), nil
	case string:
		return []byte(b), ct.MIME(), nil
	}

	switch ct {
	case ContentTypeForm:
		switch v := body.(type) {
		case neturl.Values:
			return []byte(v.Encode()), ct.MIME(), nil
		case map[string]string:
			values := neturl.Values{}
			for k, val := range v {
				values.Set(k, val)
			}
			return []byte(values.Encode()), ct.MIME(), nil
		default:
			return nil, "", fmt.Errorf("cannot form-encode %T", body)
		}
	case ContentTypeText:
		return []byte(fmt.Sprint(body)), ct.MIME(), nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("cannot JSON-encode %T: %w", body, err)
		}
		return data, ContentTypeJSON.MIME(), nil
	}
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	// Check for valid scheme
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	// Check for valid host
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}

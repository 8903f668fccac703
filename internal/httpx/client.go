package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used by the helper. The supplied
// client is copied; its CheckRedirect policy is kept for requests that follow
// redirects.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithHeaders assigns default headers added to every request.
func WithHeaders(h http.Header) Option {
	return func(c *Client) {
		for k, values := range h {
			for _, v := range values {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithTimeout sets the per-request timeout. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger routes request logs to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// Client wraps http.Client with explicit redirect control. Requests never
// follow redirects unless asked to.
type Client struct {
	httpClient *http.Client
	follow     *http.Client
	direct     *http.Client
	headers    http.Header
	timeout    time.Duration
	log        logrus.FieldLogger
}

// Request describes a single outbound request.
type Request struct {
	Method          string
	URL             string
	Header          http.Header
	Body            []byte
	FollowRedirects bool
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		headers:    make(http.Header),
		timeout:    DefaultTimeout,
		log:        discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	follow := *c.httpClient
	follow.Timeout = c.timeout
	c.follow = &follow

	direct := *c.httpClient
	direct.Timeout = c.timeout
	direct.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	c.direct = &direct
	return c
}

// Timeout reports the per-request timeout in effect.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Do executes req and returns the fully read response for every status code.
// A non-nil error always means the exchange itself failed and is a
// *RequestError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("httpx: request is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if req.Method == "" {
		return nil, errors.New("httpx: HTTP method is required")
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, errors.New("httpx: request URL is required")
	}

	fail := func(err error) (*Response, error) {
		return nil, &RequestError{Method: req.Method, URL: req.URL, Err: err}
	}

	var body io.Reader = http.NoBody
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return fail(err)
	}
	if req.Body != nil {
		data := req.Body
		httpReq.ContentLength = int64(len(data))
		httpReq.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		}
	}
	httpReq.Header = cloneHeader(c.headers)
	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	client := c.direct
	if req.FollowRedirects {
		client = c.follow
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		closeBody(respBody(resp))
		c.log.WithFields(logrus.Fields{
			"method": req.Method,
			"url":    req.URL,
		}).WithError(err).Debug("gateway request failed")
		return fail(err)
	}

	payload, err := ReadAllAndClose(resp.Body)
	if err != nil {
		return fail(fmt.Errorf("read response body: %w", err))
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       payload,
		URL:        httpReq.URL,
	}
	if resp.Request != nil {
		out.URL = resp.Request.URL
	}
	c.log.WithFields(logrus.Fields{
		"method":   req.Method,
		"url":      req.URL,
		"status":   resp.StatusCode,
		"follow":   req.FollowRedirects,
		"bytes":    len(payload),
		"duration": time.Since(start),
	}).Debug("gateway request")
	return out, nil
}

func closeBody(rc io.ReadCloser) {
	if rc != nil {
		_ = rc.Close()
	}
}

func respBody(resp *http.Response) io.ReadCloser {
	if resp == nil {
		return nil
	}
	return resp.Body
}

// ReadAllAndClose drains the reader and ensures it is closed.
func ReadAllAndClose(rc io.ReadCloser) ([]byte, error) {
	defer closeBody(rc)
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func cloneHeader(src http.Header) http.Header {
	dst := make(http.Header, len(src))
	for k, values := range src {
		vCopy := make([]string, len(values))
		copy(vCopy, values)
		dst[k] = vCopy
	}
	return dst
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ResolveLocation returns the absolute redirect target carried by the
// Location header, resolved against base when relative.
func ResolveLocation(base *url.URL, header http.Header) (*url.URL, error) {
	loc := strings.TrimSpace(header.Get("Location"))
	if loc == "" {
		return nil, ErrNoLocation
	}
	target, err := url.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("httpx: invalid Location %q: %w", loc, err)
	}
	if base != nil {
		target = base.ResolveReference(target)
	}
	return target, nil
}

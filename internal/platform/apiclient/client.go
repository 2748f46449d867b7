package apiclient

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"qrMenu/internal/shared/ids"
)

const (
	DefaultBaseURL = "http://localhost:3000/api"
	DefaultTimeout = 10 * time.Second

	cacheBusterParam = "_t"
	requestIDHeader  = "X-Request-ID"
)

// Config holds the client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the REST backend. Every call goes through one resty client so the
// request interceptor and the response translation live in one place.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
	now    func() time.Time
}

func New(cfg Config, logger *zap.Logger) *Client {
	return newClient(cfg, logger, resty.New())
}

// NewWithHTTPClient lets callers supply the transport, mostly for tests.
func NewWithHTTPClient(cfg Config, logger *zap.Logger, hc *http.Client) *Client {
	return newClient(cfg, logger, resty.NewWithClient(hc))
}

func newClient(cfg Config, logger *zap.Logger, rc *resty.Client) *Client {
	if logger == nil {
		logger = zap.L()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{http: rc, logger: logger.Named("apiclient"), now: time.Now}
	rc.SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}
	rc.OnBeforeRequest(c.beforeRequest)
	rc.OnAfterResponse(c.afterResponse)
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.http.BaseURL }

func (c *Client) beforeRequest(_ *resty.Client, r *resty.Request) error {
	if r.Method == http.MethodGet {
		r.SetQueryParam(cacheBusterParam, strconv.FormatInt(c.now().UnixMilli(), 10))
	}
	if r.Header.Get(requestIDHeader) == "" {
		r.SetHeader(requestIDHeader, ids.RequestID())
	}
	return nil
}

func (c *Client) afterResponse(_ *resty.Client, resp *resty.Response) error {
	c.logger.Debug("api response",
		zap.String("method", resp.Request.Method),
		zap.String("url", resp.Request.URL),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()),
		zap.String("request_id", resp.Request.Header.Get(requestIDHeader)),
	)
	return nil
}

// RequestOption customises a single request.
type RequestOption func(*resty.Request)

// WithQuery adds a query parameter; empty values are skipped.
func WithQuery(key, value string) RequestOption {
	return func(r *resty.Request) {
		if value != "" {
			r.SetQueryParam(key, value)
		}
	}
}

// WithBody sets a JSON body.
func WithBody(body any) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(body)
	}
}

// WithFile attaches a multipart file under param. Repeating the param sends several files.
func WithFile(param, filename string, content io.Reader) RequestOption {
	return func(r *resty.Request) {
		r.SetFileReader(param, filename, content)
	}
}

// Do sends a request and unwraps the response envelope into T.
func Do[T any](ctx context.Context, c *Client, method, path string, opts ...RequestOption) (T, error) {
	var out T
	resp, err := c.send(ctx, method, path, opts)
	if err != nil {
		return out, err
	}
	if err := unwrap(resp.StatusCode(), resp.Body(), &out); err != nil {
		c.logFailure(method, path, err)
		return out, err
	}
	return out, nil
}

// Exec sends a request whose envelope carries no data of interest.
func (c *Client) Exec(ctx context.Context, method, path string, opts ...RequestOption) error {
	resp, err := c.send(ctx, method, path, opts)
	if err != nil {
		return err
	}
	if err := unwrap(resp.StatusCode(), resp.Body(), nil); err != nil {
		c.logFailure(method, path, err)
		return err
	}
	return nil
}

// Binary is a raw, non-enveloped response body.
type Binary struct {
	Data        []byte
	ContentType string
}

// Raw fetches a binary resource with GET. Status translation still applies.
func (c *Client) Raw(ctx context.Context, path string, opts ...RequestOption) (Binary, error) {
	resp, err := c.send(ctx, http.MethodGet, path, opts)
	if err != nil {
		return Binary{}, err
	}
	return Binary{Data: resp.Body(), ContentType: resp.Header().Get("Content-Type")}, nil
}

func (c *Client) send(ctx context.Context, method, path string, opts []RequestOption) (*resty.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := c.http.R().SetContext(ctx)
	for _, opt := range opts {
		opt(req)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		apiErr := transportError(err)
		c.logFailure(method, path, apiErr)
		return nil, apiErr
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		apiErr := statusError(resp.StatusCode(), resp.Body())
		c.logFailure(method, path, apiErr)
		return nil, apiErr
	}
	return resp, nil
}

func transportError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: ErrTimeout, Message: MsgTimeout, Err: err}
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = MsgFailed
	}
	return &Error{Kind: ErrTransport, Message: msg, Err: err}
}

func (c *Client) logFailure(method, path string, err error) {
	fields := []zap.Field{zap.String("method", method), zap.String("path", path)}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.Int("status", apiErr.Status), zap.String("detail", apiErr.Detail()))
	}
	c.logger.Warn("api request failed", fields...)
}

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	return Do[HealthStatus](ctx, c, http.MethodGet, "/health")
}

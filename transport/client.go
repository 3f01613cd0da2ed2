package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/http2"

	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/execution"
	"github.com/kbukum/cloudkit/logger"
	"github.com/kbukum/cloudkit/resilience"
	"github.com/kbukum/cloudkit/version"
)

// SDK header names.
const (
	HeaderInvocationID = "amz-sdk-invocation-id"
	HeaderSDKRequest   = "amz-sdk-request"
	HeaderUserAgent    = "User-Agent"
)

// Dispatcher sends a marshalled request. *Client is the production
// implementation; tests substitute a spy.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *Request, ec *execution.Context) (*Response, error)
}

// Client is the HTTP transport for one service endpoint.
type Client struct {
	httpClient *http.Client
	config     Config
	signer     Signer
	userAgent  string
	log        *logger.Logger
	cb         *resilience.CircuitBreaker
	rl         *resilience.RateLimiter
	now        func() time.Time
}

var _ Dispatcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithSigner replaces the default SigV4 signer.
func WithSigner(s Signer) Option {
	return func(c *Client) { c.signer = s }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the transport logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a transport for cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = cfg.MaxIdleConns
	transport.MaxIdleConnsPerHost = cfg.MaxIdleConns
	transport.IdleConnTimeout = defaultIdleConnTimeout

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}
	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("transport: configure http2: %w", err)
		}
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config:    cfg,
		signer:    NewV4Signer(cfg.SigningName, cfg.Region),
		userAgent: version.UserAgent(cfg.UserAgentSuffix),
		log:       logger.Get("transport"),
		now:       time.Now,
	}
	if cfg.CircuitBreaker != nil {
		c.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.RateLimit != nil {
		c.rl = resilience.NewRateLimiter(*cfg.RateLimit)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// Dispatch sends req and returns the 2xx response. A non-2xx answer is
// returned as an *ErrorPayload; a failure to get any answer is returned as an
// errors.KindConnection error. Each HTTP attempt is counted on ec.
func (c *Client) Dispatch(ctx context.Context, req *Request, ec *execution.Context) (*Response, error) {
	if ec == nil {
		var finish func()
		ctx, ec, finish = c.detached(ctx, req)
		defer finish()
	}

	if err := c.rl.Wait(ctx); err != nil {
		return nil, errors.Connection(err)
	}

	if c.config.Retry == nil {
		return c.doOnce(ctx, req, ec, 1, 1)
	}
	cfg := *c.config.Retry
	if cfg.RetryIf == nil {
		cfg.RetryIf = IsRetryable
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = resilience.DefaultRetryConfig().MaxAttempts
	}
	onRetry := cfg.OnRetry
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		c.log.WithContext(ctx).Debug("retrying request", logger.Fields(
			logger.FieldOperation, req.Operation,
			logger.FieldAttempt, attempt,
			logger.FieldError, err.Error(),
			"backoff_ms", backoff.Milliseconds(),
		))
		if onRetry != nil {
			onRetry(attempt, err, backoff)
		}
	}
	resp, err := resilience.Retry(ctx, cfg, func(attempt int) (*Response, error) {
		return c.doOnce(ctx, req, ec, attempt, maxAttempts)
	})
	if err != nil {
		return nil, classify(err)
	}
	return resp, nil
}

// classify keeps the two documented error shapes; anything else means the
// call never reached the service.
func classify(err error) error {
	if _, ok := AsErrorPayload(err); ok {
		return err
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.Connection(err)
}

// detached builds a throwaway execution context for callers outside the
// client core.
func (c *Client) detached(ctx context.Context, req *Request) (context.Context, *execution.Context, func()) {
	ctx, ec := execution.New(ctx, c.config.SigningName, req.Operation, nil)
	return ctx, ec, func() { ec.Finish(ctx, nil) }
}

// doOnce runs a single attempt through the circuit breaker.
func (c *Client) doOnce(ctx context.Context, req *Request, ec *execution.Context, attempt, maxAttempts int) (*Response, error) {
	if c.cb == nil {
		return c.send(ctx, req, ec, attempt, maxAttempts)
	}

	var (
		resp    *Response
		payload error
	)
	err := c.cb.Execute(func() error {
		var sendErr error
		resp, sendErr = c.send(ctx, req, ec, attempt, maxAttempts)
		if p, ok := AsErrorPayload(sendErr); ok && p.StatusCode < http.StatusInternalServerError {
			payload = sendErr
			return nil
		}
		return sendErr
	})
	if err == resilience.ErrCircuitOpen {
		return nil, errors.Connection(err)
	}
	if payload != nil {
		return nil, payload
	}
	return resp, err
}

// send builds, signs and sends one HTTP attempt.
func (c *Client) send(ctx context.Context, req *Request, ec *execution.Context, attempt, maxAttempts int) (*Response, error) {
	ec.RecordAttempt(ctx)

	httpReq, body, err := c.build(ctx, req)
	if err != nil {
		return nil, errors.Marshalling("build http request", err)
	}
	httpReq.Header.Set(HeaderInvocationID, ec.ID)
	httpReq.Header.Set(HeaderSDKRequest, fmt.Sprintf("attempt=%d; max=%d", attempt, maxAttempts))

	ec.StartEvent(execution.SignTime)
	err = c.signer.Sign(httpReq, body, ec.Credentials(), c.now())
	ec.EndEvent(ctx, execution.SignTime)
	if err != nil {
		return nil, errors.NoCredentials(err)
	}

	ec.StartEvent(execution.DispatchTime)
	defer ec.EndEvent(ctx, execution.DispatchTime)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Connection(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Connection(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ErrorPayload{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Body:       respBody,
		}
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// build constructs the *http.Request for req.
func (c *Client) build(ctx context.Context, req *Request) (*http.Request, io.ReadSeeker, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	path := req.Path
	if path == "" {
		path = "/"
	}
	url := strings.TrimRight(c.config.Endpoint, "/") + "/" + strings.TrimLeft(path, "/")

	body := bytes.NewReader(req.Body)
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, err
	}
	if len(req.Query) > 0 {
		httpReq.URL.RawQuery = req.Query.Encode()
	}
	if req.Host != "" {
		httpReq.Host = req.Host
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.Headers {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set(HeaderUserAgent, c.userAgent)
	return httpReq, body, nil
}

package client

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/cloudkit/credentials"
	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/execution"
	"github.com/kbukum/cloudkit/logger"
	"github.com/kbukum/cloudkit/observability"
	"github.com/kbukum/cloudkit/transport"
)

// Core is the composition root of one service client. It is immutable after
// New and safe for concurrent use.
type Core struct {
	config             Config
	dispatcher         transport.Dispatcher
	resolver           *credentials.Resolver
	errorUnmarshallers []ErrorUnmarshaller
	log                *logger.Logger
	metrics            *observability.Metrics
}

// Option configures a Core.
type Option func(*coreOptions)

type coreOptions struct {
	dispatcher transport.Dispatcher
	source     credentials.Source
	log        *logger.Logger
	metrics    *observability.Metrics
	transport  []transport.Option
}

// WithDispatcher replaces the HTTP transport, typically with a test spy.
func WithDispatcher(d transport.Dispatcher) Option {
	return func(o *coreOptions) { o.dispatcher = d }
}

// WithCredentialSource replaces the process-wide provider chain.
func WithCredentialSource(s credentials.Source) Option {
	return func(o *coreOptions) { o.source = s }
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *coreOptions) { o.log = l }
}

// WithMetrics enables call metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *coreOptions) { o.metrics = m }
}

// WithTransportOptions passes options to the default transport.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(o *coreOptions) { o.transport = append(o.transport, opts...) }
}

// New builds a Core. unmarshallers are tried in order; StandardErrorUnmarshaller
// is appended after them.
func New(cfg Config, unmarshallers []ErrorUnmarshaller, opts ...Option) (*Core, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &coreOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get(cfg.Service)
	}

	if o.dispatcher == nil {
		topts := append([]transport.Option{transport.WithLogger(o.log.WithComponent("transport"))}, o.transport...)
		if cfg.Anonymous {
			topts = append(topts, transport.WithSigner(transport.NopSigner{}))
		}
		t, err := transport.New(cfg.Transport, topts...)
		if err != nil {
			return nil, err
		}
		o.dispatcher = t
	}

	if o.source == nil && !cfg.Anonymous {
		src, err := defaultSource(cfg.Credentials)
		if err != nil {
			return nil, err
		}
		o.source = src
	}

	chain := make([]ErrorUnmarshaller, 0, len(unmarshallers)+1)
	chain = append(chain, unmarshallers...)
	chain = append(chain, StandardErrorUnmarshaller{})

	return &Core{
		config:             cfg,
		dispatcher:         o.dispatcher,
		resolver:           credentials.NewResolver(o.source),
		errorUnmarshallers: chain,
		log:                o.log,
		metrics:            o.metrics,
	}, nil
}

// defaultSource shares the process-wide chain unless the credentials config
// differs from the defaults.
func defaultSource(cfg credentials.Config) (credentials.Source, error) {
	var defaults credentials.Config
	defaults.ApplyDefaults()
	if cfg == defaults {
		return credentials.Default()
	}
	return credentials.NewDefaultChain(cfg, nil)
}

// Config returns the effective configuration.
func (c *Core) Config() Config {
	return c.config
}

// Dispatcher returns the transport.
func (c *Core) Dispatcher() transport.Dispatcher {
	return c.dispatcher
}

// ErrorUnmarshallers returns a copy of the error-unmarshaller chain.
func (c *Core) ErrorUnmarshallers() []ErrorUnmarshaller {
	return append([]ErrorUnmarshaller(nil), c.errorUnmarshallers...)
}

// resolveCredentials attaches credentials to ec unless the client is anonymous.
func (c *Core) resolveCredentials(ctx context.Context, ec *execution.Context, override *credentials.Credentials) error {
	if c.config.Anonymous {
		return nil
	}
	return ec.Timed(ctx, execution.CredentialsTime, func() error {
		creds, err := c.resolver.Resolve(ctx, override)
		if err != nil {
			if _, ok := errors.As(err); ok {
				return err
			}
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				return errors.Connection(err)
			}
			return errors.NoCredentials(err)
		}
		ec.SetCredentials(creds)
		return nil
	})
}

// serviceError walks the error-unmarshaller chain.
func (c *Core) serviceError(p *transport.ErrorPayload) *errors.Error {
	for _, u := range c.errorUnmarshallers {
		if err := u.TryUnmarshal(p); err != nil {
			if err.RequestID == "" {
				err.RequestID = p.RequestID()
			}
			return err
		}
	}
	return errors.Service(p.StatusCode, "", string(p.Body)).WithRequestID(p.RequestID())
}

// dispatchError turns a transport error into the SDK error returned to callers.
func (c *Core) dispatchError(err error) *errors.Error {
	if p, ok := transport.AsErrorPayload(err); ok {
		return c.serviceError(p)
	}
	if e, ok := errors.As(err); ok {
		return e
	}
	return errors.Connection(err)
}

// finish finalizes ec and logs the call.
func (c *Core) finish(ctx context.Context, ec *execution.Context, err error) {
	snap := ec.Finish(ctx, err)
	log := c.log.WithContext(ctx)
	fields := logger.Fields(
		logger.FieldOperation, snap.Operation,
		logger.FieldOutcome, snap.Outcome,
		logger.FieldDuration, snap.Timings[execution.TotalTime].Milliseconds(),
		logger.FieldAttempt, snap.Attempts,
	)
	if err != nil {
		fields[logger.FieldErrorKind] = snap.ErrorKind.String()
		fields[logger.FieldError] = err.Error()
	}
	if errors.IsConnection(err) {
		log.Warn("call failed to reach service", fields)
		return
	}
	log.Debug("call finished", fields)
}

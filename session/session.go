package session

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/cloudkit/async"
	"github.com/kbukum/cloudkit/client"
	"github.com/kbukum/cloudkit/component"
	"github.com/kbukum/cloudkit/credentials"
	"github.com/kbukum/cloudkit/logger"
	"github.com/kbukum/cloudkit/observability"
)

// Session owns the long-lived parts shared by every client it configures.
type Session struct {
	config    Config
	log       *logger.Logger
	metrics   *observability.Metrics
	source    credentials.Source
	executor  *async.Executor
	telemetry *observability.Telemetry
	registry  *component.Registry
}

// Option configures a Session.
type Option func(*options)

type options struct {
	log    *logger.Logger
	meter  metric.Meter
	source credentials.Source
}

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMeter enables call and executor metrics on meter.
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

// WithCredentialSource replaces the default provider chain.
func WithCredentialSource(s credentials.Source) Option {
	return func(o *options) { o.source = s }
}

// meterName scopes the SDK instruments on a telemetry-owned provider.
const meterName = "github.com/kbukum/cloudkit"

// New builds a session and starts its executor. When telemetry is enabled the
// OTLP providers are installed here and shut down by Shutdown.
func New(cfg Config, opts ...Option) (_ *Session, retErr error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get(cfg.Name)
	}

	s := &Session{
		config:   cfg,
		log:      o.log,
		source:   o.source,
		registry: component.NewRegistry(),
	}
	if cfg.Telemetry.Enabled {
		tel, err := observability.Init(context.Background(), cfg.Telemetry)
		if err != nil {
			return nil, fmt.Errorf("session: telemetry: %w", err)
		}
		defer func() {
			if retErr != nil {
				_ = tel.Stop(context.Background())
			}
		}()
		s.telemetry = tel
		if err := s.registry.Register(tel); err != nil {
			return nil, err
		}
		if o.meter == nil {
			o.meter = tel.Meter(meterName)
		}
	}
	if o.meter != nil {
		m, err := observability.NewMetrics(o.meter)
		if err != nil {
			return nil, fmt.Errorf("session: metrics: %w", err)
		}
		s.metrics = m
	}
	if s.source == nil {
		chain, err := credentials.NewDefaultChain(cfg.Credentials, nil)
		if err != nil {
			return nil, fmt.Errorf("session: credentials: %w", err)
		}
		s.source = chain
	}

	ex, err := async.NewExecutor(cfg.Executor,
		async.WithLogger(s.log.WithComponent(cfg.Executor.Name)),
		async.WithMetrics(s.metrics),
	)
	if err != nil {
		return nil, err
	}
	s.executor = ex
	if err := s.registry.Register(ex); err != nil {
		ex.Shutdown()
		return nil, err
	}
	return s, nil
}

// ClientConfig returns a client configuration for service inheriting the
// session region, profile and environment.
func (s *Session) ClientConfig(service string) client.Config {
	return client.Config{
		BaseConfig:  s.config.BaseConfig,
		Service:     service,
		Credentials: s.config.Credentials,
	}
}

// ClientOptions returns the options that bind a client to the session's
// credential chain and metrics.
func (s *Session) ClientOptions() []client.Option {
	opts := []client.Option{client.WithCredentialSource(s.source)}
	if s.metrics != nil {
		opts = append(opts, client.WithMetrics(s.metrics))
	}
	return opts
}

// Track registers the client's transport so Start, Shutdown and Health cover
// it. Dispatchers that are not components are ignored.
func (s *Session) Track(core *client.Core) error {
	c, ok := core.Dispatcher().(component.Component)
	if !ok {
		return nil
	}
	return s.registry.Register(c)
}

// Executor returns the shared executor.
func (s *Session) Executor() *async.Executor {
	return s.executor
}

// Credentials returns the shared credential source.
func (s *Session) Credentials() credentials.Source {
	return s.source
}

// Start starts every registered component in registration order.
func (s *Session) Start(ctx context.Context) error {
	if err := s.registry.StartAll(ctx); err != nil {
		return err
	}
	s.log.Info("session started", logger.Fields(
		"components", len(s.registry.All()),
		"pool_size", s.config.Executor.PoolSize,
	))
	return nil
}

// Shutdown stops components in reverse order. The executor abandons
// in-flight calls; it does not drain them.
func (s *Session) Shutdown(ctx context.Context) error {
	err := s.registry.StopAll(ctx)
	// StopAll skips components that were never started.
	s.executor.Shutdown()
	if s.telemetry != nil {
		err = stderrors.Join(err, s.telemetry.Stop(ctx))
	}
	return err
}

// Health reports every registered component.
func (s *Session) Health(ctx context.Context) []component.Health {
	return s.registry.HealthAll(ctx)
}

package observability

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/cloudkit/component"
)

var (
	_ component.Component   = (*Telemetry)(nil)
	_ component.Describable = (*Telemetry)(nil)
)

// Telemetry owns the OTLP meter and tracer providers installed by Init.
type Telemetry struct {
	config Config
	mp     *sdkmetric.MeterProvider
	tp     *sdktrace.TracerProvider

	mu      sync.Mutex
	stopped bool
}

// Init installs OTLP meter and tracer providers built from cfg.
func Init(ctx context.Context, cfg Config) (*Telemetry, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, &cfg)
	if err != nil {
		return nil, err
	}
	tp, err := InitTracer(ctx, &cfg)
	if err != nil {
		_ = mp.Shutdown(ctx)
		return nil, err
	}
	return &Telemetry{config: cfg, mp: mp, tp: tp}, nil
}

// Meter returns a meter from the owned provider.
func (t *Telemetry) Meter(name string) metric.Meter {
	return t.mp.Meter(name)
}

// Name implements component.Component.
func (t *Telemetry) Name() string { return "telemetry" }

// Start is a no-op; the providers are installed by Init.
func (t *Telemetry) Start(context.Context) error { return nil }

// Stop flushes and shuts down both providers. Later calls are no-ops.
func (t *Telemetry) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return nil
	}
	t.stopped = true
	return errors.Join(t.tp.Shutdown(ctx), t.mp.Shutdown(ctx))
}

// Health implements component.Component.
func (t *Telemetry) Health(context.Context) component.Health {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	if t.stopped {
		h.Status = component.StatusUnhealthy
		h.Message = "stopped"
	}
	return h
}

// Describe implements component.Describable.
func (t *Telemetry) Describe() component.Description {
	return component.Description{
		Name:    t.Name(),
		Type:    "otlp",
		Details: t.config.Endpoint,
	}
}

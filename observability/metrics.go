package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric instrument names.
const (
	MetricCalls          = "cloudkit.client.calls"
	MetricCallDuration   = "cloudkit.client.call.duration"
	MetricPhaseDuration  = "cloudkit.client.phase.duration"
	MetricCallsActive    = "cloudkit.client.calls.active"
	MetricAttempts       = "cloudkit.client.attempts"
	MetricErrors         = "cloudkit.client.errors"
	MetricExecutorQueued = "cloudkit.executor.queued"
)

// Metrics holds the client's OpenTelemetry instruments.
// All methods are no-ops on a nil receiver.
type Metrics struct {
	calls         metric.Int64Counter
	callDuration  metric.Float64Histogram
	phaseDuration metric.Float64Histogram
	active        metric.Int64UpDownCounter
	attempts      metric.Int64Counter
	errors        metric.Int64Counter
	queued        metric.Int64UpDownCounter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	calls, err := meter.Int64Counter(MetricCalls,
		metric.WithDescription("Completed operation calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCalls, err)
	}

	callDuration, err := meter.Float64Histogram(MetricCallDuration,
		metric.WithDescription("Total execution time of operation calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricCallDuration, err)
	}

	phaseDuration, err := meter.Float64Histogram(MetricPhaseDuration,
		metric.WithDescription("Time spent in each call phase (marshal, credentials, dispatch, unmarshal)"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricPhaseDuration, err)
	}

	active, err := meter.Int64UpDownCounter(MetricCallsActive,
		metric.WithDescription("Operation calls currently executing"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricCallsActive, err)
	}

	attempts, err := meter.Int64Counter(MetricAttempts,
		metric.WithDescription("HTTP attempts including retries"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricAttempts, err)
	}

	errorsTotal, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Failed calls by error kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}

	queued, err := meter.Int64UpDownCounter(MetricExecutorQueued,
		metric.WithDescription("Async tasks waiting for a worker"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricExecutorQueued, err)
	}

	return &Metrics{
		calls:         calls,
		callDuration:  callDuration,
		phaseDuration: phaseDuration,
		active:        active,
		attempts:      attempts,
		errors:        errorsTotal,
		queued:        queued,
	}, nil
}

// RecordCallStart increments the active call count.
func (m *Metrics) RecordCallStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1)
}

// RecordCallEnd decrements active calls and records the finished call.
func (m *Metrics) RecordCallEnd(ctx context.Context, service, operation, outcome string, total time.Duration) {
	if m == nil {
		return
	}
	m.active.Add(ctx, -1)
	m.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrService, service),
		attribute.String(AttrOperation, operation),
		attribute.String(AttrOutcome, outcome),
	))
	m.callDuration.Record(ctx, total.Seconds(), metric.WithAttributes(
		attribute.String(AttrService, service),
		attribute.String(AttrOperation, operation),
	))
}

// RecordPhase records the duration of one timed phase of a call.
func (m *Metrics) RecordPhase(ctx context.Context, service, operation, phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrService, service),
		attribute.String(AttrOperation, operation),
		attribute.String(AttrPhase, phase),
	))
}

// RecordAttempt counts one HTTP attempt.
func (m *Metrics) RecordAttempt(ctx context.Context, service, operation string) {
	if m == nil {
		return
	}
	m.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrService, service),
		attribute.String(AttrOperation, operation),
	))
}

// RecordError records a failed call by error kind.
func (m *Metrics) RecordError(ctx context.Context, service, operation, kind string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrService, service),
		attribute.String(AttrOperation, operation),
		attribute.String(AttrErrorKind, kind),
	))
}

// RecordQueued adjusts the async executor queue depth by delta.
func (m *Metrics) RecordQueued(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.queued.Add(ctx, delta)
}

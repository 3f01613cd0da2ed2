package execution

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/cloudkit/credentials"
	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/logger"
	"github.com/kbukum/cloudkit/observability"
)

// Outcomes reported on finished calls.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Context is the per-call state of one operation invocation.
// It is owned by the goroutine running the call.
type Context struct {
	ID        string
	Service   string
	Operation string
	StartTime time.Time
	Timing    *Timing

	metrics  *observability.Metrics
	span     trace.Span
	creds    *credentials.Credentials
	attempts atomic.Int32

	finishOnce sync.Once
	snapshot   Snapshot
}

// Snapshot is the finished record of a call.
type Snapshot struct {
	InvocationID string
	Service      string
	Operation    string
	Outcome      string
	ErrorKind    errors.Kind
	Attempts     int
	Timings      map[Event]time.Duration
}

type contextKey struct{}

// New creates the execution context for one call and starts its total timer
// and span. The returned context carries the span and the invocation id.
func New(ctx context.Context, service, operation string, metrics *observability.Metrics) (context.Context, *Context) {
	ec := &Context{
		ID:        uuid.NewString(),
		Service:   service,
		Operation: operation,
		Timing:    NewTiming(),
		metrics:   metrics,
	}
	ec.StartTime = ec.Timing.now()
	ec.Timing.Start(TotalTime)

	ctx, ec.span = observability.StartSpan(ctx, service+"."+operation, trace.WithSpanKind(trace.SpanKindClient))
	ec.span.SetAttributes(
		attribute.String(observability.AttrService, service),
		attribute.String(observability.AttrOperation, operation),
		attribute.String(observability.AttrInvocation, ec.ID),
	)
	metrics.RecordCallStart(ctx)

	ctx = logger.ContextWithInvocationID(ctx, ec.ID)
	return context.WithValue(ctx, contextKey{}, ec), ec
}

// FromContext returns the execution context stored in ctx, or nil.
func FromContext(ctx context.Context) *Context {
	ec, _ := ctx.Value(contextKey{}).(*Context)
	return ec
}

// SetCredentials attaches the resolved credentials.
func (c *Context) SetCredentials(creds *credentials.Credentials) {
	c.creds = creds
}

// Credentials returns the credentials attached to the call, or nil.
func (c *Context) Credentials() *credentials.Credentials {
	return c.creds
}

// StartEvent starts timing e.
func (c *Context) StartEvent(e Event) {
	c.Timing.Start(e)
}

// EndEvent stops timing e and records the phase duration.
func (c *Context) EndEvent(ctx context.Context, e Event) {
	d := c.Timing.Stop(e)
	if e != TotalTime {
		c.metrics.RecordPhase(ctx, c.Service, c.Operation, string(e), d)
	}
}

// Timed runs fn inside a start/stop pair of e. The event is stopped even if
// fn panics.
func (c *Context) Timed(ctx context.Context, e Event, fn func() error) error {
	c.StartEvent(e)
	defer c.EndEvent(ctx, e)
	return fn()
}

// RecordAttempt counts one HTTP attempt and returns the attempt number.
func (c *Context) RecordAttempt(ctx context.Context) int {
	n := int(c.attempts.Add(1))
	c.metrics.RecordAttempt(ctx, c.Service, c.Operation)
	return n
}

// Attempts returns the number of HTTP attempts made so far.
func (c *Context) Attempts() int {
	return int(c.attempts.Load())
}

// Span returns the call's span.
func (c *Context) Span() trace.Span {
	return c.span
}

// Finish closes every open event, ends the span and records the call
// metrics. Only the first call has any effect; later calls return the same
// snapshot.
func (c *Context) Finish(ctx context.Context, err error) Snapshot {
	c.finishOnce.Do(func() {
		for _, e := range c.Timing.StopAll() {
			if e != TotalTime {
				c.metrics.RecordPhase(ctx, c.Service, c.Operation, string(e), c.Timing.Duration(e))
			}
		}
		total := c.Timing.Duration(TotalTime)

		outcome := OutcomeSuccess
		kind := errors.Kind(0)
		if err != nil {
			outcome = OutcomeError
			kind = errors.KindOf(err)
			c.span.RecordError(err)
			c.span.SetStatus(codes.Error, err.Error())
			attrs := []attribute.KeyValue{attribute.String(observability.AttrErrorKind, kind.String())}
			if e, ok := errors.As(err); ok {
				if e.Code != "" {
					attrs = append(attrs, attribute.String(observability.AttrErrorCode, e.Code))
				}
				if e.StatusCode > 0 {
					attrs = append(attrs, attribute.Int(observability.AttrStatusCode, e.StatusCode))
				}
			}
			c.span.SetAttributes(attrs...)
			c.metrics.RecordError(ctx, c.Service, c.Operation, kind.String())
		}
		c.span.SetAttributes(
			attribute.String(observability.AttrOutcome, outcome),
			attribute.Int(observability.AttrAttempts, c.Attempts()),
			attribute.Int64(observability.AttrDurationMs, total.Milliseconds()),
		)
		c.span.End()
		c.metrics.RecordCallEnd(ctx, c.Service, c.Operation, outcome, total)

		c.snapshot = Snapshot{
			InvocationID: c.ID,
			Service:      c.Service,
			Operation:    c.Operation,
			Outcome:      outcome,
			ErrorKind:    kind,
			Attempts:     c.Attempts(),
			Timings:      c.Timing.Snapshot(),
		}
	})
	return c.snapshot
}

package execution

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/cloudkit/credentials"
	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/logger"
	"github.com/kbukum/cloudkit/observability"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestTiming_StartStop(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	tm := NewTiming()
	tm.now = clock.now

	tm.Start(MarshalTime)
	clock.advance(5 * time.Millisecond)
	if d := tm.Stop(MarshalTime); d != 5*time.Millisecond {
		t.Errorf("expected 5ms, got %v", d)
	}
	if d := tm.Stop(MarshalTime); d != 0 {
		t.Errorf("expected 0 for event not open, got %v", d)
	}
}

func TestTiming_Accumulates(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	tm := NewTiming()
	tm.now = clock.now

	for i := 0; i < 3; i++ {
		tm.Start(DispatchTime)
		clock.advance(10 * time.Millisecond)
		tm.Stop(DispatchTime)
	}
	if d := tm.Duration(DispatchTime); d != 30*time.Millisecond {
		t.Errorf("expected 30ms, got %v", d)
	}
}

func TestTiming_StartTwiceKeepsFirst(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	tm := NewTiming()
	tm.now = clock.now

	tm.Start(SignTime)
	clock.advance(time.Millisecond)
	tm.Start(SignTime)
	clock.advance(time.Millisecond)
	if d := tm.Stop(SignTime); d != 2*time.Millisecond {
		t.Errorf("expected 2ms, got %v", d)
	}
}

func TestTiming_StopAll(t *testing.T) {
	tm := NewTiming()
	tm.Start(TotalTime)
	tm.Start(DispatchTime)
	closed := tm.StopAll()
	if len(closed) != 2 {
		t.Errorf("expected 2 closed events, got %v", closed)
	}
	if len(tm.Open()) != 0 {
		t.Errorf("expected no open events, got %v", tm.Open())
	}
	snap := tm.Snapshot()
	if _, ok := snap[DispatchTime]; !ok {
		t.Error("expected dispatch in snapshot")
	}
}

func TestNew_ContextValues(t *testing.T) {
	ctx, ec := New(context.Background(), "iam", "GetUser", nil)
	if ec.ID == "" {
		t.Fatal("expected invocation id")
	}
	if FromContext(ctx) != ec {
		t.Error("expected FromContext to return the execution context")
	}
	if FromContext(context.Background()) != nil {
		t.Error("expected nil for plain context")
	}
	if open := ec.Timing.Open(); len(open) != 1 || open[0] != TotalTime {
		t.Errorf("expected total timer open, got %v", open)
	}
	ec.Finish(ctx, nil)
}

func TestNew_UniqueIDs(t *testing.T) {
	_, a := New(context.Background(), "ecs", "RunTask", nil)
	_, b := New(context.Background(), "ecs", "RunTask", nil)
	if a.ID == b.ID {
		t.Error("expected distinct invocation ids")
	}
}

func TestContext_Credentials(t *testing.T) {
	_, ec := New(context.Background(), "iam", "GetUser", nil)
	creds := credentials.Static("AKID", "SECRET", "")
	ec.SetCredentials(creds)
	if ec.Credentials() != creds {
		t.Error("expected attached credentials")
	}
}

func TestContext_FinishClosesEverything(t *testing.T) {
	ctx, ec := New(context.Background(), "lambda", "GetEventSourceMapping", nil)
	ec.StartEvent(DispatchTime)
	ec.StartEvent(SignTime)

	snap := ec.Finish(ctx, nil)
	if len(ec.Timing.Open()) != 0 {
		t.Errorf("expected no open events after finish, got %v", ec.Timing.Open())
	}
	if snap.Outcome != OutcomeSuccess {
		t.Errorf("expected success, got %s", snap.Outcome)
	}
	if _, ok := snap.Timings[TotalTime]; !ok {
		t.Error("expected total time recorded")
	}
}

func TestContext_FinishIdempotent(t *testing.T) {
	ctx, ec := New(context.Background(), "ecs", "ListClusters", nil)
	first := ec.Finish(ctx, fmt.Errorf("boom"))
	second := ec.Finish(ctx, nil)
	if second.Outcome != first.Outcome || second.Outcome != OutcomeError {
		t.Errorf("expected repeated finish to return first snapshot, got %s then %s", first.Outcome, second.Outcome)
	}
}

func TestContext_Timed(t *testing.T) {
	ctx, ec := New(context.Background(), "ecs", "CreateCluster", nil)
	want := fmt.Errorf("bad input")
	if err := ec.Timed(ctx, MarshalTime, func() error { return want }); err != want {
		t.Errorf("expected fn error returned, got %v", err)
	}
	for _, e := range ec.Timing.Open() {
		if e == MarshalTime {
			t.Error("expected marshal event stopped")
		}
	}
	ec.Finish(ctx, want)
}

func TestContext_Attempts(t *testing.T) {
	ctx, ec := New(context.Background(), "ecs", "StopTask", nil)
	if n := ec.RecordAttempt(ctx); n != 1 {
		t.Errorf("expected attempt 1, got %d", n)
	}
	ec.RecordAttempt(ctx)
	if snap := ec.Finish(ctx, nil); snap.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", snap.Attempts)
	}
}

func TestContext_InvocationIDReachesLogger(t *testing.T) {
	ctx, ec := New(context.Background(), "iam", "ListUsers", nil)
	defer ec.Finish(ctx, nil)
	l := logger.NewNop()
	if l.WithContext(ctx) == l {
		t.Error("expected logger enriched with invocation id")
	}
}

func TestContext_SpanAndMetrics(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, ec := New(context.Background(), "iam", "GetUser", metrics)
	failure := errors.Typed(errors.KindNotFound, "NoSuchEntity", "missing", 404)
	snap := ec.Finish(ctx, failure)
	if snap.ErrorKind != errors.KindNotFound {
		t.Errorf("expected not_found kind, got %s", snap.ErrorKind)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "iam.GetUser" {
		t.Errorf("expected span iam.GetUser, got %s", spans[0].Name)
	}
	if spans[0].Status.Code != otelcodes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status.Code)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == observability.MetricErrors {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected error metric recorded")
	}
}

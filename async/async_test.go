package async

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/cloudkit/component"
	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/logger"
)

func newTestExecutor(t *testing.T, size int) *Executor {
	t.Helper()
	ex, err := NewExecutor(Config{Name: "test-executor", PoolSize: size}, WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(ex.Shutdown)
	return ex
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// blocker returns an invoker that signals started and then holds until
// release is closed, ignoring its context.
func blocker(started chan<- struct{}, release <-chan struct{}) Invoker[string, string] {
	return func(_ context.Context, req string) (string, error) {
		started <- struct{}{}
		<-release
		return req, nil
	}
}

func echo(_ context.Context, req string) (string, error) {
	return strings.ToUpper(req), nil
}

func TestSubmit_SuccessNotifiesHandlerOnce(t *testing.T) {
	ex := newTestExecutor(t, 2)
	var successes atomic.Int32
	handler := HandlerFuncs[string, string]{
		Success: func(req, res string) {
			if req != "bob" || res != "BOB" {
				t.Errorf("unexpected handler args %q %q", req, res)
			}
			successes.Add(1)
		},
		Error: func(err error) { t.Errorf("unexpected error callback: %v", err) },
	}

	f := Submit(context.Background(), ex, "bob", echo, handler)
	got, err := f.Get(waitCtx(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := echo(context.Background(), "bob")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if successes.Load() != 1 {
		t.Errorf("expected 1 success callback, got %d", successes.Load())
	}
	if f.State() != StateCompleted {
		t.Errorf("expected completed, got %s", f.State())
	}
}

func TestSubmit_HandlerRunsBeforeCompletion(t *testing.T) {
	ex := newTestExecutor(t, 1)
	for i := 0; i < 20; i++ {
		var notified atomic.Bool
		handler := HandlerFuncs[string, string]{
			Success: func(string, string) {
				time.Sleep(time.Millisecond)
				notified.Store(true)
			},
		}
		f := Submit(context.Background(), ex, "x", echo, handler)
		<-f.Done()
		if !notified.Load() {
			t.Fatalf("iteration %d: future completed before the handler ran", i)
		}
	}
}

func TestSubmit_ErrorIsSurfacedUnwrapped(t *testing.T) {
	ex := newTestExecutor(t, 1)
	want := errors.Typed(errors.KindNotFound, "NoSuchEntity", "The user with name bob cannot be found.", 404)

	var callbackErr error
	handler := HandlerFuncs[string, string]{
		Success: func(string, string) { t.Error("unexpected success callback") },
		Error:   func(err error) { callbackErr = err },
	}
	f := Submit(context.Background(), ex, "bob", func(context.Context, string) (string, error) {
		return "", want
	}, handler)

	_, err := f.Get(waitCtx(t))
	if err != error(want) {
		t.Fatalf("expected the original error, got %v", err)
	}
	if callbackErr != error(want) {
		t.Errorf("expected handler to get the original error, got %v", callbackErr)
	}
	if f.State() != StateFailed {
		t.Errorf("expected failed, got %s", f.State())
	}
}

func TestSubmit_NilHandler(t *testing.T) {
	ex := newTestExecutor(t, 1)
	f := Submit[string, string](context.Background(), ex, "a", echo, nil)
	if got, err := f.Get(waitCtx(t)); err != nil || got != "A" {
		t.Errorf("expected A, got %q %v", got, err)
	}
}

func TestSubmit_NeverBlocksWhenSaturated(t *testing.T) {
	ex := newTestExecutor(t, 1)
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	defer close(release)

	Submit(context.Background(), ex, "hold", blocker(started, release), nil)
	<-started

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			Submit(context.Background(), ex, "q", echo, nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("submit blocked on a saturated pool")
	}
	if ex.Queued() != 500 {
		t.Errorf("expected 500 queued, got %d", ex.Queued())
	}
}

func TestSubmit_FIFOWithSingleWorker(t *testing.T) {
	ex := newTestExecutor(t, 1)
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	Submit(context.Background(), ex, "hold", blocker(started, release), nil)
	<-started

	var mu sync.Mutex
	var order []string
	record := func(_ context.Context, req string) (string, error) {
		mu.Lock()
		order = append(order, req)
		mu.Unlock()
		return req, nil
	}
	var last *Future[string]
	for _, name := range []string{"a", "b", "c"} {
		last = Submit(context.Background(), ex, name, record, nil)
	}
	close(release)
	if _, err := last.Get(waitCtx(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(order, ",") != "a,b,c" {
		t.Errorf("expected a,b,c, got %v", order)
	}
}

func TestFuture_CancelBeforeStart(t *testing.T) {
	ex := newTestExecutor(t, 1)
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	first := Submit(context.Background(), ex, "hold", blocker(started, release), nil)
	<-started

	var ran atomic.Bool
	var notified atomic.Bool
	second := Submit(context.Background(), ex, "never", func(context.Context, string) (string, error) {
		ran.Store(true)
		return "", nil
	}, HandlerFuncs[string, string]{Error: func(error) { notified.Store(true) }})

	if !second.Cancel() {
		t.Fatal("expected cancel of a queued task to succeed")
	}
	if second.Cancel() {
		t.Error("expected second cancel to report false")
	}
	close(release)
	if _, err := first.Get(waitCtx(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One more round trip through the single worker proves the cancelled
	// task was dequeued without running.
	if _, err := Submit(context.Background(), ex, "z", echo, nil).Get(waitCtx(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := second.Get(waitCtx(t)); !stderrors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
	if ran.Load() {
		t.Error("cancelled task must not run")
	}
	if notified.Load() {
		t.Error("cancelled task must not notify the handler")
	}
	if second.State() != StateCancelled {
		t.Errorf("expected cancelled, got %s", second.State())
	}
}

func TestFuture_CancelAfterStartHasNoEffect(t *testing.T) {
	ex := newTestExecutor(t, 1)
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	f := Submit(context.Background(), ex, "hold", blocker(started, release), nil)
	<-started
	if f.Cancel() {
		t.Error("expected cancel of a running task to report false")
	}
	if f.State() != StateRunning {
		t.Errorf("expected running, got %s", f.State())
	}
	close(release)
	if got, err := f.Get(waitCtx(t)); err != nil || got != "hold" {
		t.Errorf("expected hold, got %q %v", got, err)
	}
}

func TestFuture_ResultAndGetTimeout(t *testing.T) {
	ex := newTestExecutor(t, 1)
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	defer close(release)

	f := Submit(context.Background(), ex, "hold", blocker(started, release), nil)
	<-started
	if _, err := f.Result(); !stderrors.Is(err, ErrNotDone) {
		t.Errorf("expected ErrNotDone, got %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Get(ctx); !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestExecutor_ShutdownAbandonsWork(t *testing.T) {
	ex, err := NewExecutor(Config{PoolSize: 1}, WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	defer close(release)

	running := Submit(context.Background(), ex, "hold", blocker(started, release), nil)
	<-started
	queued := Submit(context.Background(), ex, "queued", echo, nil)

	done := make(chan struct{})
	go func() {
		ex.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown waited for in-flight work")
	}

	if _, err := running.Get(waitCtx(t)); !stderrors.Is(err, ErrShutdown) {
		t.Errorf("expected in-flight future to fail with ErrShutdown, got %v", err)
	}
	if _, err := queued.Get(waitCtx(t)); !stderrors.Is(err, ErrCancelled) {
		t.Errorf("expected queued future to fail with ErrCancelled, got %v", err)
	}

	late := Submit(context.Background(), ex, "late", echo, nil)
	if late.State() != StateFailed {
		t.Errorf("expected failed future after shutdown, got %s", late.State())
	}
	if _, err := late.Result(); !stderrors.Is(err, ErrShutdown) {
		t.Errorf("expected ErrShutdown, got %v", err)
	}
	ex.Shutdown()
}

func TestExecutor_ShutdownCancelsCallContext(t *testing.T) {
	ex, err := NewExecutor(Config{PoolSize: 1}, WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	started := make(chan struct{})
	observed := make(chan error, 1)
	Submit(context.Background(), ex, "x", func(ctx context.Context, _ string) (string, error) {
		close(started)
		<-ctx.Done()
		observed <- ctx.Err()
		return "", ctx.Err()
	}, nil)
	<-started
	ex.Shutdown()

	select {
	case err := <-observed:
		if !stderrors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("call context was not cancelled")
	}
	ex.Wait()
}

func TestSubmit_PanicFailsFuture(t *testing.T) {
	ex := newTestExecutor(t, 1)
	var callbackErr error
	f := Submit(context.Background(), ex, "x", func(context.Context, string) (string, error) {
		panic("boom")
	}, HandlerFuncs[string, string]{Error: func(err error) { callbackErr = err }})

	_, err := f.Get(waitCtx(t))
	if err == nil || !strings.Contains(err.Error(), "panicked: boom") {
		t.Fatalf("expected panic error, got %v", err)
	}
	if _, ok := errors.As(err); ok {
		t.Error("panic error should not be an SDK error")
	}
	if callbackErr != err {
		t.Errorf("expected handler to receive the panic error, got %v", callbackErr)
	}

	// The worker survives.
	if got, err := Submit(context.Background(), ex, "a", echo, nil).Get(waitCtx(t)); err != nil || got != "A" {
		t.Errorf("expected worker to keep running, got %q %v", got, err)
	}
}

func TestSubmit_HandlerPanicStillSettles(t *testing.T) {
	ex := newTestExecutor(t, 1)
	f := Submit(context.Background(), ex, "a", echo, HandlerFuncs[string, string]{
		Success: func(string, string) { panic("handler") },
	})
	if got, err := f.Get(waitCtx(t)); err != nil || got != "A" {
		t.Errorf("expected A, got %q %v", got, err)
	}
}

func TestSubmit_ConcurrentCallsSettleIndependently(t *testing.T) {
	ex := newTestExecutor(t, 4)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := strings.Repeat("a", i%7+1)
			got, err := Submit(context.Background(), ex, in, echo, nil).Get(waitCtx(t))
			if err != nil || got != strings.ToUpper(in) {
				t.Errorf("expected %q, got %q %v", strings.ToUpper(in), got, err)
			}
		}(i)
	}
	wg.Wait()
}

func TestExecutor_Component(t *testing.T) {
	ex, err := NewExecutor(Config{Name: "pool", PoolSize: 3}, WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Name() != "pool" {
		t.Errorf("expected pool, got %s", ex.Name())
	}
	if err := ex.Start(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if h := ex.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}
	if d := ex.Describe(); d.Type != "executor" || !strings.Contains(d.Details, "pool=3") {
		t.Errorf("unexpected description %+v", d)
	}

	if err := ex.Stop(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	ex.Wait()
	if h := ex.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after stop, got %s", h.Status)
	}
	if err := ex.Start(context.Background()); !stderrors.Is(err, ErrShutdown) {
		t.Errorf("expected ErrShutdown, got %v", err)
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.PoolSize != DefaultPoolSize || cfg.Name != "executor" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if _, err := NewExecutor(Config{PoolSize: -1}); err == nil {
		t.Error("expected error for negative pool size")
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StatePending:   "pending",
		StateRunning:   "running",
		stateSettling:  "running",
		StateCompleted: "completed",
		StateFailed:    "failed",
		StateCancelled: "cancelled",
		State(99):      "unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("expected %s, got %s", want, s.String())
		}
	}
}

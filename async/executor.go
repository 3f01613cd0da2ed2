package async

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/cloudkit/component"
	"github.com/kbukum/cloudkit/logger"
	"github.com/kbukum/cloudkit/observability"
)

// task is one queued unit of work.
type task struct {
	// run executes the call under ctx, which is cancelled on shutdown.
	run func(ctx context.Context)
	// abandon settles the future without running or waiting for the call.
	abandon func()
}

// Executor is a fixed-size worker pool with an unbounded FIFO queue. It is
// safe for concurrent use and is meant to be shared by every async client of
// a process.
type Executor struct {
	config  Config
	log     *logger.Logger
	metrics *observability.Metrics

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*task
	inFlight map[*task]struct{}
	shutdown bool

	// ctx is cancelled by Shutdown and parents every running call.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var (
	_ component.Component   = (*Executor)(nil)
	_ component.Describable = (*Executor)(nil)
)

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the executor logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// WithMetrics records queue depth.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// NewExecutor starts cfg.PoolSize workers.
func NewExecutor(cfg Config, opts ...Option) (*Executor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Executor{
		config:   cfg,
		inFlight: make(map[*task]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	e.cond = sync.NewCond(&e.mu)
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get(cfg.Name)
	}

	e.wg.Add(cfg.PoolSize)
	for i := 0; i < cfg.PoolSize; i++ {
		go e.worker()
	}
	return e, nil
}

// enqueue adds t to the queue. It reports false once the executor is shut down.
func (e *Executor) enqueue(t *task) bool {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return false
	}
	e.queue = append(e.queue, t)
	e.cond.Signal()
	e.mu.Unlock()

	e.metrics.RecordQueued(context.Background(), 1)
	return true
}

// next blocks until a task is available or the executor shuts down.
func (e *Executor) next() (*task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) == 0 && !e.shutdown {
		e.cond.Wait()
	}
	if e.shutdown {
		return nil, false
	}
	t := e.queue[0]
	e.queue[0] = nil
	e.queue = e.queue[1:]
	e.inFlight[t] = struct{}{}
	return t, true
}

func (e *Executor) worker() {
	defer e.wg.Done()
	for {
		t, ok := e.next()
		if !ok {
			return
		}
		e.metrics.RecordQueued(context.Background(), -1)
		t.run(e.ctx)

		e.mu.Lock()
		delete(e.inFlight, t)
		e.mu.Unlock()
	}
}

// Shutdown stops intake and returns without waiting. Queued tasks never run
// and their futures fail with ErrCancelled. Running calls have their
// contexts cancelled and their futures fail with ErrShutdown immediately.
// Later calls are no-ops.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return
	}
	e.shutdown = true
	queued := e.queue
	e.queue = nil
	running := make([]*task, 0, len(e.inFlight))
	for t := range e.inFlight {
		running = append(running, t)
	}
	e.cond.Broadcast()
	e.mu.Unlock()

	e.cancel()
	for _, t := range queued {
		t.abandon()
	}
	for _, t := range running {
		t.abandon()
	}
	if len(queued) > 0 {
		e.metrics.RecordQueued(context.Background(), -int64(len(queued)))
	}
	e.log.Info("executor shut down", logger.Fields(
		"queued", len(queued),
		"running", len(running),
	))
}

// Wait blocks until every worker has exited after Shutdown.
func (e *Executor) Wait() {
	e.wg.Wait()
}

// Queued returns the number of tasks waiting for a worker.
func (e *Executor) Queued() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Running returns the number of tasks held by workers.
func (e *Executor) Running() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.inFlight)
}

// IsShutdown reports whether Shutdown has been called.
func (e *Executor) IsShutdown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shutdown
}

// Name implements component.Component.
func (e *Executor) Name() string { return e.config.Name }

// Start implements component.Component. Workers start in NewExecutor.
func (e *Executor) Start(context.Context) error {
	if e.IsShutdown() {
		return ErrShutdown
	}
	return nil
}

// Stop implements component.Component by shutting the executor down.
func (e *Executor) Stop(context.Context) error {
	e.Shutdown()
	return nil
}

// Health implements component.Component.
func (e *Executor) Health(context.Context) component.Health {
	h := component.Health{Name: e.config.Name, Status: component.StatusHealthy}
	if e.IsShutdown() {
		h.Status = component.StatusUnhealthy
		h.Message = "shut down"
	}
	return h
}

// Describe implements component.Describable.
func (e *Executor) Describe() component.Description {
	return component.Description{
		Name:    e.config.Name,
		Type:    "executor",
		Details: fmt.Sprintf("pool=%d queued=%d running=%d", e.config.PoolSize, e.Queued(), e.Running()),
	}
}

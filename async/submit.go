package async

import (
	"context"
	"fmt"

	"github.com/kbukum/cloudkit/logger"
)

// Invoker is a synchronous call run on a worker.
type Invoker[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Submit queues invoke(ctx, req) on ex and returns immediately. When the call
// returns, handler (which may be nil) is notified and then the future
// settles with the call's result or its error, unwrapped. If ex is shut down
// the returned future has already failed with ErrShutdown.
//
// The call runs under a context derived from ctx that is also cancelled by
// ex.Shutdown.
func Submit[Req, Res any](ctx context.Context, ex *Executor, req Req, invoke Invoker[Req, Res], handler Handler[Req, Res]) *Future[Res] {
	f := newFuture[Res]()
	t := &task{
		abandon: func() {
			var zero Res
			if !f.settle(StatePending, StateCancelled, zero, ErrCancelled, nil) {
				f.settle(StateRunning, StateFailed, zero, ErrShutdown, nil)
			}
		},
	}
	t.run = func(execCtx context.Context) {
		if !f.start() {
			return
		}
		callCtx, cancel := context.WithCancel(ctx)
		stop := context.AfterFunc(execCtx, cancel)
		defer func() {
			stop()
			cancel()
		}()

		res, err := call(callCtx, ex.log, req, invoke)
		to := StateCompleted
		if err != nil {
			to = StateFailed
		}
		f.settle(StateRunning, to, res, err, func() {
			notify(ex.log, handler, req, res, err)
		})
	}

	if !ex.enqueue(t) {
		return failedFuture[Res](ErrShutdown)
	}
	return f
}

// call runs invoke, turning a panic into an error.
func call[Req, Res any](ctx context.Context, log *logger.Logger, req Req, invoke Invoker[Req, Res]) (res Res, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero Res
			res, err = zero, fmt.Errorf("async: call panicked: %v", r)
			log.Error("async call panicked", logger.Fields(logger.FieldError, err.Error()))
		}
	}()
	return invoke(ctx, req)
}

// notify runs the handler. A panicking handler is logged and does not stop
// the future from settling.
func notify[Req, Res any](log *logger.Logger, h Handler[Req, Res], req Req, res Res, err error) {
	if h == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("async handler panicked", logger.Fields(logger.FieldError, fmt.Sprint(r)))
		}
	}()
	if err != nil {
		h.OnError(err)
		return
	}
	h.OnSuccess(req, res)
}

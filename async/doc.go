// Package async runs synchronous client calls on a fixed pool of workers
// and hands back futures.
//
// Submit never blocks: tasks queue in FIFO order until a worker is free. A
// handler, when given, is notified on the same completion path that resolves
// the future, so it has always run by the time Get returns.
//
//	ex, _ := async.NewExecutor(async.Config{PoolSize: 8})
//	defer ex.Shutdown()
//	f := async.Submit(ctx, ex, in, svc.GetUser, nil)
//	out, err := f.Get(ctx)
package async

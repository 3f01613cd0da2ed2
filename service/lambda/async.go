package lambda

import (
	"context"

	"github.com/kbukum/cloudkit/async"
)

// AsyncClient runs Client calls on a shared executor.
type AsyncClient struct {
	*Client
	executor *async.Executor
}

func NewAsyncClient(c *Client, ex *async.Executor) *AsyncClient {
	return &AsyncClient{Client: c, executor: ex}
}

func (c *AsyncClient) CreateEventSourceMappingAsync(ctx context.Context, in *CreateEventSourceMappingInput, handler async.Handler[*CreateEventSourceMappingInput, *CreateEventSourceMappingOutput]) *async.Future[*CreateEventSourceMappingOutput] {
	return async.Submit(ctx, c.executor, in, c.CreateEventSourceMapping, handler)
}

func (c *AsyncClient) GetEventSourceMappingAsync(ctx context.Context, in *GetEventSourceMappingInput, handler async.Handler[*GetEventSourceMappingInput, *GetEventSourceMappingOutput]) *async.Future[*GetEventSourceMappingOutput] {
	return async.Submit(ctx, c.executor, in, c.GetEventSourceMapping, handler)
}

func (c *AsyncClient) UpdateEventSourceMappingAsync(ctx context.Context, in *UpdateEventSourceMappingInput, handler async.Handler[*UpdateEventSourceMappingInput, *UpdateEventSourceMappingOutput]) *async.Future[*UpdateEventSourceMappingOutput] {
	return async.Submit(ctx, c.executor, in, c.UpdateEventSourceMapping, handler)
}

func (c *AsyncClient) DeleteEventSourceMappingAsync(ctx context.Context, in *DeleteEventSourceMappingInput, handler async.Handler[*DeleteEventSourceMappingInput, *DeleteEventSourceMappingOutput]) *async.Future[*DeleteEventSourceMappingOutput] {
	return async.Submit(ctx, c.executor, in, c.DeleteEventSourceMapping, handler)
}

func (c *AsyncClient) ListEventSourceMappingsAsync(ctx context.Context, in *ListEventSourceMappingsInput, handler async.Handler[*ListEventSourceMappingsInput, *ListEventSourceMappingsOutput]) *async.Future[*ListEventSourceMappingsOutput] {
	return async.Submit(ctx, c.executor, in, c.ListEventSourceMappings, handler)
}

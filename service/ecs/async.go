package ecs

import (
	"context"

	"github.com/kbukum/cloudkit/async"
)

// AsyncClient runs Client calls on an executor. The executor is not owned
// by the client and may be shared.
type AsyncClient struct {
	*Client
	executor *async.Executor
}

// NewAsyncClient wraps c with ex.
func NewAsyncClient(c *Client, ex *async.Executor) *AsyncClient {
	return &AsyncClient{Client: c, executor: ex}
}

// CreateClusterAsync submits CreateCluster. handler may be nil.
func (c *AsyncClient) CreateClusterAsync(ctx context.Context, in *CreateClusterInput, handler async.Handler[*CreateClusterInput, *CreateClusterOutput]) *async.Future[*CreateClusterOutput] {
	return async.Submit(ctx, c.executor, in, c.CreateCluster, handler)
}

// DeleteClusterAsync submits DeleteCluster. handler may be nil.
func (c *AsyncClient) DeleteClusterAsync(ctx context.Context, in *DeleteClusterInput, handler async.Handler[*DeleteClusterInput, *DeleteClusterOutput]) *async.Future[*DeleteClusterOutput] {
	return async.Submit(ctx, c.executor, in, c.DeleteCluster, handler)
}

// DescribeClustersAsync submits DescribeClusters. handler may be nil.
func (c *AsyncClient) DescribeClustersAsync(ctx context.Context, in *DescribeClustersInput, handler async.Handler[*DescribeClustersInput, *DescribeClustersOutput]) *async.Future[*DescribeClustersOutput] {
	return async.Submit(ctx, c.executor, in, c.DescribeClusters, handler)
}

// ListClustersAsync submits ListClusters. handler may be nil.
func (c *AsyncClient) ListClustersAsync(ctx context.Context, in *ListClustersInput, handler async.Handler[*ListClustersInput, *ListClustersOutput]) *async.Future[*ListClustersOutput] {
	return async.Submit(ctx, c.executor, in, c.ListClusters, handler)
}

// RunTaskAsync submits RunTask. handler may be nil.
func (c *AsyncClient) RunTaskAsync(ctx context.Context, in *RunTaskInput, handler async.Handler[*RunTaskInput, *RunTaskOutput]) *async.Future[*RunTaskOutput] {
	return async.Submit(ctx, c.executor, in, c.RunTask, handler)
}

// StopTaskAsync submits StopTask. handler may be nil.
func (c *AsyncClient) StopTaskAsync(ctx context.Context, in *StopTaskInput, handler async.Handler[*StopTaskInput, *StopTaskOutput]) *async.Future[*StopTaskOutput] {
	return async.Submit(ctx, c.executor, in, c.StopTask, handler)
}

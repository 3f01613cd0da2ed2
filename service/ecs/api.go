package ecs

import (
	"context"

	"github.com/kbukum/cloudkit/client"
)

const (
	// ServiceName is the service id and signing name.
	ServiceName = "ecs"
	// TargetPrefix prefixes every X-Amz-Target header.
	TargetPrefix = "AmazonEC2ContainerServiceV20141113"
)

var (
	createCluster    = client.JSONOperation[*CreateClusterInput, CreateClusterOutput](TargetPrefix, "CreateCluster")
	deleteCluster    = client.JSONOperation[*DeleteClusterInput, DeleteClusterOutput](TargetPrefix, "DeleteCluster")
	describeClusters = client.JSONOperation[*DescribeClustersInput, DescribeClustersOutput](TargetPrefix, "DescribeClusters")
	listClusters     = client.JSONOperation[*ListClustersInput, ListClustersOutput](TargetPrefix, "ListClusters")
	runTask          = client.JSONOperation[*RunTaskInput, RunTaskOutput](TargetPrefix, "RunTask")
	stopTask         = client.JSONOperation[*StopTaskInput, StopTaskOutput](TargetPrefix, "StopTask")
)

// Client calls the container orchestration API. It is safe for concurrent use.
type Client struct {
	core *client.Core
}

// New creates a client. cfg.Service defaults to ServiceName.
func New(cfg client.Config, opts ...client.Option) (*Client, error) {
	if cfg.Service == "" {
		cfg.Service = ServiceName
	}
	core, err := client.New(cfg, errorUnmarshallers(), opts...)
	if err != nil {
		return nil, err
	}
	return &Client{core: core}, nil
}

// Core returns the underlying client core.
func (c *Client) Core() *client.Core {
	return c.core
}

// CreateCluster creates a cluster. A nil input creates the default cluster.
func (c *Client) CreateCluster(ctx context.Context, in *CreateClusterInput) (*CreateClusterOutput, error) {
	if in == nil {
		in = &CreateClusterInput{}
	}
	return client.Invoke(ctx, c.core, createCluster, in)
}

// DeleteCluster deletes an inactive cluster.
func (c *Client) DeleteCluster(ctx context.Context, in *DeleteClusterInput) (*DeleteClusterOutput, error) {
	if in == nil {
		in = &DeleteClusterInput{}
	}
	return client.Invoke(ctx, c.core, deleteCluster, in)
}

// DescribeClusters describes clusters by name or ARN.
func (c *Client) DescribeClusters(ctx context.Context, in *DescribeClustersInput) (*DescribeClustersOutput, error) {
	if in == nil {
		in = &DescribeClustersInput{}
	}
	return client.Invoke(ctx, c.core, describeClusters, in)
}

// ListClusters lists cluster ARNs one page at a time.
func (c *Client) ListClusters(ctx context.Context, in *ListClustersInput) (*ListClustersOutput, error) {
	if in == nil {
		in = &ListClustersInput{}
	}
	return client.Invoke(ctx, c.core, listClusters, in)
}

// RunTask starts tasks from a task definition.
func (c *Client) RunTask(ctx context.Context, in *RunTaskInput) (*RunTaskOutput, error) {
	if in == nil {
		in = &RunTaskInput{}
	}
	return client.Invoke(ctx, c.core, runTask, in)
}

// StopTask stops a running task.
func (c *Client) StopTask(ctx context.Context, in *StopTaskInput) (*StopTaskOutput, error) {
	if in == nil {
		in = &StopTaskInput{}
	}
	return client.Invoke(ctx, c.core, stopTask, in)
}

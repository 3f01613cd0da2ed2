package iam

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

func (c *AsyncClient) CreateUserAsync(ctx context.Context, in *CreateUserInput, handler async.Handler[*CreateUserInput, *CreateUserOutput]) *async.Future[*CreateUserOutput] {
	return async.Submit(ctx, c.executor, in, c.CreateUser, handler)
}

func (c *AsyncClient) GetUserAsync(ctx context.Context, in *GetUserInput, handler async.Handler[*GetUserInput, *GetUserOutput]) *async.Future[*GetUserOutput] {
	return async.Submit(ctx, c.executor, in, c.GetUser, handler)
}

func (c *AsyncClient) DeleteUserAsync(ctx context.Context, in *DeleteUserInput, handler async.Handler[*DeleteUserInput, *DeleteUserOutput]) *async.Future[*DeleteUserOutput] {
	return async.Submit(ctx, c.executor, in, c.DeleteUser, handler)
}

func (c *AsyncClient) ListUsersAsync(ctx context.Context, in *ListUsersInput, handler async.Handler[*ListUsersInput, *ListUsersOutput]) *async.Future[*ListUsersOutput] {
	return async.Submit(ctx, c.executor, in, c.ListUsers, handler)
}

func (c *AsyncClient) AttachUserPolicyAsync(ctx context.Context, in *AttachUserPolicyInput, handler async.Handler[*AttachUserPolicyInput, *AttachUserPolicyOutput]) *async.Future[*AttachUserPolicyOutput] {
	return async.Submit(ctx, c.executor, in, c.AttachUserPolicy, handler)
}

package iam

import (
	"context"

	"github.com/kbukum/cloudkit/client"
)

const (
	// ServiceName is the service id and signing name.
	ServiceName = "iam"
	// APIVersion is sent as the Version parameter of every request.
	APIVersion = "2010-05-08"
	// GlobalEndpoint serves every region.
	GlobalEndpoint = "https://iam.amazonaws.com"
)

var (
	createUser       = client.QueryOperation[*CreateUserInput, CreateUserOutput](APIVersion, "CreateUser", (*CreateUserInput).params)
	getUser          = client.QueryOperation[*GetUserInput, GetUserOutput](APIVersion, "GetUser", (*GetUserInput).params)
	deleteUser       = client.QueryOperation[*DeleteUserInput, DeleteUserOutput](APIVersion, "DeleteUser", (*DeleteUserInput).params)
	listUsers        = client.QueryOperation[*ListUsersInput, ListUsersOutput](APIVersion, "ListUsers", (*ListUsersInput).params)
	attachUserPolicy = client.QueryOperation[*AttachUserPolicyInput, AttachUserPolicyOutput](APIVersion, "AttachUserPolicy", (*AttachUserPolicyInput).params)
)

// Client calls the identity and access management API.
type Client struct {
	core *client.Core
}

// New creates a client. The endpoint defaults to GlobalEndpoint.
func New(cfg client.Config, opts ...client.Option) (*Client, error) {
	if cfg.Service == "" {
		cfg.Service = ServiceName
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = GlobalEndpoint
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

func (c *Client) CreateUser(ctx context.Context, in *CreateUserInput) (*CreateUserOutput, error) {
	if in == nil {
		in = &CreateUserInput{}
	}
	return client.Invoke(ctx, c.core, createUser, in)
}

// GetUser returns the named user, or the caller when UserName is empty.
func (c *Client) GetUser(ctx context.Context, in *GetUserInput) (*GetUserOutput, error) {
	if in == nil {
		in = &GetUserInput{}
	}
	return client.Invoke(ctx, c.core, getUser, in)
}

func (c *Client) DeleteUser(ctx context.Context, in *DeleteUserInput) (*DeleteUserOutput, error) {
	if in == nil {
		in = &DeleteUserInput{}
	}
	return client.Invoke(ctx, c.core, deleteUser, in)
}

// ListUsers lists users one page at a time; follow Marker while IsTruncated.
func (c *Client) ListUsers(ctx context.Context, in *ListUsersInput) (*ListUsersOutput, error) {
	if in == nil {
		in = &ListUsersInput{}
	}
	return client.Invoke(ctx, c.core, listUsers, in)
}

func (c *Client) AttachUserPolicy(ctx context.Context, in *AttachUserPolicyInput) (*AttachUserPolicyOutput, error) {
	if in == nil {
		in = &AttachUserPolicyInput{}
	}
	return client.Invoke(ctx, c.core, attachUserPolicy, in)
}

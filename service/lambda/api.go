package lambda

import (
	"context"
	"net/http"

	"github.com/kbukum/cloudkit/client"
)

const (
	// ServiceName is the service id and signing name.
	ServiceName = "lambda"

	mappingsPath = "/2015-03-31/event-source-mappings/"
	mappingPath  = mappingsPath + "{UUID}"
)

var (
	createEventSourceMapping = client.RESTOperation[*CreateEventSourceMappingInput, CreateEventSourceMappingOutput](
		"CreateEventSourceMapping", http.MethodPost, mappingsPath, (*CreateEventSourceMappingInput).bind)
	getEventSourceMapping = client.RESTOperation[*GetEventSourceMappingInput, GetEventSourceMappingOutput](
		"GetEventSourceMapping", http.MethodGet, mappingPath, (*GetEventSourceMappingInput).bind)
	updateEventSourceMapping = client.RESTOperation[*UpdateEventSourceMappingInput, UpdateEventSourceMappingOutput](
		"UpdateEventSourceMapping", http.MethodPut, mappingPath, (*UpdateEventSourceMappingInput).bind)
	deleteEventSourceMapping = client.RESTOperation[*DeleteEventSourceMappingInput, DeleteEventSourceMappingOutput](
		"DeleteEventSourceMapping", http.MethodDelete, mappingPath, (*DeleteEventSourceMappingInput).bind)
	listEventSourceMappings = client.RESTOperation[*ListEventSourceMappingsInput, ListEventSourceMappingsOutput](
		"ListEventSourceMappings", http.MethodGet, mappingsPath, (*ListEventSourceMappingsInput).bind)
)

// Client calls the event-source-mapping API.
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

// CreateEventSourceMapping maps an event source to a function.
func (c *Client) CreateEventSourceMapping(ctx context.Context, in *CreateEventSourceMappingInput) (*CreateEventSourceMappingOutput, error) {
	if in == nil {
		in = &CreateEventSourceMappingInput{}
	}
	return client.Invoke(ctx, c.core, createEventSourceMapping, in)
}

func (c *Client) GetEventSourceMapping(ctx context.Context, in *GetEventSourceMappingInput) (*GetEventSourceMappingOutput, error) {
	if in == nil {
		in = &GetEventSourceMappingInput{}
	}
	return client.Invoke(ctx, c.core, getEventSourceMapping, in)
}

// UpdateEventSourceMapping changes the function, batch size or enabled flag.
func (c *Client) UpdateEventSourceMapping(ctx context.Context, in *UpdateEventSourceMappingInput) (*UpdateEventSourceMappingOutput, error) {
	if in == nil {
		in = &UpdateEventSourceMappingInput{}
	}
	return client.Invoke(ctx, c.core, updateEventSourceMapping, in)
}

// DeleteEventSourceMapping removes a mapping. The returned state is "Deleting".
func (c *Client) DeleteEventSourceMapping(ctx context.Context, in *DeleteEventSourceMappingInput) (*DeleteEventSourceMappingOutput, error) {
	if in == nil {
		in = &DeleteEventSourceMappingInput{}
	}
	return client.Invoke(ctx, c.core, deleteEventSourceMapping, in)
}

// ListEventSourceMappings lists mappings one page at a time; follow NextMarker.
func (c *Client) ListEventSourceMappings(ctx context.Context, in *ListEventSourceMappingsInput) (*ListEventSourceMappingsOutput, error) {
	if in == nil {
		in = &ListEventSourceMappingsInput{}
	}
	return client.Invoke(ctx, c.core, listEventSourceMappings, in)
}

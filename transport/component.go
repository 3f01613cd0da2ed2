package transport

import (
	"context"

	"github.com/kbukum/cloudkit/component"
	"github.com/kbukum/cloudkit/resilience"
)

var (
	_ component.Component   = (*Client)(nil)
	_ component.Describable = (*Client)(nil)
)

// Name returns the component name.
func (c *Client) Name() string {
	return c.config.Name
}

// Start is a no-op; the connection pool is created by New.
func (c *Client) Start(_ context.Context) error {
	return nil
}

// Stop closes idle keep-alive connections.
func (c *Client) Stop(_ context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Health reports degraded while the endpoint circuit is not closed.
func (c *Client) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.cb != nil {
		if state := c.cb.State(); state != resilience.StateClosed {
			h.Status = component.StatusDegraded
			h.Message = "circuit " + state.String()
		}
	}
	return h
}

// Describe returns the component description for startup logs.
func (c *Client) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "transport",
		Details: c.config.Endpoint,
	}
}

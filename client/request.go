package client

import "github.com/kbukum/cloudkit/credentials"

// Request is implemented by every operation input.
type Request interface {
	// OverrideCredentials returns credentials that replace the provider chain
	// for this call, or nil.
	OverrideCredentials() *credentials.Credentials
}

// RequestOptions carries per-request settings. Embed it in operation inputs.
type RequestOptions struct {
	Credentials *credentials.Credentials `json:"-" xml:"-" validate:"-"`
}

// OverrideCredentials implements Request.
func (o RequestOptions) OverrideCredentials() *credentials.Credentials {
	return o.Credentials
}

// WithCredentials sets the per-request credential override.
func (o *RequestOptions) WithCredentials(c *credentials.Credentials) {
	o.Credentials = c
}

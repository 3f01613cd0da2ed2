package credentials

import (
	"context"
	"fmt"

	"github.com/kbukum/cloudkit/errors"
)

// Resolver picks the credentials for one request.
type Resolver struct {
	source Source
}

// NewResolver creates a resolver that falls back to source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns override when it is set, never replacing it. Otherwise it
// delegates to the chain, which may block on instance metadata I/O.
func (r *Resolver) Resolve(ctx context.Context, override *Credentials) (*Credentials, error) {
	if override != nil {
		if !override.HasKeys() {
			return nil, errors.NoCredentials(fmt.Errorf("override credentials are missing an access key or secret"))
		}
		return override, nil
	}
	if r.source == nil {
		return nil, errors.NoCredentials(fmt.Errorf("no credential source configured"))
	}
	return r.source.Retrieve(ctx)
}

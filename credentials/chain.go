package credentials

import (
	"context"
	"sync"
	"time"

	awscreds "github.com/aws/aws-sdk-go/aws/credentials"
	"golang.org/x/sync/singleflight"

	"github.com/kbukum/cloudkit/config"
	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/logger"
	"github.com/kbukum/cloudkit/util"
)

const chainKey = "chain"

// Source supplies credentials when a request carries none of its own.
type Source interface {
	Retrieve(ctx context.Context) (*Credentials, error)
}

// Chain walks an ordered list of providers and returns the first keys found.
// It is safe for concurrent use.
type Chain struct {
	chain *awscreds.ChainProvider
	group singleflight.Group
	log   *logger.Logger
	now   func() time.Time

	mu     sync.RWMutex
	cached *Credentials

	// expires is written by tracked providers during a walk.
	expires time.Time
}

// NewChain creates a chain over providers, consulted in order.
func NewChain(providers ...awscreds.Provider) *Chain {
	c := &Chain{
		log: logger.Get("credentials"),
		now: time.Now,
	}
	wrapped := make([]awscreds.Provider, len(providers))
	for i, p := range providers {
		wrapped[i] = &tracked{Provider: p, chain: c}
	}
	c.chain = &awscreds.ChainProvider{Providers: wrapped, VerboseErrors: true}
	return c
}

// NewDefaultChain builds the environment, properties, instance metadata chain.
// A nil props uses the process system properties.
func NewDefaultChain(cfg Config, props *config.Properties) (*Chain, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if props == nil {
		props = config.System()
	}
	if cfg.PropertiesFile != "" {
		loaded, err := config.LoadProperties(cfg.PropertiesFile)
		if err != nil {
			return nil, err
		}
		props = loaded
	}

	providers := []awscreds.Provider{
		NewEnvProvider(),
		NewPropertiesProvider(props),
	}
	if !cfg.DisableMetadata {
		imds, err := NewInstanceMetadataProvider(cfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, imds)
	}
	return NewChain(providers...), nil
}

var (
	defaultOnce  sync.Once
	defaultChain *Chain
	defaultErr   error
)

// Default returns the process-wide chain built from default configuration.
func Default() (*Chain, error) {
	defaultOnce.Do(func() {
		defaultChain, defaultErr = NewDefaultChain(Config{}, nil)
	})
	return defaultChain, defaultErr
}

// Retrieve returns cached credentials while they are valid, otherwise walks
// the providers. Only credentials with an expiry are cached. Concurrent callers share one walk. An exhausted chain
// yields a KindNoCredentials error.
func (c *Chain) Retrieve(ctx context.Context) (*Credentials, error) {
	c.mu.RLock()
	cached := c.cached
	c.mu.RUnlock()
	if cached != nil && !cached.Expired(c.now()) {
		return cached, nil
	}

	ch := c.group.DoChan(chainKey, func() (interface{}, error) {
		return c.refresh()
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Credentials), nil
	}
}

// Invalidate drops the cached credentials so the next Retrieve walks the chain.
func (c *Chain) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}

func (c *Chain) refresh() (*Credentials, error) {
	c.expires = time.Time{}
	v, err := c.chain.Retrieve()
	if err != nil {
		c.log.Debug("credential chain exhausted", logger.Fields(logger.FieldError, err.Error()))
		return nil, errors.NoCredentials(err)
	}
	creds := fromValue(v, c.expires)
	c.log.Debug("credentials resolved", logger.Fields(
		logger.FieldProvider, creds.Source,
		"access_key_id", util.MaskSecret(creds.AccessKeyID, 4),
	))

	// Keys without an expiry are re-resolved on every walk so a provider
	// earlier in the chain that gains keys takes over.
	if !creds.Expires.IsZero() {
		c.mu.Lock()
		c.cached = creds
		c.mu.Unlock()
	}
	return creds, nil
}

// tracked records the expiry of whichever provider answers a walk.
type tracked struct {
	awscreds.Provider
	chain *Chain
}

func (t *tracked) Retrieve() (awscreds.Value, error) {
	v, err := t.Provider.Retrieve()
	if err != nil {
		return v, err
	}
	if !v.HasKeys() {
		return v, awscreds.ErrStaticCredentialsEmpty
	}
	if e, ok := t.Provider.(awscreds.Expirer); ok {
		t.chain.expires = e.ExpiresAt()
	}
	return v, nil
}

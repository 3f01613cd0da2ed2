package transport

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/cloudkit/errors"
	"github.com/kbukum/cloudkit/resilience"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxIdleConns    = 100
	defaultIdleConnTimeout = 90 * time.Second
)

// Config configures the transport for one service endpoint.
type Config struct {
	// Name identifies the transport as a component. Defaults to the signing name.
	Name string `yaml:"name" mapstructure:"name"`

	// Endpoint is the base URL of the service, e.g. https://ecs.us-east-1.amazonaws.com.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Region is the signing region.
	Region string `yaml:"region" mapstructure:"region"`

	// SigningName is the service name used in the request signature.
	SigningName string `yaml:"signing_name" mapstructure:"signing_name"`

	// Timeout bounds one HTTP attempt. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// TLS configures TLS for the endpoint connection.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// HTTP2 enables HTTP/2 over TLS for the endpoint connection.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`

	// MaxIdleConns caps idle keep-alive connections. Defaults to 100.
	MaxIdleConns int `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgentSuffix is appended to the SDK user agent.
	UserAgentSuffix string `yaml:"user_agent_suffix" mapstructure:"user_agent_suffix"`

	// Retry configures retry behavior. Nil disables retry.
	Retry *resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`

	// CircuitBreaker configures the endpoint circuit breaker. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// RateLimit caps the client-side send rate. Nil disables it.
	RateLimit *resilience.RateLimiterConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.Name == "" {
		c.Name = c.SigningName
	}
	if c.Name == "" {
		c.Name = "transport"
	}
	if c.CircuitBreaker != nil && c.CircuitBreaker.Name == "" {
		c.CircuitBreaker.Name = c.Name
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("transport: endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("transport: endpoint %q is not an absolute URL", c.Endpoint)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("transport: timeout must be positive")
	}
	if c.SigningName == "" {
		return fmt.Errorf("transport: signing_name is required")
	}
	return c.TLS.Validate()
}

// DefaultRetryConfig returns a retry config that retries connection failures
// and retryable service responses.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}

// DefaultCircuitBreakerConfig returns a default circuit breaker config.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	return &cfg
}

// IsRetryable reports whether a dispatch error is worth another attempt:
// a connection failure, or a throttling or 5xx response.
func IsRetryable(err error) bool {
	if p, ok := AsErrorPayload(err); ok {
		return p.Retryable()
	}
	return errors.IsConnection(err)
}

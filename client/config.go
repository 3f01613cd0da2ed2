package client

import (
	"fmt"

	"github.com/kbukum/cloudkit/config"
	"github.com/kbukum/cloudkit/credentials"
	"github.com/kbukum/cloudkit/transport"
)

// Config configures a service client.
type Config struct {
	config.BaseConfig `yaml:",inline" mapstructure:",squash"`

	// Service is the short service id used in logs, metrics and spans.
	Service string `yaml:"service" mapstructure:"service"`

	// Endpoint overrides the default regional endpoint.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// SigningName is the service name in request signatures. Defaults to Service.
	SigningName string `yaml:"signing_name" mapstructure:"signing_name"`

	// APIVersion is the wire API version, for protocols that send one.
	APIVersion string `yaml:"api_version" mapstructure:"api_version"`

	// UserAgentSuffix is appended to the SDK user agent.
	UserAgentSuffix string `yaml:"user_agent_suffix" mapstructure:"user_agent_suffix"`

	// Anonymous skips credential resolution and signing.
	Anonymous bool `yaml:"anonymous" mapstructure:"anonymous"`

	Transport   transport.Config   `yaml:"transport" mapstructure:"transport"`
	Credentials credentials.Config `yaml:"credentials" mapstructure:"credentials"`
}

// ApplyDefaults fills in zero-value fields and copies the endpoint settings
// into the transport config.
func (c *Config) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	if c.SigningName == "" {
		c.SigningName = c.Service
	}
	if c.Endpoint == "" && c.Service != "" {
		c.Endpoint = DefaultEndpoint(c.Service, c.Region)
	}
	c.Credentials.ApplyDefaults()

	c.Transport.Endpoint = c.Endpoint
	c.Transport.Region = c.Region
	c.Transport.SigningName = c.SigningName
	if c.Transport.UserAgentSuffix == "" {
		c.Transport.UserAgentSuffix = c.UserAgentSuffix
	}
	if c.Transport.Name == "" {
		c.Transport.Name = c.Service
	}
	if c.Transport.Retry == nil {
		c.Transport.Retry = transport.DefaultRetryConfig()
	}
	c.Transport.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Service == "" {
		return fmt.Errorf("client: service is required")
	}
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if err := c.Credentials.Validate(); err != nil {
		return err
	}
	return c.Transport.Validate()
}

// DefaultEndpoint returns the regional HTTPS endpoint of service.
func DefaultEndpoint(service, region string) string {
	if region == "" {
		region = config.DefaultRegion
	}
	return fmt.Sprintf("https://%s.%s.amazonaws.com", service, region)
}

// LoadConfig loads the client configuration for profile with the config
// package loader and applies defaults.
func LoadConfig(profile string, opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := config.LoadConfig(profile, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

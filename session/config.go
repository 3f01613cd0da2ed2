package session

import (
	"github.com/kbukum/cloudkit/async"
	"github.com/kbukum/cloudkit/config"
	"github.com/kbukum/cloudkit/credentials"
	"github.com/kbukum/cloudkit/observability"
	"github.com/kbukum/cloudkit/util"
)

// Config configures a Session.
type Config struct {
	config.BaseConfig `yaml:",inline" mapstructure:",squash"`

	// Name identifies the embedding application in logs.
	Name string `yaml:"name" mapstructure:"name"`

	Credentials credentials.Config `yaml:"credentials" mapstructure:"credentials"`
	Executor    async.Config       `yaml:"executor" mapstructure:"executor"`

	// Telemetry installs OTLP exporters when enabled. WithMeter takes
	// precedence for SDK metrics.
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults sets sensible defaults for zero-value fields.
func (c *Config) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	c.Name = util.Coalesce(c.Name, "cloudkit")
	c.Executor.Name = util.Coalesce(c.Executor.Name, c.Name+"-executor")
	c.Executor.ApplyDefaults()
	c.Credentials.ApplyDefaults()
	c.Telemetry.ServiceName = util.Coalesce(c.Telemetry.ServiceName, c.Name)
	c.Telemetry.Environment = util.Coalesce(c.Telemetry.Environment, c.Environment)
	c.Telemetry.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if err := c.Executor.Validate(); err != nil {
		return err
	}
	if err := c.Credentials.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}

// LoadConfig loads the session configuration for profile.
func LoadConfig(profile string, opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := config.LoadConfig(profile, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

package config

import (
	"fmt"
	"regexp"
)

// DefaultRegion is used when no region is configured anywhere.
const DefaultRegion = "us-east-1"

var regionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d+$`)

// BaseConfig contains the fields every service client shares.
type BaseConfig struct {
	Region      string `yaml:"region" mapstructure:"region"`
	Profile     string `yaml:"profile" mapstructure:"profile"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Profile == "" {
		c.Profile = "default"
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	if !regionPattern.MatchString(c.Region) {
		return fmt.Errorf("base.region %q is not a valid region name", c.Region)
	}
	validEnvs := []string{"development", "staging", "production"}
	for _, v := range validEnvs {
		if c.Environment == v {
			return nil
		}
	}
	return fmt.Errorf("base.environment must be one of [development, staging, production] (got: %s)", c.Environment)
}

package observability

import (
	"fmt"
	"time"

	"github.com/kbukum/cloudkit/version"
)

// Config configures OTLP export of SDK spans and metrics.
type Config struct {
	// Enabled turns on the OTLP providers. When false the global providers
	// are left alone.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServiceName is the name of the embedding application.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion defaults to the SDK version.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP collector host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// SampleRate is the trace sampling ratio, 0.0 to 1.0.
	SampleRate *float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// ApplyDefaults sets sensible defaults for zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = version.SDKName
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = version.GetShortVersion()
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
	if c.SampleRate == nil {
		rate := 1.0
		c.SampleRate = &rate
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("observability: endpoint is required")
	}
	if c.Interval < 0 {
		return fmt.Errorf("observability: interval must be non-negative")
	}
	if c.SampleRate != nil && (*c.SampleRate < 0 || *c.SampleRate > 1) {
		return fmt.Errorf("observability: sample_rate must be within [0, 1] (got: %v)", *c.SampleRate)
	}
	return nil
}

func (c *Config) sampleRate() float64 {
	if c.SampleRate == nil {
		return 1.0
	}
	return *c.SampleRate
}

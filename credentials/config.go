package credentials

import (
	"fmt"
	"net/url"
	"time"
)

const (
	// DefaultMetadataEndpoint is the link-local instance metadata address.
	DefaultMetadataEndpoint = "http://169.254.169.254"
	// DefaultMetadataTimeout bounds each metadata HTTP request.
	DefaultMetadataTimeout = time.Second
	// DefaultExpiryWindow refreshes temporary credentials this long before they expire.
	DefaultExpiryWindow = time.Minute
)

// Config configures the default provider chain.
type Config struct {
	MetadataEndpoint string        `yaml:"metadata_endpoint" mapstructure:"metadata_endpoint"`
	MetadataTimeout  time.Duration `yaml:"metadata_timeout" mapstructure:"metadata_timeout"`
	ExpiryWindow     time.Duration `yaml:"expiry_window" mapstructure:"expiry_window"`
	DisableMetadata  bool          `yaml:"disable_metadata" mapstructure:"disable_metadata"`
	// PropertiesFile is loaded into the system properties at chain construction.
	PropertiesFile string `yaml:"properties_file" mapstructure:"properties_file"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MetadataEndpoint == "" {
		c.MetadataEndpoint = DefaultMetadataEndpoint
	}
	if c.MetadataTimeout == 0 {
		c.MetadataTimeout = DefaultMetadataTimeout
	}
	if c.ExpiryWindow == 0 {
		c.ExpiryWindow = DefaultExpiryWindow
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !c.DisableMetadata {
		u, err := url.Parse(c.MetadataEndpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("credentials: invalid metadata endpoint %q", c.MetadataEndpoint)
		}
	}
	if c.MetadataTimeout < 0 {
		return fmt.Errorf("credentials: metadata timeout must be non-negative")
	}
	if c.ExpiryWindow < 0 {
		return fmt.Errorf("credentials: expiry window must be non-negative")
	}
	return nil
}

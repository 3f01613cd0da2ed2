package async

import "fmt"

// DefaultPoolSize is the number of workers used when Config.PoolSize is zero.
const DefaultPoolSize = 50

// Config configures an Executor.
type Config struct {
	// Name identifies the executor in logs and health reports.
	Name string `yaml:"name" mapstructure:"name"`
	// PoolSize is the fixed number of workers.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size"`
}

// ApplyDefaults sets sensible defaults for zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "executor"
	}
	if c.PoolSize == 0 {
		c.PoolSize = DefaultPoolSize
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.PoolSize < 1 {
		return fmt.Errorf("async: pool_size must be positive (got: %d)", c.PoolSize)
	}
	return nil
}

package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Properties is a process-wide key/value view, the equivalent of JVM system
// properties. Keys are case-insensitive and dotted ("aws.accessKeyId").
type Properties struct {
	mu sync.RWMutex
	v  *viper.Viper
}

// NewProperties returns an empty property set.
func NewProperties() *Properties {
	return &Properties{v: viper.New()}
}

// LoadProperties reads a file into a new property set. Files ending in
// .properties (or .env) hold key=value lines; other extensions are read by
// viper according to their format (YAML, JSON, TOML).
func LoadProperties(path string) (*Properties, error) {
	v := viper.New()
	if strings.HasSuffix(path, ".properties") || strings.HasSuffix(path, ".env") {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("config: read properties %s: %w", path, err)
		}
		for k, val := range values {
			v.Set(k, val)
		}
		return &Properties{v: v}, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read properties %s: %w", path, err)
	}
	return &Properties{v: v}, nil
}

var (
	systemOnce  sync.Once
	systemProps *Properties
)

// System returns the shared process-wide property set.
func System() *Properties {
	systemOnce.Do(func() {
		systemProps = NewProperties()
	})
	return systemProps
}

// Get returns the value for key, or "" when unset.
func (p *Properties) Get(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return strings.TrimSpace(p.v.GetString(key))
}

// Set stores a value.
func (p *Properties) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.v.Set(key, value)
}

// Clear removes key. Viper has no delete, so the key is reset to empty.
func (p *Properties) Clear(key string) {
	p.Set(key, "")
}

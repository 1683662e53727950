package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the codec package
const (
	FormatJSON        = "json"
	FormatYAML        = "yaml"
	FormatAnsibleYAML = "ansible-yaml"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Device42 Device42Config `yaml:"device42"`
	Cache    CacheConfig    `yaml:"cache"`
	Output   OutputConfig   `yaml:"output"`
	Verify   VerifyConfig   `yaml:"verify"`
	Logging  LoggingConfig  `yaml:"logging"`
	Workers  int            `yaml:"workers" validate:"gte=0,lte=64"` // normalization goroutines, 0 = sequential
}

// Device42Config holds API connection settings
type Device42Config struct {
	BaseURL            string   `yaml:"base_url" validate:"required_without=File,omitempty,url"`
	Username           string   `yaml:"username"`
	Password           string   `yaml:"password"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify"`
	Timeout            Duration `yaml:"timeout"`
	PageSize           int      `yaml:"page_size" validate:"gte=0,lte=10000"` // 0 = single request
	RateLimit          float64  `yaml:"rate_limit" validate:"gte=0"`          // requests per second, 0 = unlimited
	File               string   `yaml:"file,omitempty"`                       // saved devices export read instead of the API
}

// CacheConfig controls the SQLite inventory cache
type CacheConfig struct {
	Enabled bool     `yaml:"enabled"`
	Path    string   `yaml:"path" validate:"required_if=Enabled true"`
	TTL     Duration `yaml:"ttl"`
	Keep    int      `yaml:"keep" validate:"gte=0"` // snapshots retained after each save
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=json yaml ansible-yaml"`
	Indent int    `yaml:"indent" validate:"gte=0,lte=8"`
}

// VerifyConfig controls the reachability audit
type VerifyConfig struct {
	Ports             string    `yaml:"ports"`
	Timeout           Duration  `yaml:"timeout"`
	SkipHostDiscovery bool      `yaml:"skip_host_discovery"`
	SSH               SSHConfig `yaml:"ssh"`
}

// SSHConfig holds credentials for the SSH login check.
// KeyPath is a path, never the key itself.
type SSHConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	Username string `yaml:"username"`
	Password string `yaml:"password,omitempty"`
	KeyPath  string `yaml:"key_path,omitempty"`
}

// LoggingConfig controls log output. Logs never go to stdout.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=info debug"`
	Path  string `yaml:"path"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

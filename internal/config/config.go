// Package config provides configuration management for d42-inventory.
//
// Config file locations (priority order):
//  1. $D42_INVENTORY_CONFIG
//  2. ./d42-inventory.yaml
//  3. $XDG_CONFIG_HOME/d42-inventory/config.yaml
//  4. ~/.config/d42-inventory/config.yaml
//  5. /etc/d42-inventory/config.yaml
//
// Environment variables with the D42_INVENTORY_ prefix override file values,
// e.g. D42_INVENTORY_DEVICE42_PASSWORD.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultCacheTTL    = 5 * time.Minute
	defaultCacheKeep   = 10
	defaultIndent      = 3
	defaultVerifyPorts = "22"
	defaultSSHPort     = 22
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	// file values override the defaults, explicit zeros included
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	return cfg, path, nil
}

// Save writes config to the specified path. The file may hold credentials,
// so it is created owner-readable only.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Device42.Timeout == 0 {
		c.Device42.Timeout = Duration(defaultTimeout)
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath()
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = Duration(defaultCacheTTL)
	}
	if c.Cache.Keep == 0 {
		c.Cache.Keep = defaultCacheKeep
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatJSON
	}
	if c.Output.Indent == 0 {
		c.Output.Indent = defaultIndent
	}
	if c.Verify.Ports == "" {
		c.Verify.Ports = defaultVerifyPorts
	}
	if c.Verify.Timeout == 0 {
		c.Verify.Timeout = Duration(defaultTimeout)
	}
	if c.Verify.SSH.Port == 0 {
		c.Verify.SSH.Port = defaultSSHPort
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Summary returns a human-readable config summary without secrets
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Device42: %s (user %q, page size %d, timeout %s)\n",
		c.Device42.BaseURL, c.Device42.Username, c.Device42.PageSize, c.Device42.Timeout.Duration())
	if c.Cache.Enabled {
		summary += fmt.Sprintf("Cache: %s (ttl %s, keep %d)\n", c.Cache.Path, c.Cache.TTL.Duration(), c.Cache.Keep)
	} else {
		summary += "Cache: disabled\n"
	}
	summary += fmt.Sprintf("Output: %s", c.Output.Format)
	return summary
}

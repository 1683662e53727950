package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Override keys, shared by environment variables and command-line flags.
// D42_INVENTORY_DEVICE42_BASE_URL maps to "device42.base_url".
const (
	KeyBaseURL      = "device42.base_url"
	KeyUsername     = "device42.username"
	KeyPassword     = "device42.password"
	KeyInsecure     = "device42.insecure_skip_verify"
	KeyTimeout      = "device42.timeout"
	KeyPageSize     = "device42.page_size"
	KeyRateLimit    = "device42.rate_limit"
	KeyDevicesFile  = "device42.file"
	KeyCacheEnabled = "cache.enabled"
	KeyCachePath    = "cache.path"
	KeyCacheTTL     = "cache.ttl"
	KeyCacheKeep    = "cache.keep"
	KeyOutputFormat = "output.format"
	KeyOutputIndent = "output.indent"
	KeyVerifyPorts  = "verify.ports"
	KeyScanTimeout  = "verify.timeout"
	KeySkipDiscover = "verify.skip_host_discovery"
	KeySSHPort      = "verify.ssh.port"
	KeySSHEnabled   = "verify.ssh.enabled"
	KeySSHUsername  = "verify.ssh.username"
	KeySSHPassword  = "verify.ssh.password"
	KeySSHKeyPath   = "verify.ssh.key_path"
	KeyLoggingLevel = "logging.level"
	KeyLoggingPath  = "logging.path"
	KeyWorkers      = "workers"
)

// NewViper returns a viper instance reading D42_INVENTORY_* variables
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key set in v (by environment or bound flag)
// over the file configuration.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	strs := map[string]*string{
		KeyBaseURL:      &c.Device42.BaseURL,
		KeyUsername:     &c.Device42.Username,
		KeyPassword:     &c.Device42.Password,
		KeyDevicesFile:  &c.Device42.File,
		KeyCachePath:    &c.Cache.Path,
		KeyOutputFormat: &c.Output.Format,
		KeyVerifyPorts:  &c.Verify.Ports,
		KeySSHUsername:  &c.Verify.SSH.Username,
		KeySSHPassword:  &c.Verify.SSH.Password,
		KeySSHKeyPath:   &c.Verify.SSH.KeyPath,
		KeyLoggingLevel: &c.Logging.Level,
		KeyLoggingPath:  &c.Logging.Path,
	}
	for key, dst := range strs {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	ints := map[string]*int{
		KeyPageSize:     &c.Device42.PageSize,
		KeyOutputIndent: &c.Output.Indent,
		KeyWorkers:      &c.Workers,
		KeyCacheKeep:    &c.Cache.Keep,
		KeySSHPort:      &c.Verify.SSH.Port,
	}
	for key, dst := range ints {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	bools := map[string]*bool{
		KeyInsecure:     &c.Device42.InsecureSkipVerify,
		KeyCacheEnabled: &c.Cache.Enabled,
		KeySSHEnabled:   &c.Verify.SSH.Enabled,
		KeySkipDiscover: &c.Verify.SkipHostDiscovery,
	}
	for key, dst := range bools {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	durations := map[string]*Duration{
		KeyTimeout:     &c.Device42.Timeout,
		KeyCacheTTL:    &c.Cache.TTL,
		KeyScanTimeout: &c.Verify.Timeout,
	}
	for key, dst := range durations {
		if v.IsSet(key) {
			*dst = Duration(v.GetDuration(key))
		}
	}

	if v.IsSet(KeyRateLimit) {
		c.Device42.RateLimit = v.GetFloat64(KeyRateLimit)
	}
}

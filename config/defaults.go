package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Healing defaults mirror the most permissive production posture:
	// reach back to the legacy version first, keep degraded data visible.
	v.SetDefault("healing.strategy", "bridge-first")
	v.SetDefault("healing.max_attempts", 3)
	v.SetDefault("healing.allow_degradation", true)
	v.SetDefault("healing.emit_signals", true)
	v.SetDefault("healing.bridge_timeout_seconds", 5)

	// Bridge defaults
	v.SetDefault("bridge.url", "")
	v.SetDefault("bridge.allow_private_hosts", false)

	// Resolver defaults
	v.SetDefault("resolver.timeout_seconds", 3)
	v.SetDefault("resolver.index_path", "")

	// Logging defaults
	v.SetDefault("logging.json", false)
}

// Package config loads the Mend engine configuration.
//
// Configuration is resolved through Viper in precedence order: explicit file,
// environment variables (MEND_ prefix), then built-in defaults. The resulting
// Config is plain data; the heal package consumes it when constructing an
// Orchestrator.
package config

// Config represents the core Mend configuration
type Config struct {
	Healing  HealingConfig  `mapstructure:"healing"`
	Bridge   BridgeConfig   `mapstructure:"bridge"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// HealingConfig configures the healing orchestrator
type HealingConfig struct {
	// Strategy selects the healing algorithm:
	// bridge-first, self-repair-first, local-repair-only, no-healing
	Strategy string `mapstructure:"strategy"`

	// MaxAttempts bounds total attempts across bridge and local repair per call
	MaxAttempts int `mapstructure:"max_attempts"`

	// AllowDegradation permits entries to be served with Degraded status.
	// When false, every Degrade decision is treated as Fail.
	AllowDegradation bool `mapstructure:"allow_degradation"`

	// EmitSignals enables observability signal emission on healing events
	EmitSignals bool `mapstructure:"emit_signals"`

	// BridgeTimeoutSeconds bounds each legacy bridge call. A timeout is
	// treated as "no legacy data", never as a hard failure.
	BridgeTimeoutSeconds int `mapstructure:"bridge_timeout_seconds"`

	// Policies maps entry type to its degradation policy. Entry types
	// absent from the map use the "degrade" policy.
	Policies map[string]PolicyConfig `mapstructure:"policies"`
}

// PolicyConfig configures the degradation policy for one entry type.
// Valid decisions: "accept", "degrade", "fail".
type PolicyConfig struct {
	OnValidationFailure string `mapstructure:"on_validation_failure"`
	OnMissingReference  string `mapstructure:"on_missing_reference"`
}

// BridgeConfig locates the legacy schema version's read path. An empty
// URL disables the HTTP bridge; callers may still supply their own
// BridgeFunc programmatically.
type BridgeConfig struct {
	// URL is the base URL of the legacy read path
	URL string `mapstructure:"url"`

	// AllowPrivateHosts permits localhost and private address ranges,
	// for in-cluster legacy nodes and local development
	AllowPrivateHosts bool `mapstructure:"allow_private_hosts"`
}

// ResolverConfig configures reference resolution against the storage substrate
type ResolverConfig struct {
	// TimeoutSeconds bounds each reference existence lookup
	TimeoutSeconds int `mapstructure:"timeout_seconds"`

	// IndexPath is the SQLite existence index path used by the bundled
	// resolver implementation (empty = resolver supplied by the caller)
	IndexPath string `mapstructure:"index_path"`
}

// LoggingConfig configures log output
type LoggingConfig struct {
	JSON bool `mapstructure:"json"`
}

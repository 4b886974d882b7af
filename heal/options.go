package heal

import (
	"time"

	"go.uber.org/zap"

	"github.com/solenne/mend/config"
)

// Defaults applied by NewOrchestrator when an Options field is zero.
const (
	DefaultMaxAttempts     = 3
	DefaultBridgeTimeout   = 5 * time.Second
	DefaultResolverTimeout = 3 * time.Second
)

// Options configures an Orchestrator.
type Options struct {
	// Strategy orders the healing sources. Nil means BridgeFirst.
	Strategy Strategy

	// Bridge reaches the legacy schema version's read path. Nil disables
	// bridge healing; bridge-using strategies degrade to local repair.
	Bridge BridgeFunc

	// MaxAttempts bounds source attempts per entry. Zero means
	// DefaultMaxAttempts.
	MaxAttempts int

	// AllowDegradation enables serving imperfect entries marked Degraded.
	// When false every degradation decision becomes a failure.
	AllowDegradation bool

	// EmitSignals enables per-call observability signals.
	EmitSignals bool

	// BridgeTimeout bounds each bridge call. Zero means
	// DefaultBridgeTimeout.
	BridgeTimeout time.Duration

	// ResolverTimeout bounds each reference resolution. Zero means
	// DefaultResolverTimeout.
	ResolverTimeout time.Duration

	// Emitter receives signals. Nil means a LogEmitter on Logger.
	Emitter Emitter

	// Logger is the orchestrator's log. Nil means the package global.
	Logger *zap.SugaredLogger
}

// OptionsFromConfig translates loaded configuration into Options. The
// bridge, emitter, and logger stay nil for the caller to fill in.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	strategy, err := ParseStrategy(cfg.Healing.Strategy)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Strategy:         strategy,
		MaxAttempts:      cfg.Healing.MaxAttempts,
		AllowDegradation: cfg.Healing.AllowDegradation,
		EmitSignals:      cfg.Healing.EmitSignals,
		BridgeTimeout:    time.Duration(cfg.Healing.BridgeTimeoutSeconds) * time.Second,
		ResolverTimeout:  time.Duration(cfg.Resolver.TimeoutSeconds) * time.Second,
	}, nil
}

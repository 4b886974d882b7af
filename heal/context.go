package heal

import "time"

// Context carries everything a strategy needs for one healing call: the
// provider's contracts, the bridge (nil when no legacy version is
// reachable), and the orchestrator's limits. The orchestrator assembles one
// per call; strategies treat it as read-only.
type Context struct {
	Validator   Validator
	Transformer Transformer
	Resolver    ReferenceResolver
	Degradation DegradationHandler

	// SchemaVersion is the provider's current schema version. Retagged
	// entries carry it alongside validation_status.
	SchemaVersion int

	// Bridge fetches from the legacy read path. Nil means no bridge is
	// configured; bridge-using strategies skip straight to local repair.
	Bridge BridgeFunc

	// MaxAttempts bounds the total number of source attempts (bridge plus
	// local) a strategy may make for one entry.
	MaxAttempts int

	// AllowDegradation is the global gate. When false the orchestrator
	// converts every DecisionDegrade into DecisionFail.
	AllowDegradation bool

	// BridgeTimeout bounds each individual bridge call.
	BridgeTimeout time.Duration
}

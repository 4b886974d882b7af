package heal

import (
	"context"
	"encoding/json"
)

// Reference names one entry pointed at by another.
type Reference struct {
	EntryType string
	ID        string
}

// Validator checks an entry against the current schema. A nil return means
// the entry is valid; any non-nil error describes the first problem found.
type Validator interface {
	Validate(data map[string]any) error
}

// Transformer maps a legacy-schema entry to the current schema. The result
// must carry the current schema_version tag. Transformation is pure: the
// input map is never mutated.
type Transformer interface {
	TransformLegacy(legacy map[string]any) (map[string]any, error)
}

// ReferenceResolver extracts the references an entry holds and checks
// whether a referenced entry exists. Resolve honors ctx cancellation; a
// resolver error is treated by the orchestrator the same as a missing
// reference.
type ReferenceResolver interface {
	References(data map[string]any) []Reference
	Resolve(ctx context.Context, ref Reference) (bool, error)
}

// Decision is a degradation handler's verdict on a single problem.
type Decision int

const (
	// DecisionAccept keeps the entry as-is; the problem is tolerable.
	DecisionAccept Decision = iota
	// DecisionDegrade keeps the entry but marks it Degraded.
	DecisionDegrade
	// DecisionFail rejects the entry outright.
	DecisionFail
)

func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionDegrade:
		return "degrade"
	case DecisionFail:
		return "fail"
	}
	return "unknown"
}

// DegradationHandler decides what to do when healing hits a problem it could
// paper over. Handlers return a Decision per incident; the orchestrator
// applies the global AllowDegradation gate on top, so a handler never needs
// to know whether degradation is enabled.
type DegradationHandler interface {
	// OnValidationFailure is consulted when the best candidate entry fails
	// current-schema validation. legacySourced reports whether the candidate
	// came through the bridge.
	OnValidationFailure(entryType string, err error, legacySourced bool) Decision
	// OnMissingReference is consulted once per unresolvable reference.
	OnMissingReference(entryType string, ref Reference) Decision
}

// Provider bundles the four healing contracts for one entry type.
type Provider interface {
	EntryType() string
	// SchemaVersion is the current schema version for this entry type.
	// Healed entries are retagged with it before they are served.
	SchemaVersion() int
	Validator() Validator
	Transformer() Transformer
	ReferenceResolver() ReferenceResolver
	DegradationHandler() DegradationHandler
}

// BridgeFunc fetches an entry from the legacy schema version's read path.
// A (nil, nil) return means the legacy side has no entry under that id.
// Implementations must honor ctx; the engine bounds every call with the
// configured bridge timeout.
type BridgeFunc func(ctx context.Context, entryType, id string) (json.RawMessage, error)

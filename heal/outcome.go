package heal

import (
	"encoding/json"
	"time"
)

// Outcome is the result of one healing call.
type Outcome struct {
	// CallID uniquely identifies this healing call across logs and signals.
	CallID string `json:"call_id"`

	EntryType string `json:"entry_type"`
	EntryID   string `json:"entry_id"`

	// Entry is the healed entry, tagged with the current schema_version and
	// the final validation_status. For passthrough and already-valid local
	// entries it is the caller's bytes unchanged.
	Entry json.RawMessage `json:"entry"`

	Status ValidationStatus `json:"status"`

	// MissingRefs lists the references that could not be resolved and were
	// degraded over. Empty unless Status is StatusDegraded.
	MissingRefs []Reference `json:"missing_refs,omitempty"`

	// BridgeUsed reports whether the entry came through the legacy bridge.
	BridgeUsed bool `json:"bridge_used"`

	// Attempts counts the source attempts the strategy made.
	Attempts int `json:"attempts"`

	Elapsed time.Duration `json:"elapsed"`

	// Notes records what the strategy tried.
	Notes []string `json:"notes,omitempty"`
}

// IsUsable reports whether the healed entry can be served to callers.
func (o *Outcome) IsUsable() bool {
	return o != nil && o.Status.IsUsable()
}

package heal

import (
	"encoding/json"

	"github.com/solenne/mend/errors"
)

// ValidationStatus classifies what the engine knows about an entry after a
// healing pass. The string form is embedded in healed entries under the
// "validation_status" field.
type ValidationStatus int

const (
	// StatusValid means the entry is served as found: either it conforms
	// to the current schema, or the degradation handler accepted a
	// validation problem outright. Accepted problems are recorded in the
	// outcome notes.
	StatusValid ValidationStatus = iota
	// StatusMigrated means the entry was transformed from a legacy schema
	// and the result validates cleanly.
	StatusMigrated
	// StatusDegraded means the entry is usable but imperfect: validation
	// found a non-critical problem, or a referenced entry is missing, and
	// the degradation policy chose to keep the entry.
	StatusDegraded
	// StatusFailed means the entry could not be healed into a usable form.
	StatusFailed
)

var statusNames = map[ValidationStatus]string{
	StatusValid:    "Valid",
	StatusMigrated: "Migrated",
	StatusDegraded: "Degraded",
	StatusFailed:   "Failed",
}

func (s ValidationStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsUsable reports whether an entry with this status can be served to
// callers. Degraded entries are usable; failed entries are not.
func (s ValidationStatus) IsUsable() bool {
	return s == StatusValid || s == StatusMigrated || s == StatusDegraded
}

// NeedsHealing reports whether a follow-up healing pass could improve the
// entry. Valid and Migrated entries are final.
func (s ValidationStatus) NeedsHealing() bool {
	return s == StatusDegraded || s == StatusFailed
}

// MarshalJSON encodes the status as its string form.
func (s ValidationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the string form.
func (s *ValidationStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	status, ok := ParseStatus(name)
	if !ok {
		return errors.Newf("unknown validation status %q", name)
	}
	*s = status
	return nil
}

// ParseStatus maps the embedded string form back to a ValidationStatus.
// Unrecognized strings come back as StatusFailed with ok=false.
func ParseStatus(name string) (ValidationStatus, bool) {
	for status, n := range statusNames {
		if n == name {
			return status, true
		}
	}
	return StatusFailed, false
}

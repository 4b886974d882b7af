package providers

import (
	"encoding/json"

	"github.com/solenne/mend/errors"
)

// SchemaVersion is the current schema version all validators expect and all
// transformers produce.
const SchemaVersion = 2

// Built-in entry type names.
const (
	EntryTypeContent      = "content"
	EntryTypeLearningPath = "learning_path"
	EntryTypePathStep     = "path_step"
	EntryTypeMastery      = "content_mastery"
)

// requireString extracts a non-empty string field or reports which field of
// which entity is broken.
func requireString(data map[string]any, entity, key string) (string, error) {
	v, ok := data[key]
	if !ok {
		return "", errors.Newf("%s %s is required", entity, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Newf("%s %s must be a string", entity, key)
	}
	if s == "" {
		return "", errors.Newf("%s %s cannot be empty", entity, key)
	}
	return s, nil
}

// stringOr returns the string under key, or def when absent or not a string.
func stringOr(data map[string]any, key, def string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return def
}

// stringsOf collects the string elements of an array field. Non-string
// elements are skipped, matching lenient legacy decoding.
func stringsOf(data map[string]any, key string) []string {
	arr, ok := data[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// numberOr returns the numeric value under key, or def. JSON decoding into
// map[string]any yields float64, but transformed maps may carry int.
func numberOr(data map[string]any, key string, def float64) float64 {
	switch n := data[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return def
}

// checkSchemaVersion enforces the current schema version tag.
func checkSchemaVersion(data map[string]any) error {
	version := numberOr(data, "schema_version", 0)
	if version != SchemaVersion {
		return errors.Newf("expected schema_version %d, got %v", SchemaVersion, version)
	}
	return nil
}

// oneOf validates a value against a closed vocabulary.
func oneOf(entity, key, value string, vocab []string) error {
	for _, v := range vocab {
		if value == v {
			return nil
		}
	}
	return errors.Newf("invalid %s %s %q, must be one of %v", entity, key, value, vocab)
}

package heal

import (
	"context"
	"encoding/json"

	"github.com/solenne/mend/errors"
)

// StrategyResult is the raw material a strategy hands to the orchestrator:
// the best candidate entry it could produce, where it came from, and what is
// still wrong with it. Strategies never decide degradation; they report and
// the orchestrator judges.
type StrategyResult struct {
	// Data is the candidate entry. Nil only for passthrough results.
	Data map[string]any
	// Raw is set for passthrough results, which carry the caller's bytes
	// through untouched.
	Raw json.RawMessage
	// LegacySourced reports whether Data came through the bridge.
	LegacySourced bool
	// Passthrough marks a NoHealing result.
	Passthrough bool
	// ValidationErr is the current-schema validation error for Data, or nil
	// when the candidate validates cleanly.
	ValidationErr error
	// Attempts counts the source attempts made (bridge plus local).
	Attempts int
	// Notes records what the strategy tried, for signals and outcomes.
	Notes []string
}

// Strategy decides in which order healing sources are tried for one entry.
// A (nil, nil) return means no entry exists under this id in any reachable
// source. Implementations are stateless and safe for concurrent use.
type Strategy interface {
	// Heal produces the best candidate for the entry, or nil when no source
	// has data. current holds whatever the caller found in the
	// current-schema store, nil when nothing was found there.
	Heal(ctx context.Context, entryType, id string, current json.RawMessage, hc *Context) (*StrategyResult, error)
	// Name returns the configuration name of the strategy.
	Name() string
	// Description returns a one-line human summary.
	Description() string
}

// Strategy configuration names.
const (
	StrategyBridgeFirst     = "bridge-first"
	StrategySelfRepairFirst = "self-repair-first"
	StrategyLocalRepairOnly = "local-repair-only"
	StrategyNoHealing       = "no-healing"
)

// ParseStrategy maps a configuration name to a strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyBridgeFirst:
		return BridgeFirst{}, nil
	case StrategySelfRepairFirst:
		return SelfRepairFirst{}, nil
	case StrategyLocalRepairOnly:
		return LocalRepairOnly{}, nil
	case StrategyNoHealing:
		return NoHealing{}, nil
	}
	return nil, errors.Newf("unknown healing strategy %q (valid: %s, %s, %s, %s)",
		name, StrategyBridgeFirst, StrategySelfRepairFirst, StrategyLocalRepairOnly, StrategyNoHealing)
}

// bridgeAttempt makes one bounded bridge call and, on data, transforms and
// validates it into res. Returns done=true when res now carries a candidate.
// Bridge unavailability and timeouts are soft: the attempt is noted and the
// strategy falls through to its next source. Other bridge errors are hard.
func bridgeAttempt(ctx context.Context, entryType, id string, hc *Context, res *StrategyResult) (bool, error) {
	res.Attempts++
	if res.Attempts > hc.MaxAttempts {
		return false, errors.Wrapf(errors.ErrMaxAttemptsExceeded, "%s/%s after %d attempts", entryType, id, hc.MaxAttempts)
	}

	bctx, cancel := context.WithTimeout(ctx, hc.BridgeTimeout)
	raw, err := hc.Bridge(bctx, entryType, id)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if errors.IsBridgeUnavailable(err) || errors.Is(err, context.DeadlineExceeded) {
			res.Notes = append(res.Notes, "bridge unavailable: "+err.Error())
			return false, nil
		}
		return false, errors.Wrapf(errors.ErrBridge, "bridge call for %s/%s: %v", entryType, id, err)
	}
	if raw == nil {
		res.Notes = append(res.Notes, "no legacy entry")
		return false, nil
	}

	var legacy map[string]any
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return false, errors.Wrapf(errors.ErrBridge, "decoding legacy %s/%s: %v", entryType, id, err)
	}

	transformed, err := hc.Transformer.TransformLegacy(legacy)
	if err != nil {
		if !hc.AllowDegradation {
			return false, errors.WrapTransformation(err, entryType)
		}
		res.Notes = append(res.Notes, "legacy transform failed: "+err.Error())
		return false, nil
	}

	res.Data = transformed
	res.LegacySourced = true
	res.ValidationErr = hc.Validator.Validate(transformed)
	res.Notes = append(res.Notes, "migrated from legacy schema")
	return true, nil
}

// localAttempt decodes and validates the caller's current-schema bytes into
// res. Returns done=true when res now carries a candidate. Undecodable
// bytes are noted and skipped.
func localAttempt(entryType, id string, current json.RawMessage, hc *Context, res *StrategyResult) (bool, error) {
	if current == nil {
		return false, nil
	}

	res.Attempts++
	if res.Attempts > hc.MaxAttempts {
		return false, errors.Wrapf(errors.ErrMaxAttemptsExceeded, "%s/%s after %d attempts", entryType, id, hc.MaxAttempts)
	}

	var data map[string]any
	if err := json.Unmarshal(current, &data); err != nil {
		res.Notes = append(res.Notes, "local entry undecodable: "+err.Error())
		return false, nil
	}

	res.Data = data
	res.LegacySourced = false
	res.ValidationErr = hc.Validator.Validate(data)
	return true, nil
}

// BridgeFirst tries the legacy bridge before local repair. This is the
// default: during a migration window the legacy side is the authority, so
// its data wins when both sources have the entry.
type BridgeFirst struct{}

func (BridgeFirst) Name() string { return StrategyBridgeFirst }

func (BridgeFirst) Description() string {
	return "legacy bridge first, local repair as fallback"
}

func (BridgeFirst) Heal(ctx context.Context, entryType, id string, current json.RawMessage, hc *Context) (*StrategyResult, error) {
	res := &StrategyResult{}
	if hc.Bridge != nil {
		done, err := bridgeAttempt(ctx, entryType, id, hc, res)
		if err != nil {
			return nil, err
		}
		if done {
			return res, nil
		}
	}

	done, err := localAttempt(entryType, id, current, hc, res)
	if err != nil {
		return nil, err
	}
	if done {
		return res, nil
	}
	return nil, nil
}

// SelfRepairFirst prefers local repair and only reaches for the bridge when
// the local entry is absent or invalid. Cheaper once most traffic is on the
// current schema.
type SelfRepairFirst struct{}

func (SelfRepairFirst) Name() string { return StrategySelfRepairFirst }

func (SelfRepairFirst) Description() string {
	return "local repair first, legacy bridge as fallback"
}

func (SelfRepairFirst) Heal(ctx context.Context, entryType, id string, current json.RawMessage, hc *Context) (*StrategyResult, error) {
	res := &StrategyResult{}
	localDone, err := localAttempt(entryType, id, current, hc, res)
	if err != nil {
		return nil, err
	}
	if localDone && res.ValidationErr == nil {
		return res, nil
	}

	if hc.Bridge != nil {
		bridgeDone, err := bridgeAttempt(ctx, entryType, id, hc, res)
		if err != nil {
			return nil, err
		}
		if bridgeDone {
			return res, nil
		}
	}

	// Keep the invalid local candidate; the degradation policy judges it.
	if localDone {
		return res, nil
	}
	return nil, nil
}

// LocalRepairOnly never touches the bridge. For deployments where the
// legacy version is gone or cross-version calls are forbidden.
type LocalRepairOnly struct{}

func (LocalRepairOnly) Name() string { return StrategyLocalRepairOnly }

func (LocalRepairOnly) Description() string {
	return "local repair only, never calls the legacy bridge"
}

func (LocalRepairOnly) Heal(ctx context.Context, entryType, id string, current json.RawMessage, hc *Context) (*StrategyResult, error) {
	res := &StrategyResult{}
	done, err := localAttempt(entryType, id, current, hc, res)
	if err != nil {
		return nil, err
	}
	if done {
		return res, nil
	}
	return nil, nil
}

// NoHealing passes the caller's bytes through untouched. An escape hatch
// for debugging and for readers that must see raw stored data.
type NoHealing struct{}

func (NoHealing) Name() string { return StrategyNoHealing }

func (NoHealing) Description() string {
	return "no healing, entries pass through unmodified"
}

func (NoHealing) Heal(_ context.Context, _, _ string, current json.RawMessage, _ *Context) (*StrategyResult, error) {
	if current == nil {
		return nil, nil
	}
	return &StrategyResult{Raw: current, Passthrough: true}, nil
}

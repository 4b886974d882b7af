package providers

import (
	"github.com/solenne/mend/config"
	"github.com/solenne/mend/errors"
	"github.com/solenne/mend/heal"
)

// Policy is a per-entry-type degradation policy: what to do when validation
// fails and when a reference is missing. The orchestrator's global
// AllowDegradation gate still applies on top.
type Policy struct {
	OnValidationFailure heal.Decision
	OnMissingReference  heal.Decision
}

// DefaultPolicy degrades on both failure classes, which keeps entries
// servable while marking them for follow-up.
var DefaultPolicy = Policy{
	OnValidationFailure: heal.DecisionDegrade,
	OnMissingReference:  heal.DecisionDegrade,
}

// ParseDecision maps a configuration string to a Decision.
func ParseDecision(name string) (heal.Decision, error) {
	switch name {
	case "accept":
		return heal.DecisionAccept, nil
	case "degrade":
		return heal.DecisionDegrade, nil
	case "fail":
		return heal.DecisionFail, nil
	}
	return heal.DecisionFail, errors.Newf("unknown degradation decision %q (valid: accept, degrade, fail)", name)
}

// PolicyFromConfig translates one configured policy. Empty fields keep the
// default decision.
func PolicyFromConfig(pc config.PolicyConfig) (Policy, error) {
	p := DefaultPolicy
	if pc.OnValidationFailure != "" {
		d, err := ParseDecision(pc.OnValidationFailure)
		if err != nil {
			return Policy{}, errors.Wrap(err, "on_validation_failure")
		}
		p.OnValidationFailure = d
	}
	if pc.OnMissingReference != "" {
		d, err := ParseDecision(pc.OnMissingReference)
		if err != nil {
			return Policy{}, errors.Wrap(err, "on_missing_reference")
		}
		p.OnMissingReference = d
	}
	return p, nil
}

// PoliciesFromConfig translates the configured per-type policy map, keyed
// by entry type.
func PoliciesFromConfig(cfg map[string]config.PolicyConfig) (map[string]Policy, error) {
	out := make(map[string]Policy, len(cfg))
	for entryType, pc := range cfg {
		p, err := PolicyFromConfig(pc)
		if err != nil {
			return nil, errors.Wrapf(err, "policy for %s", entryType)
		}
		out[entryType] = p
	}
	return out, nil
}

// Handler adapts the policy to the heal.DegradationHandler contract.
func (p Policy) Handler() heal.DegradationHandler {
	return policyHandler{policy: p}
}

type policyHandler struct {
	policy Policy
}

func (h policyHandler) OnValidationFailure(string, error, bool) heal.Decision {
	return h.policy.OnValidationFailure
}

func (h policyHandler) OnMissingReference(string, heal.Reference) heal.Decision {
	return h.policy.OnMissingReference
}

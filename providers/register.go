package providers

import (
	"github.com/solenne/mend/errors"
	"github.com/solenne/mend/heal"
)

// RegisterAll registers the built-in providers into a registry. policies is
// keyed by entry type; types without an entry get DefaultPolicy. A nil
// store accepts every reference.
func RegisterAll(registry *heal.Registry, store Store, policies map[string]Policy) error {
	policyFor := func(entryType string) Policy {
		if p, ok := policies[entryType]; ok {
			return p
		}
		return DefaultPolicy
	}

	all := []heal.Provider{
		NewContent(store, policyFor(EntryTypeContent)),
		NewLearningPath(store, policyFor(EntryTypeLearningPath)),
		NewPathStep(store, policyFor(EntryTypePathStep)),
		NewMastery(store, policyFor(EntryTypeMastery)),
	}
	for _, p := range all {
		if err := registry.Register(p); err != nil {
			return errors.Wrapf(err, "registering %s provider", p.EntryType())
		}
	}
	return nil
}

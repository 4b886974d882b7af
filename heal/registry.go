package heal

import (
	"sort"
	"sync"

	"github.com/solenne/mend/errors"
)

// Registry manages all entry type providers. Providers are registered during
// process initialization and looked up on every healing call; registration
// is write-once, so a duplicate entry type is rejected rather than replaced.
//
// There is deliberately no package-level default registry: callers construct
// one and pass it to the orchestrator, which keeps tests and embedded uses
// isolated from each other.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register registers a provider for its entry type.
// Returns an error if the entry type is empty or already registered.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return errors.New("nil provider")
	}
	entryType := p.EntryType()
	if entryType == "" {
		return errors.New("provider has empty entry type")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[entryType]; exists {
		return errors.Newf("provider already registered: %s", entryType)
	}

	r.providers[entryType] = p
	return nil
}

// Get retrieves the provider for an entry type.
func (r *Registry) Get(entryType string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[entryType]
	return p, ok
}

// Has reports whether a provider is registered for an entry type.
func (r *Registry) Has(entryType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[entryType]
	return ok
}

// List returns all registered entry types in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.providers))
	for entryType := range r.providers {
		types = append(types, entryType)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

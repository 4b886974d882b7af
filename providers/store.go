package providers

import (
	"context"
	"sync"

	"github.com/solenne/mend/heal"
)

// Store answers existence queries for entries, keyed by entry type and id.
// Reference resolvers consult it; healing never writes through it.
type Store interface {
	Exists(ctx context.Context, entryType, id string) (bool, error)
}

// MemoryStore is a mutex-guarded in-memory Store. Used in tests and in
// deployments small enough to preload the full id set.
type MemoryStore struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ids: make(map[string]struct{})}
}

// Add records that an entry exists.
func (s *MemoryStore) Add(entryType, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[entryType+"/"+id] = struct{}{}
}

func (s *MemoryStore) Exists(_ context.Context, entryType, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[entryType+"/"+id]
	return ok, nil
}

// storeResolver implements heal.ReferenceResolver over a Store with a
// per-entry-type reference extraction func. A nil Store accepts every
// reference, for deployments without an existence index.
type storeResolver struct {
	store Store
	refs  func(map[string]any) []heal.Reference
}

func (r *storeResolver) References(data map[string]any) []heal.Reference {
	if r.refs == nil {
		return nil
	}
	return r.refs(data)
}

func (r *storeResolver) Resolve(ctx context.Context, ref heal.Reference) (bool, error) {
	if r.store == nil {
		return true, nil
	}
	return r.store.Exists(ctx, ref.EntryType, ref.ID)
}

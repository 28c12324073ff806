package vectorstore

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store. It backs tests and dry runs.
type MemoryStore struct {
	// UpsertFunc, if set, replaces the default behavior of Upsert.
	UpsertFunc func(ctx context.Context, records []Record) ([]string, error)

	mu      sync.Mutex
	records map[string]Record
	calls   int
	closed  bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Upsert stores records keyed by ID and acknowledges every one of them.
func (m *MemoryStore) Upsert(ctx context.Context, records []Record) ([]string, error) {
	m.mu.Lock()
	m.calls++
	fn := m.UpsertFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, records)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(records))
	for _, r := range records {
		r.Metadata = maps.Clone(r.Metadata)
		m.records[r.ID] = r
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// Get returns the record stored under id.
func (m *MemoryStore) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	return r, ok
}

// IDs returns the stored ids in sorted order.
func (m *MemoryStore) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.records))
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Calls returns how many times Upsert was invoked.
func (m *MemoryStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close was called.
func (m *MemoryStore) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the store closed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

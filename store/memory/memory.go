package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/smallnest/fbpgraph/store"
)

// MemoryDocumentStore keeps records in process memory
type MemoryDocumentStore struct {
	mu      sync.RWMutex
	records map[string]*store.Record
}

// NewMemoryDocumentStore creates an empty in-memory store
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{records: make(map[string]*store.Record)}
}

func clone(r *store.Record) *store.Record {
	c := *r
	c.Metadata = maps.Clone(r.Metadata)
	return &c
}

// Save stores a record
func (m *MemoryDocumentStore) Save(_ context.Context, record *store.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = clone(record)
	return nil
}

// Load retrieves a record by ID
func (m *MemoryDocumentStore) Load(_ context.Context, id string) (*store.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok {
		return nil, store.NotFound(id)
	}
	return clone(r), nil
}

// List returns the records of a graph ordered by version
func (m *MemoryDocumentStore) List(_ context.Context, name string) ([]*store.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*store.Record, 0)
	for _, r := range m.records {
		if r.Name == name {
			out = append(out, clone(r))
		}
	}
	store.SortByVersion(out)
	return out, nil
}

// Delete removes a record
func (m *MemoryDocumentStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// Clear removes every record of a graph
func (m *MemoryDocumentStore) Clear(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.DeleteFunc(m.records, func(_ string, r *store.Record) bool {
		return r.Name == name
	})
	return nil
}

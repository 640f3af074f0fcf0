package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/roverlab/mapmem/internal/graph"
)

// MemoryStore is an in-memory SignatureStore for tests and ephemeral runs.
// It stores snapshots, so a loaded signature never aliases the stored one.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[int]*graph.SignatureSnapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[int]*graph.SignatureSnapshot)}
}

// Open implements SignatureStore. The path is ignored.
func (m *MemoryStore) Open(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snaps == nil {
		m.snaps = make(map[int]*graph.SignatureSnapshot)
	}
	return nil
}

// Close implements SignatureStore.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps = nil
	return nil
}

// Put implements SignatureStore.
func (m *MemoryStore) Put(ctx context.Context, sig *graph.Signature) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[sig.ID()] = sig.Snapshot()
	return nil
}

// Get implements SignatureStore.
func (m *MemoryStore) Get(ctx context.Context, id int) (*graph.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return graph.FromSnapshot(snap), nil
}

// Delete implements SignatureStore.
func (m *MemoryStore) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, id)
	return nil
}

// IDs implements SignatureStore.
func (m *MemoryStore) IDs(ctx context.Context) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int, 0, len(m.snaps))
	for id := range m.snaps {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// Count implements SignatureStore.
func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snaps), nil
}

// Package memory provides the working memory: the graph manager that owns
// the signatures currently resident in RAM and drives all node mutation.
//
// It is the single writer the node API expects — every graph-wide event
// (id merges, vocabulary word merges, persistence sweeps) fans out to the
// resident nodes from here, under one lock.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/roverlab/mapmem/internal/graph"
	"github.com/roverlab/mapmem/internal/metrics"
	"github.com/roverlab/mapmem/internal/storage"
)

// WorkingMemory holds the resident portion of the pose graph.
type WorkingMemory struct {
	mu         sync.RWMutex
	signatures map[int]*graph.Signature
	matcher    graph.FeatureMatcher
}

// New creates an empty working memory using the given matcher for
// similarity queries.
func New(matcher graph.FeatureMatcher) *WorkingMemory {
	return &WorkingMemory{
		signatures: make(map[int]*graph.Signature),
		matcher:    matcher,
	}
}

// Add makes a signature resident, replacing any node with the same id.
func (w *WorkingMemory) Add(sig *graph.Signature) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.signatures[sig.ID()]; !ok {
		metrics.SignaturesResident.Inc()
	}
	w.signatures[sig.ID()] = sig
}

// Get returns the resident signature with the given id, or nil.
func (w *WorkingMemory) Get(id int) *graph.Signature {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.signatures[id]
}

// Remove evicts the signature with the given id. Returns true if it was
// resident.
func (w *WorkingMemory) Remove(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.signatures[id]; !ok {
		return false
	}
	delete(w.signatures, id)
	metrics.SignaturesResident.Dec()
	return true
}

// Count returns the number of resident signatures.
func (w *WorkingMemory) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.signatures)
}

// IDs returns the resident signature ids in ascending order.
func (w *WorkingMemory) IDs() []int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]int, 0, len(w.signatures))
	for id := range w.signatures {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// MergeIDs folds the node oldID into newID: every resident node's
// references to oldID are re-keyed to newID, oldID's own links are
// transferred to the surviving node, and oldID is evicted. The surviving
// node's id field is untouched — merging is purely a re-keying of the
// referencing maps.
func (w *WorkingMemory) MergeIDs(oldID, newID int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	old, ok := w.signatures[oldID]
	if !ok {
		return fmt.Errorf("memory: merge source %d not resident", oldID)
	}
	survivor, ok := w.signatures[newID]
	if !ok {
		return fmt.Errorf("memory: merge target %d not resident", newID)
	}

	for _, sig := range w.signatures {
		if sig == old {
			continue
		}
		if sig == survivor {
			// A link to the old node would become a self-loop; drop it.
			sig.RemoveNeighbor(oldID)
			sig.RemoveLoopClosureID(oldID)
			sig.RemoveChildLoopClosureID(oldID)
			continue
		}
		sig.ChangeNeighborID(oldID, newID)
		sig.ChangeLoopClosureID(oldID, newID)
	}

	for id, t := range old.Neighbors() {
		if id != newID {
			survivor.AddNeighbor(id, t)
		}
	}
	for id, t := range old.LoopClosureIDs() {
		if id != newID {
			survivor.AddLoopClosureID(id, t)
		}
	}
	for id, t := range old.ChildLoopClosureIDs() {
		if id != newID {
			survivor.AddChildLoopClosureID(id, t)
		}
	}

	delete(w.signatures, oldID)
	metrics.SignaturesResident.Dec()
	return nil
}

// RemapWord propagates a vocabulary word merge to every resident node and
// returns how many nodes actually held the old word id.
func (w *WorkingMemory) RemapWord(oldWordID, newWordID int) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := 0
	for _, sig := range w.signatures {
		if sig.ChangeWordRef(oldWordID, newWordID) {
			changed++
			metrics.WordRemapsTotal.Inc()
		}
	}
	return changed
}

// Compare scores the similarity of two resident nodes in [0, 1].
func (w *WorkingMemory) Compare(aID, bID int) (float64, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.signatures[aID]
	if !ok {
		return 0, fmt.Errorf("memory: signature %d not resident", aID)
	}
	b, ok := w.signatures[bID]
	if !ok {
		return 0, fmt.Errorf("memory: signature %d not resident", bID)
	}
	metrics.ComparisonsTotal.Inc()
	return a.CompareTo(b, w.matcher), nil
}

// PersistDirty writes every modified resident node to the store and marks
// each successfully written node persisted. Returns the number written.
func (w *WorkingMemory) PersistDirty(ctx context.Context, store storage.SignatureStore) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	written := 0
	for _, id := range w.sortedIDsLocked() {
		sig := w.signatures[id]
		if !sig.Modified() && !sig.NeighborsModified() {
			continue
		}
		if err := store.Put(ctx, sig); err != nil {
			return written, fmt.Errorf("persisting signature %d: %w", id, err)
		}
		sig.MarkPersisted()
		written++
		metrics.PersistedTotal.Inc()
	}
	return written, nil
}

func (w *WorkingMemory) sortedIDsLocked() []int {
	ids := make([]int, 0, len(w.signatures))
	for id := range w.signatures {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

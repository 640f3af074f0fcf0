package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roverlab/mapmem/internal/graph"
	"github.com/roverlab/mapmem/internal/match"
	"github.com/roverlab/mapmem/internal/storage"
)

func newSig(id int, wordIDs ...int) *graph.Signature {
	words := graph.NewWordTable()
	for _, w := range wordIDs {
		words.Add(w, graph.WordRef{KP: graph.KeyPoint{X: float32(w), Y: float32(w)}})
	}
	return graph.NewSignature(id, 0, words, graph.Identity(),
		nil, nil, nil, 0, 0, 0, 0, graph.Identity())
}

func TestWorkingMemory_AddGetRemove(t *testing.T) {
	t.Parallel()

	wm := New(match.UniqueWordMatcher{})
	assert.Equal(t, 0, wm.Count())
	assert.Nil(t, wm.Get(1))

	wm.Add(newSig(1))
	wm.Add(newSig(3))
	wm.Add(newSig(2))

	assert.Equal(t, 3, wm.Count())
	assert.Equal(t, []int{1, 2, 3}, wm.IDs())
	require.NotNil(t, wm.Get(2))
	assert.Equal(t, 2, wm.Get(2).ID())

	assert.True(t, wm.Remove(2))
	assert.False(t, wm.Remove(2))
	assert.Equal(t, 2, wm.Count())
}

func TestWorkingMemory_MergeIDs(t *testing.T) {
	t.Parallel()

	t.Run("RewiresReferences", func(t *testing.T) {
		t.Parallel()
		wm := New(match.UniqueWordMatcher{})

		old := newSig(5)
		survivor := newSig(6)
		watcher := newSig(7)
		watcher.AddNeighbor(5, graph.NewTransform(1, 0, 0, 0, 0, 0, 1))
		watcher.AddLoopClosureID(5, graph.Identity())

		wm.Add(old)
		wm.Add(survivor)
		wm.Add(watcher)

		require.NoError(t, wm.MergeIDs(5, 6))

		assert.Nil(t, wm.Get(5))
		assert.Equal(t, 2, wm.Count())
		assert.True(t, watcher.HasNeighbor(6))
		assert.False(t, watcher.HasNeighbor(5))
		_, hasLC := watcher.LoopClosureIDs()[6]
		assert.True(t, hasLC)
	})

	t.Run("TransfersLinksToSurvivor", func(t *testing.T) {
		t.Parallel()
		wm := New(match.UniqueWordMatcher{})

		old := newSig(5)
		old.AddNeighbor(4, graph.NewTransform(0.5, 0, 0, 0, 0, 0, 1))
		old.AddNeighbor(6, graph.Identity()) // link to the survivor itself: dropped
		old.AddLoopClosureID(12, graph.Identity())
		old.AddChildLoopClosureID(13, graph.Identity())
		survivor := newSig(6)

		wm.Add(old)
		wm.Add(survivor)

		require.NoError(t, wm.MergeIDs(5, 6))

		assert.True(t, survivor.HasNeighbor(4))
		assert.False(t, survivor.HasNeighbor(6), "no self-loop after merge")
		_, ok := survivor.LoopClosureIDs()[12]
		assert.True(t, ok)
		_, ok = survivor.ChildLoopClosureIDs()[13]
		assert.True(t, ok)
	})

	t.Run("SurvivorSelfReferenceDropped", func(t *testing.T) {
		t.Parallel()
		wm := New(match.UniqueWordMatcher{})

		old := newSig(5)
		survivor := newSig(6)
		survivor.AddNeighbor(5, graph.Identity())
		survivor.AddLoopClosureID(5, graph.Identity())

		wm.Add(old)
		wm.Add(survivor)

		require.NoError(t, wm.MergeIDs(5, 6))

		assert.False(t, survivor.HasNeighbor(5))
		assert.False(t, survivor.HasNeighbor(6))
		assert.Empty(t, survivor.LoopClosureIDs())
	})

	t.Run("MissingNodesError", func(t *testing.T) {
		t.Parallel()
		wm := New(match.UniqueWordMatcher{})
		wm.Add(newSig(1))

		assert.Error(t, wm.MergeIDs(99, 1))
		assert.Error(t, wm.MergeIDs(1, 99))
	})
}

func TestWorkingMemory_RemapWord(t *testing.T) {
	t.Parallel()

	wm := New(match.UniqueWordMatcher{})
	wm.Add(newSig(1, 10, 11))
	wm.Add(newSig(2, 10))
	wm.Add(newSig(3, 11))

	changed := wm.RemapWord(10, 20)
	assert.Equal(t, 2, changed)

	assert.Len(t, wm.Get(1).Words().Get(20), 1)
	assert.Empty(t, wm.Get(1).Words().Get(10))
	assert.Len(t, wm.Get(2).Words().Get(20), 1)
	assert.Empty(t, wm.Get(3).Words().Get(20))

	// second remap of the same id finds nothing
	assert.Equal(t, 0, wm.RemapWord(10, 20))
}

func TestWorkingMemory_Compare(t *testing.T) {
	t.Parallel()

	wm := New(match.UniqueWordMatcher{})
	wm.Add(newSig(1, 1, 2))
	wm.Add(newSig(2, 1, 2, 3))
	wm.Add(newSig(3))

	score, err := wm.Compare(1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, score, 1e-9)

	score, err = wm.Compare(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	_, err = wm.Compare(1, 99)
	assert.Error(t, err)
}

func TestWorkingMemory_PersistDirty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	wm := New(match.UniqueWordMatcher{})
	store := storage.NewMemoryStore()
	require.NoError(t, store.Open(""))
	defer store.Close()

	a := newSig(1, 1)
	b := newSig(2, 2)
	wm.Add(a)
	wm.Add(b)

	// first sweep writes everything (fresh nodes start dirty)
	written, err := wm.PersistDirty(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.True(t, a.Saved())
	assert.False(t, a.Modified())
	assert.False(t, a.NeighborsModified())

	// nothing dirty: second sweep writes nothing
	written, err = wm.PersistDirty(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 0, written)

	// a relation change dirties exactly one node
	b.AddNeighbor(1, graph.Identity())
	written, err = wm.PersistDirty(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	got, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.True(t, got.HasNeighbor(1))
}

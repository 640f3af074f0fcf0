package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roverlab/mapmem/internal/graph"
)

func kp(x, y float32) graph.KeyPoint {
	return graph.KeyPoint{X: x, Y: y}
}

func TestUniqueWordMatcher_PairsSharedUniqueWords(t *testing.T) {
	t.Parallel()

	a := graph.NewWordTable()
	a.Add(1, graph.WordRef{KP: kp(10, 10)})
	a.Add(2, graph.WordRef{KP: kp(20, 20)})
	a.Add(4, graph.WordRef{KP: kp(40, 40)})

	b := graph.NewWordTable()
	b.Add(1, graph.WordRef{KP: kp(11, 11)})
	b.Add(2, graph.WordRef{KP: kp(21, 21)})
	b.Add(3, graph.WordRef{KP: kp(30, 30)})

	pairs := UniqueWordMatcher{}.Match(a, b)

	require.Len(t, pairs, 2)
	assert.Equal(t, 1, pairs[0].WordID)
	assert.Equal(t, kp(10, 10), pairs[0].A)
	assert.Equal(t, kp(11, 11), pairs[0].B)
	assert.Equal(t, 2, pairs[1].WordID)
}

func TestUniqueWordMatcher_SkipsAmbiguousWords(t *testing.T) {
	t.Parallel()

	t.Run("DuplicateOnLeft", func(t *testing.T) {
		t.Parallel()
		a := graph.NewWordTable()
		a.Add(1, graph.WordRef{KP: kp(1, 1)})
		a.Add(1, graph.WordRef{KP: kp(2, 2)})
		b := graph.NewWordTable()
		b.Add(1, graph.WordRef{KP: kp(3, 3)})

		assert.Empty(t, UniqueWordMatcher{}.Match(a, b))
	})

	t.Run("DuplicateOnRight", func(t *testing.T) {
		t.Parallel()
		a := graph.NewWordTable()
		a.Add(1, graph.WordRef{KP: kp(1, 1)})
		b := graph.NewWordTable()
		b.Add(1, graph.WordRef{KP: kp(3, 3)})
		b.Add(1, graph.WordRef{KP: kp(4, 4)})

		assert.Empty(t, UniqueWordMatcher{}.Match(a, b))
	})
}

func TestUniqueWordMatcher_DisjointWords(t *testing.T) {
	t.Parallel()

	a := graph.NewWordTable()
	a.Add(1, graph.WordRef{KP: kp(1, 1)})
	b := graph.NewWordTable()
	b.Add(2, graph.WordRef{KP: kp(2, 2)})

	assert.Empty(t, UniqueWordMatcher{}.Match(a, b))
}

func TestUniqueWordMatcher_EmptyInputs(t *testing.T) {
	t.Parallel()

	a := graph.NewWordTable()
	b := graph.NewWordTable()
	b.Add(1, graph.WordRef{KP: kp(1, 1)})

	assert.Empty(t, UniqueWordMatcher{}.Match(a, b))
	assert.Empty(t, UniqueWordMatcher{}.Match(b, a))
	assert.Empty(t, UniqueWordMatcher{}.Match(nil, b))
}

func TestUniqueWordMatcher_OutputSortedByWordID(t *testing.T) {
	t.Parallel()

	a := graph.NewWordTable()
	b := graph.NewWordTable()
	for _, id := range []int{50, 10, 30, 20, 40} {
		a.Add(id, graph.WordRef{KP: kp(float32(id), 0)})
		b.Add(id, graph.WordRef{KP: kp(float32(id), 1)})
	}

	pairs := UniqueWordMatcher{}.Match(a, b)
	require.Len(t, pairs, 5)
	for i := 1; i < len(pairs); i++ {
		assert.Less(t, pairs[i-1].WordID, pairs[i].WordID)
	}
}

func TestUniqueWordMatcher_ExactCopyMatchesEverything(t *testing.T) {
	t.Parallel()

	a := graph.NewWordTable()
	for id := 1; id <= 10; id++ {
		a.Add(id, graph.WordRef{KP: kp(float32(id), float32(id))})
	}
	b := a.Clone()

	pairs := UniqueWordMatcher{}.Match(a, b)
	assert.Len(t, pairs, 10)
}

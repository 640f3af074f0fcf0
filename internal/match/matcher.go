// Package match provides feature-correspondence matchers between the word
// tables of two map nodes.
//
// The geometric verification stage (epipolar consistency) lives outside
// this repository; matchers here only decide which word-id observations
// are candidates for a one-to-one pairing.
package match

import "github.com/roverlab/mapmem/internal/graph"

// UniqueWordMatcher pairs the word ids that occur exactly once in BOTH
// tables. Word ids with multiple observations on either side are ambiguous
// without geometry and are skipped, which makes the output a strict
// one-to-one pairing by construction. Pairs come out in ascending word-id
// order.
type UniqueWordMatcher struct{}

// Match implements graph.FeatureMatcher.
func (UniqueWordMatcher) Match(a, b *graph.WordTable) []graph.Pair {
	if a == nil || b == nil || a.Empty() || b.Empty() {
		return nil
	}
	var pairs []graph.Pair
	a.Scan(func(id int, refs []graph.WordRef) bool {
		if len(refs) != 1 {
			return true
		}
		other := b.Get(id)
		if len(other) != 1 {
			return true
		}
		pairs = append(pairs, graph.Pair{WordID: id, A: refs[0].KP, B: other[0].KP})
		return true
	})
	return pairs
}

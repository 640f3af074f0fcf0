package graph

import "fmt"

// Signature is one map node: a single sensor acquisition with its pose,
// visual-word observations, raw sensor buffers, and links to other nodes.
//
// The id is fixed at construction and never mutated; graph-wide id merges
// re-key the maps of nodes that reference it, never the field itself.
// Signatures are not internally synchronized — the owning graph manager
// serializes mutating access.
type Signature struct {
	id    int
	mapID int

	weight int
	pose   Transform

	words        *WordTable
	wordsChanged map[int]int // old word id -> new word id, remap audit trail

	neighbors           map[int]Transform
	loopClosureIDs      map[int]Transform
	childLoopClosureIDs map[int]Transform

	image   []byte
	depth   []byte
	depth2D []byte

	fx, fy, cx, cy float32

	localTransform Transform

	saved             bool
	modified          bool
	neighborsModified bool
	enabled           bool
}

// NewSignature builds a fully initialized node. Ownership of words and all
// buffers passes to the node. Weight starts at 0; the node starts modified
// and not yet saved, with empty relation maps.
//
// Panics if depth is non-empty and the intrinsics are invalid (same
// precondition as SetDepth).
func NewSignature(
	id, mapID int,
	words *WordTable,
	pose Transform,
	depth2D, image, depth []byte,
	fx, fy, cx, cy float32,
	localTransform Transform,
) *Signature {
	assertDepthIntrinsics(depth, fx, fy, cx, cy)
	if words == nil {
		words = NewWordTable()
	}
	return &Signature{
		id:                  id,
		mapID:               mapID,
		words:               words,
		wordsChanged:        make(map[int]int),
		pose:                pose,
		depth2D:             depth2D,
		image:               image,
		depth:               depth,
		fx:                  fx,
		fy:                  fy,
		cx:                  cx,
		cy:                  cy,
		localTransform:      localTransform,
		neighbors:           make(map[int]Transform),
		loopClosureIDs:      make(map[int]Transform),
		childLoopClosureIDs: make(map[int]Transform),
		modified:            true,
		neighborsModified:   true,
	}
}

func assertDepthIntrinsics(depth []byte, fx, fy, cx, cy float32) {
	if len(depth) > 0 && !(fx > 0 && fy > 0 && cx >= 0 && cy >= 0) {
		panic(fmt.Sprintf("graph: invalid depth intrinsics fx=%f fy=%f cx=%f cy=%f", fx, fy, cx, cy))
	}
}

// ID returns the node id.
func (s *Signature) ID() int { return s.id }

// MapID returns the id of the disconnected sub-map this node belongs to.
func (s *Signature) MapID() int { return s.mapID }

// Weight returns the usage/retention weight.
func (s *Signature) Weight() int { return s.weight }

// SetWeight sets the usage/retention weight and marks the node modified.
func (s *Signature) SetWeight(w int) {
	if s.weight != w {
		s.modified = true
	}
	s.weight = w
}

// Pose returns the robot pose at capture time.
func (s *Signature) Pose() Transform { return s.pose }

// SetPose updates the robot pose and marks the node modified.
func (s *Signature) SetPose(pose Transform) {
	s.pose = pose
	s.modified = true
}

// LocalTransform returns the fixed sensor-to-base calibration transform.
func (s *Signature) LocalTransform() Transform { return s.localTransform }

// Image returns the encoded image buffer.
func (s *Signature) Image() []byte { return s.image }

// Depth returns the encoded depth buffer.
func (s *Signature) Depth() []byte { return s.depth }

// Depth2D returns the encoded 2D laser/depth scan buffer.
func (s *Signature) Depth2D() []byte { return s.depth2D }

// DepthIntrinsics returns the camera intrinsics associated with the depth
// buffer.
func (s *Signature) DepthIntrinsics() (fx, fy, cx, cy float32) {
	return s.fx, s.fy, s.cx, s.cy
}

// SetDepth atomically replaces the depth buffer and its intrinsics.
// Panics unless depth is empty or fx>0, fy>0, cx>=0 and cy>=0.
func (s *Signature) SetDepth(depth []byte, fx, fy, cx, cy float32) {
	assertDepthIntrinsics(depth, fx, fy, cx, cy)
	s.depth = depth
	s.fx = fx
	s.fy = fy
	s.cx = cx
	s.cy = cy
}

// SetImage replaces the encoded image buffer.
func (s *Signature) SetImage(image []byte) { s.image = image }

// SetDepth2D replaces the encoded 2D scan buffer.
func (s *Signature) SetDepth2D(depth2D []byte) { s.depth2D = depth2D }

// Enabled reports whether the node's words are counted in the vocabulary.
func (s *Signature) Enabled() bool { return s.enabled }

// SetEnabled flips the vocabulary-activation flag.
func (s *Signature) SetEnabled(enabled bool) { s.enabled = enabled }

// Saved reports whether the node has ever been persisted.
func (s *Signature) Saved() bool { return s.saved }

// Modified reports whether in-memory state diverged from the last persisted
// snapshot.
func (s *Signature) Modified() bool { return s.modified }

// NeighborsModified reports whether any relation map changed since the last
// persisted snapshot.
func (s *Signature) NeighborsModified() bool { return s.neighborsModified }

// MarkPersisted records a successful save: the node becomes saved and
// clean. Only the persistence layer calls this; no mutator ever clears the
// dirty flags on its own.
func (s *Signature) MarkPersisted() {
	s.saved = true
	s.modified = false
	s.neighborsModified = false
}

// Neighbors returns a copy of the sequential-adjacency map.
func (s *Signature) Neighbors() map[int]Transform {
	return copyRelation(s.neighbors)
}

// Neighbor returns the relative transform to the given neighbor, if linked.
func (s *Signature) Neighbor(id int) (Transform, bool) {
	t, ok := s.neighbors[id]
	return t, ok
}

// HasNeighbor reports whether the node has a sequential link to id.
func (s *Signature) HasNeighbor(id int) bool {
	_, ok := s.neighbors[id]
	return ok
}

// AddNeighbor inserts or overwrites the sequential link to id. The node is
// unconditionally marked as having modified relations, even on overwrite.
func (s *Signature) AddNeighbor(id int, transform Transform) {
	s.neighbors[id] = transform
	s.neighborsModified = true
}

// AddNeighbors applies AddNeighbor for every entry. Keys are unique, so
// application order is irrelevant.
func (s *Signature) AddNeighbors(neighbors map[int]Transform) {
	for id, t := range neighbors {
		s.AddNeighbor(id, t)
	}
}

// RemoveNeighbor erases the link to id. The relation-dirty flag is set only
// if a link was actually removed.
func (s *Signature) RemoveNeighbor(id int) {
	if _, ok := s.neighbors[id]; ok {
		delete(s.neighbors, id)
		s.neighborsModified = true
	}
}

// RemoveNeighbors clears all sequential links. The relation-dirty flag is
// set only if the map was non-empty.
func (s *Signature) RemoveNeighbors() {
	if len(s.neighbors) > 0 {
		s.neighborsModified = true
	}
	s.neighbors = make(map[int]Transform)
}

// ChangeNeighborID moves the link keyed by oldID to newID, overwriting any
// link already there, and reports whether the move happened. An absent
// oldID is a silent no-op, so renumbering can be issued speculatively.
func (s *Signature) ChangeNeighborID(oldID, newID int) bool {
	t, ok := s.neighbors[oldID]
	if !ok {
		return false
	}
	delete(s.neighbors, oldID)
	s.neighbors[newID] = t
	s.neighborsModified = true
	return true
}

// LoopClosureIDs returns a copy of the loop-closure relation.
func (s *Signature) LoopClosureIDs() map[int]Transform {
	return copyRelation(s.loopClosureIDs)
}

// ChildLoopClosureIDs returns a copy of the child loop-closure relation.
func (s *Signature) ChildLoopClosureIDs() map[int]Transform {
	return copyRelation(s.childLoopClosureIDs)
}

// AddLoopClosureID records a loop-closure link to id. Unlike AddNeighbor,
// an existing link is never overwritten: duplicate inserts fail silently.
// A zero id means "no link" and is always a no-op.
func (s *Signature) AddLoopClosureID(id int, transform Transform) {
	if insertRelation(s.loopClosureIDs, id, transform) {
		s.neighborsModified = true
	}
}

// AddChildLoopClosureID records the inverse-direction loop-closure link,
// with the same insert-only and zero-id semantics as AddLoopClosureID.
func (s *Signature) AddChildLoopClosureID(id int, transform Transform) {
	if insertRelation(s.childLoopClosureIDs, id, transform) {
		s.neighborsModified = true
	}
}

// ChangeLoopClosureID moves the loop-closure link keyed by oldID to newID
// and reports whether the move happened; absent oldID is a silent no-op.
//
// Child loop-closure links are deliberately left untouched: graph-merge
// logic downstream relies on the asymmetry, so remapping the child relation
// would need a dedicated operation.
func (s *Signature) ChangeLoopClosureID(oldID, newID int) bool {
	t, ok := s.loopClosureIDs[oldID]
	if !ok {
		return false
	}
	delete(s.loopClosureIDs, oldID)
	s.loopClosureIDs[newID] = t
	s.neighborsModified = true
	return true
}

// RemoveLoopClosureID erases the loop-closure link to id. The
// relation-dirty flag is set only if a link was actually removed.
func (s *Signature) RemoveLoopClosureID(id int) {
	if _, ok := s.loopClosureIDs[id]; ok {
		delete(s.loopClosureIDs, id)
		s.neighborsModified = true
	}
}

// RemoveChildLoopClosureID erases the child loop-closure link to id, with
// the same dirty-flag rule as RemoveLoopClosureID.
func (s *Signature) RemoveChildLoopClosureID(id int) {
	if _, ok := s.childLoopClosureIDs[id]; ok {
		delete(s.childLoopClosureIDs, id)
		s.neighborsModified = true
	}
}

func insertRelation(m map[int]Transform, id int, t Transform) bool {
	if id == 0 {
		return false
	}
	if _, ok := m[id]; ok {
		return false
	}
	m[id] = t
	return true
}

func copyRelation(m map[int]Transform) map[int]Transform {
	out := make(map[int]Transform, len(m))
	for id, t := range m {
		out[id] = t
	}
	return out
}

// Words returns the node's word observation table. The table is owned by
// the node; callers mutate it only through the node's word operations.
func (s *Signature) Words() *WordTable { return s.words }

// WordsChanged returns the word-remap audit trail (old id -> new id).
func (s *Signature) WordsChanged() map[int]int {
	out := make(map[int]int, len(s.wordsChanged))
	for k, v := range s.wordsChanged {
		out[k] = v
	}
	return out
}

// IsBad reports whether the node is unusable for localization or matching:
// a node with no words cannot be compared to anything.
func (s *Signature) IsBad() bool {
	return s.words.Empty()
}

// RemoveAllWords clears every word observation.
func (s *Signature) RemoveAllWords() {
	s.words.Clear()
}

// RemoveWord erases every observation filed under wordID, 2D and 3D alike.
func (s *Signature) RemoveWord(wordID int) {
	s.words.Remove(wordID)
}

// ChangeWordRef re-keys every observation under oldWordID to newWordID,
// preserving values and multiplicity, and records the remap in the audit
// trail. This is how vocabulary word merges propagate to the node: future
// comparisons must see the merged id. Reports whether anything moved; an
// absent oldWordID is a silent no-op with no audit record.
func (s *Signature) ChangeWordRef(oldWordID, newWordID int) bool {
	if !s.words.Rename(oldWordID, newWordID) {
		return false
	}
	s.wordsChanged[oldWordID] = newWordID
	return true
}

// CompareTo scores the similarity of two nodes in [0, 1] using the given
// matcher to find correspondences. The pair count is normalized by the
// LARGER of the two observation counts, so a small node exhaustively
// matched against a much larger one cannot score near 1 unless most of the
// larger set matched too. Empty words on either side score 0. Neither node
// is mutated.
func (s *Signature) CompareTo(other *Signature, matcher FeatureMatcher) float64 {
	if s.words.Empty() || other.words.Empty() {
		return 0
	}
	total := s.words.Len()
	if other.words.Len() > total {
		total = other.words.Len()
	}
	pairs := matcher.Match(s.words, other.words)
	return float64(len(pairs)) / float64(total)
}

package graph

// SignatureSnapshot is the serializable form of a Signature. The dirty
// flags are intentionally absent: a snapshot exists only because the node
// is being persisted, and a node rebuilt from one starts saved and clean.
type SignatureSnapshot struct {
	ID     int       `json:"id"`
	MapID  int       `json:"map_id"`
	Weight int       `json:"weight"`
	Pose   Transform `json:"pose"`

	Words        []WordEntry `json:"words,omitempty"`
	WordsChanged map[int]int `json:"words_changed,omitempty"`

	Neighbors           map[int]Transform `json:"neighbors,omitempty"`
	LoopClosureIDs      map[int]Transform `json:"loop_closure_ids,omitempty"`
	ChildLoopClosureIDs map[int]Transform `json:"child_loop_closure_ids,omitempty"`

	Image   []byte `json:"image,omitempty"`
	Depth   []byte `json:"depth,omitempty"`
	Depth2D []byte `json:"depth_2d,omitempty"`

	FX float32 `json:"fx,omitempty"`
	FY float32 `json:"fy,omitempty"`
	CX float32 `json:"cx,omitempty"`
	CY float32 `json:"cy,omitempty"`

	LocalTransform Transform `json:"local_transform"`

	Enabled bool `json:"enabled,omitempty"`
}

// Snapshot captures the full node state for serialization.
func (s *Signature) Snapshot() *SignatureSnapshot {
	return &SignatureSnapshot{
		ID:                  s.id,
		MapID:               s.mapID,
		Weight:              s.weight,
		Pose:                s.pose,
		Words:               s.words.Entries(),
		WordsChanged:        s.WordsChanged(),
		Neighbors:           copyRelation(s.neighbors),
		LoopClosureIDs:      copyRelation(s.loopClosureIDs),
		ChildLoopClosureIDs: copyRelation(s.childLoopClosureIDs),
		Image:               s.image,
		Depth:               s.depth,
		Depth2D:             s.depth2D,
		FX:                  s.fx,
		FY:                  s.fy,
		CX:                  s.cx,
		CY:                  s.cy,
		LocalTransform:      s.localTransform,
		Enabled:             s.enabled,
	}
}

// FromSnapshot rebuilds a node from its persisted form. The node comes
// back saved and clean; relation maps and the remap audit trail are
// restored as stored.
func FromSnapshot(snap *SignatureSnapshot) *Signature {
	sig := NewSignature(
		snap.ID, snap.MapID,
		FromEntries(snap.Words),
		snap.Pose,
		snap.Depth2D, snap.Image, snap.Depth,
		snap.FX, snap.FY, snap.CX, snap.CY,
		snap.LocalTransform,
	)
	sig.weight = snap.Weight
	sig.enabled = snap.Enabled
	for id, t := range snap.WordsChanged {
		sig.wordsChanged[id] = t
	}
	for id, t := range snap.Neighbors {
		sig.neighbors[id] = t
	}
	for id, t := range snap.LoopClosureIDs {
		sig.loopClosureIDs[id] = t
	}
	for id, t := range snap.ChildLoopClosureIDs {
		sig.childLoopClosureIDs[id] = t
	}
	sig.MarkPersisted()
	return sig
}

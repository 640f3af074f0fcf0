// Package graph provides the map-node data model for an appearance-based
// visual SLAM system.
//
// It defines the Signature type — one graph vertex per sensor acquisition,
// carrying the robot pose, a bag of visual-word feature observations, raw
// sensor buffers, and the relational links (sequential neighbors, loop
// closures) that the owning graph manager maintains between vertices.
package graph

import "gonum.org/v1/gonum/spatial/r3"

// KeyPoint is a 2D feature observation in image coordinates.
type KeyPoint struct {
	// X, Y is the keypoint position in pixels.
	X float32 `json:"x"`
	Y float32 `json:"y"`

	// Size is the diameter of the meaningful keypoint neighborhood.
	Size float32 `json:"size,omitempty"`

	// Angle is the computed orientation in degrees, or -1 if not applicable.
	Angle float32 `json:"angle,omitempty"`

	// Response is the detector response used to rank keypoints.
	Response float32 `json:"response,omitempty"`

	// Octave is the pyramid layer the keypoint was extracted from.
	Octave int `json:"octave,omitempty"`
}

// WordRef is one observation of a visual word on a node: the 2D keypoint
// and, when depth was valid at that pixel, its 3D position in the robot
// base frame. A keypoint without depth keeps HasPoint false; the word
// table never forces a 1:1 pairing.
type WordRef struct {
	KP       KeyPoint `json:"kp"`
	Point    r3.Vec   `json:"point,omitempty"`
	HasPoint bool     `json:"has_point,omitempty"`
}

// Pair is one correspondence between two nodes: the shared word id and
// the matched keypoint on each side.
type Pair struct {
	WordID int
	A      KeyPoint
	B      KeyPoint
}

// FeatureMatcher produces mutually consistent correspondences between two
// word tables. Implementations must not mutate the inputs; dedup policy
// (e.g. enforcing a one-to-one pairing) is the implementation's own.
type FeatureMatcher interface {
	Match(a, b *WordTable) []Pair
}

package graph

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid 3D transform: a rotation (unit quaternion) followed
// by a translation. The zero value is NOT the identity; use Identity().
type Transform struct {
	rot   quat.Number
	trans r3.Vec
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{rot: quat.Number{Real: 1}}
}

// NewTransform builds a transform from a translation and a quaternion
// (x, y, z, w). The quaternion is normalized; a zero quaternion yields the
// identity rotation.
func NewTransform(tx, ty, tz, qx, qy, qz, qw float64) Transform {
	q := quat.Number{Real: qw, Imag: qx, Jmag: qy, Kmag: qz}
	n := quat.Abs(q)
	if n == 0 {
		q = quat.Number{Real: 1}
	} else {
		q = quat.Scale(1/n, q)
	}
	return Transform{rot: q, trans: r3.Vec{X: tx, Y: ty, Z: tz}}
}

// Translation returns the translation component.
func (t Transform) Translation() r3.Vec {
	return t.trans
}

// Quaternion returns the rotation component as (x, y, z, w).
func (t Transform) Quaternion() (qx, qy, qz, qw float64) {
	return t.rot.Imag, t.rot.Jmag, t.rot.Kmag, t.rot.Real
}

// Apply rotates p and translates it into this transform's frame.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	pq := quat.Number{Imag: p.X, Jmag: p.Y, Kmag: p.Z}
	r := quat.Mul(quat.Mul(t.rot, pq), quat.Conj(t.rot))
	return r3.Vec{
		X: r.Imag + t.trans.X,
		Y: r.Jmag + t.trans.Y,
		Z: r.Kmag + t.trans.Z,
	}
}

// Mul composes two transforms: (t.Mul(o)).Apply(p) == t.Apply(o.Apply(p)).
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		rot:   quat.Mul(t.rot, o.rot),
		trans: t.Apply(o.trans),
	}
}

// Inverse returns the transform mapping back to the source frame.
func (t Transform) Inverse() Transform {
	inv := quat.Conj(t.rot)
	pq := quat.Number{Imag: -t.trans.X, Jmag: -t.trans.Y, Kmag: -t.trans.Z}
	r := quat.Mul(quat.Mul(inv, pq), quat.Conj(inv))
	return Transform{
		rot:   inv,
		trans: r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag},
	}
}

// IsIdentity reports whether the transform is (numerically) the identity.
func (t Transform) IsIdentity() bool {
	return t.ApproxEqual(Identity(), 1e-9)
}

// ApproxEqual reports whether two transforms agree within tol on both
// translation and rotation. q and -q encode the same rotation and are
// treated as equal.
func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	if math.Abs(t.trans.X-o.trans.X) > tol ||
		math.Abs(t.trans.Y-o.trans.Y) > tol ||
		math.Abs(t.trans.Z-o.trans.Z) > tol {
		return false
	}
	d := quat.Mul(t.rot, quat.Conj(o.rot))
	return math.Abs(math.Abs(d.Real)-1) <= tol
}

type transformJSON struct {
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
	TZ float64 `json:"tz"`
	QX float64 `json:"qx"`
	QY float64 `json:"qy"`
	QZ float64 `json:"qz"`
	QW float64 `json:"qw"`
}

// MarshalJSON implements json.Marshaler.
func (t Transform) MarshalJSON() ([]byte, error) {
	return json.Marshal(transformJSON{
		TX: t.trans.X, TY: t.trans.Y, TZ: t.trans.Z,
		QX: t.rot.Imag, QY: t.rot.Jmag, QZ: t.rot.Kmag, QW: t.rot.Real,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Transform) UnmarshalJSON(data []byte) error {
	var v transformJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = NewTransform(v.TX, v.TY, v.TZ, v.QX, v.QY, v.QZ, v.QW)
	return nil
}

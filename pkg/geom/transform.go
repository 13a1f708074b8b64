package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a decomposed placement: translation, Euler rotation
// (radians, applied in X, Y, Z order), and per-axis scale. Identity
// has zero translation/rotation and unit scale.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Vec3
	Scale       mgl64.Vec3
}

// IdentityTransform returns the identity placement.
func IdentityTransform() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// TranslationTransform returns the identity placement shifted to p.
func TranslationTransform(p mgl64.Vec3) Transform {
	return Transform{Translation: p, Scale: mgl64.Vec3{1, 1, 1}}
}

// rotationMatrix builds the combined rotation matrix for the XYZ Euler
// order: a point is rotated about X first, then Y, then Z.
func (t Transform) rotationMatrix() mgl64.Mat3 {
	return mgl64.Rotate3DZ(t.Rotation[2]).
		Mul3(mgl64.Rotate3DY(t.Rotation[1])).
		Mul3(mgl64.Rotate3DX(t.Rotation[0]))
}

// Apply maps a local-space point into world space: scale, then rotate,
// then translate.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	scaled := mgl64.Vec3{p[0] * t.Scale[0], p[1] * t.Scale[1], p[2] * t.Scale[2]}
	return t.rotationMatrix().Mul3x1(scaled).Add(t.Translation)
}

// ApplyToBounds maps a local-space box into world space and returns
// the axis-aligned box of the eight transformed corners. Rotation can
// only grow the result; the output is the tightest AABB around the
// rotated box, not the rotated box itself.
func (t Transform) ApplyToBounds(bb BoundingBox) BoundingBox {
	if bb.IsEmpty() {
		return bb
	}
	out := EmptyBox()
	for _, c := range bb.Corners() {
		out = out.ExpandByPoint(t.Apply(c))
	}
	return out
}

// Compose combines t with a delta placement componentwise: translations
// and rotations add, scales multiply. This is not a general affine
// composition; it only matches matrix composition when the operands
// are axis-aligned (zero or single-axis rotations), which is what the
// designer's mutators produce. Callers needing arbitrary
// chained rotations must compose matrices themselves.
func (t Transform) Compose(delta Transform) Transform {
	return Transform{
		Translation: t.Translation.Add(delta.Translation),
		Rotation:    t.Rotation.Add(delta.Rotation),
		Scale: mgl64.Vec3{
			t.Scale[0] * delta.Scale[0],
			t.Scale[1] * delta.Scale[1],
			t.Scale[2] * delta.Scale[2],
		},
	}
}

// Inverse returns the componentwise inverse placement. Subject to the
// same axis-aligned caveat as Compose: t.Compose(t.Inverse()) is
// identity, but the inverse is not a general affine inverse.
func (t Transform) Inverse() Transform {
	inv := func(s float64) float64 {
		if s == 0 {
			return 0
		}
		return 1 / s
	}
	return Transform{
		Translation: t.Translation.Mul(-1),
		Rotation:    t.Rotation.Mul(-1),
		Scale:       mgl64.Vec3{inv(t.Scale[0]), inv(t.Scale[1]), inv(t.Scale[2])},
	}
}

// IsFinite reports whether every component of the transform is a
// finite number (no NaN, no Inf).
func (t Transform) IsFinite() bool {
	for _, v := range [3]mgl64.Vec3{t.Translation, t.Rotation, t.Scale} {
		for i := 0; i < 3; i++ {
			if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
				return false
			}
		}
	}
	return true
}

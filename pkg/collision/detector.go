// Package collision provides the stateless AABB collision tests used
// by the scene manager and the validation rules. Every function is a
// pure function of its arguments and safe to call without
// synchronization.
package collision

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/galley/pkg/geom"
)

// Penetration describes the minimal-translation separation between
// two overlapping boxes: the vector that, applied to box B, would
// just separate it from box A along the least-overlapping axis.
type Penetration struct {
	ObjectA string
	ObjectB string
	Vector  mgl64.Vec3
	Depth   float64
}

// Intersects reports whether a and b overlap on all three axes.
// Touching faces count as intersecting.
func Intersects(a, b geom.BoundingBox) bool {
	return a.Intersects(b)
}

// CalculatePenetration computes the per-axis overlap extents of two
// boxes and returns the separation along the axis with the smallest
// positive overlap, signed from a's center toward b's center.
//
// The result is only meaningful for boxes that actually intersect;
// callers gate with Intersects first.
func CalculatePenetration(idA, idB string, a, b geom.BoundingBox) Penetration {
	overlap := mgl64.Vec3{
		min(a.Max[0], b.Max[0]) - max(a.Min[0], b.Min[0]),
		min(a.Max[1], b.Max[1]) - max(a.Min[1], b.Min[1]),
		min(a.Max[2], b.Max[2]) - max(a.Min[2], b.Min[2]),
	}

	axis := 0
	for i := 1; i < 3; i++ {
		if overlap[i] < overlap[axis] {
			axis = i
		}
	}

	depth := overlap[axis]
	if depth < 0 {
		depth = 0
	}

	var vec mgl64.Vec3
	if b.Center()[axis] >= a.Center()[axis] {
		vec[axis] = depth
	} else {
		vec[axis] = -depth
	}

	return Penetration{
		ObjectA: idA,
		ObjectB: idB,
		Vector:  vec,
		Depth:   depth,
	}
}

// WouldCollide applies transform to the object's local bounds and
// reports whether the resulting candidate box intersects any box in
// others. This is the single chokepoint every mutation path routes
// through before committing a transform.
func WouldCollide(objectBounds geom.BoundingBox, transform geom.Transform, others []geom.BoundingBox) bool {
	candidate := transform.ApplyToBounds(objectBounds)
	if candidate.IsEmpty() {
		return false
	}
	for _, other := range others {
		if candidate.Intersects(other) {
			return true
		}
	}
	return false
}

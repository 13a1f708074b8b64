package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBox is an axis-aligned bounding box in world space.
// A well-formed box satisfies Min <= Max componentwise; NewBoundingBox
// normalizes reversed corners. The zero-extent "empty" box is the
// sentinel returned by EmptyBox and is special-cased by every
// operation below.
type BoundingBox struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewBoundingBox constructs a box from two corner points, swapping
// components as needed so that Min <= Max holds on every axis.
func NewBoundingBox(a, b mgl64.Vec3) BoundingBox {
	return BoundingBox{
		Min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// NewBoundingBoxForExtents constructs a box centered on c with the
// given half-sizes.
func NewBoundingBoxForExtents(c mgl64.Vec3, hx, hy, hz float64) BoundingBox {
	return BoundingBox{
		Min: mgl64.Vec3{c[0] - hx, c[1] - hy, c[2] - hz},
		Max: mgl64.Vec3{c[0] + hx, c[1] + hy, c[2] + hz},
	}
}

// EmptyBox returns the empty-box sentinel: Min at +Inf, Max at -Inf.
// Expanding the empty box by a point yields a point-sized box, which
// makes it the identity element for Union and ExpandByPoint.
func EmptyBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box is the empty sentinel (or otherwise
// inverted on any axis).
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min[0] > bb.Max[0] || bb.Min[1] > bb.Max[1] || bb.Min[2] > bb.Max[2]
}

func (bb BoundingBox) String() string {
	return fmt.Sprintf("[%v %v %v]-[%v %v %v]",
		bb.Min[0], bb.Min[1], bb.Min[2], bb.Max[0], bb.Max[1], bb.Max[2])
}

// Intersects reports whether bb and other overlap on all three axes.
// Touching faces count as intersecting. The empty box intersects
// nothing.
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	if bb.IsEmpty() || other.IsEmpty() {
		return false
	}
	return bb.Min[0] <= other.Max[0] && other.Min[0] <= bb.Max[0] &&
		bb.Min[1] <= other.Max[1] && other.Min[1] <= bb.Max[1] &&
		bb.Min[2] <= other.Max[2] && other.Min[2] <= bb.Max[2]
}

// Contains reports whether other lies completely within bb.
func (bb BoundingBox) Contains(other BoundingBox) bool {
	if bb.IsEmpty() || other.IsEmpty() {
		return false
	}
	return bb.Min[0] <= other.Min[0] && bb.Max[0] >= other.Max[0] &&
		bb.Min[1] <= other.Min[1] && bb.Max[1] >= other.Max[1] &&
		bb.Min[2] <= other.Min[2] && bb.Max[2] >= other.Max[2]
}

// ContainsPoint reports whether p lies within bb (boundary inclusive).
func (bb BoundingBox) ContainsPoint(p mgl64.Vec3) bool {
	if bb.IsEmpty() {
		return false
	}
	return bb.Min[0] <= p[0] && p[0] <= bb.Max[0] &&
		bb.Min[1] <= p[1] && p[1] <= bb.Max[1] &&
		bb.Min[2] <= p[2] && p[2] <= bb.Max[2]
}

// Union returns the smallest box holding both bb and other. Unioning
// with the empty box yields the other operand.
func (bb BoundingBox) Union(other BoundingBox) BoundingBox {
	if bb.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return bb
	}
	return BoundingBox{
		Min: mgl64.Vec3{
			math.Min(bb.Min[0], other.Min[0]),
			math.Min(bb.Min[1], other.Min[1]),
			math.Min(bb.Min[2], other.Min[2]),
		},
		Max: mgl64.Vec3{
			math.Max(bb.Max[0], other.Max[0]),
			math.Max(bb.Max[1], other.Max[1]),
			math.Max(bb.Max[2], other.Max[2]),
		},
	}
}

// ExpandByPoint returns a box grown to hold p. Expanding the empty box
// yields a degenerate box at p.
func (bb BoundingBox) ExpandByPoint(p mgl64.Vec3) BoundingBox {
	return BoundingBox{
		Min: mgl64.Vec3{
			math.Min(bb.Min[0], p[0]),
			math.Min(bb.Min[1], p[1]),
			math.Min(bb.Min[2], p[2]),
		},
		Max: mgl64.Vec3{
			math.Max(bb.Max[0], p[0]),
			math.Max(bb.Max[1], p[1]),
			math.Max(bb.Max[2], p[2]),
		},
	}
}

// Center returns the midpoint of the box. The center of the empty box
// is not meaningful; callers gate on IsEmpty first.
func (bb BoundingBox) Center() mgl64.Vec3 {
	return bb.Min.Add(bb.Max).Mul(0.5)
}

// Size returns the per-axis extent of the box, or zero for the empty box.
func (bb BoundingBox) Size() mgl64.Vec3 {
	if bb.IsEmpty() {
		return mgl64.Vec3{}
	}
	return bb.Max.Sub(bb.Min)
}

// Volume returns the enclosed volume, zero for the empty box.
func (bb BoundingBox) Volume() float64 {
	if bb.IsEmpty() {
		return 0
	}
	s := bb.Size()
	return s[0] * s[1] * s[2]
}

// SurfaceArea returns the total face area, zero for the empty box.
func (bb BoundingBox) SurfaceArea() float64 {
	if bb.IsEmpty() {
		return 0
	}
	s := bb.Size()
	return 2 * (s[0]*s[1] + s[1]*s[2] + s[0]*s[2])
}

// Translate returns the box shifted by d.
func (bb BoundingBox) Translate(d mgl64.Vec3) BoundingBox {
	if bb.IsEmpty() {
		return bb
	}
	return BoundingBox{Min: bb.Min.Add(d), Max: bb.Max.Add(d)}
}

// Grow returns the box inflated by d on every face. A negative d
// shrinks the box; shrinking past the center collapses the affected
// axis to the center rather than inverting the box.
func (bb BoundingBox) Grow(d float64) BoundingBox {
	if bb.IsEmpty() {
		return bb
	}
	out := BoundingBox{
		Min: mgl64.Vec3{bb.Min[0] - d, bb.Min[1] - d, bb.Min[2] - d},
		Max: mgl64.Vec3{bb.Max[0] + d, bb.Max[1] + d, bb.Max[2] + d},
	}
	c := bb.Center()
	for i := 0; i < 3; i++ {
		if out.Min[i] > out.Max[i] {
			out.Min[i] = c[i]
			out.Max[i] = c[i]
		}
	}
	return out
}

// Corners returns the eight corner points of the box.
func (bb BoundingBox) Corners() [8]mgl64.Vec3 {
	return [8]mgl64.Vec3{
		{bb.Min[0], bb.Min[1], bb.Min[2]},
		{bb.Max[0], bb.Min[1], bb.Min[2]},
		{bb.Min[0], bb.Max[1], bb.Min[2]},
		{bb.Max[0], bb.Max[1], bb.Min[2]},
		{bb.Min[0], bb.Min[1], bb.Max[2]},
		{bb.Max[0], bb.Min[1], bb.Max[2]},
		{bb.Min[0], bb.Max[1], bb.Max[2]},
		{bb.Max[0], bb.Max[1], bb.Max[2]},
	}
}

package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewBoundingBoxNormalizes(t *testing.T) {
	bb := NewBoundingBox(mgl64.Vec3{2, -1, 5}, mgl64.Vec3{0, 3, 4})
	want := BoundingBox{Min: mgl64.Vec3{0, -1, 4}, Max: mgl64.Vec3{2, 3, 5}}
	if bb != want {
		t.Errorf("got %v, want %v", bb, want)
	}
}

func TestEmptyBox(t *testing.T) {
	e := EmptyBox()
	if !e.IsEmpty() {
		t.Error("EmptyBox not empty")
	}
	if e.Volume() != 0 || e.SurfaceArea() != 0 {
		t.Error("empty box has nonzero measure")
	}
	if e.Intersects(e) {
		t.Error("empty box intersects itself")
	}
	if e.ContainsPoint(mgl64.Vec3{}) {
		t.Error("empty box contains the origin")
	}

	// Expanding by a point turns the sentinel into a point-sized box.
	p := mgl64.Vec3{1, 2, 3}
	bb := e.ExpandByPoint(p)
	if bb.IsEmpty() || bb.Min != p || bb.Max != p {
		t.Errorf("ExpandByPoint on empty = %v, want degenerate box at %v", bb, p)
	}
}

func TestIntersects(t *testing.T) {
	a := NewBoundingBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 2, 2})
	tests := []struct {
		name string
		b    BoundingBox
		want bool
	}{
		{"overlapping", NewBoundingBox(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{3, 3, 3}), true},
		{"touching faces", NewBoundingBox(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{4, 2, 2}), true},
		{"touching corner", NewBoundingBox(mgl64.Vec3{2, 2, 2}, mgl64.Vec3{3, 3, 3}), true},
		{"separated on x", NewBoundingBox(mgl64.Vec3{2.001, 0, 0}, mgl64.Vec3{4, 2, 2}), false},
		{"overlap xy only", NewBoundingBox(mgl64.Vec3{1, 1, 5}, mgl64.Vec3{3, 3, 6}), false},
		{"contained", NewBoundingBox(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{1, 1, 1}), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Intersects(tc.b); got != tc.want {
				t.Errorf("Intersects = %v, want %v", got, tc.want)
			}
			if got := tc.b.Intersects(a); got != tc.want {
				t.Errorf("Intersects (reversed) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	outer := NewBoundingBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{4, 4, 4})
	inner := NewBoundingBox(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 2, 2})
	if !outer.Contains(inner) {
		t.Error("outer does not contain inner")
	}
	if inner.Contains(outer) {
		t.Error("inner contains outer")
	}
	if !outer.Contains(outer) {
		t.Error("box does not contain itself")
	}
	if outer.Contains(EmptyBox()) || EmptyBox().Contains(inner) {
		t.Error("containment involving the empty box")
	}
}

func TestUnion(t *testing.T) {
	a := NewBoundingBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := NewBoundingBox(mgl64.Vec3{2, -1, 0}, mgl64.Vec3{3, 0.5, 2})
	u := a.Union(b)
	want := BoundingBox{Min: mgl64.Vec3{0, -1, 0}, Max: mgl64.Vec3{3, 1, 2}}
	if u != want {
		t.Errorf("Union = %v, want %v", u, want)
	}
	if a.Union(EmptyBox()) != a || EmptyBox().Union(b) != b {
		t.Error("empty box is not the Union identity")
	}
}

func TestCenterSizeVolume(t *testing.T) {
	bb := NewBoundingBox(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{3, 6, 4})
	if c := bb.Center(); c != (mgl64.Vec3{2, 4, 3.5}) {
		t.Errorf("Center = %v", c)
	}
	if s := bb.Size(); s != (mgl64.Vec3{2, 4, 1}) {
		t.Errorf("Size = %v", s)
	}
	if v := bb.Volume(); v != 8 {
		t.Errorf("Volume = %v, want 8", v)
	}
	if sa := bb.SurfaceArea(); sa != 2*(8+4+2) {
		t.Errorf("SurfaceArea = %v, want 28", sa)
	}
}

func TestTranslate(t *testing.T) {
	bb := NewBoundingBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}).Translate(mgl64.Vec3{1, -2, 3})
	want := BoundingBox{Min: mgl64.Vec3{1, -2, 3}, Max: mgl64.Vec3{2, -1, 4}}
	if bb != want {
		t.Errorf("Translate = %v, want %v", bb, want)
	}
}

func TestGrow(t *testing.T) {
	bb := NewBoundingBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 2, 2})

	grown := bb.Grow(0.5)
	if grown.Min != (mgl64.Vec3{-0.5, -0.5, -0.5}) || grown.Max != (mgl64.Vec3{2.5, 2.5, 2.5}) {
		t.Errorf("Grow(0.5) = %v", grown)
	}

	shrunk := bb.Grow(-0.5)
	if shrunk.Min != (mgl64.Vec3{0.5, 0.5, 0.5}) || shrunk.Max != (mgl64.Vec3{1.5, 1.5, 1.5}) {
		t.Errorf("Grow(-0.5) = %v", shrunk)
	}

	// Over-shrinking collapses to the center instead of inverting.
	collapsed := bb.Grow(-5)
	if collapsed.IsEmpty() {
		t.Error("over-shrunk box inverted")
	}
	if collapsed.Min != bb.Center() || collapsed.Max != bb.Center() {
		t.Errorf("Grow(-5) = %v, want collapse to center", collapsed)
	}
}

func TestContainsPointBoundary(t *testing.T) {
	bb := NewBoundingBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	if !bb.ContainsPoint(mgl64.Vec3{1, 1, 1}) {
		t.Error("corner not contained")
	}
	if !bb.ContainsPoint(mgl64.Vec3{0.5, 0, 0.5}) {
		t.Error("face point not contained")
	}
	if bb.ContainsPoint(mgl64.Vec3{1, 1, 1 + 1e-9}) {
		t.Error("point just outside contained")
	}
}

func TestCorners(t *testing.T) {
	bb := NewBoundingBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 2, 3})
	corners := bb.Corners()
	seen := map[mgl64.Vec3]bool{}
	rebuilt := EmptyBox()
	for _, c := range corners {
		seen[c] = true
		rebuilt = rebuilt.ExpandByPoint(c)
	}
	if len(seen) != 8 {
		t.Errorf("got %d distinct corners, want 8", len(seen))
	}
	if rebuilt != bb {
		t.Errorf("corners rebuild %v, want %v", rebuilt, bb)
	}
}

func TestExpandByPointAccumulates(t *testing.T) {
	bb := EmptyBox()
	pts := []mgl64.Vec3{{1, 0, 0}, {-1, 2, 0}, {0, 0, -3}}
	for _, p := range pts {
		bb = bb.ExpandByPoint(p)
	}
	want := BoundingBox{Min: mgl64.Vec3{-1, 0, -3}, Max: mgl64.Vec3{1, 2, 0}}
	if bb != want {
		t.Errorf("got %v, want %v", bb, want)
	}
	if math.IsInf(bb.Min[0], 0) {
		t.Error("sentinel leaked into accumulated box")
	}
}

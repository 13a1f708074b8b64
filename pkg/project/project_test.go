package project

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRoomBounds(t *testing.T) {
	r := Room{Width: 4, Depth: 3, Height: 2.5}
	bb := r.Bounds()
	if bb.Min != (mgl64.Vec3{}) {
		t.Errorf("Min = %v", bb.Min)
	}
	if bb.Max != (mgl64.Vec3{4, 3, 2.5}) {
		t.Errorf("Max = %v", bb.Max)
	}
	if !bb.ContainsPoint(mgl64.Vec3{2, 1.5, 1}) {
		t.Error("interior point not contained")
	}
	if bb.ContainsPoint(mgl64.Vec3{-0.1, 1, 1}) {
		t.Error("exterior point contained")
	}
}

func TestWallLengthAndPointAt(t *testing.T) {
	w := Wall{Start: mgl64.Vec3{0, 0, 0}, End: mgl64.Vec3{4, 0, 0}}
	if w.Length() != 4 {
		t.Errorf("Length = %g", w.Length())
	}
	if p := w.PointAt(0.25); p != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("PointAt(0.25) = %v", p)
	}
	if p := w.PointAt(1); p != w.End {
		t.Errorf("PointAt(1) = %v", p)
	}
}

func TestWallDistanceTo(t *testing.T) {
	w := Wall{Start: mgl64.Vec3{0, 3, 0}, End: mgl64.Vec3{4, 3, 0}}

	// Perpendicular distance, and Z is ignored.
	if d := w.DistanceTo(mgl64.Vec3{2, 1, 0.9}); math.Abs(d-2) > 1e-12 {
		t.Errorf("perpendicular distance = %g, want 2", d)
	}
	// Beyond the segment end the distance is to the endpoint.
	want := math.Hypot(1, 1)
	if d := w.DistanceTo(mgl64.Vec3{5, 2, 0}); math.Abs(d-want) > 1e-12 {
		t.Errorf("endpoint distance = %g, want %g", d, want)
	}
	// A degenerate wall measures to its single point.
	point := Wall{Start: mgl64.Vec3{1, 1, 0}, End: mgl64.Vec3{1, 1, 0}}
	if d := point.DistanceTo(mgl64.Vec3{1, 3, 0}); math.Abs(d-2) > 1e-12 {
		t.Errorf("degenerate distance = %g, want 2", d)
	}
}

func TestProjectWallLookup(t *testing.T) {
	p := &Project{Walls: []Wall{
		{ID: "north", Plumbing: true},
		{ID: "south"},
	}}

	w, ok := p.Wall("north")
	if !ok || w.ID != "north" {
		t.Errorf("Wall(north) = %+v, %v", w, ok)
	}
	if _, ok := p.Wall("ghost"); ok {
		t.Error("unknown wall found")
	}

	plumbing := p.PlumbingWalls()
	if len(plumbing) != 1 || plumbing[0].ID != "north" {
		t.Errorf("PlumbingWalls = %v", plumbing)
	}
}

func TestOpeningKindString(t *testing.T) {
	if OpeningDoor.String() != "door" || OpeningWindow.String() != "window" {
		t.Errorf("kinds: %q %q", OpeningDoor, OpeningWindow)
	}
}

// Package project models the design project consumed read-only by
// validation: the room envelope, its walls, and the openings cut into
// them. The convention is Z-up with the room origin at a floor corner:
// X runs along the width, Y along the depth, Z is height. Units are
// meters.
package project

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/galley/pkg/geom"
	"github.com/chazu/galley/pkg/scene"
)

// Room is the bounded design volume.
type Room struct {
	Width  float64
	Depth  float64
	Height float64
}

// Bounds returns the room's bounding box with its minimum corner at
// the origin.
func (r Room) Bounds() geom.BoundingBox {
	return geom.NewBoundingBox(mgl64.Vec3{}, mgl64.Vec3{r.Width, r.Depth, r.Height})
}

// Wall is a straight wall segment on the floor plane. Plumbing marks
// walls carrying supply/drain lines; the sink rules key off it.
type Wall struct {
	ID        string
	Start     mgl64.Vec3
	End       mgl64.Vec3
	Height    float64
	Thickness float64
	Plumbing  bool
}

// Length returns the wall's run length.
func (w Wall) Length() float64 {
	return w.End.Sub(w.Start).Len()
}

// PointAt returns the point a fraction t in [0,1] along the wall's
// centerline.
func (w Wall) PointAt(t float64) mgl64.Vec3 {
	return w.Start.Add(w.End.Sub(w.Start).Mul(t))
}

// DistanceTo returns the shortest distance from p to the wall's
// centerline segment, measured on the floor plane.
func (w Wall) DistanceTo(p mgl64.Vec3) float64 {
	a := mgl64.Vec3{w.Start[0], w.Start[1], 0}
	b := mgl64.Vec3{w.End[0], w.End[1], 0}
	q := mgl64.Vec3{p[0], p[1], 0}

	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return q.Sub(a).Len()
	}
	t := q.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return q.Sub(a.Add(ab.Mul(t))).Len()
}

// OpeningKind distinguishes doors from windows.
type OpeningKind int

const (
	OpeningDoor OpeningKind = iota
	OpeningWindow
)

func (k OpeningKind) String() string {
	if k == OpeningWindow {
		return "window"
	}
	return "door"
}

// Opening is a door or window cut into a wall. Position is the
// fraction in [0,1] along the wall's run where the opening's center
// sits; Sill is the underside height above the floor (zero for
// doors).
type Opening struct {
	WallID   string
	Kind     OpeningKind
	Position float64
	Width    float64
	Height   float64
	Sill     float64
}

// Project bundles the room, its walls and openings, and the placed
// objects. Validation walks it read-only; the scene manager, not the
// project, owns live object state during editing.
type Project struct {
	Name     string
	Room     Room
	Walls    []Wall
	Openings []Opening
	Objects  []*scene.Object
}

// Wall returns the wall with the given id, if present.
func (p *Project) Wall(id string) (Wall, bool) {
	for _, w := range p.Walls {
		if w.ID == id {
			return w, true
		}
	}
	return Wall{}, false
}

// PlumbingWalls returns the walls flagged as carrying plumbing.
func (p *Project) PlumbingWalls() []Wall {
	var out []Wall
	for _, w := range p.Walls {
		if w.Plumbing {
			out = append(out, w)
		}
	}
	return out
}

// Package spatial provides a uniform grid index over axis-aligned
// bounding boxes. The index maps grid cells to the set of object ids
// whose box overlaps that cell; a box spanning several cells is a
// member of all of them. Queries return an over-approximation, so
// callers re-test candidates against authoritative bounds.
//
// The grid is not safe for concurrent use on its own; the scene
// manager guards it with its own lock.
package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/galley/pkg/geom"
)

// DefaultCellSize is the cell edge length used when the caller passes
// a non-positive size. One meter suits room-scale layouts.
const DefaultCellSize = 1.0

// CellKey identifies a grid cell by its integer coordinates,
// floor(coord / cellSize) per axis.
type CellKey struct {
	X, Y, Z int
}

// Grid is a uniform spatial hash over bounding boxes.
type Grid struct {
	cellSize float64
	cells    map[CellKey]map[string]struct{}
}

// NewGrid creates a grid with the given cell size. Sizes <= 0 (or
// non-finite) fall back to DefaultCellSize rather than dividing by zero.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[CellKey]map[string]struct{}),
	}
}

// CellSize returns the configured cell edge length.
func (g *Grid) CellSize() float64 { return g.cellSize }

// eachCell invokes f for every cell overlapped by bounds.
func (g *Grid) eachCell(bounds geom.BoundingBox, f func(CellKey)) {
	x0 := int(math.Floor(bounds.Min[0] / g.cellSize))
	x1 := int(math.Floor(bounds.Max[0] / g.cellSize))
	y0 := int(math.Floor(bounds.Min[1] / g.cellSize))
	y1 := int(math.Floor(bounds.Max[1] / g.cellSize))
	z0 := int(math.Floor(bounds.Min[2] / g.cellSize))
	z1 := int(math.Floor(bounds.Max[2] / g.cellSize))
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				f(CellKey{x, y, z})
			}
		}
	}
}

// AddObject inserts id into every cell overlapped by bounds. Objects
// with empty bounds do not participate in spatial queries at all.
func (g *Grid) AddObject(id string, bounds geom.BoundingBox) {
	if bounds.IsEmpty() {
		return
	}
	g.eachCell(bounds, func(key CellKey) {
		set, ok := g.cells[key]
		if !ok {
			set = make(map[string]struct{})
			g.cells[key] = set
		}
		set[id] = struct{}{}
	})
}

// RemoveObject removes id from every cell overlapped by bounds. Cells
// whose membership set becomes empty are deleted so the map does not
// accumulate dead cells.
func (g *Grid) RemoveObject(id string, bounds geom.BoundingBox) {
	if bounds.IsEmpty() {
		return
	}
	g.eachCell(bounds, func(key CellKey) {
		set, ok := g.cells[key]
		if !ok {
			return
		}
		delete(set, id)
		if len(set) == 0 {
			delete(g.cells, key)
		}
	})
}

// UpdateObject moves id from its old cell memberships to the cells
// overlapped by newBounds. Stale memberships are removed before the
// new ones are added.
func (g *Grid) UpdateObject(id string, oldBounds, newBounds geom.BoundingBox) {
	g.RemoveObject(id, oldBounds)
	g.AddObject(id, newBounds)
}

// QueryRegion returns the union of cell memberships for every cell
// overlapped by region. The result is a superset of the ids whose
// bounds actually intersect region.
func (g *Grid) QueryRegion(region geom.BoundingBox) []string {
	if region.IsEmpty() {
		return nil
	}
	seen := make(map[string]struct{})
	g.eachCell(region, func(key CellKey) {
		for id := range g.cells[key] {
			seen[id] = struct{}{}
		}
	})
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids
}

// QueryRadius returns candidate ids near center, using the cube of
// side 2*radius as the query region. Like QueryRegion this does not
// prune to an exact sphere.
func (g *Grid) QueryRadius(center mgl64.Vec3, radius float64) []string {
	if radius < 0 {
		return nil
	}
	return g.QueryRegion(geom.NewBoundingBoxForExtents(center, radius, radius, radius))
}

// Clear drops all cells.
func (g *Grid) Clear() {
	g.cells = make(map[CellKey]map[string]struct{})
}

// CellCount returns the number of non-empty cells, for diagnostics.
func (g *Grid) CellCount() int {
	return len(g.cells)
}

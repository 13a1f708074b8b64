package spatial

import (
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/galley/pkg/geom"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float64) geom.BoundingBox {
	return geom.NewBoundingBox(
		mgl64.Vec3{minX, minY, minZ},
		mgl64.Vec3{maxX, maxY, maxZ},
	)
}

func sorted(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func TestAddQueryRoundTrip(t *testing.T) {
	g := NewGrid(1.0)
	b := box(0.2, 0.2, 0.2, 0.8, 0.8, 0.8)
	g.AddObject("a", b)

	hits := g.QueryRegion(box(0, 0, 0, 1, 1, 1))
	if len(hits) != 1 || hits[0] != "a" {
		t.Errorf("QueryRegion = %v, want [a]", hits)
	}

	// A region in a different cell misses.
	if hits := g.QueryRegion(box(5, 5, 5, 6, 6, 6)); len(hits) != 0 {
		t.Errorf("distant QueryRegion = %v, want none", hits)
	}
}

func TestMultiCellMembership(t *testing.T) {
	g := NewGrid(1.0)
	// Spans cells x in {0,1,2} at y=z=0.
	g.AddObject("wide", box(0.5, 0.1, 0.1, 2.5, 0.9, 0.9))

	if g.CellCount() != 3 {
		t.Errorf("CellCount = %d, want 3", g.CellCount())
	}
	for _, probe := range []geom.BoundingBox{
		box(0.1, 0.1, 0.1, 0.2, 0.2, 0.2),
		box(1.5, 0.5, 0.5, 1.6, 0.6, 0.6),
		box(2.9, 0.1, 0.1, 2.95, 0.2, 0.2),
	} {
		hits := g.QueryRegion(probe)
		if len(hits) != 1 || hits[0] != "wide" {
			t.Errorf("probe %v: hits = %v, want [wide]", probe, hits)
		}
	}
}

func TestQueryIsOverApproximate(t *testing.T) {
	g := NewGrid(1.0)
	// The object sits in cell (0,0,0) but does not intersect the probe
	// region; the grid may still return it as a candidate.
	g.AddObject("a", box(0.1, 0.1, 0.1, 0.2, 0.2, 0.2))
	hits := g.QueryRegion(box(0.8, 0.8, 0.8, 0.9, 0.9, 0.9))
	for _, id := range hits {
		if id != "a" {
			t.Errorf("unexpected candidate %q", id)
		}
	}
}

func TestRemoveObject(t *testing.T) {
	g := NewGrid(1.0)
	b := box(0.5, 0.1, 0.1, 2.5, 0.9, 0.9)
	g.AddObject("a", b)
	g.RemoveObject("a", b)

	if g.CellCount() != 0 {
		t.Errorf("CellCount = %d after removal, want 0", g.CellCount())
	}
	if hits := g.QueryRegion(box(0, 0, 0, 3, 1, 1)); len(hits) != 0 {
		t.Errorf("hits after removal = %v", hits)
	}

	// Removing an absent id is a no-op.
	g.RemoveObject("ghost", b)
}

func TestUpdateObject(t *testing.T) {
	g := NewGrid(1.0)
	oldB := box(0.1, 0.1, 0.1, 0.9, 0.9, 0.9)
	newB := box(5.1, 5.1, 5.1, 5.9, 5.9, 5.9)
	g.AddObject("a", oldB)
	g.UpdateObject("a", oldB, newB)

	if hits := g.QueryRegion(oldB); len(hits) != 0 {
		t.Errorf("stale hits = %v", hits)
	}
	hits := g.QueryRegion(newB)
	if len(hits) != 1 || hits[0] != "a" {
		t.Errorf("hits at new position = %v, want [a]", hits)
	}
}

func TestEmptyBoundsExcluded(t *testing.T) {
	g := NewGrid(1.0)
	g.AddObject("phantom", geom.EmptyBox())
	if g.CellCount() != 0 {
		t.Errorf("empty bounds created %d cells", g.CellCount())
	}
	if hits := g.QueryRegion(geom.EmptyBox()); hits != nil {
		t.Errorf("empty-region query = %v, want nil", hits)
	}
}

func TestNegativeCoordinates(t *testing.T) {
	g := NewGrid(1.0)
	g.AddObject("neg", box(-1.5, -1.5, -1.5, -0.5, -0.5, -0.5))
	hits := g.QueryRegion(box(-1.2, -1.2, -1.2, -1.1, -1.1, -1.1))
	if len(hits) != 1 || hits[0] != "neg" {
		t.Errorf("hits = %v, want [neg]", hits)
	}
}

func TestQueryRadius(t *testing.T) {
	g := NewGrid(1.0)
	g.AddObject("near", box(1, 0, 0, 1.5, 0.5, 0.5))
	g.AddObject("far", box(8, 8, 8, 9, 9, 9))

	hits := sorted(g.QueryRadius(mgl64.Vec3{0.5, 0.5, 0.5}, 2))
	if len(hits) != 1 || hits[0] != "near" {
		t.Errorf("QueryRadius = %v, want [near]", hits)
	}
	if hits := g.QueryRadius(mgl64.Vec3{}, -1); hits != nil {
		t.Errorf("negative radius = %v, want nil", hits)
	}
}

func TestDegenerateCellSizeFallsBack(t *testing.T) {
	for _, size := range []float64{0, -3} {
		g := NewGrid(size)
		if g.CellSize() != DefaultCellSize {
			t.Errorf("NewGrid(%v).CellSize() = %v, want %v", size, g.CellSize(), DefaultCellSize)
		}
	}
	// The fallback grid still indexes correctly.
	g := NewGrid(0)
	g.AddObject("a", box(0.1, 0.1, 0.1, 0.4, 0.4, 0.4))
	if hits := g.QueryRegion(box(0, 0, 0, 1, 1, 1)); len(hits) != 1 {
		t.Errorf("fallback grid hits = %v", hits)
	}
}

func TestClear(t *testing.T) {
	g := NewGrid(1.0)
	g.AddObject("a", box(0, 0, 0, 0.5, 0.5, 0.5))
	g.Clear()
	if g.CellCount() != 0 {
		t.Errorf("CellCount after Clear = %d", g.CellCount())
	}
}

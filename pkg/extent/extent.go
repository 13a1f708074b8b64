// Package extent provides a geometry-aware bounds provider backed by
// the github.com/deadsy/sdfx solid modeling library. Each catalog item
// is modeled as a signed-distance solid and its base extent taken from
// the solid's bounding box, so collision and validation footprints
// track the modeled shape instead of a bare unit cube.
package extent

import (
	"sync"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/galley/pkg/catalog"
	"github.com/chazu/galley/pkg/geom"
	"github.com/chazu/galley/pkg/scene"
)

// Compile-time interface check.
var _ scene.BoundsProvider = (*SolidProvider)(nil)

// SolidProvider implements scene.BoundsProvider by modeling catalog
// items as sdfx solids. Solids are centered at the local origin so
// the object's translation is its center point, matching the default
// unit-cube provider. Extents are cached per catalog reference.
type SolidProvider struct {
	mu    sync.Mutex
	cache map[string]geom.BoundingBox
}

// NewSolidProvider returns an empty-cache provider.
func NewSolidProvider() *SolidProvider {
	return &SolidProvider{cache: make(map[string]geom.BoundingBox)}
}

// BaseBounds returns the local-space extent for the object's catalog
// reference. Unknown references fall back to the unit cube.
func (p *SolidProvider) BaseBounds(obj *scene.Object) geom.BoundingBox {
	item, ok := catalog.Lookup(obj.CatalogRef)
	if !ok {
		return geom.NewBoundingBoxForExtents(mgl64.Vec3{}, 0.5, 0.5, 0.5)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if bb, hit := p.cache[item.Ref]; hit {
		return bb
	}

	bb := solidBounds(buildSolid(item))
	p.cache[item.Ref] = bb
	return bb
}

// buildSolid models a catalog item as an SDF solid. The carcass is a
// box; sinks get their basin subtracted and stoves a burner deck
// union. Shape detail beyond the box does not widen the bounding box,
// but it keeps the provider honest when a future caller asks for the
// solid itself.
func buildSolid(item catalog.Item) sdf.SDF3 {
	box, err := sdf.Box3D(v3.Vec{X: item.Width, Y: item.Depth, Z: item.Height}, 0)
	if err != nil {
		panic("extent: box: " + err.Error())
	}

	switch item.Category {
	case catalog.CategorySink:
		radius := 0.35 * min(item.Width, item.Depth)
		basin, err := sdf.Cylinder3D(0.20, radius, 0)
		if err != nil {
			panic("extent: basin: " + err.Error())
		}
		basin = sdf.Transform3D(basin, sdf.Translate3d(v3.Vec{Z: item.Height/2 - 0.10}))
		return sdf.Difference3D(box, basin)
	case catalog.CategoryStove:
		radius := 0.15 * min(item.Width, item.Depth)
		burner, err := sdf.Cylinder3D(0.02, radius, 0)
		if err != nil {
			panic("extent: burner: " + err.Error())
		}
		// Flush with the top face so the deck does not grow the extent.
		burner = sdf.Transform3D(burner, sdf.Translate3d(v3.Vec{Z: item.Height/2 - 0.01}))
		return sdf.Union3D(box, burner)
	default:
		return box
	}
}

// solidBounds converts an sdfx bounding box into a geom one.
func solidBounds(s sdf.SDF3) geom.BoundingBox {
	bb := s.BoundingBox()
	return geom.NewBoundingBox(
		mgl64.Vec3{bb.Min.X, bb.Min.Y, bb.Min.Z},
		mgl64.Vec3{bb.Max.X, bb.Max.Y, bb.Max.Z},
	)
}

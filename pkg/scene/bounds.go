package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/galley/pkg/geom"
)

// BoundsProvider supplies an object's local-space extent before its
// transform is applied. The Manager derives world-space bounds as
// transform(BaseBounds). Substituting a geometry-aware provider (see
// pkg/extent) changes collision and validation extents without
// touching Manager logic.
type BoundsProvider interface {
	BaseBounds(obj *Object) geom.BoundingBox
}

// BoundsFunc adapts a plain function to a BoundsProvider.
type BoundsFunc func(obj *Object) geom.BoundingBox

func (f BoundsFunc) BaseBounds(obj *Object) geom.BoundingBox { return f(obj) }

// UnitCubeBounds is the default provider: a unit cube centered at the
// object's local origin. In the absence of true geometry, an object's
// footprint is its transform's scale applied to this cube.
func UnitCubeBounds() BoundsProvider {
	return BoundsFunc(func(*Object) geom.BoundingBox {
		return geom.NewBoundingBoxForExtents(mgl64.Vec3{}, 0.5, 0.5, 0.5)
	})
}

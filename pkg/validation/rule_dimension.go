package validation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/galley/pkg/catalog"
	"github.com/chazu/galley/pkg/scene"
)

// Dimension limits for placed objects, in meters. Objects outside the
// soft limits are suspicious but not fatal; exceeding the room itself
// is an error.
const (
	MinDimension = 0.10
	MaxDimension = 5.0
)

// DimensionRule checks an object's derived dimensions against the
// soft min/max limits and against the project's room extents.
type DimensionRule struct{}

// NewDimensionRule returns the built-in dimension rule.
func NewDimensionRule() *DimensionRule { return &DimensionRule{} }

func (r *DimensionRule) ID() string                       { return "dimension" }
func (r *DimensionRule) Severity() Severity               { return SeverityWarning }
func (r *DimensionRule) AppliesTo(obj *scene.Object) bool { return obj != nil }

// objectDims derives an object's world dimensions: the catalog item's
// base size (unit cube for unknown references) scaled by the
// transform.
func objectDims(obj *scene.Object) mgl64.Vec3 {
	base := mgl64.Vec3{1, 1, 1}
	if item, ok := catalog.Lookup(obj.CatalogRef); ok {
		base = mgl64.Vec3{item.Width, item.Depth, item.Height}
	}
	return mgl64.Vec3{
		base[0] * obj.Transform.Scale[0],
		base[1] * obj.Transform.Scale[1],
		base[2] * obj.Transform.Scale[2],
	}
}

func (r *DimensionRule) Validate(obj *scene.Object, ctx *Context) []ValidationError {
	dims := objectDims(obj)
	var findings []ValidationError

	for i, axis := range [3]string{"width", "depth", "height"} {
		if dims[i] < MinDimension {
			findings = append(findings, ValidationError{
				Severity: SeverityWarning,
				Message: fmt.Sprintf("%s %.3fm is below the minimum %.2fm",
					axis, dims[i], MinDimension),
				ObjectID:   obj.ID,
				Location:   obj.Transform.Translation,
				RuleID:     r.ID(),
				Suggestion: "check the object's scale",
			})
		}
		if dims[i] > MaxDimension {
			findings = append(findings, ValidationError{
				Severity: SeverityWarning,
				Message: fmt.Sprintf("%s %.3fm exceeds the maximum %.2fm",
					axis, dims[i], MaxDimension),
				ObjectID:   obj.ID,
				Location:   obj.Transform.Translation,
				RuleID:     r.ID(),
				Suggestion: "check the object's scale",
			})
		}
	}

	if ctx != nil && ctx.Project != nil {
		room := ctx.Project.Room
		roomDims := mgl64.Vec3{room.Width, room.Depth, room.Height}
		for i, axis := range [3]string{"width", "depth", "height"} {
			if roomDims[i] > 0 && dims[i] > roomDims[i] {
				findings = append(findings, ValidationError{
					Severity: SeverityError,
					Message: fmt.Sprintf("%s %.3fm exceeds the room's %s %.3fm",
						axis, dims[i], axis, roomDims[i]),
					ObjectID:   obj.ID,
					Location:   obj.Transform.Translation,
					RuleID:     r.ID(),
					Suggestion: "the object cannot fit in the room at this size",
				})
			}
		}
	}
	return findings
}

package validation

import (
	"fmt"

	"github.com/chazu/galley/pkg/scene"
)

// CollisionRule flags every object whose bounds overlap another
// registered object's bounds. It needs a live scene manager in the
// context; without one it has nothing to test against and stays quiet.
type CollisionRule struct{}

// NewCollisionRule returns the built-in collision rule.
func NewCollisionRule() *CollisionRule { return &CollisionRule{} }

func (r *CollisionRule) ID() string                       { return "collision" }
func (r *CollisionRule) Severity() Severity               { return SeverityError }
func (r *CollisionRule) AppliesTo(obj *scene.Object) bool { return obj != nil }

func (r *CollisionRule) Validate(obj *scene.Object, ctx *Context) []ValidationError {
	if ctx == nil || ctx.Scene == nil {
		return nil
	}

	// A registered object carrying its stored transform uses the
	// manager's exact intersection query. Unregistered objects and
	// candidate transforms fall back to a region query over the bounds
	// the transform would produce.
	var hits []string
	reg, registered := ctx.Scene.Object(obj.ID)
	if registered && reg.Transform == obj.Transform {
		hits = ctx.Scene.FindIntersectingObjects(obj.ID)
	} else {
		for _, id := range ctx.Scene.ObjectsInRegion(ctx.ObjectBounds(obj)) {
			if id != obj.ID {
				hits = append(hits, id)
			}
		}
	}

	var findings []ValidationError
	for _, hit := range hits {
		findings = append(findings, ValidationError{
			Severity:   SeverityError,
			Message:    fmt.Sprintf("object overlaps %s", hit),
			ObjectID:   obj.ID,
			Location:   obj.Transform.Translation,
			RuleID:     r.ID(),
			Suggestion: "move or resize one of the overlapping objects",
		})
	}
	return findings
}

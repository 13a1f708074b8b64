package validation

import (
	"fmt"
	"math"

	"github.com/chazu/galley/pkg/catalog"
	"github.com/chazu/galley/pkg/scene"
)

// HeightTolerance is how far an object's height may deviate from its
// category's standard before the rule flags it.
const HeightTolerance = 0.05

// HeightRule compares an object's actual height against the standard
// height for its catalog category, and checks for absolute floor and
// ceiling breaches. It only applies to objects whose catalog
// reference resolves to a known category.
type HeightRule struct{}

// NewHeightRule returns the built-in height-standard rule.
func NewHeightRule() *HeightRule { return &HeightRule{} }

func (r *HeightRule) ID() string         { return "height" }
func (r *HeightRule) Severity() Severity { return SeverityWarning }

func (r *HeightRule) AppliesTo(obj *scene.Object) bool {
	return obj != nil && catalog.CategoryOf(obj.CatalogRef) != catalog.CategoryUnknown
}

func (r *HeightRule) Validate(obj *scene.Object, ctx *Context) []ValidationError {
	var findings []ValidationError
	cat := catalog.CategoryOf(obj.CatalogRef)

	if expected := catalog.StandardHeight(cat); expected > 0 {
		actual := objectDims(obj)[2]
		if math.Abs(actual-expected) > HeightTolerance {
			findings = append(findings, ValidationError{
				Severity: SeverityWarning,
				Message: fmt.Sprintf("%s height %.3fm deviates from the %.2fm standard",
					cat, actual, expected),
				ObjectID:   obj.ID,
				Location:   obj.Transform.Translation,
				RuleID:     r.ID(),
				Suggestion: fmt.Sprintf("standard %s height is %.2fm", cat, expected),
			})
		}
	}

	bounds := ctx.ObjectBounds(obj)
	if !bounds.IsEmpty() {
		if bounds.Min[2] < -ctx.Tolerance {
			findings = append(findings, ValidationError{
				Severity: SeverityError,
				Message:  fmt.Sprintf("object extends %.3fm below the floor", -bounds.Min[2]),
				ObjectID: obj.ID,
				Location: obj.Transform.Translation,
				RuleID:   r.ID(),
			})
		}
		if ctx.Project != nil {
			ceiling := ctx.Project.Room.Height
			if ceiling > 0 && bounds.Max[2] > ceiling+ctx.Tolerance {
				findings = append(findings, ValidationError{
					Severity: SeverityError,
					Message: fmt.Sprintf("object extends %.3fm above the %.2fm ceiling",
						bounds.Max[2]-ceiling, ceiling),
					ObjectID: obj.ID,
					Location: obj.Transform.Translation,
					RuleID:   r.ID(),
				})
			}
		}
	}
	return findings
}

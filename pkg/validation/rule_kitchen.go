package validation

import (
	"fmt"
	"math"

	"github.com/chazu/galley/pkg/catalog"
	"github.com/chazu/galley/pkg/scene"
)

// Kitchen layout standards, in meters.
const (
	// PlumbingReach is how far a sink may sit from the nearest
	// plumbing wall before supply runs get expensive.
	PlumbingReach = 1.50
	// StoveClearance is the minimum free gap around a stove.
	StoveClearance = 0.30
	// FridgeSwingDepth is the free depth a refrigerator door needs.
	FridgeSwingDepth = 0.90
	// CabinetAlignTolerance is how far neighboring cabinet heights may
	// differ before the run looks uneven.
	CabinetAlignTolerance = 0.02
	// cabinetNeighborRadius bounds which cabinets count as part of the
	// same run.
	cabinetNeighborRadius = 0.80

	// Work triangle leg limits, per the kitchen-design convention.
	WorkTriangleMinLeg = 1.20
	WorkTriangleMaxLeg = 2.70
)

// KitchenRule applies the kitchen-module relational constraints. It
// dispatches on the object's catalog category: plumbing proximity for
// sinks, fire clearance for stoves, door swing for refrigerators, and
// height alignment for cabinet runs, plus the work-triangle check when
// the object is one of the three major appliances.
type KitchenRule struct{}

// NewKitchenRule returns the built-in kitchen relational rule.
func NewKitchenRule() *KitchenRule { return &KitchenRule{} }

func (r *KitchenRule) ID() string         { return "kitchen" }
func (r *KitchenRule) Severity() Severity { return SeverityWarning }

func (r *KitchenRule) AppliesTo(obj *scene.Object) bool {
	if obj == nil {
		return false
	}
	switch catalog.CategoryOf(obj.CatalogRef) {
	case catalog.CategorySink, catalog.CategoryStove, catalog.CategoryRefrigerator,
		catalog.CategoryBaseCabinet, catalog.CategoryWallCabinet, catalog.CategoryTallCabinet:
		return true
	default:
		return false
	}
}

func (r *KitchenRule) Validate(obj *scene.Object, ctx *Context) []ValidationError {
	var findings []ValidationError
	cat := catalog.CategoryOf(obj.CatalogRef)

	switch cat {
	case catalog.CategorySink:
		findings = append(findings, r.checkPlumbing(obj, ctx)...)
	case catalog.CategoryStove:
		findings = append(findings, r.checkStoveClearance(obj, ctx)...)
	case catalog.CategoryRefrigerator:
		findings = append(findings, r.checkFridgeSwing(obj, ctx)...)
	case catalog.CategoryBaseCabinet, catalog.CategoryWallCabinet, catalog.CategoryTallCabinet:
		findings = append(findings, r.checkCabinetAlignment(obj, ctx)...)
	}

	if catalog.IsAppliance(cat) {
		findings = append(findings, r.checkWorkTriangle(obj, cat, ctx)...)
	}
	return findings
}

// checkPlumbing warns when a sink sits beyond reach of every plumbing
// wall. Projects without plumbing walls are silently skipped.
func (r *KitchenRule) checkPlumbing(obj *scene.Object, ctx *Context) []ValidationError {
	if ctx.Project == nil {
		return nil
	}
	walls := ctx.Project.PlumbingWalls()
	if len(walls) == 0 {
		return nil
	}

	nearest := math.Inf(1)
	for _, w := range walls {
		if d := w.DistanceTo(obj.Transform.Translation); d < nearest {
			nearest = d
		}
	}
	if nearest > PlumbingReach {
		return []ValidationError{{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("sink is %.2fm from the nearest plumbing wall, standard reach is %.2fm",
				nearest, PlumbingReach),
			ObjectID:   obj.ID,
			Location:   obj.Transform.Translation,
			RuleID:     r.ID(),
			Suggestion: "move the sink toward a plumbing wall",
		}}
	}
	return nil
}

// checkStoveClearance warns when anything sits inside the stove's fire
// clearance envelope.
func (r *KitchenRule) checkStoveClearance(obj *scene.Object, ctx *Context) []ValidationError {
	if ctx.Scene == nil {
		return nil
	}
	envelope := ctx.ObjectBounds(obj).Grow(StoveClearance)
	var findings []ValidationError
	for _, id := range ctx.Scene.ObjectsInRegion(envelope) {
		if id == obj.ID {
			continue
		}
		findings = append(findings, ValidationError{
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("object %s is inside the stove's %.2fm fire clearance", id, StoveClearance),
			ObjectID:   obj.ID,
			Location:   obj.Transform.Translation,
			RuleID:     r.ID(),
			Suggestion: fmt.Sprintf("keep %.2fm clear around the stove", StoveClearance),
		})
	}
	return findings
}

// checkFridgeSwing warns when the refrigerator's door swing area is
// blocked.
func (r *KitchenRule) checkFridgeSwing(obj *scene.Object, ctx *Context) []ValidationError {
	if ctx.Scene == nil {
		return nil
	}
	bounds := ctx.ObjectBounds(obj)
	if bounds.IsEmpty() {
		return nil
	}
	probe := frontalProbe(obj, bounds, FridgeSwingDepth)
	var findings []ValidationError
	for _, id := range ctx.Scene.ObjectsInRegion(probe) {
		if id == obj.ID {
			continue
		}
		findings = append(findings, ValidationError{
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("refrigerator door swing is blocked by %s", id),
			ObjectID:   obj.ID,
			Location:   probe.Center(),
			RuleID:     r.ID(),
			Suggestion: fmt.Sprintf("keep %.2fm in front of the refrigerator clear", FridgeSwingDepth),
		})
	}
	return findings
}

// checkCabinetAlignment warns when a cabinet's height differs from a
// neighboring cabinet of the same category, which reads as an uneven
// run.
func (r *KitchenRule) checkCabinetAlignment(obj *scene.Object, ctx *Context) []ValidationError {
	if ctx.Scene == nil || obj.ID == "" {
		return nil
	}
	cat := catalog.CategoryOf(obj.CatalogRef)
	height := objectDims(obj)[2]

	var findings []ValidationError
	for _, id := range ctx.Scene.FindNearbyObjects(obj.ID, cabinetNeighborRadius) {
		neighbor, ok := ctx.Scene.Object(id)
		if !ok || catalog.CategoryOf(neighbor.CatalogRef) != cat {
			continue
		}
		if diff := math.Abs(objectDims(neighbor)[2] - height); diff > CabinetAlignTolerance {
			findings = append(findings, ValidationError{
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("cabinet height differs from neighbor %s by %.3fm", id, diff),
				ObjectID:   obj.ID,
				Location:   obj.Transform.Translation,
				RuleID:     r.ID(),
				Suggestion: "align cabinet heights within a run",
			})
		}
	}
	return findings
}

// checkWorkTriangle validates the legs of the sink-stove-refrigerator
// triangle that touch the validated object. Only complete triangles
// are checked; each object reports only its own legs so a project
// pass does not triple-report the same leg pair.
func (r *KitchenRule) checkWorkTriangle(obj *scene.Object, cat catalog.Category, ctx *Context) []ValidationError {
	if ctx.Scene == nil {
		return nil
	}

	// First registered object of each appliance category.
	appliances := map[catalog.Category]*scene.Object{}
	for _, id := range ctx.Scene.IDs() {
		other, ok := ctx.Scene.Object(id)
		if !ok {
			continue
		}
		c := catalog.CategoryOf(other.CatalogRef)
		if catalog.IsAppliance(c) && appliances[c] == nil {
			appliances[c] = other
		}
	}
	if obj.ID != "" {
		appliances[cat] = obj
	}
	if len(appliances) < 3 {
		return nil
	}

	var findings []ValidationError
	for c, other := range appliances {
		if c == cat {
			continue
		}
		leg := obj.Transform.Translation.Sub(other.Transform.Translation).Len()
		if leg < WorkTriangleMinLeg || leg > WorkTriangleMaxLeg {
			findings = append(findings, ValidationError{
				Severity: SeverityWarning,
				Message: fmt.Sprintf("work triangle leg %s-%s is %.2fm, outside the %.2f-%.2fm range",
					cat, c, leg, WorkTriangleMinLeg, WorkTriangleMaxLeg),
				ObjectID:   obj.ID,
				Location:   obj.Transform.Translation,
				RuleID:     r.ID(),
				Suggestion: "place the sink, stove, and refrigerator in a compact triangle",
			})
		}
	}
	return findings
}

// pairwiseDomainChecks is the named pairing table behind
// ValidateCompatibility: object pairs that conflict at close range
// regardless of exact bounds.
func pairwiseDomainChecks(a, b *scene.Object, dist float64) []ValidationError {
	catA := catalog.CategoryOf(a.CatalogRef)
	catB := catalog.CategoryOf(b.CatalogRef)
	var findings []ValidationError

	if catA == catalog.CategorySink && catB == catalog.CategorySink && dist < 1.0 {
		findings = append(findings, ValidationError{
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("two sinks %.2fm apart share a drain run; keep at least 1.00m", dist),
			ObjectID:   a.ID,
			Location:   a.Transform.Translation,
			RuleID:     compatibilityID,
			Suggestion: "separate the sinks or plan a combined drain",
		})
	}

	stoveFridge := (catA == catalog.CategoryStove && catB == catalog.CategoryRefrigerator) ||
		(catA == catalog.CategoryRefrigerator && catB == catalog.CategoryStove)
	if stoveFridge && dist < 0.60 {
		findings = append(findings, ValidationError{
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("stove and refrigerator are %.2fm apart; heat transfer needs at least 0.60m", dist),
			ObjectID:   a.ID,
			Location:   a.Transform.Translation,
			RuleID:     compatibilityID,
			Suggestion: "separate heat sources from refrigeration",
		})
	}
	return findings
}

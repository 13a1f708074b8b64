package validation

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/galley/pkg/catalog"
	"github.com/chazu/galley/pkg/geom"
	"github.com/chazu/galley/pkg/project"
	"github.com/chazu/galley/pkg/scene"
)

// Clearance standards, in meters.
const (
	// WorkspaceDepth is the free depth required in front of counters,
	// sinks, stoves, and dishwashers.
	WorkspaceDepth = 0.90
	// WalkwayWidth is the width of the central walkway corridor that
	// must stay passable.
	WalkwayWidth = 1.00
	// walkwayProbeHeight bounds walkway and door probes vertically;
	// wall cabinets above head height do not block passage.
	walkwayProbeHeight = 2.00
)

// ClearanceRule checks three independent clearance sub-areas: door
// swing arcs at the project's door openings, the room's central
// walkway, and the workspace strip in front of work surfaces. Each
// blocked probe is a warning.
type ClearanceRule struct{}

// NewClearanceRule returns the built-in clearance rule.
func NewClearanceRule() *ClearanceRule { return &ClearanceRule{} }

func (r *ClearanceRule) ID() string                       { return "clearance" }
func (r *ClearanceRule) Severity() Severity               { return SeverityWarning }
func (r *ClearanceRule) AppliesTo(obj *scene.Object) bool { return obj != nil }

func (r *ClearanceRule) Validate(obj *scene.Object, ctx *Context) []ValidationError {
	var findings []ValidationError
	bounds := ctx.ObjectBounds(obj)
	if bounds.IsEmpty() {
		return nil
	}

	findings = append(findings, r.checkDoorSwings(obj, bounds, ctx)...)
	findings = append(findings, r.checkWalkway(obj, bounds, ctx)...)
	findings = append(findings, r.checkWorkspace(obj, bounds, ctx)...)
	return findings
}

// checkDoorSwings flags the object when it intrudes into the swing
// area of any door opening in the project.
func (r *ClearanceRule) checkDoorSwings(obj *scene.Object, bounds geom.BoundingBox, ctx *Context) []ValidationError {
	if ctx.Project == nil {
		return nil
	}
	var findings []ValidationError
	roomCenter := ctx.Project.Room.Bounds().Center()

	for _, o := range ctx.Project.Openings {
		if o.Kind != project.OpeningDoor {
			continue
		}
		wall, ok := ctx.Project.Wall(o.WallID)
		if !ok || o.Position < 0 || o.Position > 1 || o.Width <= 0 {
			// Malformed openings are reported by ValidateProject.
			continue
		}
		probe := doorSwingProbe(wall, o.Position, o.Width, roomCenter)
		if bounds.Intersects(probe) {
			findings = append(findings, ValidationError{
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("object blocks the door swing on wall %q", o.WallID),
				ObjectID:   obj.ID,
				Location:   bounds.Center(),
				RuleID:     r.ID(),
				Suggestion: fmt.Sprintf("keep %.2fm in front of the door clear", o.Width),
			})
		}
	}
	return findings
}

// doorSwingProbe builds the square swing area in front of a door: a
// box the size of the door's width extending from the wall toward the
// room's interior.
func doorSwingProbe(wall project.Wall, position, width float64, roomCenter mgl64.Vec3) geom.BoundingBox {
	hinge := wall.PointAt(position)

	// Wall normal on the floor plane, signed toward the room center.
	dir := wall.End.Sub(wall.Start)
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	normal := mgl64.Vec3{-dir[1], dir[0], 0}
	if normal.Dot(roomCenter.Sub(hinge)) < 0 {
		normal = normal.Mul(-1)
	}

	center := hinge.Add(normal.Mul(width / 2))
	probe := geom.NewBoundingBoxForExtents(center, width/2, width/2, 0)
	probe.Min[2] = 0
	probe.Max[2] = walkwayProbeHeight
	return probe
}

// checkWalkway flags the object when it encroaches on the central
// walkway corridor running through the middle of the room along its
// longer axis.
func (r *ClearanceRule) checkWalkway(obj *scene.Object, bounds geom.BoundingBox, ctx *Context) []ValidationError {
	if ctx.Project == nil {
		return nil
	}
	room := ctx.Project.Room
	if room.Width <= 0 || room.Depth <= 0 {
		return nil
	}

	var corridor geom.BoundingBox
	if room.Width >= room.Depth {
		corridor = geom.NewBoundingBox(
			mgl64.Vec3{0, (room.Depth - WalkwayWidth) / 2, 0},
			mgl64.Vec3{room.Width, (room.Depth + WalkwayWidth) / 2, walkwayProbeHeight})
	} else {
		corridor = geom.NewBoundingBox(
			mgl64.Vec3{(room.Width - WalkwayWidth) / 2, 0, 0},
			mgl64.Vec3{(room.Width + WalkwayWidth) / 2, room.Depth, walkwayProbeHeight})
	}

	if bounds.Intersects(corridor) {
		return []ValidationError{{
			Severity:   SeverityWarning,
			Message:    "object encroaches on the central walkway",
			ObjectID:   obj.ID,
			Location:   bounds.Center(),
			RuleID:     r.ID(),
			Suggestion: fmt.Sprintf("keep a %.2fm walkway through the room clear", WalkwayWidth),
		}}
	}
	return nil
}

// checkWorkspace flags work surfaces whose frontal workspace strip is
// blocked by another object.
func (r *ClearanceRule) checkWorkspace(obj *scene.Object, bounds geom.BoundingBox, ctx *Context) []ValidationError {
	if ctx.Scene == nil {
		return nil
	}
	switch catalog.CategoryOf(obj.CatalogRef) {
	case catalog.CategoryCountertop, catalog.CategorySink, catalog.CategoryStove, catalog.CategoryDishwasher:
	default:
		return nil
	}

	probe := frontalProbe(obj, bounds, WorkspaceDepth)
	var findings []ValidationError
	for _, id := range ctx.Scene.ObjectsInRegion(probe) {
		if id == obj.ID {
			continue
		}
		findings = append(findings, ValidationError{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("workspace in front of the %s is blocked by %s",
				catalog.CategoryOf(obj.CatalogRef), id),
			ObjectID:   obj.ID,
			Location:   probe.Center(),
			RuleID:     r.ID(),
			Suggestion: fmt.Sprintf("keep %.2fm of workspace in front of work surfaces", WorkspaceDepth),
		})
	}
	return findings
}

// frontalProbe builds a probe box of the given depth in front of the
// object. "Front" is local +Y rotated by the object's Z rotation; the
// probe spans the object's footprint width and counter height.
func frontalProbe(obj *scene.Object, bounds geom.BoundingBox, depth float64) geom.BoundingBox {
	front := mgl64.Rotate3DZ(obj.Transform.Rotation[2]).Mul3x1(mgl64.Vec3{0, 1, 0})
	size := bounds.Size()

	// Distance from the object's center to its face along the front
	// direction, for an axis-aligned approximation of the footprint.
	faceDist := (math.Abs(front[0])*size[0] + math.Abs(front[1])*size[1]) / 2
	center := bounds.Center().Add(front.Mul(faceDist + depth/2))

	half := math.Max(size[0], size[1]) / 2
	probe := geom.NewBoundingBoxForExtents(center, half, half, 0)
	probe.Min[2] = 0
	probe.Max[2] = catalog.CounterHeight
	return probe
}

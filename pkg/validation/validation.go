// Package validation runs a configurable battery of independent rules
// over placed objects and projects, aggregating severity-tagged
// findings. One broken rule never aborts a validation pass; its
// failure becomes a synthetic finding and evaluation continues.
package validation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/galley/pkg/geom"
	"github.com/chazu/galley/pkg/project"
	"github.com/chazu/galley/pkg/scene"
)

// Severity grades a finding from advisory to blocking.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError is a single immutable finding.
type ValidationError struct {
	Severity   Severity
	Message    string
	ObjectID   string
	Location   mgl64.Vec3
	Suggestion string
	RuleID     string
}

func (e ValidationError) Error() string {
	if e.ObjectID == "" {
		return fmt.Sprintf("[%s] %s: %s", e.Severity, e.RuleID, e.Message)
	}
	return fmt.Sprintf("[%s] %s: object %s: %s", e.Severity, e.RuleID, e.ObjectID, e.Message)
}

// IsError reports whether the finding blocks (Error or Critical).
func (e ValidationError) IsError() bool {
	return e.Severity == SeverityError || e.Severity == SeverityCritical
}

// Context is the read-only view handed to every rule invocation.
// Rules never mutate it. Scene and Project may each be nil depending
// on the entry point.
type Context struct {
	Scene        *scene.Manager
	Project      *project.Project
	Strict       bool
	Tolerance    float64
	MinClearance float64
}

// ObjectBounds derives world-space bounds for obj. A registered object
// whose transform matches the scene's copy uses the cached bounds;
// anything else (unregistered objects, candidate transforms) is
// recomputed through the scene's bounds provider, or a unit cube when
// no scene is attached.
func (c *Context) ObjectBounds(obj *scene.Object) geom.BoundingBox {
	if c != nil && c.Scene != nil {
		if obj.ID != "" {
			if reg, ok := c.Scene.Object(obj.ID); ok && reg.Transform == obj.Transform {
				if bb, ok := c.Scene.Bounds(obj.ID); ok {
					return bb
				}
			}
		}
		return c.Scene.BoundsFor(obj)
	}
	unit := geom.NewBoundingBoxForExtents(mgl64.Vec3{}, 0.5, 0.5, 0.5)
	return obj.Transform.ApplyToBounds(unit)
}

// Rule is an independently toggled unit of validation logic. AppliesTo
// is a cheap predicate consulted before Validate; Severity is the
// rule's nominal severity (individual findings may differ).
type Rule interface {
	ID() string
	Severity() Severity
	AppliesTo(obj *scene.Object) bool
	Validate(obj *scene.Object, ctx *Context) []ValidationError
}

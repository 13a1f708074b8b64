package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/chazu/galley/pkg/catalog"
	"github.com/chazu/galley/pkg/extent"
	"github.com/chazu/galley/pkg/project"
	"github.com/chazu/galley/pkg/scene"
	"github.com/chazu/galley/pkg/validation"
)

// App ties the scene manager, the validation service and the current
// project together behind a small JSON-friendly API suitable for
// binding to a frontend.
type App struct {
	scene     *scene.Manager
	validator *validation.Service
	project   *project.Project
	log       *zap.Logger
}

// FindingData is a JSON-serializable validation finding.
type FindingData struct {
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	ObjectID   string     `json:"objectId,omitempty"`
	Location   [3]float64 `json:"location"`
	Suggestion string     `json:"suggestion,omitempty"`
	RuleID     string     `json:"ruleId,omitempty"`
}

// PlaceResult is returned by PlaceObject.
type PlaceResult struct {
	ObjectID string        `json:"objectId"`
	Placed   bool          `json:"placed"`
	Findings []FindingData `json:"findings"`
}

// MoveResult is returned by MoveObject.
type MoveResult struct {
	Moved    bool          `json:"moved"`
	Findings []FindingData `json:"findings"`
}

// ValidateResult is the full validation report for the project.
type ValidateResult struct {
	Findings []FindingData  `json:"findings"`
	Counts   map[string]int `json:"counts"`
	Valid    bool           `json:"valid"`
}

// StatsData is a JSON-serializable scene summary.
type StatsData struct {
	Objects    int `json:"objects"`
	Selected   int `json:"selected"`
	Cells      int `json:"cells"`
	Collisions int `json:"collisions"`
}

// NewApp assembles an App around the given project. Object extents
// come from the solid provider so catalog geometry drives collision
// and validation bounds.
func NewApp(proj *project.Project, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	mgr := scene.NewManager(
		scene.WithBoundsProvider(extent.NewSolidProvider()),
		scene.WithLogger(log.Named("scene")),
	)
	svc := validation.NewService(
		validation.WithLogger(log.Named("validation")),
	)
	return &App{scene: mgr, validator: svc, project: proj, log: log}
}

// Scene returns the underlying scene manager.
func (a *App) Scene() *scene.Manager { return a.scene }

// Validator returns the underlying validation service.
func (a *App) Validator() *validation.Service { return a.validator }

// PlaceObject creates an object from a catalog item, positions it on
// the floor plan, registers it in the scene and validates the
// placement. The object stays in the scene even when findings are
// reported; callers decide whether to keep or remove it.
func (a *App) PlaceObject(catalogRef string, x, y float64) (PlaceResult, error) {
	item, ok := catalog.Lookup(catalogRef)
	if !ok {
		return PlaceResult{}, fmt.Errorf("unknown catalog item %q", catalogRef)
	}

	obj := scene.NewObject(catalogRef)
	obj.Name = item.Name
	obj.Transform.Translation = mgl64.Vec3{x, y, item.Elevation + item.Height/2}

	id := a.scene.AddObject(obj)
	findings := a.validator.ValidateObject(obj, a.validationContext())

	a.log.Info("placed object",
		zap.String("id", id),
		zap.String("catalogRef", catalogRef),
		zap.Int("findings", len(findings)))

	return PlaceResult{
		ObjectID: id,
		Placed:   true,
		Findings: toFindingData(findings),
	}, nil
}

// MoveObject moves an object to an absolute floor position, keeping
// its current elevation. The scene rejects moves that would collide;
// validation findings for the target position are reported either way.
func (a *App) MoveObject(id string, x, y float64) (MoveResult, error) {
	obj, ok := a.scene.Object(id)
	if !ok {
		return MoveResult{}, fmt.Errorf("unknown object %q", id)
	}

	target := mgl64.Vec3{x, y, obj.Transform.Translation[2]}
	candidate := obj.Transform
	candidate.Translation = target

	findings := a.validator.ValidatePlacement(obj, candidate, a.validationContext())

	moved := a.scene.MoveObject(id, target)
	if !moved {
		a.log.Warn("move rejected", zap.String("id", id))
	}
	return MoveResult{Moved: moved, Findings: toFindingData(findings)}, nil
}

// RemoveObject deletes an object from the scene.
func (a *App) RemoveObject(id string) bool {
	return a.scene.RemoveObject(id)
}

// Validate runs the full validation pass over the project and every
// placed object.
func (a *App) Validate() ValidateResult {
	a.syncProjectObjects()
	findings := a.validator.ValidateProject(a.project, a.validationContext())

	counts := make(map[string]int)
	valid := true
	for _, f := range findings {
		counts[f.Severity.String()]++
		if f.IsError() {
			valid = false
		}
	}
	return ValidateResult{
		Findings: toFindingData(findings),
		Counts:   counts,
		Valid:    valid,
	}
}

// Stats reports current scene statistics.
func (a *App) Stats() StatsData {
	s := a.scene.Stats()
	return StatsData{
		Objects:    s.Objects,
		Selected:   s.Selected,
		Cells:      s.Cells,
		Collisions: s.Collisions,
	}
}

// validationContext builds a Context bound to the live scene and the
// current project.
func (a *App) validationContext() *validation.Context {
	return &validation.Context{
		Scene:        a.scene,
		Project:      a.project,
		Strict:       a.validator.Strict(),
		Tolerance:    a.validator.Tolerance(),
		MinClearance: a.validator.MinClearance(),
	}
}

// syncProjectObjects mirrors the scene's objects into the project so
// project-level validation sees the current layout.
func (a *App) syncProjectObjects() {
	ids := a.scene.IDs()
	objs := make([]*scene.Object, 0, len(ids))
	for _, id := range ids {
		if obj, ok := a.scene.Object(id); ok {
			objs = append(objs, obj)
		}
	}
	a.project.Objects = objs
}

func toFindingData(findings []validation.ValidationError) []FindingData {
	out := make([]FindingData, 0, len(findings))
	for _, f := range findings {
		out = append(out, FindingData{
			Severity:   f.Severity.String(),
			Message:    f.Message,
			ObjectID:   f.ObjectID,
			Location:   [3]float64{f.Location[0], f.Location[1], f.Location[2]},
			Suggestion: f.Suggestion,
			RuleID:     f.RuleID,
		})
	}
	return out
}

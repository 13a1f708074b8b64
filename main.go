package main

import (
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/chazu/galley/pkg/project"
)

// demoProject is a 4 x 3 m galley kitchen with a plumbing wall along
// the back and a door on the right wall.
func demoProject() *project.Project {
	return &project.Project{
		Name: "demo kitchen",
		Room: project.Room{Width: 4.0, Depth: 3.0, Height: 2.5},
		Walls: []project.Wall{
			{ID: "north", Start: mgl64.Vec3{0, 3, 0}, End: mgl64.Vec3{4, 3, 0}, Height: 2.5, Thickness: 0.1, Plumbing: true},
			{ID: "east", Start: mgl64.Vec3{4, 3, 0}, End: mgl64.Vec3{4, 0, 0}, Height: 2.5, Thickness: 0.1},
			{ID: "south", Start: mgl64.Vec3{4, 0, 0}, End: mgl64.Vec3{0, 0, 0}, Height: 2.5, Thickness: 0.1},
			{ID: "west", Start: mgl64.Vec3{0, 0, 0}, End: mgl64.Vec3{0, 3, 0}, Height: 2.5, Thickness: 0.1},
		},
		Openings: []project.Opening{
			{WallID: "east", Kind: project.OpeningDoor, Position: 0.7, Width: 0.8, Height: 2.0},
			{WallID: "south", Kind: project.OpeningWindow, Position: 0.5, Width: 1.2, Height: 1.0, Sill: 1.0},
		},
	}
}

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	app := NewApp(demoProject(), log)

	// Run of base units along the plumbing wall: sink, counter, stove.
	placements := []struct {
		ref  string
		x, y float64
	}{
		{"sink.single.600", 0.9, 2.7},
		{"counter.straight.1200", 1.9, 2.7},
		{"stove.range.600", 2.9, 2.7},
		{"refrigerator.standard.700", 3.6, 0.4},
		{"cabinet.wall.600", 0.9, 2.85},
	}
	for _, p := range placements {
		res, err := app.PlaceObject(p.ref, p.x, p.y)
		if err != nil {
			log.Fatal("placement failed", zap.String("ref", p.ref), zap.Error(err))
		}
		for _, f := range res.Findings {
			log.Warn("placement finding",
				zap.String("id", res.ObjectID),
				zap.String("severity", f.Severity),
				zap.String("message", f.Message))
		}
	}

	report := app.Validate()
	for _, f := range report.Findings {
		log.Info("validation finding",
			zap.String("severity", f.Severity),
			zap.String("rule", f.RuleID),
			zap.String("message", f.Message))
	}

	stats := app.Stats()
	log.Info("layout summary",
		zap.Int("objects", stats.Objects),
		zap.Int("collisions", stats.Collisions),
		zap.Bool("valid", report.Valid),
		zap.Any("counts", report.Counts))
}

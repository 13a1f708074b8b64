package validation

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/galley/pkg/project"
	"github.com/chazu/galley/pkg/scene"
)

type placement struct {
	ref     string
	x, y, z float64
}

// sceneWith registers catalog objects at the given positions and
// returns the manager plus the assigned ids, in order. Collision
// rejection is off so tests can stage overlapping layouts.
func sceneWith(t *testing.T, placements ...placement) (*scene.Manager, []string) {
	t.Helper()
	m := scene.NewManager()
	m.SetCollisionDetectionEnabled(false)
	ids := make([]string, 0, len(placements))
	for _, p := range placements {
		obj := scene.NewObject(p.ref)
		obj.Transform.Translation = mgl64.Vec3{p.x, p.y, p.z}
		ids = append(ids, m.AddObject(obj))
	}
	return m, ids
}

func ruleCtx(m *scene.Manager, p *project.Project) *Context {
	return &Context{
		Scene:        m,
		Project:      p,
		Tolerance:    DefaultTolerance,
		MinClearance: DefaultMinClearance,
	}
}

func kitchenRoom() *project.Project {
	return &project.Project{
		Room: project.Room{Width: 4, Depth: 3, Height: 2.5},
		Walls: []project.Wall{
			{ID: "north", Start: mgl64.Vec3{0, 3, 0}, End: mgl64.Vec3{4, 3, 0}, Height: 2.5, Thickness: 0.1, Plumbing: true},
			{ID: "south", Start: mgl64.Vec3{4, 0, 0}, End: mgl64.Vec3{0, 0, 0}, Height: 2.5, Thickness: 0.1},
		},
	}
}

func TestCollisionRuleRegisteredObject(t *testing.T) {
	m, ids := sceneWith(t,
		placement{"cabinet.base.600", 0.5, 0.5, 0.5},
		placement{"cabinet.base.600", 0.8, 0.5, 0.5},
		placement{"cabinet.base.600", 3, 2, 0.5},
	)
	r := NewCollisionRule()
	ctx := ruleCtx(m, nil)

	obj, _ := m.Object(ids[0])
	findings := r.Validate(obj, ctx)
	if len(findings) != 1 {
		t.Fatalf("findings = %v, want 1 overlap", findings)
	}
	if !strings.Contains(findings[0].Message, ids[1]) {
		t.Errorf("overlap does not name %s: %q", ids[1], findings[0].Message)
	}

	lone, _ := m.Object(ids[2])
	if fs := r.Validate(lone, ctx); len(fs) != 0 {
		t.Errorf("lone object findings = %v", fs)
	}
}

func TestCollisionRuleCandidateTransform(t *testing.T) {
	m, ids := sceneWith(t,
		placement{"cabinet.base.600", 0.5, 0.5, 0.5},
		placement{"cabinet.base.600", 3, 0.5, 0.5},
	)
	r := NewCollisionRule()
	ctx := ruleCtx(m, nil)

	// A clone carrying a candidate transform is evaluated at the
	// candidate position, not the stored one.
	obj, _ := m.Object(ids[1])
	candidate := obj.Clone()
	candidate.Transform.Translation = mgl64.Vec3{0.6, 0.5, 0.5}
	findings := r.Validate(candidate, ctx)
	if len(findings) != 1 {
		t.Fatalf("candidate findings = %v, want 1", findings)
	}
	if !strings.Contains(findings[0].Message, ids[0]) {
		t.Errorf("candidate overlap does not name %s", ids[0])
	}
}

func TestCollisionRuleNoScene(t *testing.T) {
	r := NewCollisionRule()
	obj := scene.NewObject("cabinet.base.600")
	obj.ID = "x"
	if fs := r.Validate(obj, &Context{}); fs != nil {
		t.Errorf("findings without scene = %v", fs)
	}
}

func TestDimensionRule(t *testing.T) {
	r := NewDimensionRule()
	room := &project.Project{Room: project.Room{Width: 4, Depth: 3, Height: 2.5}}
	ctx := &Context{Project: room, Tolerance: DefaultTolerance}

	obj := scene.NewObject("cabinet.base.600")
	obj.ID = "x"
	if fs := r.Validate(obj, ctx); len(fs) != 0 {
		t.Errorf("standard cabinet findings = %v", fs)
	}

	// Scaled down below the soft minimum on every axis.
	tiny := scene.NewObject("cabinet.base.600")
	tiny.ID = "tiny"
	tiny.Transform.Scale = mgl64.Vec3{0.1, 0.1, 0.1}
	fs := r.Validate(tiny, ctx)
	if len(fs) != 3 {
		t.Fatalf("tiny findings = %v, want 3 warnings", fs)
	}
	for _, f := range fs {
		if f.Severity != SeverityWarning {
			t.Errorf("tiny severity = %v", f.Severity)
		}
	}

	// Taller than the room is an error.
	giant := scene.NewObject("cabinet.tall.600")
	giant.ID = "giant"
	giant.Transform.Scale = mgl64.Vec3{1, 1, 1.5}
	found := false
	for _, f := range r.Validate(giant, ctx) {
		if f.Severity == SeverityError && strings.Contains(f.Message, "room") {
			found = true
		}
	}
	if !found {
		t.Error("no room-excess error for 3.15m cabinet in 2.5m room")
	}
}

func TestHeightRule(t *testing.T) {
	r := NewHeightRule()
	ctx := &Context{Tolerance: DefaultTolerance}

	if r.AppliesTo(scene.NewObject("sofa.large")) {
		t.Error("applies to unknown category")
	}

	// Standard-height cabinet placed on the floor passes.
	obj := scene.NewObject("cabinet.base.600")
	obj.ID = "x"
	obj.Transform.Translation = mgl64.Vec3{1, 1, 0.5}
	if fs := r.Validate(obj, ctx); len(fs) != 0 {
		t.Errorf("standard cabinet findings = %v", fs)
	}

	// Stretched 20% above the standard height.
	tall := scene.NewObject("cabinet.base.600")
	tall.ID = "tall"
	tall.Transform.Translation = mgl64.Vec3{1, 1, 0.6}
	tall.Transform.Scale = mgl64.Vec3{1, 1, 1.2}
	found := false
	for _, f := range r.Validate(tall, ctx) {
		if strings.Contains(f.Message, "deviates") && f.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Error("no deviation warning for stretched cabinet")
	}

	// Sunk into the floor.
	sunken := scene.NewObject("cabinet.base.600")
	sunken.ID = "sunken"
	sunken.Transform.Translation = mgl64.Vec3{1, 1, 0.2}
	found = false
	for _, f := range r.Validate(sunken, ctx) {
		if strings.Contains(f.Message, "below the floor") && f.Severity == SeverityError {
			found = true
		}
	}
	if !found {
		t.Error("no below-floor error")
	}

	// Through the ceiling.
	high := scene.NewObject("cabinet.wall.600")
	high.ID = "high"
	high.Transform.Translation = mgl64.Vec3{1, 1, 2.4}
	ctxRoom := &Context{
		Project:   &project.Project{Room: project.Room{Width: 4, Depth: 3, Height: 2.5}},
		Tolerance: DefaultTolerance,
	}
	found = false
	for _, f := range r.Validate(high, ctxRoom) {
		if strings.Contains(f.Message, "ceiling") && f.Severity == SeverityError {
			found = true
		}
	}
	if !found {
		t.Error("no above-ceiling error")
	}
}

func TestClearanceRuleDoorSwing(t *testing.T) {
	p := kitchenRoom()
	p.Openings = []project.Opening{
		{WallID: "south", Kind: project.OpeningDoor, Position: 0.5, Width: 0.9, Height: 2.0},
	}
	// The south wall runs from (4,0) to (0,0); position 0.5 is (2,0),
	// swinging into the room toward +Y.
	m, ids := sceneWith(t, placement{"cabinet.base.600", 2, 0.3, 0.5})
	r := NewClearanceRule()

	obj, _ := m.Object(ids[0])
	found := false
	for _, f := range r.Validate(obj, ruleCtx(m, p)) {
		if strings.Contains(f.Message, "door swing") {
			found = true
		}
	}
	if !found {
		t.Error("no door-swing finding for cabinet in front of the door")
	}

	// A window does not probe.
	p.Openings[0].Kind = project.OpeningWindow
	for _, f := range r.Validate(obj, ruleCtx(m, p)) {
		if strings.Contains(f.Message, "door swing") {
			t.Error("window produced a door-swing finding")
		}
	}
}

func TestClearanceRuleWalkway(t *testing.T) {
	p := kitchenRoom()
	// Room is 4 wide x 3 deep: the corridor runs along X at y in [1,2].
	m, ids := sceneWith(t,
		placement{"cabinet.base.600", 2, 1.5, 0.5},
		placement{"cabinet.base.600", 2, 2.7, 0.5},
	)
	r := NewClearanceRule()

	blocking, _ := m.Object(ids[0])
	found := false
	for _, f := range r.Validate(blocking, ruleCtx(m, p)) {
		if strings.Contains(f.Message, "walkway") {
			found = true
		}
	}
	if !found {
		t.Error("no walkway finding for cabinet in the corridor")
	}

	clear, _ := m.Object(ids[1])
	for _, f := range r.Validate(clear, ruleCtx(m, p)) {
		if strings.Contains(f.Message, "walkway") {
			t.Error("wall-side cabinet flagged for the walkway")
		}
	}
}

func TestClearanceRuleWorkspace(t *testing.T) {
	// Island cabinet directly in front (+Y) of a sink.
	m, ids := sceneWith(t,
		placement{"sink.single.600", 2, 0.3, 0.45},
		placement{"cabinet.base.600", 2, 1.2, 0.45},
	)
	r := NewClearanceRule()

	sink, _ := m.Object(ids[0])
	found := false
	for _, f := range r.Validate(sink, ruleCtx(m, nil)) {
		if strings.Contains(f.Message, "workspace") && strings.Contains(f.Message, ids[1]) {
			found = true
		}
	}
	if !found {
		t.Error("no workspace finding for blocked sink front")
	}
}

func TestKitchenRulePlumbingReach(t *testing.T) {
	p := kitchenRoom()
	m, ids := sceneWith(t, placement{"sink.single.600", 2, 0.5, 0.45})
	r := NewKitchenRule()

	// The only plumbing wall is at y=3; the sink sits 2.5m away.
	far, _ := m.Object(ids[0])
	found := false
	for _, f := range r.Validate(far, ruleCtx(m, p)) {
		if strings.Contains(f.Message, "plumbing") {
			found = true
		}
	}
	if !found {
		t.Error("no plumbing-reach finding for distant sink")
	}

	if !m.MoveObject(ids[0], mgl64.Vec3{2, 2.7, 0.45}) {
		t.Fatal("move failed")
	}
	near, _ := m.Object(ids[0])
	for _, f := range r.Validate(near, ruleCtx(m, p)) {
		if strings.Contains(f.Message, "plumbing") {
			t.Error("near sink flagged for plumbing reach")
		}
	}
}

func TestKitchenRuleStoveClearance(t *testing.T) {
	m, ids := sceneWith(t,
		placement{"stove.range.600", 1, 1, 0.45},
		placement{"cabinet.base.600", 1.75, 1, 0.45},
	)
	r := NewKitchenRule()

	stove, _ := m.Object(ids[0])
	found := false
	for _, f := range r.Validate(stove, ruleCtx(m, nil)) {
		if strings.Contains(f.Message, "fire clearance") {
			found = true
		}
	}
	if !found {
		t.Error("no fire-clearance finding for cabinet 0.15m from the stove")
	}
}

func TestKitchenRuleWorkTriangle(t *testing.T) {
	// Sink and stove 2m apart, refrigerator far outside the range.
	m, ids := sceneWith(t,
		placement{"sink.single.600", 0.5, 2.7, 0.45},
		placement{"stove.range.600", 2.5, 2.7, 0.45},
		placement{"refrigerator.standard.700", 9, 9, 0.9},
	)
	r := NewKitchenRule()
	ctx := ruleCtx(m, nil)

	sink, _ := m.Object(ids[0])
	long := 0
	for _, f := range r.Validate(sink, ctx) {
		if strings.Contains(f.Message, "work triangle") {
			long++
		}
	}
	// Only the sink-refrigerator leg is incident to the sink and out of
	// range; the sink-stove leg is fine.
	if long != 1 {
		t.Errorf("work-triangle findings = %d, want 1", long)
	}

	// With only two appliances there is no triangle to check.
	m.RemoveObject(ids[2])
	for _, f := range r.Validate(sink, ctx) {
		if strings.Contains(f.Message, "work triangle") {
			t.Error("incomplete triangle produced a finding")
		}
	}
}

func TestKitchenRuleCabinetAlignment(t *testing.T) {
	m, ids := sceneWith(t,
		placement{"cabinet.base.600", 1, 0.5, 0.45},
		placement{"cabinet.base.600", 1.7, 0.5, 0.45},
	)
	r := NewKitchenRule()
	ctx := ruleCtx(m, nil)

	// Matching heights: quiet.
	a, _ := m.Object(ids[0])
	for _, f := range r.Validate(a, ctx) {
		if strings.Contains(f.Message, "differs from neighbor") {
			t.Error("aligned run flagged")
		}
	}

	// Stretch the neighbor 10cm taller.
	if !m.ScaleObject(ids[1], mgl64.Vec3{1, 1, (0.90 + 0.10) / 0.90}) {
		t.Fatal("scale failed")
	}
	found := false
	for _, f := range r.Validate(a, ctx) {
		if strings.Contains(f.Message, "differs from neighbor") {
			found = true
		}
	}
	if !found {
		t.Error("uneven run not flagged")
	}
}

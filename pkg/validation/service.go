package validation

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/chazu/galley/pkg/geom"
	"github.com/chazu/galley/pkg/project"
	"github.com/chazu/galley/pkg/scene"
)

// RuleExecutionErrorID tags the synthetic finding produced when a rule
// panics. The panicking rule is named in the message; the remaining
// rules still run.
const RuleExecutionErrorID = "rule.execution_error"

// Rule ids for findings produced by the service itself rather than a
// registered rule.
const (
	objectStructureID  = "object.structure"
	projectStructureID = "project.structure"
	placementID        = "placement"
	compatibilityID    = "compatibility"
)

// Defaults for the tunable thresholds.
const (
	DefaultTolerance    = 0.01
	DefaultMinClearance = 0.05
)

// Service is the rule registry and the entry point for every
// validation pass. Rules may be added, removed, enabled, and disabled
// at any time; enablement is independent of registration.
type Service struct {
	mu           sync.RWMutex
	rules        map[string]Rule
	enabled      map[string]struct{}
	strict       bool
	tolerance    float64
	minClearance float64
	counts       map[Severity]int
	log          *zap.Logger
}

// ServiceOption configures a Service at construction time.
type ServiceOption func(*Service)

// WithStrictMode keeps Info findings in returned collections instead
// of filtering them.
func WithStrictMode(strict bool) ServiceOption {
	return func(s *Service) { s.strict = strict }
}

// WithTolerance sets the distance tolerance passed to rules.
func WithTolerance(d float64) ServiceOption {
	return func(s *Service) {
		if d >= 0 {
			s.tolerance = d
		}
	}
}

// WithMinClearance sets the minimum clearance distance used by
// compatibility checks.
func WithMinClearance(d float64) ServiceOption {
	return func(s *Service) {
		if d >= 0 {
			s.minClearance = d
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a Service with all built-in rules registered and
// enabled.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		rules:        make(map[string]Rule),
		enabled:      make(map[string]struct{}),
		tolerance:    DefaultTolerance,
		minClearance: DefaultMinClearance,
		counts:       make(map[Severity]int),
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, r := range []Rule{
		NewCollisionRule(),
		NewDimensionRule(),
		NewHeightRule(),
		NewClearanceRule(),
		NewKitchenRule(),
	} {
		s.rules[r.ID()] = r
		s.enabled[r.ID()] = struct{}{}
	}
	return s
}

// ---------------------------------------------------------------------------
// Rule registry
// ---------------------------------------------------------------------------

// AddRule registers r and enables it. A rule with the same id replaces
// the previous registration.
func (s *Service) AddRule(r Rule) {
	if r == nil || r.ID() == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[r.ID()] = r
	s.enabled[r.ID()] = struct{}{}
}

// RemoveRule unregisters the rule with the given id. Returns false if
// no such rule is registered.
func (s *Service) RemoveRule(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return false
	}
	delete(s.rules, id)
	delete(s.enabled, id)
	return true
}

// Rule returns the registered rule for id.
func (s *Service) Rule(id string) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[id]
	return r, ok
}

// SetRuleEnabled toggles a rule without unregistering it. Returns
// false for an unknown id.
func (s *Service) SetRuleEnabled(id string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return false
	}
	if enabled {
		s.enabled[id] = struct{}{}
	} else {
		delete(s.enabled, id)
	}
	return true
}

// IsRuleEnabled reports whether id is registered and enabled.
func (s *Service) IsRuleEnabled(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enabled[id]
	return ok
}

// AvailableRules returns all registered rule ids in sorted order.
func (s *Service) AvailableRules() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.rules))
	for id := range s.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// enabledRulesSorted snapshots the enabled rules in id order so a
// validation pass runs deterministically even while the registry is
// mutated concurrently.
func (s *Service) enabledRulesSorted() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.enabled))
	for id := range s.enabled {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rules := make([]Rule, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.rules[id]; ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// ---------------------------------------------------------------------------
// Entry points
// ---------------------------------------------------------------------------

// ValidateObject runs structural checks plus every enabled, applicable
// rule against obj. The returned slice is never nil and is filtered
// per the strict-mode policy; per-severity counts are recorded before
// filtering.
func (s *Service) ValidateObject(obj *scene.Object, ctx *Context) []ValidationError {
	ctx = s.contextOrDefault(ctx)

	if obj == nil {
		return s.finish(ctx, []ValidationError{{
			Severity: SeverityError,
			Message:  "object is nil",
			RuleID:   objectStructureID,
		}})
	}

	findings := s.structuralChecks(obj)
	findings = append(findings, s.runRules(obj, ctx)...)
	return s.finish(ctx, findings)
}

// structuralChecks covers the object-shape invariants that hold
// regardless of which rules are enabled.
func (s *Service) structuralChecks(obj *scene.Object) []ValidationError {
	var findings []ValidationError
	if obj.ID == "" {
		findings = append(findings, ValidationError{
			Severity:   SeverityError,
			Message:    "object has no id",
			RuleID:     objectStructureID,
			Suggestion: "register the object with the scene manager before validating",
		})
	}
	if obj.CatalogRef == "" {
		findings = append(findings, ValidationError{
			Severity:   SeverityWarning,
			Message:    "object has no catalog reference",
			ObjectID:   obj.ID,
			RuleID:     objectStructureID,
			Suggestion: "assign a catalog reference so type-specific rules can apply",
		})
	}
	return findings
}

// runRules executes every enabled rule whose AppliesTo predicate
// matches, isolating panics per rule.
func (s *Service) runRules(obj *scene.Object, ctx *Context) []ValidationError {
	var findings []ValidationError
	for _, r := range s.enabledRulesSorted() {
		if !r.AppliesTo(obj) {
			continue
		}
		findings = append(findings, s.runRule(r, obj, ctx)...)
	}
	return findings
}

// runRule invokes a single rule, converting a panic into a synthetic
// Error finding so the rest of the pass proceeds.
func (s *Service) runRule(r Rule, obj *scene.Object, ctx *Context) (findings []ValidationError) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Warn("validation rule panicked",
				zap.String("rule", r.ID()),
				zap.Any("panic", rec))
			findings = []ValidationError{{
				Severity: SeverityError,
				Message:  fmt.Sprintf("rule %q failed: %v", r.ID(), rec),
				ObjectID: obj.ID,
				RuleID:   RuleExecutionErrorID,
			}}
		}
	}()
	return r.Validate(obj, ctx)
}

// ValidateProject checks the project's structural invariants, then
// validates every object it contains against a project-backed
// context. The returned slice is never nil.
func (s *Service) ValidateProject(p *project.Project, ctx *Context) []ValidationError {
	ctx = s.contextOrDefault(ctx)
	ctx.Project = p

	if p == nil {
		return s.finish(ctx, []ValidationError{{
			Severity: SeverityError,
			Message:  "project is nil",
			RuleID:   projectStructureID,
		}})
	}

	findings := validateRoom(p.Room)
	findings = append(findings, validateWalls(p)...)
	findings = append(findings, validateOpenings(p)...)

	for _, obj := range p.Objects {
		findings = append(findings, s.structuralChecks(obj)...)
		findings = append(findings, s.runRules(obj, ctx)...)
	}
	return s.finish(ctx, findings)
}

func validateRoom(r project.Room) []ValidationError {
	var findings []ValidationError
	if r.Width <= 0 || r.Depth <= 0 || r.Height <= 0 {
		findings = append(findings, ValidationError{
			Severity: SeverityError,
			Message: fmt.Sprintf("room dimensions must be positive, got %g x %g x %g",
				r.Width, r.Depth, r.Height),
			RuleID: projectStructureID,
		})
	}
	return findings
}

func validateWalls(p *project.Project) []ValidationError {
	var findings []ValidationError
	for _, w := range p.Walls {
		if w.Length() <= 0 {
			findings = append(findings, ValidationError{
				Severity: SeverityError,
				Message:  fmt.Sprintf("wall %q has zero length", w.ID),
				Location: w.Start,
				RuleID:   projectStructureID,
			})
		}
		if w.Height <= 0 {
			findings = append(findings, ValidationError{
				Severity: SeverityError,
				Message:  fmt.Sprintf("wall %q has non-positive height %g", w.ID, w.Height),
				Location: w.Start,
				RuleID:   projectStructureID,
			})
		}
		if w.Thickness <= 0 {
			findings = append(findings, ValidationError{
				Severity: SeverityError,
				Message:  fmt.Sprintf("wall %q has non-positive thickness %g", w.ID, w.Thickness),
				Location: w.Start,
				RuleID:   projectStructureID,
			})
		}
	}
	return findings
}

func validateOpenings(p *project.Project) []ValidationError {
	var findings []ValidationError
	for i, o := range p.Openings {
		wall, wallOK := p.Wall(o.WallID)
		if !wallOK {
			findings = append(findings, ValidationError{
				Severity: SeverityError,
				Message: fmt.Sprintf("opening %d (%s) references unknown wall %q",
					i, o.Kind, o.WallID),
				RuleID:     projectStructureID,
				Suggestion: "point the opening at an existing wall id",
			})
		}
		location := wall.PointAt(math.Min(math.Max(o.Position, 0), 1))
		if o.Position < 0 || o.Position > 1 {
			findings = append(findings, ValidationError{
				Severity: SeverityError,
				Message: fmt.Sprintf("opening %d (%s) position %g is outside [0,1] along wall %q",
					i, o.Kind, o.Position, o.WallID),
				Location:   location,
				RuleID:     projectStructureID,
				Suggestion: "positions are fractions of the wall's run",
			})
		}
		if o.Width <= 0 || o.Height <= 0 {
			findings = append(findings, ValidationError{
				Severity: SeverityError,
				Message: fmt.Sprintf("opening %d (%s) must have positive width and height, got %g x %g",
					i, o.Kind, o.Width, o.Height),
				Location: location,
				RuleID:   projectStructureID,
			})
		}
	}
	return findings
}

// ValidatePlacement checks a candidate transform for numeric sanity
// and room containment, then runs the enabled rules as if the object
// carried that transform. The object's stored transform is untouched.
func (s *Service) ValidatePlacement(obj *scene.Object, t geom.Transform, ctx *Context) []ValidationError {
	ctx = s.contextOrDefault(ctx)

	if obj == nil {
		return s.finish(ctx, []ValidationError{{
			Severity: SeverityError,
			Message:  "object is nil",
			RuleID:   placementID,
		}})
	}

	var findings []ValidationError
	for i, axis := range [3]string{"x", "y", "z"} {
		if math.IsNaN(t.Translation[i]) || math.IsInf(t.Translation[i], 0) {
			findings = append(findings, ValidationError{
				Severity: SeverityCritical,
				Message:  fmt.Sprintf("translation %s is not a finite number", axis),
				ObjectID: obj.ID,
				RuleID:   placementID,
			})
		}
		if t.Scale[i] <= 0 || math.IsNaN(t.Scale[i]) || math.IsInf(t.Scale[i], 0) {
			findings = append(findings, ValidationError{
				Severity: SeverityError,
				Message:  fmt.Sprintf("scale %s must be a positive finite number, got %g", axis, t.Scale[i]),
				ObjectID: obj.ID,
				RuleID:   placementID,
			})
		}
	}

	// Numeric sanity gates the remaining checks; a NaN transform
	// poisons every downstream comparison.
	if len(findings) > 0 {
		return s.finish(ctx, findings)
	}

	if ctx.Project != nil && !ctx.Project.Room.Bounds().ContainsPoint(t.Translation) {
		findings = append(findings, ValidationError{
			Severity:   SeverityWarning,
			Message:    "placement position is outside the room",
			ObjectID:   obj.ID,
			Location:   t.Translation,
			RuleID:     placementID,
			Suggestion: "move the object inside the room bounds",
		})
	}

	candidate := obj.Clone()
	candidate.Transform = t
	findings = append(findings, s.runRules(candidate, ctx)...)
	return s.finish(ctx, findings)
}

// ValidateCompatibility runs the pairwise placement checks: minimum
// clearance plus the named domain pairings. Identical ids
// short-circuit to no findings.
func (s *Service) ValidateCompatibility(a, b *scene.Object, ctx *Context) []ValidationError {
	ctx = s.contextOrDefault(ctx)
	findings := []ValidationError{}
	if a == nil || b == nil || a.ID == b.ID {
		return findings
	}

	dist := a.Transform.Translation.Sub(b.Transform.Translation).Len()
	if dist < ctx.MinClearance {
		findings = append(findings, ValidationError{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("objects %s and %s are too close: %.3fm apart, minimum clearance is %.3fm",
				a.ID, b.ID, dist, ctx.MinClearance),
			ObjectID:   a.ID,
			Location:   a.Transform.Translation,
			RuleID:     compatibilityID,
			Suggestion: "increase the spacing between the two objects",
		})
	}

	findings = append(findings, pairwiseDomainChecks(a, b, dist)...)
	return s.finish(ctx, findings)
}

// contextOrDefault fills in a context carrying the service's defaults
// when the caller passes nil.
func (s *Service) contextOrDefault(ctx *Context) *Context {
	if ctx != nil {
		return ctx
	}
	return &Context{
		Strict:       s.strict,
		Tolerance:    s.tolerance,
		MinClearance: s.minClearance,
	}
}

// finish records per-severity counts for every finding, then applies
// the strict-mode filter: in non-strict mode Info findings are dropped
// from the returned collection but still counted. Never returns nil.
func (s *Service) finish(ctx *Context, findings []ValidationError) []ValidationError {
	s.mu.Lock()
	for _, f := range findings {
		s.counts[f.Severity]++
	}
	s.mu.Unlock()

	if ctx.Strict {
		if findings == nil {
			return []ValidationError{}
		}
		return findings
	}
	out := []ValidationError{}
	for _, f := range findings {
		if f.Severity != SeverityInfo {
			out = append(out, f)
		}
	}
	return out
}

// Strict reports whether strict mode is on.
func (s *Service) Strict() bool { return s.strict }

// Tolerance returns the geometric tolerance used for default contexts.
func (s *Service) Tolerance() float64 { return s.tolerance }

// MinClearance returns the minimum clearance used for default contexts.
func (s *Service) MinClearance() float64 { return s.minClearance }

// Counts returns the per-severity totals accumulated since
// construction or the last ResetCounts. Filtered Info findings are
// included.
func (s *Service) Counts() map[Severity]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Severity]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// ResetCounts zeroes the per-severity totals.
func (s *Service) ResetCounts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = make(map[Severity]int)
}

package scene

import (
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chazu/galley/pkg/collision"
	"github.com/chazu/galley/pkg/geom"
	"github.com/chazu/galley/pkg/spatial"
)

// Manager owns the object registry, the cached world bounds, the
// spatial index, and the selection set, and keeps all four consistent
// under a single mutex.
//
// The mutex is not re-entrant: every public method takes it for its
// full duration, and internal helpers that run with it held carry the
// Locked suffix and never call back into the public API.
type Manager struct {
	mu        sync.Mutex
	objects   map[string]*Object
	bounds    map[string]geom.BoundingBox
	selection map[string]struct{}
	index     *spatial.Grid
	provider  BoundsProvider

	collisionEnabled   bool
	collisionTolerance float64

	onAdded     []func(id string)
	onRemoved   []func(id string)
	onModified  []func(id string)
	onSelection []func(ids []string)

	log *zap.Logger
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithCellSize sets the spatial index cell size in meters.
func WithCellSize(size float64) Option {
	return func(m *Manager) { m.index = spatial.NewGrid(size) }
}

// WithBoundsProvider replaces the default unit-cube extent provider.
func WithBoundsProvider(p BoundsProvider) Option {
	return func(m *Manager) {
		if p != nil {
			m.provider = p
		}
	}
}

// WithCollisionTolerance allows placements to overlap by up to d
// meters before being rejected.
func WithCollisionTolerance(d float64) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.collisionTolerance = d
		}
	}
}

// WithLogger attaches a structured logger. The default is a no-op
// logger so library use stays silent.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates an empty scene with collision detection enabled.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		objects:          make(map[string]*Object),
		bounds:           make(map[string]geom.BoundingBox),
		selection:        make(map[string]struct{}),
		index:            spatial.NewGrid(spatial.DefaultCellSize),
		provider:         UnitCubeBounds(),
		collisionEnabled: true,
		log:              zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ---------------------------------------------------------------------------
// Change notification
// ---------------------------------------------------------------------------

// OnObjectAdded registers a callback fired after an object has been
// committed to the registry. Callbacks run synchronously with the
// Manager lock held and must not call back into the Manager.
func (m *Manager) OnObjectAdded(f func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAdded = append(m.onAdded, f)
}

// OnObjectRemoved registers a callback fired after an object has been
// purged from the registry, index, and selection. Same locking
// constraint as OnObjectAdded.
func (m *Manager) OnObjectRemoved(f func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRemoved = append(m.onRemoved, f)
}

// OnObjectModified registers a callback fired after a transform has
// been committed. Same locking constraint as OnObjectAdded.
func (m *Manager) OnObjectModified(f func(id string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onModified = append(m.onModified, f)
}

// OnSelectionChanged registers a callback fired after any net change
// to the selection set, with the new selection. Same locking
// constraint as OnObjectAdded.
func (m *Manager) OnSelectionChanged(f func(ids []string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSelection = append(m.onSelection, f)
}

func (m *Manager) notifyAddedLocked(id string) {
	for _, f := range m.onAdded {
		f(id)
	}
}

func (m *Manager) notifyRemovedLocked(id string) {
	for _, f := range m.onRemoved {
		f(id)
	}
}

func (m *Manager) notifyModifiedLocked(id string) {
	for _, f := range m.onModified {
		f(id)
	}
}

func (m *Manager) notifySelectionLocked() {
	if len(m.onSelection) == 0 {
		return
	}
	ids := m.selectionLocked()
	for _, f := range m.onSelection {
		f(ids)
	}
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// newIDLocked generates an object id that is not present in the
// registry, re-rolling on the (vanishingly unlikely) clash.
func (m *Manager) newIDLocked() string {
	for {
		id := uuid.NewString()
		if _, exists := m.objects[id]; !exists {
			return id
		}
	}
}

// worldBoundsLocked derives an object's world-space bounds from its
// base extent and current transform.
func (m *Manager) worldBoundsLocked(obj *Object) geom.BoundingBox {
	return obj.Transform.ApplyToBounds(m.provider.BaseBounds(obj))
}

// BoundsFor computes the world bounds obj occupies under its current
// transform. The object does not have to be registered; this is how
// callers evaluate candidate transforms without committing them.
func (m *Manager) BoundsFor(obj *Object) geom.BoundingBox {
	if obj == nil {
		return geom.EmptyBox()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.worldBoundsLocked(obj)
}

// AddObject registers obj, assigning a fresh unique id when obj
// carries none or its id is already taken, and returns the final id.
// The returned id is empty only for a nil object.
func (m *Manager) AddObject(obj *Object) string {
	if obj == nil {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if obj.ID == "" {
		obj.ID = m.newIDLocked()
	} else if _, exists := m.objects[obj.ID]; exists {
		obj.ID = m.newIDLocked()
	}

	bb := m.worldBoundsLocked(obj)
	m.objects[obj.ID] = obj
	m.bounds[obj.ID] = bb
	m.index.AddObject(obj.ID, bb)

	m.log.Debug("object added",
		zap.String("id", obj.ID),
		zap.String("catalog", obj.CatalogRef))
	m.notifyAddedLocked(obj.ID)
	return obj.ID
}

// RemoveObject unregisters id, purging its spatial index membership
// and selection membership. Returns false for an unknown id.
func (m *Manager) RemoveObject(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[id]
	if !ok {
		return false
	}
	m.index.RemoveObject(id, m.bounds[id])
	delete(m.objects, id)
	delete(m.bounds, id)
	if _, selected := m.selection[id]; selected {
		delete(m.selection, id)
		m.notifySelectionLocked()
	}

	m.log.Debug("object removed",
		zap.String("id", id),
		zap.String("catalog", obj.CatalogRef))
	m.notifyRemovedLocked(id)
	return true
}

// Object returns the registered object for id. The returned pointer
// is borrowed; its transform must only change through the mutators.
func (m *Manager) Object(id string) (*Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[id]
	return obj, ok
}

// Bounds returns the cached world-space bounds for id.
func (m *Manager) Bounds(id string) (geom.BoundingBox, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bb, ok := m.bounds[id]
	return bb, ok
}

// Count returns the number of registered objects.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// IDs returns all registered ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idsLocked()
}

func (m *Manager) idsLocked() []string {
	ids := make([]string, 0, len(m.objects))
	for id := range m.objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DuplicateObject deep-copies the object's persisted state, assigns
// the copy a fresh id, and returns it without registering it. The
// caller decides whether and where to add it. Returns nil for an
// unknown id.
func (m *Manager) DuplicateObject(id string) *Object {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[id]
	if !ok {
		return nil
	}
	cp := obj.Clone()
	if cp == nil {
		return nil
	}
	cp.ID = m.newIDLocked()
	return cp
}

// Clear drops every object, the bounds cache, the spatial index, and
// the selection. No per-object notifications fire; this is a session
// reset, not a batch removal.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string]*Object)
	m.bounds = make(map[string]geom.BoundingBox)
	m.selection = make(map[string]struct{})
	m.index.Clear()
	m.log.Debug("scene cleared")
}

// ---------------------------------------------------------------------------
// Transform mutation
// ---------------------------------------------------------------------------

// SetCollisionDetectionEnabled toggles collision rejection on the
// mutation path. Placements made while disabled may overlap.
func (m *Manager) SetCollisionDetectionEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collisionEnabled = enabled
}

// CollisionDetectionEnabled reports whether mutations are gated by
// collision rejection.
func (m *Manager) CollisionDetectionEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collisionEnabled
}

// SetCollisionTolerance sets how far placements may overlap, in
// meters, before being rejected. Negative values are ignored.
func (m *Manager) SetCollisionTolerance(d float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d >= 0 {
		m.collisionTolerance = d
	}
}

// SetTransform replaces an object's transform wholesale, subject to
// collision rejection. Returns false for an unknown id or a rejected
// placement; on rejection the stored transform and bounds are
// untouched.
func (m *Manager) SetTransform(id string, t geom.Transform) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyTransformLocked(id, t)
}

// MoveObject places the object at an absolute position, keeping its
// rotation and scale.
func (m *Manager) MoveObject(id string, position mgl64.Vec3) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[id]
	if !ok {
		return false
	}
	next := obj.Transform
	next.Translation = position
	return m.applyTransformLocked(id, next)
}

// TranslateObject shifts the object by delta.
func (m *Manager) TranslateObject(id string, delta mgl64.Vec3) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[id]
	if !ok {
		return false
	}
	next := obj.Transform
	next.Translation = next.Translation.Add(delta)
	return m.applyTransformLocked(id, next)
}

// RotateObject adds delta to the object's Euler rotation.
func (m *Manager) RotateObject(id string, delta mgl64.Vec3) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[id]
	if !ok {
		return false
	}
	next := obj.Transform
	next.Rotation = next.Rotation.Add(delta)
	return m.applyTransformLocked(id, next)
}

// ScaleObject multiplies the object's scale componentwise by factor.
func (m *Manager) ScaleObject(id string, factor mgl64.Vec3) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[id]
	if !ok {
		return false
	}
	next := obj.Transform
	next.Scale = mgl64.Vec3{
		next.Scale[0] * factor[0],
		next.Scale[1] * factor[1],
		next.Scale[2] * factor[2],
	}
	return m.applyTransformLocked(id, next)
}

// applyTransformLocked is the single write path for transforms. When
// collision detection is enabled the candidate bounds are tested
// against every other registered object's cached bounds (a direct
// scan, not the index, so the index's over-approximation can never
// mask a hit), and a colliding placement is rejected with the stored
// state untouched. On success the transform is committed, the bounds
// cache recomputed, the index updated, and the modified notification
// fired, all under the same critical section.
func (m *Manager) applyTransformLocked(id string, next geom.Transform) bool {
	obj, ok := m.objects[id]
	if !ok {
		return false
	}
	old, ok := m.bounds[id]
	if !ok {
		return false
	}
	if !next.IsFinite() {
		m.log.Warn("rejecting non-finite transform", zap.String("id", id))
		return false
	}

	if m.collisionEnabled {
		others := m.otherBoundsLocked(id)
		base := m.provider.BaseBounds(obj)
		if collision.WouldCollide(base, next, others) {
			m.log.Debug("placement rejected by collision",
				zap.String("id", id))
			return false
		}
	}

	obj.Transform = next
	nb := m.worldBoundsLocked(obj)
	m.index.UpdateObject(id, old, nb)
	m.bounds[id] = nb
	m.notifyModifiedLocked(id)
	return true
}

// otherBoundsLocked gathers the cached bounds of every object except
// id, each shrunk by the collision tolerance so that overlaps up to
// the tolerance pass.
func (m *Manager) otherBoundsLocked(id string) []geom.BoundingBox {
	others := make([]geom.BoundingBox, 0, len(m.bounds)-1)
	for oid, bb := range m.bounds {
		if oid == id {
			continue
		}
		if m.collisionTolerance > 0 {
			bb = bb.Grow(-m.collisionTolerance)
		}
		others = append(others, bb)
	}
	return others
}

// CheckCollision reports whether placing id with transform t would
// collide, without mutating anything. Unknown ids report false.
func (m *Manager) CheckCollision(id string, t geom.Transform) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[id]
	if !ok {
		return false
	}
	return collision.WouldCollide(m.provider.BaseBounds(obj), t, m.otherBoundsLocked(id))
}

// ---------------------------------------------------------------------------
// Spatial queries
// ---------------------------------------------------------------------------

// FindIntersectingObjects returns the ids of objects whose exact
// bounds intersect id's bounds, excluding id itself. Index candidates
// are always re-verified against the authoritative bounds cache.
func (m *Manager) FindIntersectingObjects(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findIntersectingLocked(id)
}

func (m *Manager) findIntersectingLocked(id string) []string {
	bb, ok := m.bounds[id]
	if !ok {
		return nil
	}
	var hits []string
	for _, cand := range m.index.QueryRegion(bb) {
		if cand == id {
			continue
		}
		if other, ok := m.bounds[cand]; ok && bb.Intersects(other) {
			hits = append(hits, cand)
		}
	}
	sort.Strings(hits)
	return hits
}

// FindNearbyObjects returns ids whose bounds center lies within
// radius of id's bounds center, excluding id itself.
func (m *Manager) FindNearbyObjects(id string, radius float64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	bb, ok := m.bounds[id]
	if !ok {
		return nil
	}
	center := bb.Center()
	var hits []string
	for _, cand := range m.index.QueryRadius(center, radius) {
		if cand == id {
			continue
		}
		other, ok := m.bounds[cand]
		if !ok {
			continue
		}
		if other.Center().Sub(center).Len() <= radius {
			hits = append(hits, cand)
		}
	}
	sort.Strings(hits)
	return hits
}

// ObjectsInRegion returns ids whose exact bounds intersect region.
func (m *Manager) ObjectsInRegion(region geom.BoundingBox) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var hits []string
	for _, cand := range m.index.QueryRegion(region) {
		if bb, ok := m.bounds[cand]; ok && region.Intersects(bb) {
			hits = append(hits, cand)
		}
	}
	sort.Strings(hits)
	return hits
}

// DetectAllCollisions runs an exhaustive exact pairwise test over all
// registered objects. This is a diagnostic operation and deliberately
// does not use the index.
func (m *Manager) DetectAllCollisions() []collision.Penetration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detectAllCollisionsLocked()
}

func (m *Manager) detectAllCollisionsLocked() []collision.Penetration {
	ids := m.idsLocked()
	var out []collision.Penetration
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := m.bounds[ids[i]], m.bounds[ids[j]]
			if a.Intersects(b) {
				out = append(out, collision.CalculatePenetration(ids[i], ids[j], a, b))
			}
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// SetSelection replaces the selection with ids, silently dropping ids
// not in the registry.
func (m *Manager) SetSelection(ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := m.objects[id]; ok {
			next[id] = struct{}{}
		}
	}
	if selectionEqual(m.selection, next) {
		return
	}
	m.selection = next
	m.notifySelectionLocked()
}

// AddToSelection adds id to the selection if it is registered.
func (m *Manager) AddToSelection(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[id]; !ok {
		return
	}
	if _, already := m.selection[id]; already {
		return
	}
	m.selection[id] = struct{}{}
	m.notifySelectionLocked()
}

// RemoveFromSelection removes id from the selection.
func (m *Manager) RemoveFromSelection(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.selection[id]; !ok {
		return
	}
	delete(m.selection, id)
	m.notifySelectionLocked()
}

// ClearSelection empties the selection.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.selection) == 0 {
		return
	}
	m.selection = make(map[string]struct{})
	m.notifySelectionLocked()
}

// IsSelected reports whether id is in the selection.
func (m *Manager) IsSelected(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.selection[id]
	return ok
}

// Selection returns the selected ids in sorted order.
func (m *Manager) Selection() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectionLocked()
}

func (m *Manager) selectionLocked() []string {
	ids := make([]string, 0, len(m.selection))
	for id := range m.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func selectionEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Statistics
// ---------------------------------------------------------------------------

// Stats is a point-in-time snapshot of the scene's bookkeeping.
type Stats struct {
	Objects    int
	Selected   int
	Cells      int
	Collisions int
}

// Stats computes a consistent snapshot. The collision count reuses the
// lock-free internal pairwise scan; calling the public
// DetectAllCollisions from here would deadlock on the non-reentrant
// mutex.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Objects:    len(m.objects),
		Selected:   len(m.selection),
		Cells:      m.index.CellCount(),
		Collisions: len(m.detectAllCollisionsLocked()),
	}
}

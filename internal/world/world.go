// Package world implements the spatial collision and trigger engine that
// resolves agent movement against mostly-static room geometry laid out on a
// bounded 2D ground plane with height bands.
//
// The engine is planar-XZ with a 1D vertical band per object, not full 3D
// geometry. Queries are discrete (destination-only, non-swept): a fast agent
// can tunnel through a thin obstacle in a single tick. That limitation is
// accepted, not silently worked around.
//
// All queries favor silent safe fallbacks over errors; the engine runs
// inside a real-time loop where a hard failure would freeze the room.
package world

import (
	"log"
	"sync"
	"time"

	"habitat/internal/world/spatial"
)

// Config holds engine construction parameters.
type Config struct {
	// ColliderCellSize is the spatial hash cell size for obstacles.
	// Good occupancy comes from roughly twice the typical object extent.
	ColliderCellSize float64

	// TriggerCellSize is the spatial hash cell size for interaction zones.
	TriggerCellSize float64
}

// DefaultConfig returns cell sizes tuned for furniture-scale props.
func DefaultConfig() Config {
	return Config{
		ColliderCellSize: 4.0,
		TriggerCellSize:  4.0,
	}
}

// World owns the collider and trigger stores plus their spatial indexes and
// is the single entry point for registration and per-tick queries.
//
// Concurrency: one coarse exclusive lock. Per-tick query volume is small
// relative to the tick budget, so finer-grained locking buys nothing here.
// Query methods take the write lock too: the grids reuse internal scratch
// buffers and trigger evaluation flips edge state.
type World struct {
	mu sync.Mutex

	colliders *ColliderStore
	triggers  *TriggerStore

	colliderGrid *spatial.Grid
	triggerGrid  *spatial.Grid

	// Optional append-only event log; nil disables emission.
	eventLog *EventLog

	// Current simulation tick, stamped onto emitted events.
	// Advanced by the owning loop, not by the engine itself.
	tick uint64
}

// New creates a world with the given configuration.
// A non-positive cell size is a configuration error and fails construction.
func New(cfg Config) (*World, error) {
	colliderGrid, err := spatial.NewGrid(cfg.ColliderCellSize)
	if err != nil {
		return nil, err
	}
	triggerGrid, err := spatial.NewGrid(cfg.TriggerCellSize)
	if err != nil {
		return nil, err
	}

	return &World{
		colliders:    NewColliderStore(),
		triggers:     NewTriggerStore(),
		colliderGrid: colliderGrid,
		triggerGrid:  triggerGrid,
	}, nil
}

// AttachEventLog wires an event log into registration and trigger edges.
func (w *World) AttachEventLog(el *EventLog) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.eventLog = el
}

// SetTick records the current simulation tick for event stamping.
func (w *World) SetTick(tick uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tick = tick
}

// emit sends an event if a log is attached.
func (w *World) emit(eventType EventType, sourceID string, payload interface{}) {
	if w.eventLog != nil {
		w.eventLog.EmitSimple(eventType, w.tick, sourceID, payload)
	}
}

// EmitTick records a sampled tick boundary in the event log. Called by the
// owning loop at its own sampling rate, not every tick.
func (w *World) EmitTick(agents int, delta time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.emit(EventTypeTick, "", TickPayload{
		AgentCount:  agents,
		DeltaTimeNs: delta.Nanoseconds(),
	})
}

// ColliderSpec is the registration contract for one static obstacle.
type ColliderSpec struct {
	X, Z     float64
	Y        float64 // Base height of the vertical extent
	Height   float64 // Vertical extent above Y
	Shape    ShapeDescriptor
	Type     string // "none", "solid", "water", "decoration"
	Metadata string // Opaque; returned unchanged, never interpreted
}

// AddCollider registers a static obstacle and returns its stable id.
// Malformed shape kinds degrade to a unit circle instead of rejecting the
// registration.
func (w *World) AddCollider(spec ColliderSpec) uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()

	shape := ShapeFromDescriptor(spec.Shape)
	c := w.colliders.Add(Collider{
		X:        spec.X,
		Z:        spec.Z,
		Y:        spec.Y,
		Height:   spec.Height,
		Shape:    shape,
		Type:     ColliderTypeFromString(spec.Type),
		Metadata: spec.Metadata,
	})
	w.colliderGrid.Insert(c.ID, shape.BBox(c.X, c.Z))

	w.emit(EventTypeColliderAdd, "", ColliderPayload{
		ColliderID: c.ID,
		X:          c.X,
		Z:          c.Z,
		Y:          c.Y,
		Kind:       shape.Kind.String(),
		Type:       c.Type.String(),
		Metadata:   c.Metadata,
	})
	return c.ID
}

// RemoveCollider deletes an obstacle and its grid membership.
// Returns false for an unknown id, never panics.
func (w *World) RemoveCollider(id uint32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.colliders.Remove(id) {
		return false
	}
	w.colliderGrid.Remove(id)
	w.emit(EventTypeColliderRemove, "", ColliderPayload{ColliderID: id})
	return true
}

// MoveCollider repositions an obstacle. Grid membership is re-derived from
// the new position in the same critical section, so no query can observe a
// half-moved collider.
func (w *World) MoveCollider(id uint32, x, z, y float64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := w.colliders.Get(id)
	if c == nil {
		return false
	}
	c.X, c.Z, c.Y = x, z, y
	w.colliderGrid.Update(id, c.Shape.BBox(x, z))

	w.emit(EventTypeColliderMove, "", ColliderPayload{
		ColliderID: id, X: x, Z: z, Y: y,
		Kind: c.Shape.Kind.String(), Type: c.Type.String(),
	})
	return true
}

// GetCollider returns a copy of a collider record, or false if unknown.
func (w *World) GetCollider(id uint32) (Collider, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := w.colliders.Get(id)
	if c == nil {
		return Collider{}, false
	}
	return *c, true
}

// TriggerSpec is the registration contract for one interaction zone.
type TriggerSpec struct {
	X, Z       float64
	Y          float64
	Shape      ShapeDescriptor
	SeatHeight float64 // Ground-rule elevation hint; 0 = DefaultSeatHeight
	Metadata   string
}

// AddTrigger registers an interaction zone and returns its stable id.
func (w *World) AddTrigger(spec TriggerSpec) uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()

	shape := ShapeFromDescriptor(spec.Shape)
	t := w.triggers.Add(Trigger{
		X:          spec.X,
		Z:          spec.Z,
		Y:          spec.Y,
		Shape:      shape,
		SeatHeight: spec.SeatHeight,
		Metadata:   spec.Metadata,
	})
	w.triggerGrid.Insert(t.ID, shape.BBox(t.X, t.Z))

	w.emit(EventTypeTriggerAdd, "", TriggerZonePayload{
		TriggerID: t.ID, X: t.X, Z: t.Z, Y: t.Y, Metadata: t.Metadata,
	})
	return t.ID
}

// RemoveTrigger deletes a zone and its grid membership.
// Returns false for an unknown id, never panics.
func (w *World) RemoveTrigger(id uint32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.triggers.Remove(id) {
		return false
	}
	w.triggerGrid.Remove(id)
	w.emit(EventTypeTriggerRemove, "", TriggerZonePayload{TriggerID: id})
	return true
}

// GetTrigger returns a copy of a trigger record, or false if unknown.
func (w *World) GetTrigger(id uint32) (Trigger, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t := w.triggers.Get(id)
	if t == nil {
		return Trigger{}, false
	}
	return *t, true
}

// Clear tears down the room: stores and grids empty together inside one
// critical section, so no partially-cleared state is ever observable.
// Id assignment is not reset; ids from the old room stay dead forever.
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	payload := RoomClearPayload{
		Colliders: w.colliders.Len(),
		Triggers:  w.triggers.Len(),
	}

	w.colliders.Clear()
	w.triggers.Clear()
	w.colliderGrid.Clear()
	w.triggerGrid.Clear()

	w.emit(EventTypeRoomClear, "", payload)
	log.Printf("🧹 Room cleared: %d colliders, %d triggers", payload.Colliders, payload.Triggers)
}

// Stats is a point-in-time summary for monitoring.
type Stats struct {
	Colliders    int
	Triggers     int
	ColliderGrid spatial.GridStats
	TriggerGrid  spatial.GridStats
}

// GetStats returns store and grid occupancy statistics.
func (w *World) GetStats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return Stats{
		Colliders:    w.colliders.Len(),
		Triggers:     w.triggers.Len(),
		ColliderGrid: w.colliderGrid.Stats(),
		TriggerGrid:  w.triggerGrid.Stats(),
	}
}

// ColliderCellSize returns the obstacle grid's cell size. Immutable after
// construction, so no lock.
func (w *World) ColliderCellSize() float64 {
	return w.colliderGrid.CellSize()
}

// EachCollider calls fn with a copy of every collider (for rendering/export).
func (w *World) EachCollider(fn func(Collider)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.colliders.Each(func(c *Collider) { fn(*c) })
}

// EachTrigger calls fn with a copy of every trigger.
func (w *World) EachTrigger(fn func(Trigger)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.triggers.Each(func(t *Trigger) { fn(*t) })
}

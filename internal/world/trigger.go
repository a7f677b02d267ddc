package world

// Trigger is an interaction zone: the same footprint geometry as a collider
// plus the edge-detection state used to fire Enter/Exit events.
type Trigger struct {
	ID         uint32
	X, Z       float64
	Y          float64 // Base height; > ElevatedTriggerMinY selects the elevated rule
	Shape      Shape
	SeatHeight float64 // Ground-rule hint; 0 means DefaultSeatHeight
	Metadata   string

	// Inside is the containment result of the most recent evaluation.
	// It is the only mutable field and is never stale by more than one
	// evaluation.
	Inside bool
}

// seatHeightOrDefault resolves the ground-rule seat height.
func (t *Trigger) seatHeightOrDefault() float64 {
	if t.SeatHeight > 0 {
		return t.SeatHeight
	}
	return DefaultSeatHeight
}

// heightOK applies the asymmetric vertical rule.
//
// Elevated triggers require the agent within a symmetric band around the
// trigger base. Ground triggers instead require the agent's feet below the
// seat height (plus slack) so a trigger at floor level does not re-fire for
// an agent standing on top of furniture placed over it.
func (t *Trigger) heightOK(y float64) bool {
	if t.Y > ElevatedTriggerMinY {
		d := y - t.Y
		if d < 0 {
			d = -d
		}
		return d < ElevatedTriggerBand
	}
	return y < t.seatHeightOrDefault()+GroundTriggerTolerance
}

// TriggerStore owns trigger records and their edge state. Same identity
// rules as ColliderStore: monotonic ids, never reused.
type TriggerStore struct {
	byID   map[uint32]*Trigger
	inside map[uint32]struct{} // ids currently flagged Inside, for cheap exit scans
	nextID uint32
}

// NewTriggerStore creates an empty store.
func NewTriggerStore() *TriggerStore {
	return &TriggerStore{
		byID:   make(map[uint32]*Trigger),
		inside: make(map[uint32]struct{}),
	}
}

// Add inserts a record and returns its assigned id.
func (s *TriggerStore) Add(t Trigger) *Trigger {
	s.nextID++
	t.ID = s.nextID
	t.Inside = false
	rec := &t
	s.byID[t.ID] = rec
	return rec
}

// Get returns the record for an id, or nil.
func (s *TriggerStore) Get(id uint32) *Trigger {
	return s.byID[id]
}

// Remove deletes a record. Returns false for an unknown id, never panics.
func (s *TriggerStore) Remove(id uint32) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	delete(s.inside, id)
	return true
}

// Len returns the number of stored triggers.
func (s *TriggerStore) Len() int {
	return len(s.byID)
}

// Clear drops every record and all edge state.
func (s *TriggerStore) Clear() {
	s.byID = make(map[uint32]*Trigger)
	s.inside = make(map[uint32]struct{})
}

// Each calls fn for every stored trigger, in map order.
func (s *TriggerStore) Each(fn func(*Trigger)) {
	for _, t := range s.byID {
		fn(t)
	}
}

// setInside flips a trigger's edge state and maintains the inside set.
func (s *TriggerStore) setInside(t *Trigger, inside bool) {
	t.Inside = inside
	if inside {
		s.inside[t.ID] = struct{}{}
	} else {
		delete(s.inside, t.ID)
	}
}

// insideIDs returns the ids currently flagged Inside. The map must not be
// mutated while iterating the result, so callers copy before flipping state.
func (s *TriggerStore) insideIDs() []uint32 {
	ids := make([]uint32, 0, len(s.inside))
	for id := range s.inside {
		ids = append(ids, id)
	}
	return ids
}

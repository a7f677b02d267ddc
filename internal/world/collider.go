package world

// ColliderType controls how movement and landing treat a collider.
type ColliderType int

const (
	TypeNone       ColliderType = iota // Bookkeeping only; never affects resolution
	TypeSolid                          // Blocks movement, standable
	TypeWater                          // Blocks movement, never standable
	TypeDecoration                     // Blocks movement, standable (visual props with presence)
)

// String returns a human-readable collider type
func (t ColliderType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeSolid:
		return "solid"
	case TypeWater:
		return "water"
	case TypeDecoration:
		return "decoration"
	default:
		return "unknown"
	}
}

// ColliderTypeFromString parses the registration-contract type string.
// Unknown strings resolve to TypeSolid: a prop that blocks when it shouldn't
// is a visible nuisance, a prop that doesn't block when it should lets
// agents clip through geometry.
func ColliderTypeFromString(s string) ColliderType {
	switch s {
	case "none":
		return TypeNone
	case "solid":
		return TypeSolid
	case "water":
		return TypeWater
	case "decoration":
		return TypeDecoration
	default:
		return TypeSolid
	}
}

// Collider is one static obstacle: a footprint shape on the XZ plane
// occupying the vertical band [Y, Y+Height].
type Collider struct {
	ID       uint32
	X, Z     float64 // Planar center
	Y        float64 // Base of the vertical extent
	Height   float64 // Vertical extent above Y
	Shape    Shape
	Type     ColliderType
	Metadata string // Opaque tag (name/owner); carried, never interpreted
}

// Top returns the height of the collider's upper surface.
func (c *Collider) Top() float64 {
	return c.Y + c.Height
}

// ColliderStore owns collider records and assigns stable integer identities.
// Ids are monotonically increasing and never reused, so a stale id held by a
// caller can never silently alias a newer record.
//
// The store is not safe for concurrent use; the owning World holds the lock.
type ColliderStore struct {
	byID   map[uint32]*Collider
	nextID uint32
}

// NewColliderStore creates an empty store.
func NewColliderStore() *ColliderStore {
	return &ColliderStore{byID: make(map[uint32]*Collider)}
}

// Add inserts a record and returns its assigned id.
func (s *ColliderStore) Add(c Collider) *Collider {
	s.nextID++
	c.ID = s.nextID
	rec := &c
	s.byID[c.ID] = rec
	return rec
}

// Get returns the record for an id, or nil.
func (s *ColliderStore) Get(id uint32) *Collider {
	return s.byID[id]
}

// Remove deletes a record. Returns false for an unknown id, never panics.
func (s *ColliderStore) Remove(id uint32) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	return true
}

// Len returns the number of stored colliders.
func (s *ColliderStore) Len() int {
	return len(s.byID)
}

// Clear drops every record. Id assignment continues from where it left off.
func (s *ColliderStore) Clear() {
	s.byID = make(map[uint32]*Collider)
}

// Each calls fn for every stored collider. Iteration order is undefined.
func (s *ColliderStore) Each(fn func(*Collider)) {
	for _, c := range s.byID {
		fn(c)
	}
}

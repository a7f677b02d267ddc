package world

// Height-band and trigger tolerances.
//
// These magnitudes were tuned against gameplay feel, not derived; changing
// them changes what players can walk under, stand on, and interact with.
// Keep them as named constants instead of re-deriving "correct" values.
const (
	// HeightEpsilon shrinks the top of a collider's vertical band so an
	// agent whose feet rest exactly on a surface is not blocked by it.
	HeightEpsilon = 0.1

	// GroundTriggerTolerance is the vertical slack above a ground trigger's
	// seat height within which an agent still counts as inside.
	GroundTriggerTolerance = 0.3

	// LandingTolerance is the upward slack when selecting a standing
	// surface: tops up to this far above the agent's feet still qualify.
	LandingTolerance = 0.5

	// ElevatedTriggerBand is the vertical half-band of triggers placed
	// above ElevatedTriggerMinY; the agent must be within it to interact.
	ElevatedTriggerBand = 1.5

	// BelowBaseTolerance is how far below a collider's base an agent may be
	// before the collider stops blocking (approaching stairs from beneath).
	BelowBaseTolerance = 2.5

	// DefaultAgentHeight is the assumed vertical extent of an agent.
	DefaultAgentHeight = 3.0
)

const (
	// ElevatedTriggerMinY is the base height above which a trigger uses the
	// symmetric elevated band instead of the ground seat rule.
	ElevatedTriggerMinY = 1.0

	// DefaultSeatHeight applies to ground triggers registered without an
	// explicit seat height hint.
	DefaultSeatHeight = 0.5

	// DefaultShapeRadius is the fallback footprint for malformed shape
	// descriptors.
	DefaultShapeRadius = 1.0
)

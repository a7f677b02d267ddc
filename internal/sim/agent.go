package sim

import "math"

// Agent is one simulated mover: players and NPCs share the same record.
// Position is planar XZ plus a vertical coordinate resolved against the
// world's landing surfaces each tick.
type Agent struct {
	Name   string
	X, Z   float64
	Y      float64
	VY     float64 // Vertical velocity; XZ movement is steering, not physics
	Radius float64
	Speed  float64

	Heading  float64 // Wander direction in radians
	Grounded bool

	// Primary marks the agent whose trigger edges are evaluated. The
	// trigger edge state is a single detector per zone, so exactly one
	// agent at a time may drive it; the rest only move and land.
	Primary bool

	// Wander state
	headingTicks int // Ticks until the next heading change

	// Blocked streak, used to turn around instead of grinding into walls
	blockedTicks int
}

// AgentOptions configures a new agent.
type AgentOptions struct {
	Radius  float64
	Speed   float64
	Primary bool
}

// step returns the desired displacement for one tick of wandering.
func (a *Agent) step(dt float64) (dx, dz float64) {
	sin, cos := math.Sincos(a.Heading)
	return cos * a.Speed * dt, sin * a.Speed * dt
}

// AgentState is an immutable copy of an agent for snapshots and broadcast.
type AgentState struct {
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Grounded bool    `json:"grounded"`
	Primary  bool    `json:"primary"`
}

// ToState copies the agent's observable fields.
func (a *Agent) ToState() AgentState {
	return AgentState{
		Name:     a.Name,
		X:        a.X,
		Z:        a.Z,
		Y:        a.Y,
		Radius:   a.Radius,
		Grounded: a.Grounded,
		Primary:  a.Primary,
	}
}

package world

// LandingResult is the outcome of a standing-surface query.
// LandingY is the height of the selected surface when CanLand is true.
type LandingResult struct {
	CanLand  bool
	LandingY float64
	Collider *Collider
}

// CheckLanding returns the highest eligible standing surface at or below the
// agent's feet (plus LandingTolerance of upward slack, so a foot already
// resting on a surface still selects it).
//
// Water is never standable and TypeNone never participates. When platforms
// are stacked over the same XZ footprint the agent lands on the highest
// surface not above its feet, never falling through to a lower one.
func (w *World) CheckLanding(x, z, y, radius float64) LandingResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	var best *Collider
	bestTop := 0.0

	for _, id := range w.colliderGrid.QueryNeighborhood(x, z) {
		c := w.colliders.Get(id)
		if c == nil || c.Type == TypeNone || c.Type == TypeWater {
			continue
		}
		top := c.Top()
		if top > y+LandingTolerance {
			continue // surface above the agent's feet
		}
		// Same footprint test used for blocking, so an agent can stand
		// anywhere it would have collided.
		if !circleHitsShape(x, z, radius, c.X, c.Z, c.Shape) {
			continue
		}
		if best == nil || top > bestTop {
			best = c
			bestTop = top
		}
	}

	if best == nil {
		return LandingResult{}
	}
	return LandingResult{CanLand: true, LandingY: bestTop, Collider: best}
}

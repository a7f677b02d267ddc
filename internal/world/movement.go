package world

// MovementResult is the outcome of a movement resolution.
// X, Z is the safe resulting position; Collider is the first obstacle hit
// when Collided is true.
type MovementResult struct {
	X, Z     float64
	Collided bool
	Collider *Collider
}

// CheckCollision returns the first collider blocking a query circle at
// (x, z) with the agent's feet at height y, or nil when the position is
// clear.
//
// First-hit semantics: no minimum-penetration selection. Which of several
// overlapping colliders is returned depends on grid bucket order, which is
// insertion-order dependent and deliberately unspecified.
func (w *World) CheckCollision(x, z, radius, y float64) *Collider {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.checkCollisionLocked(x, z, radius, y)
}

func (w *World) checkCollisionLocked(x, z, radius, y float64) *Collider {
	for _, id := range w.colliderGrid.QueryNeighborhood(x, z) {
		c := w.colliders.Get(id)
		if c == nil || c.Type == TypeNone {
			continue
		}
		if !heightBandBlocks(y, c.Y, c.Height) {
			continue
		}
		if circleHitsShape(x, z, radius, c.X, c.Z, c.Shape) {
			return c
		}
	}
	return nil
}

// CheckMovement resolves a desired displacement to a safe position.
//
// The destination is tested as-is first. If blocked, each axis is retried
// independently (X first, then Z) so the agent slides along walls instead of
// sticking to them. If both axes are blocked the agent stays put.
//
// This is a discrete resolution: only the destination is tested, never the
// path between current and desired. A thin obstacle can be tunneled through
// at high speed.
func (w *World) CheckMovement(curX, curZ, desiredX, desiredZ, radius, y float64) MovementResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	hit := w.checkCollisionLocked(desiredX, desiredZ, radius, y)
	if hit == nil {
		return MovementResult{X: desiredX, Z: desiredZ}
	}

	// Axis-separated sliding. X-before-Z ordering is arbitrary and can give
	// slightly different results at corners; it matches established feel.
	if w.checkCollisionLocked(desiredX, curZ, radius, y) == nil {
		return MovementResult{X: desiredX, Z: curZ, Collided: true, Collider: hit}
	}
	if w.checkCollisionLocked(curX, desiredZ, radius, y) == nil {
		return MovementResult{X: curX, Z: desiredZ, Collided: true, Collider: hit}
	}

	// Full stop.
	return MovementResult{X: curX, Z: curZ, Collided: true, Collider: hit}
}

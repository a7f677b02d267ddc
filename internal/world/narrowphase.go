package world

import "math"

// Narrow-phase predicates. All take a query circle (an agent footprint at
// x, z with a radius) against a target shape at its own position/rotation.
// All checks are O(1).

// circleHitsCircle reports overlap of two circles on the XZ plane.
func circleHitsCircle(qx, qz, qr, cx, cz, cr float64) bool {
	dx := qx - cx
	dz := qz - cz
	rr := qr + cr
	return dx*dx+dz*dz < rr*rr
}

// circleHitsBox reports overlap of the query circle with an oriented box.
// The query center is rotated by -rotation into the box's local frame, then
// clamped to the extents to find the closest point on the box.
func circleHitsBox(qx, qz, qr, bx, bz, halfX, halfZ, rotation float64) bool {
	dx := qx - bx
	dz := qz - bz

	localX, localZ := dx, dz
	if rotation != 0 {
		sin, cos := math.Sincos(-rotation)
		localX = dx*cos - dz*sin
		localZ = dx*sin + dz*cos
	}

	closestX := math.Max(-halfX, math.Min(halfX, localX))
	closestZ := math.Max(-halfZ, math.Min(halfZ, localZ))

	dx = localX - closestX
	dz = localZ - closestZ
	return dx*dx+dz*dz < qr*qr
}

// circleHitsShape dispatches the query circle against a shape at (x, z).
// The shape variant is closed; anything unexpected is treated as the
// fallback circle so a malformed record degrades instead of vanishing.
func circleHitsShape(qx, qz, qr, x, z float64, s Shape) bool {
	switch s.Kind {
	case ShapeBox:
		return circleHitsBox(qx, qz, qr, x, z, s.HalfX, s.HalfZ, s.Rotation)
	case ShapeCircle:
		return circleHitsCircle(qx, qz, qr, x, z, s.Radius)
	default:
		return circleHitsCircle(qx, qz, qr, x, z, DefaultShapeRadius)
	}
}

// heightBandBlocks is the fast vertical reject applied before any XZ test.
//
// An object occupying [baseY, baseY+height] is only "in the way" of a query
// at queryY if the agent is not already standing on or above it, and not so
// far below that it is on a different floor entirely. This is what lets an
// agent walk under an elevated platform and also stand on top of it.
func heightBandBlocks(queryY, baseY, height float64) bool {
	return queryY < baseY+height-HeightEpsilon &&
		queryY >= baseY-BelowBaseTolerance
}

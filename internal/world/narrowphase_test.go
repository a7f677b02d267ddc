package world

import (
	"math"
	"testing"
)

// TestCircleHitsCircle verifies the circle-vs-circle overlap predicate
func TestCircleHitsCircle(t *testing.T) {
	tests := []struct {
		name       string
		qx, qz, qr float64
		cx, cz, cr float64
		want       bool
	}{
		{"overlapping", 0, 0, 1, 1.5, 0, 1, true},
		{"touching is not overlap", 0, 0, 1, 2, 0, 1, false},
		{"clearly apart", 0, 0, 1, 10, 10, 1, false},
		{"concentric", 5, 5, 0.5, 5, 5, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := circleHitsCircle(tt.qx, tt.qz, tt.qr, tt.cx, tt.cz, tt.cr)
			if got != tt.want {
				t.Errorf("circleHitsCircle() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCircleHitsBox verifies the circle-vs-oriented-box predicate
func TestCircleHitsBox(t *testing.T) {
	tests := []struct {
		name         string
		qx, qz, qr   float64
		bx, bz       float64
		halfX, halfZ float64
		rotation     float64
		want         bool
	}{
		{"center inside box", 10, 10, 0.5, 10, 10, 2, 2, 0, true},
		{"outside along x", 13, 10, 0.4, 10, 10, 2, 2, 0, false},
		{"grazing edge", 12.3, 10, 0.5, 10, 10, 2, 2, 0, true},
		{"corner miss", 12.5, 12.5, 0.5, 10, 10, 2, 2, 0, false},
		// A thin box rotated 45 degrees: the unrotated extents would miss
		// this point, the rotated box covers it.
		{"rotated hit", 1.4, 1.4, 0.1, 0, 0, 3, 0.2, math.Pi / 4, true},
		// And the reverse: covered by unrotated extents, cleared by rotation.
		{"rotated miss", 2.5, 0, 0.1, 0, 0, 3, 0.2, math.Pi / 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := circleHitsBox(tt.qx, tt.qz, tt.qr, tt.bx, tt.bz, tt.halfX, tt.halfZ, tt.rotation)
			if got != tt.want {
				t.Errorf("circleHitsBox() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestHeightBandBlocks verifies the vertical fast-reject filter
func TestHeightBandBlocks(t *testing.T) {
	tests := []struct {
		name          string
		queryY        float64
		baseY, height float64
		want          bool
	}{
		{"at ground level", 0, 0, 2, true},
		{"standing on top", 2, 0, 2, false},
		{"just under the top", 1.8, 0, 2, true},
		{"above the top", 2.5, 0, 2, false},
		{"under elevated platform", 0, 5, 2, false},
		{"within elevated band", 5.5, 5, 2, true},
		{"slightly below base still blocks", 3, 5, 2, true},
		{"far below base", 2, 5, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := heightBandBlocks(tt.queryY, tt.baseY, tt.height)
			if got != tt.want {
				t.Errorf("heightBandBlocks(%v, %v, %v) = %v, want %v",
					tt.queryY, tt.baseY, tt.height, got, tt.want)
			}
		})
	}
}

// TestShapeFromDescriptor verifies descriptor parsing and its fallback
func TestShapeFromDescriptor(t *testing.T) {
	tests := []struct {
		name string
		desc ShapeDescriptor
		want Shape
	}{
		{
			"circle",
			ShapeDescriptor{Kind: "circle", Radius: 3},
			Shape{Kind: ShapeCircle, Radius: 3},
		},
		{
			"box with rotation",
			ShapeDescriptor{Kind: "box", HalfExtentX: 2, HalfExtentZ: 1, Rotation: 0.5},
			Shape{Kind: ShapeBox, HalfX: 2, HalfZ: 1, Rotation: 0.5},
		},
		{
			"unknown kind falls back to unit circle",
			ShapeDescriptor{Kind: "dodecahedron", Radius: 9},
			Shape{Kind: ShapeCircle, Radius: 1},
		},
		{
			"circle without radius gets unit radius",
			ShapeDescriptor{Kind: "circle"},
			Shape{Kind: ShapeCircle, Radius: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShapeFromDescriptor(tt.desc); got != tt.want {
				t.Errorf("ShapeFromDescriptor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestShapeBBox verifies rotation-aware bounding boxes
func TestShapeBBox(t *testing.T) {
	// A 4x1 box rotated 90 degrees must swap its extents.
	s := Shape{Kind: ShapeBox, HalfX: 2, HalfZ: 0.5, Rotation: math.Pi / 2}
	bbox := s.BBox(0, 0)

	const eps = 1e-9
	if math.Abs(bbox.MaxX-0.5) > eps || math.Abs(bbox.MaxZ-2) > eps {
		t.Errorf("rotated bbox = %+v, want extents swapped to (0.5, 2)", bbox)
	}

	// 45 degrees must grow the AABB beyond either unrotated extent.
	s.Rotation = math.Pi / 4
	bbox = s.BBox(0, 0)
	if bbox.MaxX <= 0.5 || bbox.MaxZ <= 0.5 {
		t.Errorf("45-degree bbox = %+v, expected enlarged extents", bbox)
	}
}

package world

import (
	"math"

	"habitat/internal/world/spatial"
)

// ShapeKind discriminates the closed set of footprint shapes.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota // Radial footprint (pillars, trees, agents)
	ShapeBox                     // Oriented rectangle (walls, furniture, platforms)
)

// String returns a human-readable shape kind
func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeBox:
		return "box"
	default:
		return "unknown"
	}
}

// Shape is a closed variant: a circle or an oriented box on the XZ plane.
// Rotation is in radians around the vertical axis and only meaningful for
// boxes.
type Shape struct {
	Kind     ShapeKind
	Radius   float64 // Circle only
	HalfX    float64 // Box only: half extent along local X
	HalfZ    float64 // Box only: half extent along local Z
	Rotation float64
}

// ShapeDescriptor is the registration-contract form of a shape, as supplied
// by scene construction code or the HTTP API.
type ShapeDescriptor struct {
	Kind        string  `json:"kind"` // "circle" or "box"
	Radius      float64 `json:"radius,omitempty"`
	HalfExtentX float64 `json:"halfExtentX,omitempty"`
	HalfExtentZ float64 `json:"halfExtentZ,omitempty"`
	Rotation    float64 `json:"rotation,omitempty"`
}

// ShapeFromDescriptor resolves a descriptor to a concrete shape.
// An unrecognized kind falls back to a unit-radius circle rather than failing
// the registration: a slightly wrong footprint keeps the room walkable, a
// rejected prop would leave a hole in the scene.
func ShapeFromDescriptor(d ShapeDescriptor) Shape {
	switch d.Kind {
	case "circle":
		r := d.Radius
		if r <= 0 {
			r = DefaultShapeRadius
		}
		return Shape{Kind: ShapeCircle, Radius: r}
	case "box":
		return Shape{
			Kind:     ShapeBox,
			HalfX:    d.HalfExtentX,
			HalfZ:    d.HalfExtentZ,
			Rotation: d.Rotation,
		}
	default:
		return Shape{Kind: ShapeCircle, Radius: DefaultShapeRadius}
	}
}

// BBox returns the axis-aligned bounding box of the shape centered at (x, z).
//
// For rotated boxes the four local corners are rotated into world space and
// the AABB taken over them. Using the unrotated extents instead would leak
// stale grid membership whenever an object rotates.
func (s Shape) BBox(x, z float64) spatial.BBox {
	switch s.Kind {
	case ShapeBox:
		if s.Rotation == 0 {
			return spatial.BBox{
				MinX: x - s.HalfX, MinZ: z - s.HalfZ,
				MaxX: x + s.HalfX, MaxZ: z + s.HalfZ,
			}
		}
		sin, cos := math.Sincos(s.Rotation)
		// Extents of the rotated rectangle collapse to this closed form.
		ex := math.Abs(cos)*s.HalfX + math.Abs(sin)*s.HalfZ
		ez := math.Abs(sin)*s.HalfX + math.Abs(cos)*s.HalfZ
		return spatial.BBox{
			MinX: x - ex, MinZ: z - ez,
			MaxX: x + ex, MaxZ: z + ez,
		}
	default:
		return spatial.BBox{
			MinX: x - s.Radius, MinZ: z - s.Radius,
			MaxX: x + s.Radius, MaxZ: z + s.Radius,
		}
	}
}

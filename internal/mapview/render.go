// Package mapview renders a top-down PNG snapshot of the room: obstacles,
// interaction zones, and live agents. Served by the API for debugging room
// layouts without a client.
package mapview

import (
	"image/color"
	"io"

	"habitat/internal/sim"
	"habitat/internal/world"

	"github.com/fogleman/gg"
)

// AgentSource supplies live agent positions for the overlay.
type AgentSource interface {
	GetState() sim.State
}

// Renderer draws the room. Safe for concurrent use; each render builds its
// own drawing context.
type Renderer struct {
	w      *world.World
	agents AgentSource
	extent float64 // Half-extent of the rendered area in world units
	size   int     // Output image size in pixels (square)
}

// NewRenderer creates a renderer for the given world.
// agents may be nil; the overlay is skipped then.
func NewRenderer(w *world.World, agents AgentSource, extent float64, size int) *Renderer {
	if size <= 0 {
		size = 800
	}
	return &Renderer{w: w, agents: agents, extent: extent, size: size}
}

// RenderPNG draws the current room state and encodes it as PNG.
func (r *Renderer) RenderPNG(out io.Writer) error {
	dc := gg.NewContext(r.size, r.size)

	r.drawBackground(dc)
	r.drawGrid(dc)
	r.drawTriggers(dc)
	r.drawColliders(dc)
	r.drawAgents(dc)

	return dc.EncodePNG(out)
}

// toPixel maps world XZ to image coordinates. World origin is the image
// center; +Z grows downward.
func (r *Renderer) toPixel(x, z float64) (float64, float64) {
	scale := float64(r.size) / (2 * r.extent)
	return (x + r.extent) * scale, (z + r.extent) * scale
}

// scale returns pixels per world unit.
func (r *Renderer) scale() float64 {
	return float64(r.size) / (2 * r.extent)
}

func (r *Renderer) drawBackground(dc *gg.Context) {
	dc.SetColor(color.RGBA{18, 22, 30, 255})
	dc.DrawRectangle(0, 0, float64(r.size), float64(r.size))
	dc.Fill()
}

func (r *Renderer) drawGrid(dc *gg.Context) {
	dc.SetColor(color.RGBA{34, 40, 52, 255})
	dc.SetLineWidth(1)

	// One line per spatial hash cell, so bucket boundaries are visible.
	step := r.w.ColliderCellSize() * r.scale()
	for x := 0.0; x < float64(r.size); x += step {
		dc.DrawLine(x, 0, x, float64(r.size))
		dc.Stroke()
	}
	for y := 0.0; y < float64(r.size); y += step {
		dc.DrawLine(0, y, float64(r.size), y)
		dc.Stroke()
	}
}

// colliderColor maps obstacle types to fill colors.
func colliderColor(t world.ColliderType) color.RGBA {
	switch t {
	case world.TypeWater:
		return color.RGBA{40, 110, 200, 200}
	case world.TypeDecoration:
		return color.RGBA{110, 110, 120, 160}
	case world.TypeNone:
		return color.RGBA{70, 70, 70, 90}
	default:
		return color.RGBA{180, 80, 60, 220}
	}
}

func (r *Renderer) drawColliders(dc *gg.Context) {
	scale := r.scale()

	r.w.EachCollider(func(c world.Collider) {
		px, pz := r.toPixel(c.X, c.Z)
		dc.SetColor(colliderColor(c.Type))

		if c.Shape.Kind == world.ShapeCircle {
			dc.DrawCircle(px, pz, c.Shape.Radius*scale)
			dc.Fill()
			return
		}

		// Oriented boxes: rotate the context around the box center.
		dc.Push()
		dc.RotateAbout(c.Shape.Rotation, px, pz)
		dc.DrawRectangle(
			px-c.Shape.HalfX*scale,
			pz-c.Shape.HalfZ*scale,
			2*c.Shape.HalfX*scale,
			2*c.Shape.HalfZ*scale,
		)
		dc.Fill()
		dc.Pop()
	})
}

func (r *Renderer) drawTriggers(dc *gg.Context) {
	scale := r.scale()

	r.w.EachTrigger(func(t world.Trigger) {
		px, pz := r.toPixel(t.X, t.Z)
		dc.SetColor(color.RGBA{90, 200, 120, 70})

		if t.Shape.Kind == world.ShapeCircle {
			dc.DrawCircle(px, pz, t.Shape.Radius*scale)
		} else {
			dc.Push()
			dc.RotateAbout(t.Shape.Rotation, px, pz)
			dc.DrawRectangle(
				px-t.Shape.HalfX*scale,
				pz-t.Shape.HalfZ*scale,
				2*t.Shape.HalfX*scale,
				2*t.Shape.HalfZ*scale,
			)
			dc.Pop()
		}
		dc.Fill()

		// Outline so overlapping zones stay distinguishable.
		dc.SetColor(color.RGBA{90, 200, 120, 200})
		dc.SetLineWidth(1.5)
		if t.Shape.Kind == world.ShapeCircle {
			dc.DrawCircle(px, pz, t.Shape.Radius*scale)
			dc.Stroke()
		}
	})
}

func (r *Renderer) drawAgents(dc *gg.Context) {
	if r.agents == nil {
		return
	}
	scale := r.scale()

	for _, a := range r.agents.GetState().Agents {
		px, pz := r.toPixel(a.X, a.Z)

		// Shadow
		dc.SetColor(color.RGBA{0, 0, 0, 100})
		dc.DrawCircle(px+2, pz+2, a.Radius*scale)
		dc.Fill()

		if a.Primary {
			dc.SetColor(color.RGBA{255, 210, 60, 255})
		} else {
			dc.SetColor(color.RGBA{230, 230, 240, 255})
		}
		dc.DrawCircle(px, pz, a.Radius*scale)
		dc.Fill()

		// Airborne agents get a ring instead of a solid border.
		dc.SetLineWidth(2)
		if a.Grounded {
			dc.SetColor(color.RGBA{40, 40, 50, 255})
		} else {
			dc.SetColor(color.RGBA{120, 180, 255, 255})
		}
		dc.DrawCircle(px, pz, a.Radius*scale)
		dc.Stroke()
	}
}

package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"habitat/internal/sim"
	"habitat/internal/world"

	"github.com/go-chi/chi/v5"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	state := h.engine.GetState()
	stats := h.world.GetStats()

	writeJSON(w, map[string]interface{}{
		"tick":      state.Tick,
		"agents":    state.Agents,
		"colliders": stats.Colliders,
		"triggers":  stats.Triggers,
	})
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.world.GetStats()

	out := map[string]interface{}{
		"colliders":    stats.Colliders,
		"triggers":     stats.Triggers,
		"agents":       h.engine.AgentCount(),
		"colliderGrid": stats.ColliderGrid,
		"triggerGrid":  stats.TriggerGrid,
		"rateLimiter":  h.limiter.GetStats(),
	}
	if h.eventLog != nil {
		out["eventLog"] = h.eventLog.GetStats()
	}
	writeJSON(w, out)
}

func (h *routerHandlers) handleGetMap(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		writeError(w, "Map rendering not enabled", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := h.renderer.RenderPNG(w); err != nil {
		log.Printf("⚠️ Map render failed: %v", err)
	}
}

func (h *routerHandlers) handleRoomClear(w http.ResponseWriter, r *http.Request) {
	h.world.Clear()
	writeJSON(w, map[string]bool{"success": true})
}

// Obstacle handlers

func (h *routerHandlers) handleAddCollider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X        float64               `json:"x"`
		Z        float64               `json:"z"`
		Y        float64               `json:"y"`
		Height   float64               `json:"height"`
		Shape    world.ShapeDescriptor `json:"shape"`
		Type     string                `json:"type"`
		Metadata string                `json:"metadata"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// Handle collider limit reached (DoS protection)
	if h.world.GetStats().Colliders >= h.limits.MaxColliders {
		writeError(w, "Collider limit reached", http.StatusServiceUnavailable)
		return
	}

	id := h.world.AddCollider(world.ColliderSpec{
		X: req.X, Z: req.Z, Y: req.Y, Height: req.Height,
		Shape: req.Shape, Type: req.Type, Metadata: req.Metadata,
	})
	writeJSON(w, map[string]interface{}{"id": id})
}

func (h *routerHandlers) handleListColliders(w http.ResponseWriter, r *http.Request) {
	out := make([]map[string]interface{}, 0)
	h.world.EachCollider(func(c world.Collider) {
		out = append(out, colliderJSON(c))
	})
	writeJSON(w, out)
}

func (h *routerHandlers) handleGetCollider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	c, found := h.world.GetCollider(id)
	if !found {
		writeError(w, "Unknown collider", http.StatusNotFound)
		return
	}
	writeJSON(w, colliderJSON(c))
}

func (h *routerHandlers) handleRemoveCollider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]bool{"success": h.world.RemoveCollider(id)})
}

func (h *routerHandlers) handleMoveCollider(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		X float64 `json:"x"`
		Z float64 `json:"z"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if !h.world.MoveCollider(id, req.X, req.Z, req.Y) {
		writeError(w, "Unknown collider", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// Interaction zone handlers

func (h *routerHandlers) handleAddTrigger(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X          float64               `json:"x"`
		Z          float64               `json:"z"`
		Y          float64               `json:"y"`
		Shape      world.ShapeDescriptor `json:"shape"`
		SeatHeight float64               `json:"seatHeight"`
		Metadata   string                `json:"metadata"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if h.world.GetStats().Triggers >= h.limits.MaxTriggers {
		writeError(w, "Trigger limit reached", http.StatusServiceUnavailable)
		return
	}

	id := h.world.AddTrigger(world.TriggerSpec{
		X: req.X, Z: req.Z, Y: req.Y,
		Shape: req.Shape, SeatHeight: req.SeatHeight, Metadata: req.Metadata,
	})
	writeJSON(w, map[string]interface{}{"id": id})
}

func (h *routerHandlers) handleListTriggers(w http.ResponseWriter, r *http.Request) {
	out := make([]map[string]interface{}, 0)
	h.world.EachTrigger(func(t world.Trigger) {
		out = append(out, triggerJSON(t))
	})
	writeJSON(w, out)
}

func (h *routerHandlers) handleGetTrigger(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	t, found := h.world.GetTrigger(id)
	if !found {
		writeError(w, "Unknown trigger", http.StatusNotFound)
		return
	}
	writeJSON(w, triggerJSON(t))
}

func (h *routerHandlers) handleRemoveTrigger(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]bool{"success": h.world.RemoveTrigger(id)})
}

// Spatial query handlers. All read-only; the trigger query uses the
// stateless containment check, never the edge detector.

func (h *routerHandlers) handleQueryMovement(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	q := r.URL.Query()

	res := h.world.CheckMovement(
		queryFloat(q.Get("fromX"), 0),
		queryFloat(q.Get("fromZ"), 0),
		queryFloat(q.Get("toX"), 0),
		queryFloat(q.Get("toZ"), 0),
		queryFloat(q.Get("radius"), world.DefaultShapeRadius),
		queryFloat(q.Get("y"), 0),
	)
	RecordQuery("movement", time.Since(started))

	out := map[string]interface{}{
		"x":        res.X,
		"z":        res.Z,
		"collided": res.Collided,
	}
	if res.Collider != nil {
		out["colliderId"] = res.Collider.ID
	}
	writeJSON(w, out)
}

func (h *routerHandlers) handleQueryLanding(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	q := r.URL.Query()

	res := h.world.CheckLanding(
		queryFloat(q.Get("x"), 0),
		queryFloat(q.Get("z"), 0),
		queryFloat(q.Get("y"), 0),
		queryFloat(q.Get("radius"), world.DefaultShapeRadius),
	)
	RecordQuery("landing", time.Since(started))

	out := map[string]interface{}{
		"canLand":  res.CanLand,
		"landingY": res.LandingY,
	}
	if res.Collider != nil {
		out["colliderId"] = res.Collider.ID
	}
	writeJSON(w, out)
}

func (h *routerHandlers) handleQueryTriggers(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	q := r.URL.Query()

	active := h.world.ActiveTriggers(
		queryFloat(q.Get("x"), 0),
		queryFloat(q.Get("z"), 0),
		queryFloat(q.Get("radius"), world.DefaultShapeRadius),
		queryFloat(q.Get("y"), 0),
	)
	RecordQuery("triggers", time.Since(started))

	if active == nil {
		active = []uint32{}
	}
	writeJSON(w, map[string]interface{}{"active": active})
}

// Agent handlers

func (h *routerHandlers) handleListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.GetState())
}

func (h *routerHandlers) handleAgentJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Radius  float64 `json:"radius"`
		Speed   float64 `json:"speed"`
		Primary bool    `json:"primary"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "Name is required", http.StatusBadRequest)
		return
	}

	agent := h.engine.AddAgent(req.Name, sim.AgentOptions{
		Radius:  req.Radius,
		Speed:   req.Speed,
		Primary: req.Primary,
	})

	// Handle agent limit reached (DoS protection)
	if agent == nil {
		writeError(w, "Agent limit reached", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, agent.ToState())
}

func (h *routerHandlers) handleAgentLeave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]bool{"success": h.engine.RemoveAgent(req.Name)})
}

// Helper functions (package-level for reuse)

func colliderJSON(c world.Collider) map[string]interface{} {
	return map[string]interface{}{
		"id":       c.ID,
		"x":        c.X,
		"z":        c.Z,
		"y":        c.Y,
		"height":   c.Height,
		"shape":    shapeJSON(c.Shape),
		"type":     c.Type.String(),
		"metadata": c.Metadata,
	}
}

func triggerJSON(t world.Trigger) map[string]interface{} {
	return map[string]interface{}{
		"id":         t.ID,
		"x":          t.X,
		"z":          t.Z,
		"y":          t.Y,
		"shape":      shapeJSON(t.Shape),
		"seatHeight": t.SeatHeight,
		"metadata":   t.Metadata,
	}
}

func shapeJSON(s world.Shape) map[string]interface{} {
	if s.Kind == world.ShapeCircle {
		return map[string]interface{}{"kind": "circle", "radius": s.Radius}
	}
	return map[string]interface{}{
		"kind":        "box",
		"halfExtentX": s.HalfX,
		"halfExtentZ": s.HalfZ,
		"rotation":    s.Rotation,
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		writeError(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return uint32(id), true
}

func queryFloat(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

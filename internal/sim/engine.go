// Package sim runs the tick-driven agent simulation on top of the world
// engine. It owns the loop; the world package stays a passive library.
package sim

import (
	"log"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"habitat/internal/config"
	"habitat/internal/world"
)

// TriggerCallback receives edge events for the primary agent.
// Invoked outside the engine lock; implementations may block briefly.
type TriggerCallback func(agentName string, event world.TriggerEvent)

// Engine advances all agents once per tick: wander steering, axis-separated
// collision resolution, gravity + landing, and trigger edge evaluation for
// the primary agent.
type Engine struct {
	mu     sync.RWMutex
	w      *world.World
	agents map[string]*Agent

	cfg    config.SimConfig
	limits config.ResourceLimits
	extent float64 // Wander bounds (half-extent of the room)

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	tickCount uint64
	rng       *rand.Rand

	onTrigger TriggerCallback

	// Per-tick instrumentation hook (observability); nil is fine.
	onTickDone func(duration time.Duration, agents int)
}

// NewEngine creates a simulation engine over a world.
func NewEngine(w *world.World, cfg config.SimConfig, limits config.ResourceLimits, extent float64) *Engine {
	return &Engine{
		w:        w,
		agents:   make(map[string]*Agent),
		cfg:      cfg,
		limits:   limits,
		extent:   extent,
		stopChan: make(chan struct{}),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetTriggerCallback registers the edge-event sink (websocket broadcast).
func (e *Engine) SetTriggerCallback(cb TriggerCallback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTrigger = cb
}

// SetTickObserver registers a per-tick instrumentation hook.
func (e *Engine) SetTickObserver(fn func(duration time.Duration, agents int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTickDone = fn
}

// Start begins the simulation loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.tick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("🌍 Simulation started at %d TPS", e.cfg.TickRate)
}

// Stop stops the simulation loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Simulation stopped")
}

// tick advances every agent by one step.
func (e *Engine) tick() {
	started := time.Now()

	e.mu.Lock()
	e.tickCount++
	e.w.SetTick(e.tickCount)
	dt := 1.0 / float64(e.cfg.TickRate)

	type firedEvent struct {
		agent string
		event world.TriggerEvent
	}
	var fired []firedEvent

	for _, a := range e.agents {
		e.steer(a)

		// Horizontal: desired displacement resolved by the world, sliding
		// along walls when one axis is blocked.
		dx, dz := a.step(dt)
		res := e.w.CheckMovement(a.X, a.Z, a.X+dx, a.Z+dz, a.Radius, a.Y)
		if res.Collided {
			a.blockedTicks++
		} else {
			a.blockedTicks = 0
		}
		a.X, a.Z = res.X, res.Z

		// Vertical: ad-hoc integration, then snap to the highest standing
		// surface at or below the feet.
		a.VY -= e.cfg.Gravity * dt
		a.Y += a.VY * dt

		landing := e.w.CheckLanding(a.X, a.Z, a.Y, a.Radius)
		switch {
		case landing.CanLand && a.Y <= landing.LandingY:
			a.Y = landing.LandingY
			a.VY = 0
			a.Grounded = true
		case a.Y <= 0:
			a.Y = 0
			a.VY = 0
			a.Grounded = true
		default:
			a.Grounded = false
		}

		// Trigger edges for the primary agent only: the edge detector is
		// one state machine per zone, so only one agent may drive it.
		if a.Primary {
			for _, ev := range e.w.EvaluateTriggers(a.X, a.Z, a.Radius, a.Y) {
				fired = append(fired, firedEvent{agent: a.Name, event: ev})
			}
		}
	}

	agentCount := len(e.agents)
	tickNum := e.tickCount
	cb := e.onTrigger
	tickObserver := e.onTickDone
	e.mu.Unlock()

	// Sampled tick boundary for the event log (every ~5s at 30 TPS).
	if tickNum%150 == 0 {
		e.w.EmitTick(agentCount, time.Since(started))
	}

	// Callbacks run outside the lock: a slow websocket write must not
	// stall the tick.
	if cb != nil {
		for _, f := range fired {
			cb(f.agent, f.event)
		}
	}
	if tickObserver != nil {
		tickObserver(time.Since(started), agentCount)
	}
}

// steer updates the wander heading: periodic drift, hard turn when blocked,
// and a pull back toward the center near the room edge.
func (e *Engine) steer(a *Agent) {
	a.headingTicks--
	if a.headingTicks <= 0 {
		a.Heading += (e.rng.Float64() - 0.5) * math.Pi / 2
		a.headingTicks = 30 + e.rng.Intn(90)
	}

	if a.blockedTicks > 3 {
		a.Heading += math.Pi/2 + e.rng.Float64()*math.Pi
		a.blockedTicks = 0
	}

	if math.Abs(a.X) > e.extent || math.Abs(a.Z) > e.extent {
		a.Heading = math.Atan2(-a.Z, -a.X) + (e.rng.Float64()-0.5)*0.5
	}
}

// AddAgent adds a new agent at a random spawn position. A name already in
// use returns the existing agent; nil only when the cap is reached.
func (e *Engine) AddAgent(name string, opts AgentOptions) *Agent {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.agents) >= e.limits.MaxAgents {
		log.Printf("⚠️ Agent limit reached (%d), rejecting: %s", e.limits.MaxAgents, name)
		return nil
	}
	if existing, ok := e.agents[name]; ok {
		return existing
	}

	radius := opts.Radius
	if radius <= 0 {
		radius = e.cfg.AgentRadius
	}
	speed := opts.Speed
	if speed <= 0 {
		speed = e.cfg.AgentSpeed
	}

	a := &Agent{
		Name:    name,
		X:       (e.rng.Float64()*2 - 1) * e.extent * 0.8,
		Z:       (e.rng.Float64()*2 - 1) * e.extent * 0.8,
		Radius:  radius,
		Speed:   speed,
		Heading: e.rng.Float64() * 2 * math.Pi,
		Primary: opts.Primary,
	}

	// Only one primary at a time; demoting the old one keeps the zone
	// edge detector single-writer.
	if a.Primary {
		for _, other := range e.agents {
			other.Primary = false
		}
	}

	e.agents[name] = a
	log.Printf("👤 Agent joined: %s at (%.1f, %.1f)", name, a.X, a.Z)
	return a
}

// RemoveAgent removes an agent. Returns false if unknown.
func (e *Engine) RemoveAgent(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.agents[name]; !ok {
		return false
	}
	delete(e.agents, name)
	return true
}

// GetAgent returns a snapshot of one agent, or false if unknown.
func (e *Engine) GetAgent(name string) (AgentState, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	a, ok := e.agents[name]
	if !ok {
		return AgentState{}, false
	}
	return a.ToState(), true
}

// State is an immutable view of the simulation for API responses.
type State struct {
	Tick   uint64       `json:"tick"`
	Agents []AgentState `json:"agents"`
}

// GetState returns a copy of all agent states, sorted by name for
// deterministic output.
func (e *Engine) GetState() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	agents := make([]AgentState, 0, len(e.agents))
	for _, a := range e.agents {
		agents = append(agents, a.ToState())
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })

	return State{Tick: e.tickCount, Agents: agents}
}

// AgentCount returns the number of live agents.
func (e *Engine) AgentCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.agents)
}

// World exposes the underlying world for API registration handlers.
func (e *Engine) World() *world.World {
	return e.w
}

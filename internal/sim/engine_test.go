package sim

import (
	"testing"
	"time"

	"habitat/internal/config"
	"habitat/internal/world"
)

func newTestEngine(t *testing.T) (*Engine, *world.World) {
	t.Helper()
	w, err := world.New(world.DefaultConfig())
	if err != nil {
		t.Fatalf("world.New() error: %v", err)
	}
	e := NewEngine(w, config.DefaultSim(), config.DefaultLimits(), 64)
	return e, w
}

// TestAddRemoveAgent verifies agent lifecycle and the duplicate-name rule
func TestAddRemoveAgent(t *testing.T) {
	e, _ := newTestEngine(t)

	a := e.AddAgent("walker", AgentOptions{})
	if a == nil {
		t.Fatal("AddAgent returned nil")
	}
	if a.Radius != config.DefaultSim().AgentRadius {
		t.Errorf("Radius = %v, want default %v", a.Radius, config.DefaultSim().AgentRadius)
	}

	if again := e.AddAgent("walker", AgentOptions{}); again != a {
		t.Error("adding an existing name should return the existing agent")
	}

	if !e.RemoveAgent("walker") {
		t.Error("RemoveAgent returned false for known agent")
	}
	if e.RemoveAgent("walker") {
		t.Error("RemoveAgent returned true for removed agent")
	}
}

// TestAgentLimit verifies the hard cap rejects additional agents
func TestAgentLimit(t *testing.T) {
	w, _ := world.New(world.DefaultConfig())
	limits := config.ResourceLimits{MaxAgents: 2}
	e := NewEngine(w, config.DefaultSim(), limits, 64)

	if e.AddAgent("a", AgentOptions{}) == nil || e.AddAgent("b", AgentOptions{}) == nil {
		t.Fatal("agents under the cap must be accepted")
	}
	if e.AddAgent("c", AgentOptions{}) != nil {
		t.Error("agent over the cap must be rejected")
	}
}

// TestSinglePrimary verifies only one agent drives the trigger detector
func TestSinglePrimary(t *testing.T) {
	e, _ := newTestEngine(t)

	e.AddAgent("first", AgentOptions{Primary: true})
	e.AddAgent("second", AgentOptions{Primary: true})

	primaries := 0
	for _, a := range e.GetState().Agents {
		if a.Primary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Errorf("primaries = %d, want exactly 1", primaries)
	}
}

// TestTickLandsAgentOnPlatform verifies gravity plus landing resolution
// settles an agent on the highest surface beneath it
func TestTickLandsAgentOnPlatform(t *testing.T) {
	e, w := newTestEngine(t)
	w.AddCollider(world.ColliderSpec{
		X: 0, Z: 0, Y: 0, Height: 2,
		Shape: world.ShapeDescriptor{Kind: "box", HalfExtentX: 5, HalfExtentZ: 5},
		Type:  "solid",
	})

	a := e.AddAgent("faller", AgentOptions{})
	a.X, a.Z, a.Y = 0, 0, 2.3
	a.Speed = 0 // keep the agent over the platform

	for i := 0; i < 60; i++ {
		e.tick()
	}

	state, _ := e.GetAgent("faller")
	if !state.Grounded {
		t.Error("agent should be grounded on the platform")
	}
	if state.Y != 2 {
		t.Errorf("agent Y = %v, want platform top 2", state.Y)
	}
}

// TestTickFiresTriggerEvents verifies primary-agent edges reach the callback
func TestTickFiresTriggerEvents(t *testing.T) {
	e, w := newTestEngine(t)
	id := w.AddTrigger(world.TriggerSpec{
		X: 0, Z: 0, Y: 0,
		Shape:    world.ShapeDescriptor{Kind: "circle", Radius: 3},
		Metadata: "portal",
	})

	events := make(chan world.TriggerEvent, 8)
	e.SetTriggerCallback(func(agent string, ev world.TriggerEvent) {
		events <- ev
	})

	a := e.AddAgent("hero", AgentOptions{Primary: true})
	a.X, a.Z, a.Y = 0, 0, 0
	a.Speed = 0

	e.tick()

	select {
	case ev := <-events:
		if ev.ID != id || ev.Kind != world.TriggerEnter {
			t.Errorf("event = %+v, want Enter for trigger %d", ev, id)
		}
		if ev.Metadata != "portal" {
			t.Errorf("metadata = %q, want %q", ev.Metadata, "portal")
		}
	case <-time.After(time.Second):
		t.Fatal("no trigger event delivered")
	}

	// Teleport the agent away; the next tick must deliver the Exit edge.
	a.X, a.Z = 50, 50
	e.tick()

	select {
	case ev := <-events:
		if ev.Kind != world.TriggerExit {
			t.Errorf("event = %+v, want Exit", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no exit event delivered")
	}
}

// TestStartStop verifies the loop starts and stops without panics
func TestStartStop(t *testing.T) {
	e, _ := newTestEngine(t)
	e.AddAgent("walker", AgentOptions{})

	e.Start()
	time.Sleep(100 * time.Millisecond)
	e.Stop()
	e.Stop() // double stop must not panic
}

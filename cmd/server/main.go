package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"habitat/internal/api"
	"habitat/internal/config"
	"habitat/internal/mapview"
	"habitat/internal/sim"
	"habitat/internal/world"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🏠 ================================")
	log.Println("🏠  HABITAT - ROOM ENGINE")
	log.Println("🏠 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	worldCfg := appConfig.World
	simCfg := appConfig.Sim
	serverCfg := appConfig.Server
	limits := appConfig.Limits

	log.Printf("🗺️ Config: %d TPS, %.0fx%.0f room, %.1f cell size",
		simCfg.TickRate, worldCfg.Extent*2, worldCfg.Extent*2, worldCfg.ColliderCellSize)
	log.Printf("🛡️ Resource limits: %d colliders, %d triggers, %d agents",
		limits.MaxColliders, limits.MaxTriggers, limits.MaxAgents)

	// Create the spatial engine
	w, err := world.New(world.Config{
		ColliderCellSize: worldCfg.ColliderCellSize,
		TriggerCellSize:  worldCfg.TriggerCellSize,
	})
	if err != nil {
		log.Fatalf("❌ World construction failed: %v", err)
	}

	// Start event log
	eventLogPath := getEnvWithDefault("EVENT_LOG_PATH", "events.jsonl")
	eventLog := world.NewEventLog()
	if err := eventLog.Start(eventLogPath); err != nil {
		log.Printf("⚠️ Event log disabled: %v", err)
		eventLog = nil
	} else {
		log.Printf("📝 Event log: %s", eventLogPath)
		w.AttachEventLog(eventLog)
	}

	// Start debug server
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// Populate the demo room unless an external client owns the layout
	if os.Getenv("SKIP_DEMO_ROOM") != "true" {
		buildDemoRoom(w, worldCfg.Extent)
		stats := w.GetStats()
		log.Printf("🛋️ Demo room built: %d colliders, %d triggers", stats.Colliders, stats.Triggers)
	}

	// Create simulation engine and seed wandering agents
	engine := sim.NewEngine(w, simCfg, limits, worldCfg.Extent)
	engine.AddAgent("visitor", sim.AgentOptions{Primary: true})
	for i := 1; i <= getEnvInt("DEMO_AGENTS", 5); i++ {
		engine.AddAgent(fmt.Sprintf("wanderer-%d", i), sim.AgentOptions{})
	}

	// Map renderer for the snapshot endpoint
	renderer := mapview.NewRenderer(w, engine, worldCfg.Extent, 800)

	// Create API server
	server := api.NewServer(engine, api.RouterConfig{
		World:    w,
		Engine:   engine,
		Renderer: renderer,
		EventLog: eventLog,
		Limits:   limits,
	})

	// Start simulation
	engine.Start()
	log.Println("✅ Simulation started")

	// Start API server in goroutine
	go func() {
		addr := fmt.Sprintf(":%d", serverCfg.Port)
		log.Printf("🌐 API server on http://localhost%s", addr)
		log.Printf("🗺️ Map snapshot: http://localhost%s/api/map.png", addr)

		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	server.Stop()
	engine.Stop()
	if eventLog != nil {
		eventLog.Stop()
	}
	log.Println("👋 Goodbye!")
}

// buildDemoRoom registers a furniture-scale layout exercising every shape,
// type, and trigger rule: walls, a pool, stacked platforms, and seats.
func buildDemoRoom(w *world.World, extent float64) {
	// Perimeter walls, one thin box per side
	for _, side := range []struct {
		x, z, hx, hz float64
	}{
		{0, -extent, extent, 0.5},
		{0, extent, extent, 0.5},
		{-extent, 0, 0.5, extent},
		{extent, 0, 0.5, extent},
	} {
		w.AddCollider(world.ColliderSpec{
			X: side.x, Z: side.z, Height: 4,
			Shape:    world.ShapeDescriptor{Kind: "box", HalfExtentX: side.hx, HalfExtentZ: side.hz},
			Type:     "solid",
			Metadata: `{"name":"wall"}`,
		})
	}

	// A pool: blocks walking, nothing can stand on it
	w.AddCollider(world.ColliderSpec{
		X: -20, Z: -20, Height: 1,
		Shape:    world.ShapeDescriptor{Kind: "circle", Radius: 8},
		Type:     "water",
		Metadata: `{"name":"pool"}`,
	})

	// Stacked platforms, standable at two elevations
	w.AddCollider(world.ColliderSpec{
		X: 20, Z: 20, Height: 2,
		Shape:    world.ShapeDescriptor{Kind: "box", HalfExtentX: 6, HalfExtentZ: 6},
		Type:     "solid",
		Metadata: `{"name":"stage"}`,
	})
	w.AddCollider(world.ColliderSpec{
		X: 22, Z: 22, Y: 2, Height: 2,
		Shape:    world.ShapeDescriptor{Kind: "box", HalfExtentX: 3, HalfExtentZ: 3},
		Type:     "solid",
		Metadata: `{"name":"upper-stage"}`,
	})

	// A rotated table and some round props
	w.AddCollider(world.ColliderSpec{
		X: -15, Z: 15, Height: 1,
		Shape: world.ShapeDescriptor{
			Kind: "box", HalfExtentX: 3, HalfExtentZ: 1.5, Rotation: math.Pi / 6,
		},
		Type:     "solid",
		Metadata: `{"name":"table"}`,
	})
	for i := 0; i < 4; i++ {
		angle := float64(i) * math.Pi / 2
		w.AddCollider(world.ColliderSpec{
			X: 8 * math.Cos(angle), Z: 8 * math.Sin(angle), Height: 1.2,
			Shape:    world.ShapeDescriptor{Kind: "circle", Radius: 1},
			Type:     "decoration",
			Metadata: `{"name":"planter"}`,
		})
	}

	// Ground-level campfire zone
	w.AddTrigger(world.TriggerSpec{
		X: 0, Z: -25,
		Shape:    world.ShapeDescriptor{Kind: "circle", Radius: 4},
		Metadata: `{"name":"campfire","action":"warm"}`,
	})

	// Seat on the stage: ground rule with a raised seat height
	w.AddTrigger(world.TriggerSpec{
		X: 18, Z: 18, SeatHeight: 2,
		Shape:    world.ShapeDescriptor{Kind: "box", HalfExtentX: 1, HalfExtentZ: 1},
		Metadata: `{"name":"stage-seat","action":"sit"}`,
	})

	// Elevated zone above the upper stage: band rule
	w.AddTrigger(world.TriggerSpec{
		X: 22, Z: 22, Y: 4,
		Shape:    world.ShapeDescriptor{Kind: "circle", Radius: 2},
		Metadata: `{"name":"lookout","action":"wave"}`,
	})
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

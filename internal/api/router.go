package api

import (
	"io"
	"net/http"

	"habitat/internal/config"
	"habitat/internal/sim"
	"habitat/internal/world"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the simulation engine methods used by the API.
// This interface enables mocking for tests without spinning up the tick loop.
// Keep this minimal - only include methods the API layer actually calls.
type EngineInterface interface {
	// GetState returns the current agent states for API responses
	GetState() sim.State
	// AddAgent adds a simulated agent (nil when the cap is reached)
	AddAgent(name string, opts sim.AgentOptions) *sim.Agent
	// RemoveAgent removes an agent by name
	RemoveAgent(name string) bool
	// GetAgent returns one agent snapshot
	GetAgent(name string) (sim.AgentState, bool)
	// AgentCount returns the number of live agents
	AgentCount() int
}

// MapRenderer renders a top-down PNG of the room. Optional; the map
// endpoint answers 404 when absent.
type MapRenderer interface {
	RenderPNG(w io.Writer) error
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    World:  w,
//	    Engine: mockEngine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// World is the spatial engine (required)
	World *world.World

	// Engine is the agent simulation (required)
	Engine EngineInterface

	// Renderer serves the map snapshot endpoint (optional)
	Renderer MapRenderer

	// EventLog contributes its counters to /api/stats (optional)
	EventLog *world.EventLog

	// Limits caps registrations; zero values mean the defaults.
	Limits config.ResourceLimits

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default local-dev origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler dependencies for the router.
type routerHandlers struct {
	world    *world.World
	engine   EngineInterface
	renderer MapRenderer
	eventLog *world.EventLog
	limits   config.ResourceLimits
	limiter  *IPRateLimiter
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects:
//   - No goroutines are started (the rate limiter cleanup excepted)
//   - No network listeners are opened
//   - No background workers are launched
//
// This makes it safe to use in tests with httptest.NewServer.
//
// Example:
//
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/api/state")
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	// CORS configuration
	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	limits := cfg.Limits
	if limits.MaxColliders == 0 {
		limits = config.DefaultLimits()
	}

	h := &routerHandlers{
		world:    cfg.World,
		engine:   cfg.Engine,
		renderer: cfg.Renderer,
		eventLog: cfg.EventLog,
		limits:   limits,
		limiter:  rateLimiter,
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Room state
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/map.png", h.handleGetMap)
		r.Post("/room/clear", h.handleRoomClear)

		// Obstacle registration
		r.Route("/colliders", func(r chi.Router) {
			r.Get("/", h.handleListColliders)
			r.Post("/", h.handleAddCollider)
			r.Get("/{id}", h.handleGetCollider)
			r.Delete("/{id}", h.handleRemoveCollider)
			r.Put("/{id}/position", h.handleMoveCollider)
		})

		// Interaction zone registration
		r.Route("/triggers", func(r chi.Router) {
			r.Get("/", h.handleListTriggers)
			r.Post("/", h.handleAddTrigger)
			r.Get("/{id}", h.handleGetTrigger)
			r.Delete("/{id}", h.handleRemoveTrigger)
		})

		// Spatial queries (stateless, never disturb trigger edge state)
		r.Route("/query", func(r chi.Router) {
			r.Get("/movement", h.handleQueryMovement)
			r.Get("/landing", h.handleQueryLanding)
			r.Get("/triggers", h.handleQueryTriggers)
		})

		// Agent management
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", h.handleListAgents)
			r.Post("/join", h.handleAgentJoin)
			r.Post("/leave", h.handleAgentLeave)
		})
	})

	// Default route
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/state", http.StatusFound)
	})

	return r
}

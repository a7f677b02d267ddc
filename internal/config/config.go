// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all world and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// WORLD / SPATIAL CONFIGURATION
// =============================================================================

// WorldConfig holds spatial engine settings.
// Cell sizes should approximate twice the typical object extent; furniture
// scale props sit around 2 world units, hence the 4.0 defaults.
type WorldConfig struct {
	ColliderCellSize float64 // Spatial hash cell size for obstacles
	TriggerCellSize  float64 // Spatial hash cell size for interaction zones
	Extent           float64 // Half-extent of the demo room ground plane
}

// DefaultWorld returns the default world configuration.
func DefaultWorld() WorldConfig {
	return WorldConfig{
		ColliderCellSize: 4.0,
		TriggerCellSize:  4.0,
		Extent:           64.0,
	}
}

// WorldFromEnv returns world configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func WorldFromEnv() WorldConfig {
	cfg := DefaultWorld()

	if v := getEnvFloat("WORLD_COLLIDER_CELL_SIZE", 0); v > 0 {
		cfg.ColliderCellSize = v
	}
	if v := getEnvFloat("WORLD_TRIGGER_CELL_SIZE", 0); v > 0 {
		cfg.TriggerCellSize = v
	}
	if v := getEnvFloat("WORLD_EXTENT", 0); v > 0 {
		cfg.Extent = v
	}

	return cfg
}

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the agent simulation loop settings.
type SimConfig struct {
	TickRate    int     // Simulation ticks per second
	Gravity     float64 // Downward acceleration in units/s^2
	AgentRadius float64 // Default agent footprint radius
	AgentSpeed  float64 // Default wander speed in units/s
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:    30,
		Gravity:     24.0,
		AgentRadius: 0.5,
		AgentSpeed:  4.0,
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if v := getEnvInt("SIM_TICK_RATE", 0); v > 0 {
		cfg.TickRate = v
	}
	if v := getEnvFloat("SIM_GRAVITY", 0); v > 0 {
		cfg.Gravity = v
	}
	if v := getEnvFloat("SIM_AGENT_SPEED", 0); v > 0 {
		cfg.AgentSpeed = v
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls abuse protection and performance limits.
type ResourceLimits struct {
	MaxColliders int // Hard cap on registered obstacles per room
	MaxTriggers  int // Hard cap on registered zones per room
	MaxAgents    int // Hard cap on simulated agents
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxColliders: 10_000,
		MaxTriggers:  2_000,
		MaxAgents:    500,
	}
}

// LimitsFromEnv returns limits with environment variable overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()

	if v := getEnvInt("MAX_COLLIDERS", 0); v > 0 {
		cfg.MaxColliders = v
	}
	if v := getEnvInt("MAX_TRIGGERS", 0); v > 0 {
		cfg.MaxTriggers = v
	}
	if v := getEnvInt("MAX_AGENTS", 0); v > 0 {
		cfg.MaxAgents = v
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 3000,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	World  WorldConfig
	Sim    SimConfig
	Server ServerConfig
	Limits ResourceLimits
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		World:  WorldFromEnv(),
		Sim:    SimFromEnv(),
		Server: ServerFromEnv(),
		Limits: LimitsFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

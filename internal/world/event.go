package world

import (
	"encoding/json"
	"time"
)

// EventType enum for world event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary
	EventTypeColliderAdd
	EventTypeColliderRemove
	EventTypeColliderMove
	EventTypeTriggerAdd
	EventTypeTriggerRemove
	EventTypeTriggerEnter
	EventTypeTriggerExit
	EventTypeRoomClear
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core record written to the append-only world log
type Event struct {
	Version   uint8     `json:"version"`   // Schema version
	Type      EventType `json:"type"`      // Event type
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence
	TickNum   uint64    `json:"tickNum"`   // Simulation tick this occurred in
	SourceID  string    `json:"sourceId"`  // Originating agent/caller (for rate limiting)
	Payload   []byte    `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeColliderAdd:
		return "collider_add"
	case EventTypeColliderRemove:
		return "collider_remove"
	case EventTypeColliderMove:
		return "collider_move"
	case EventTypeTriggerAdd:
		return "trigger_add"
	case EventTypeTriggerRemove:
		return "trigger_remove"
	case EventTypeTriggerEnter:
		return "trigger_enter"
	case EventTypeTriggerExit:
		return "trigger_exit"
	case EventTypeRoomClear:
		return "room_clear"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// TickPayload contains tick boundary information
type TickPayload struct {
	AgentCount  int   `json:"agentCount"`
	DeltaTimeNs int64 `json:"deltaTimeNs"`
}

// ColliderPayload describes a collider registration or removal
type ColliderPayload struct {
	ColliderID uint32  `json:"colliderId"`
	X          float64 `json:"x"`
	Z          float64 `json:"z"`
	Y          float64 `json:"y"`
	Kind       string  `json:"kind"`
	Type       string  `json:"colliderType"`
	Metadata   string  `json:"metadata,omitempty"`
}

// TriggerZonePayload describes a trigger registration or removal
type TriggerZonePayload struct {
	TriggerID uint32  `json:"triggerId"`
	X         float64 `json:"x"`
	Z         float64 `json:"z"`
	Y         float64 `json:"y"`
	Metadata  string  `json:"metadata,omitempty"`
}

// TriggerEventPayload describes an Enter/Exit edge for an agent
type TriggerEventPayload struct {
	TriggerID uint32  `json:"triggerId"`
	AgentX    float64 `json:"agentX"`
	AgentZ    float64 `json:"agentZ"`
	AgentY    float64 `json:"agentY"`
	Metadata  string  `json:"metadata,omitempty"`
}

// RoomClearPayload records a bulk teardown
type RoomClearPayload struct {
	Colliders int `json:"colliders"`
	Triggers  int `json:"triggers"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, sourceID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		SourceID:  sourceID,
		Payload:   EncodePayload(payload),
	}
}

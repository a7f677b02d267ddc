package world

import "sort"

// TriggerEventKind discriminates edge transitions.
type TriggerEventKind int

const (
	TriggerEnter TriggerEventKind = iota // Outside -> Inside
	TriggerExit                          // Inside -> Outside
)

// String returns a human-readable event kind
func (k TriggerEventKind) String() string {
	if k == TriggerEnter {
		return "enter"
	}
	return "exit"
}

// TriggerEvent is one edge transition observed by an evaluation.
// Metadata is the zone's opaque registration payload, returned unchanged.
type TriggerEvent struct {
	ID       uint32
	Kind     TriggerEventKind
	Metadata string
}

// EvaluateTriggers computes which zones the agent transitioned into or out
// of since the previous evaluation and flips their stored edge state.
//
// Per zone the state machine has exactly two states, Outside (initial) and
// Inside. No debounce window beyond the edge itself: a zone re-entered
// immediately after exit fires Enter again on the very next evaluation.
//
// Containment combines XZ footprint overlap with an asymmetric height rule
// (see Trigger.heightOK). Results are sorted by id for deterministic output.
func (w *World) EvaluateTriggers(x, z, radius, y float64) []TriggerEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	var events []TriggerEvent
	containedNow := make(map[uint32]struct{})

	for _, id := range w.triggerGrid.QueryNeighborhood(x, z) {
		t := w.triggers.Get(id)
		if t == nil {
			continue
		}
		if !t.heightOK(y) || !circleHitsShape(x, z, radius, t.X, t.Z, t.Shape) {
			continue
		}
		containedNow[id] = struct{}{}
		if !t.Inside {
			w.triggers.setInside(t, true)
			events = append(events, TriggerEvent{ID: id, Kind: TriggerEnter, Metadata: t.Metadata})
			w.emit(EventTypeTriggerEnter, "", TriggerEventPayload{
				TriggerID: id, AgentX: x, AgentZ: z, AgentY: y, Metadata: t.Metadata,
			})
		}
	}

	// Zones still flagged Inside but no longer contained have been left.
	// This includes zones outside the queried neighborhood entirely, which
	// is how a teleporting agent still gets its Exit edges.
	for _, id := range w.triggers.insideIDs() {
		if _, ok := containedNow[id]; ok {
			continue
		}
		t := w.triggers.Get(id)
		if t == nil {
			continue
		}
		w.triggers.setInside(t, false)
		events = append(events, TriggerEvent{ID: id, Kind: TriggerExit, Metadata: t.Metadata})
		w.emit(EventTypeTriggerExit, "", TriggerEventPayload{
			TriggerID: id, AgentX: x, AgentZ: z, AgentY: y, Metadata: t.Metadata,
		})
	}

	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events
}

// ActiveTriggers is the stateless counterpart of EvaluateTriggers: the zones
// containing the agent right now, without disturbing any edge state. Used
// for "what is interactable here" queries.
func (w *World) ActiveTriggers(x, z, radius, y float64) []uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()

	var active []uint32
	for _, id := range w.triggerGrid.QueryNeighborhood(x, z) {
		t := w.triggers.Get(id)
		if t == nil {
			continue
		}
		if t.heightOK(y) && circleHitsShape(x, z, radius, t.X, t.Z, t.Shape) {
			active = append(active, id)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i] < active[j] })
	return active
}

package mediator

import "github.com/tailored-agentic-units/mediate/observability"

// Event types emitted once per Mediate call. All events of one call share a
// mediation_id.
const (
	EventMediateStart    observability.EventType = "mediator.mediate.start"
	EventSelect          observability.EventType = "mediator.select"
	EventMediateComplete observability.EventType = "mediator.mediate.complete"
)

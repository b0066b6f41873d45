package core

import "github.com/tailored-agentic-units/mediate/observability"

// Bus event types.
const (
	EventActorRegister observability.EventType = "bus.actor.register"
	EventTestStart     observability.EventType = "bus.test.start"
	EventTestComplete  observability.EventType = "bus.test.complete"
	EventRunStart      observability.EventType = "bus.run.start"
	EventRunComplete   observability.EventType = "bus.run.complete"
)

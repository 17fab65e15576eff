package system

import (
	"time"

	"github.com/tankgo/sim/internal/core/event"
	coresys "github.com/tankgo/sim/internal/core/system"
)

// EventDispatchSystem drains the event bus at a fixed point inside the tick
// (Phase 2, Events): everything emitted during the update and post-update
// phases is delivered here, so a death and the wave completion it triggers
// land on the same tick.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventDispatchSystem) Update(time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

package system

import "time"

// Phase defines execution ordering within a single tick. The ordering is load
// bearing: combat must resolve before spawn-queue processing, and death events
// must be dispatched after both, so a kill that completes a wave is reflected
// in the tick it occurs.
type Phase int

const (
	PhaseUpdate     Phase = iota // 0: combat — resolve queued collision pairs, melee
	PhasePostUpdate              // 1: wave spawn queue, movement, module fire
	PhaseEvents                  // 2: swap + dispatch event bus (deaths → wave completion)
	PhasePersist                 // 3: periodic progression flush
	PhaseCleanup                 // 4: release dead/expired pooled entities
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

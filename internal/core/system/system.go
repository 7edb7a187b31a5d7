package system

import "time"

// Phase orders systems within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain queued skill/attack requests
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: region timers, invocations, effects
	PhasePostUpdate              // 3: regeneration
	PhaseOutput                  // 4: outgoing notifications
	PhasePersist                 // 5: combat log flush, property saves
	PhaseCleanup                 // 6: destroy queued livings
)

var phaseNames = [...]string{"input", "pre_update", "update", "post_update", "output", "persist", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is run once per tick by the Runner.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

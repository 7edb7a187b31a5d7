package system

import (
	"time"

	coresys "github.com/dolgo/server/internal/core/system"
	"github.com/dolgo/server/internal/world"
)

// TimerSystem advances every region's timer wheel by the tick length, firing
// pending casts, pulses, projectiles and effect expiries. Phase 2 (Update).
type TimerSystem struct {
	world *world.State
}

func NewTimerSystem(ws *world.State) *TimerSystem {
	return &TimerSystem{world: ws}
}

func (s *TimerSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *TimerSystem) Update(dt time.Duration) {
	for _, r := range s.world.Regions() {
		r.Timers.Advance(dt)
	}
}

package system

import (
	"time"

	coresys "github.com/dolgo/server/internal/core/system"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/world"
)

// RegenSystem heals every living by its HealthRegenerationRate once per
// interval. Phase 3 (PostUpdate); runs every tick, the accumulated time
// gates actual regeneration.
type RegenSystem struct {
	world    *world.State
	interval time.Duration
	acc      time.Duration
}

func NewRegenSystem(ws *world.State, interval time.Duration) *RegenSystem {
	if interval <= 0 {
		interval = 6 * time.Second
	}
	return &RegenSystem{world: ws, interval: interval}
}

func (s *RegenSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *RegenSystem) Update(dt time.Duration) {
	s.acc += dt
	for s.acc >= s.interval {
		s.acc -= s.interval
		s.world.EachLiving(s.regen)
	}
}

func (s *RegenSystem) regen(l *world.Living) {
	if !l.IsAlive() || s.world.PendingDespawn(l.ID) {
		return
	}
	if l.Health >= l.MaxHealth() {
		return
	}
	if rate := l.Props.GetModified(property.HealthRegenerationRate); rate > 0 {
		s.world.ChangeHealth(l, rate, l.ID)
	}
}

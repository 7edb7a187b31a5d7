package skill

import (
	"time"

	"github.com/dolgo/server/internal/world"
)

// Applicator delivers a component to one recipient and calls deliver once
// it arrives. Delivery may be deferred.
type Applicator interface {
	Start(ctx *Context, recipient *world.Living, deliver func(*world.Living))
}

// DirectApplicator delivers immediately.
type DirectApplicator struct{}

func (DirectApplicator) Start(_ *Context, recipient *world.Living, deliver func(*world.Living)) {
	deliver(recipient)
}

// ProjectileApplicator delivers after the projectile covers the distance
// between caster and recipient at Speed units per second. A recipient gone
// by then is skipped.
type ProjectileApplicator struct {
	Speed float64
}

func (p ProjectileApplicator) Start(ctx *Context, recipient *world.Living, deliver func(*world.Living)) {
	caster, ok := ctx.Caster()
	if !ok || p.Speed <= 0 {
		deliver(recipient)
		return
	}
	region, ok := ctx.Env.World.Region(caster.RegionID)
	if !ok {
		return
	}
	flight := p.FlightTime(ctx.Env.World.Distance(caster, recipient))
	id := recipient.ID
	region.Timers.Schedule(flight, func() {
		if l, ok := ctx.Env.World.Living(id); ok {
			deliver(l)
		}
	})
}

// FlightTime is how long the projectile travels distance.
func (p ProjectileApplicator) FlightTime(distance float64) time.Duration {
	if p.Speed <= 0 {
		return 0
	}
	return time.Duration(distance / p.Speed * float64(time.Second))
}

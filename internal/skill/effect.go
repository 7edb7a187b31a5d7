package skill

import (
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/dolgo/server/internal/action"
	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/timer"
	"github.com/dolgo/server/internal/world"
)

// Effect is one link of a component's effect chain. Apply returning false
// stops the chain for that recipient.
type Effect interface {
	Apply(ctx *Context, recipient *world.Living) bool
	// Expire undoes a duration effect. Instant effects do nothing.
	Expire(ctx *Context, recipient *world.Living)
}

// resolve runs an intention through the combat resolver and reports whether
// it was enacted.
func resolve(ctx *Context, in action.Intention) bool {
	_, err := ctx.Env.Resolver.Resolve(in)
	if err != nil && !errors.Is(err, action.ErrCancelled) && ctx.Env.Log != nil {
		ctx.Env.Log.Warn("skill effect not enacted",
			zap.String("skill", ctx.Skill.ID),
			zap.String("kind", in.Kind()),
			zap.Error(err))
	}
	return err == nil
}

// HealEffect heals Value * Effectiveness at once.
type HealEffect struct {
	Value         int
	Effectiveness float64
}

func (h HealEffect) Amount() int { return int(float64(h.Value) * h.Effectiveness) }

func (h HealEffect) Apply(ctx *Context, recipient *world.Living) bool {
	caster, ok := ctx.Caster()
	if !ok {
		return false
	}
	return resolve(ctx, action.NewHealingAid(ctx.Env.World, caster, recipient, h.Amount()))
}

func (HealEffect) Expire(*Context, *world.Living) {}

// DamageEffect deals Value damage of one type at once.
type DamageEffect struct {
	Value      int
	DamageType action.DamageType
}

func (d DamageEffect) Apply(ctx *Context, recipient *world.Living) bool {
	caster, ok := ctx.Caster()
	if !ok {
		return false
	}
	return resolve(ctx, action.NewDamageAttack(ctx.Env.World, caster, recipient, d.Value, d.DamageType))
}

func (DamageEffect) Expire(*Context, *world.Living) {}

// BuffEffect adds Amount to one bonus category of Property for Duration.
// A zero Duration lasts until the living is gone.
type BuffEffect struct {
	Property property.Property
	Category property.Category
	Amount   int
	Duration time.Duration
}

func (b *BuffEffect) Apply(ctx *Context, recipient *world.Living) bool {
	recipient.Props.AddBonus(b.Category, b.Property, b.Amount)
	scheduleExpiry(ctx, recipient, b.Duration, nil, b)
	return true
}

func (b *BuffEffect) Expire(_ *Context, recipient *world.Living) {
	recipient.Props.AddBonus(b.Category, b.Property, -b.Amount)
}

// MultiplierEffect scales Property by Percent for Duration. Applying it
// again to the same recipient refreshes the duration.
type MultiplierEffect struct {
	Property property.Property
	Percent  int
	Duration time.Duration

	expiries map[ecs.EntityID]*timer.Timer
}

type multiplierKey struct {
	effect    *MultiplierEffect
	recipient ecs.EntityID
}

func (m *MultiplierEffect) Apply(ctx *Context, recipient *world.Living) bool {
	id := recipient.ID
	recipient.Props.SetMultiplier(multiplierKey{m, id}, m.Property, m.Percent)
	if prev, ok := m.expiries[id]; ok {
		prev.Stop()
		delete(m.expiries, id)
	}
	t := scheduleExpiry(ctx, recipient, m.Duration, func() { delete(m.expiries, id) }, m)
	if t != nil {
		if m.expiries == nil {
			m.expiries = make(map[ecs.EntityID]*timer.Timer)
		}
		m.expiries[id] = t
	}
	return true
}

func (m *MultiplierEffect) Expire(_ *Context, recipient *world.Living) {
	recipient.Props.RemoveMultiplier(multiplierKey{m, recipient.ID}, m.Property)
}

// scheduleExpiry runs e.Expire on the recipient's region after d unless the
// recipient is gone by then. done, when set, runs either way.
func scheduleExpiry(ctx *Context, recipient *world.Living, d time.Duration, done func(), e Effect) *timer.Timer {
	if d <= 0 {
		return nil
	}
	region, ok := ctx.Env.World.Region(recipient.RegionID)
	if !ok {
		return nil
	}
	id := recipient.ID
	return region.Timers.Schedule(d, func() {
		if done != nil {
			done()
		}
		if l, ok := ctx.Env.World.Living(id); ok {
			e.Expire(ctx, l)
		}
	})
}

// ChanceEffect lets the rest of the chain run with Percent probability.
type ChanceEffect struct {
	Percent int
	// Roll returns a value in [0, 100). Defaults to math/rand.
	Roll func() int
}

func (c ChanceEffect) Apply(*Context, *world.Living) bool {
	roll := c.Roll
	if roll == nil {
		roll = func() int { return rand.IntN(100) }
	}
	return roll() < c.Percent
}

func (ChanceEffect) Expire(*Context, *world.Living) {}

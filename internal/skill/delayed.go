package skill

import (
	"time"

	"go.uber.org/zap"

	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/timer"
	"github.com/dolgo/server/internal/world"
)

// DefaultCastDuration is the cast time of a delayed invocation.
const DefaultCastDuration = 3 * time.Second

// DelayedInvocation fires Duration after Start unless interrupted. Moving or
// being attacked interrupts the cast when the matching flag is set.
type DelayedInvocation struct {
	Duration          time.Duration
	InterruptOnMove   bool
	InterruptOnAttack bool

	skill   *ModularSkill
	next    InvokedFunc
	pending *timer.Timer
	region  *world.Region
	caster  ecs.EntityID
	target  ecs.EntityID

	onCast func(caster *world.Living, target ecs.EntityID)
}

func NewDelayedInvocation(d time.Duration) *DelayedInvocation {
	if d <= 0 {
		d = DefaultCastDuration
	}
	return &DelayedInvocation{Duration: d, InterruptOnMove: true, InterruptOnAttack: true}
}

func (d *DelayedInvocation) Attach(s *ModularSkill, next InvokedFunc) {
	d.skill, d.next = s, next
}

// Start begins the cast. A cast still pending is interrupted first.
func (d *DelayedInvocation) Start(caster *world.Living) FailReason {
	if d.pending != nil {
		d.interrupt(NoReason)
	}
	target := caster.TargetID
	if r := d.skill.checkPrimary(caster, target); r != NoReason {
		return r
	}
	region, ok := d.skill.env.World.Region(caster.RegionID)
	if !ok {
		return InvalidTarget
	}

	var t *timer.Timer
	t = region.Timers.Schedule(d.Duration, func() {
		if d.pending == t {
			d.complete()
		}
	})
	d.pending, d.region, d.caster, d.target = t, region, caster.ID, target

	if d.onCast != nil {
		d.onCast(caster, target)
	}
	d.skill.env.World.AddInterrupter(caster.ID, d)
	return NoReason
}

func (d *DelayedInvocation) complete() {
	d.pending = nil
	d.skill.env.World.RemoveInterrupter(d.caster, d)

	caster, ok := d.skill.env.World.Living(d.caster)
	if !ok || !caster.IsAlive() {
		d.skill.fail(CasterDead)
		return
	}
	if r := d.skill.checkPrimary(caster, d.target); r != NoReason {
		d.skill.fail(r)
		return
	}
	d.next(caster, d.target)
}

func (d *DelayedInvocation) OnMoved(ecs.EntityID) {
	if d.InterruptOnMove {
		d.interrupt(InterruptedByMoving)
	}
}

func (d *DelayedInvocation) OnAttacked(ecs.EntityID, ecs.EntityID) {
	if d.InterruptOnAttack {
		d.interrupt(InterruptedByAttack)
	}
}

// interrupt stops the timer before anything else so the cast can never both
// complete and be interrupted.
func (d *DelayedInvocation) interrupt(reason FailReason) {
	if d.pending == nil {
		return
	}
	d.pending.Stop()
	d.pending = nil
	d.skill.env.World.RemoveInterrupter(d.caster, d)

	if l := d.skill.env.Listener; l != nil {
		l.InterruptAnimation(d.skill, d.caster)
	}
	if log := d.skill.env.Log; log != nil {
		log.Debug("cast interrupted",
			zap.String("skill", d.skill.ID),
			zap.Stringer("caster", d.caster),
			zap.Stringer("reason", reason))
	}
	if reason != NoReason {
		d.skill.fail(reason)
	}
}

func (d *DelayedInvocation) HandleUseOtherSkill(*TryUseRequest) {}

func (d *DelayedInvocation) IsBusy() bool { return d.pending != nil }

// Remaining is the time left on a pending cast.
func (d *DelayedInvocation) Remaining() time.Duration {
	if d.pending == nil {
		return 0
	}
	return d.pending.Due() - d.region.Timers.Now()
}

func (d *DelayedInvocation) Stop() {
	if d.pending == nil {
		return
	}
	d.pending.Stop()
	d.pending = nil
	d.skill.env.World.RemoveInterrupter(d.caster, d)
}

// GesturedInvocation is a delayed cast with a visible casting gesture,
// broadcast on start. While casting, it blocks every other gestured skill of
// the owner.
type GesturedInvocation struct {
	*DelayedInvocation
	Animation uint16
}

func NewGesturedInvocation(d time.Duration, animation uint16) *GesturedInvocation {
	g := &GesturedInvocation{DelayedInvocation: NewDelayedInvocation(d), Animation: animation}
	g.onCast = func(caster *world.Living, target ecs.EntityID) {
		if l := g.skill.env.Listener; l != nil {
			l.CastAnimation(g.skill, caster.ID, target, g.Animation)
		}
	}
	return g
}

func (g *GesturedInvocation) HandleUseOtherSkill(req *TryUseRequest) {
	if !g.IsBusy() {
		return
	}
	if _, gestured := req.Skill.Invocation.(*GesturedInvocation); gestured {
		req.Veto(AlreadyUsingAnotherSkill)
	}
}

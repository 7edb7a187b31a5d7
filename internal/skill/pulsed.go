package skill

import (
	"time"

	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/timer"
	"github.com/dolgo/server/internal/world"
)

// DefaultPulseFrequency is one pulse every five seconds.
const DefaultPulseFrequency = 0.2

// PulsedInvocation toggles: Start begins pulsing, the next Start stops it.
// While pulsing the skill is invoked every 1/Frequency seconds, the first
// time one interval after Start. Starting another pulsed skill of the same
// owner stops this one. Every pulse goes to the caster's current target.
type PulsedInvocation struct {
	Frequency float64 // Hz

	skill  *ModularSkill
	next   InvokedFunc
	pulse  *timer.Timer
	caster ecs.EntityID
}

func NewPulsedInvocation(frequency float64) *PulsedInvocation {
	if frequency <= 0 {
		frequency = DefaultPulseFrequency
	}
	return &PulsedInvocation{Frequency: frequency}
}

func (p *PulsedInvocation) Attach(s *ModularSkill, next InvokedFunc) {
	p.skill, p.next = s, next
}

// Interval is the time between pulses.
func (p *PulsedInvocation) Interval() time.Duration {
	return time.Duration(float64(time.Second) / p.Frequency)
}

func (p *PulsedInvocation) Start(caster *world.Living) FailReason {
	if p.IsPulsing() {
		p.Stop()
		return NoReason
	}
	target := caster.TargetID
	if r := p.skill.checkPrimary(caster, target); r != NoReason {
		return r
	}
	region, ok := p.skill.env.World.Region(caster.RegionID)
	if !ok {
		return InvalidTarget
	}
	p.caster = caster.ID
	p.pulse = region.Timers.Repeat(p.Interval(), p.onPulse)
	return NoReason
}

func (p *PulsedInvocation) onPulse() {
	caster, ok := p.skill.env.World.Living(p.caster)
	if !ok || !caster.IsAlive() {
		p.Stop()
		return
	}
	p.next(caster, caster.TargetID)
}

func (p *PulsedInvocation) IsPulsing() bool { return p.pulse.IsAlive() }

func (p *PulsedInvocation) IsBusy() bool { return p.IsPulsing() }

func (p *PulsedInvocation) Stop() {
	p.pulse.Stop()
	p.pulse = nil
}

func (p *PulsedInvocation) HandleUseOtherSkill(req *TryUseRequest) {
	other, ok := req.Skill.Invocation.(*PulsedInvocation)
	if ok && other != p && p.IsPulsing() {
		p.Stop()
	}
}

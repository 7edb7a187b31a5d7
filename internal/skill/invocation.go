package skill

import "github.com/dolgo/server/internal/world"

// Invocation decides when a started skill fires.
type Invocation interface {
	// Attach binds the invocation to its skill and the continuation run when
	// the skill is invoked. Called once by New.
	Attach(s *ModularSkill, next InvokedFunc)
	Start(caster *world.Living) FailReason
	// HandleUseOtherSkill is offered every other skill the owner tries to
	// use and may veto it.
	HandleUseOtherSkill(req *TryUseRequest)
	// IsBusy reports a pending cast or an active pulse.
	IsBusy() bool
	// Stop cancels anything pending without side effects.
	Stop()
}

// InstantInvocation fires synchronously on Start.
type InstantInvocation struct {
	skill *ModularSkill
	next  InvokedFunc
}

func NewInstantInvocation() *InstantInvocation { return &InstantInvocation{} }

func (i *InstantInvocation) Attach(s *ModularSkill, next InvokedFunc) {
	i.skill, i.next = s, next
}

func (i *InstantInvocation) Start(caster *world.Living) FailReason {
	target := caster.TargetID
	if r := i.skill.checkPrimary(caster, target); r != NoReason {
		return r
	}
	i.next(caster, target)
	return NoReason
}

func (i *InstantInvocation) HandleUseOtherSkill(*TryUseRequest) {}
func (i *InstantInvocation) IsBusy() bool                       { return false }
func (i *InstantInvocation) Stop()                              {}

package skill

import (
	"go.uber.org/zap"

	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/core/event"
)

// FailureRecorder counts skill use failures. metrics.Metrics implements it.
type FailureRecorder interface {
	SkillUseFailed(reason string)
}

// BusListener publishes skill side effects on the event bus for the output
// layer.
type BusListener struct {
	Bus     *event.Bus
	Metrics FailureRecorder
	Log     *zap.Logger
}

func (b *BusListener) SkillFailed(s *ModularSkill, caster ecs.EntityID, reason FailReason) {
	if b.Metrics != nil {
		b.Metrics.SkillUseFailed(reason.String())
	}
	if b.Log != nil {
		b.Log.Debug("skill use failed",
			zap.String("skill", s.ID),
			zap.Stringer("caster", caster),
			zap.Stringer("reason", reason))
	}
	event.Emit(b.Bus, event.SkillUseFailed{
		Caster:  caster,
		SkillID: s.ID,
		Reason:  reason.String(),
		Message: reason.Message(),
	})
}

func (b *BusListener) CastAnimation(s *ModularSkill, caster, target ecs.EntityID, animation uint16) {
	ev := event.CastAnimation{Caster: caster, Target: target, SkillID: s.ID, Animation: animation}
	if g, ok := s.Invocation.(*GesturedInvocation); ok {
		ev.Duration = g.Duration
	}
	event.Emit(b.Bus, ev)
}

func (b *BusListener) InterruptAnimation(s *ModularSkill, caster ecs.EntityID) {
	event.Emit(b.Bus, event.InterruptAnimation{Caster: caster, SkillID: s.ID})
}

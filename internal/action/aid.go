package action

import "github.com/dolgo/server/internal/world"

// HealingAid restores Health to the target.
type HealingAid struct {
	parties
	sink   Sink
	Health int
}

func NewHealingAid(sink Sink, healer, target *world.Living, health int) *HealingAid {
	return &HealingAid{parties: parties{actor: healer, target: target}, sink: sink, Health: health}
}

func (a *HealingAid) Kind() string { return "heal" }

func (a *HealingAid) DetermineResult() Outcome {
	return &HealingAidOutcome{
		outcome: outcome{sink: a.sink, actor: a.actor, recipient: a.target},
		Health:  max(a.Health, 0),
	}
}

type HealingAidOutcome struct {
	outcome
	Health int
	// Healed is the health actually restored, set by Enact.
	Healed int
}

func (o *HealingAidOutcome) Kind() string { return "heal" }
func (o *HealingAidOutcome) Amount() int  { return o.Health }

func (o *HealingAidOutcome) Enact() error {
	return o.enact(func() {
		if o.Health > 0 {
			o.Healed = o.sink.ChangeHealth(o.recipient, o.Health, o.actorID())
		}
	})
}

package action

import (
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/world"
)

// Attack is a hostile action without damage of its own.
type Attack struct {
	parties
	sink Sink
}

func NewAttack(sink Sink, attacker, defender *world.Living) *Attack {
	return &Attack{parties: parties{actor: attacker, target: defender}, sink: sink}
}

func (a *Attack) Kind() string { return "attack" }

func (a *Attack) DetermineResult() Outcome {
	return &AttackOutcome{outcome: outcome{sink: a.sink, actor: a.actor, recipient: a.target}}
}

// AttackOutcome only marks the recipient as attacked.
type AttackOutcome struct {
	outcome
}

func (o *AttackOutcome) Kind() string { return "attack" }
func (o *AttackOutcome) Amount() int  { return 0 }

func (o *AttackOutcome) Enact() error {
	return o.enact(func() {
		o.sink.NotifyAttacked(o.recipient.ID, o.actorID())
	})
}

// DamageAttack deals Damage of one DamageType, reduced by the defender's
// resist.
type DamageAttack struct {
	parties
	sink       Sink
	Damage     int
	DamageType DamageType
}

func NewDamageAttack(sink Sink, attacker, defender *world.Living, damage int, dt DamageType) *DamageAttack {
	return &DamageAttack{
		parties:    parties{actor: attacker, target: defender},
		sink:       sink,
		Damage:     damage,
		DamageType: dt,
	}
}

func (a *DamageAttack) Kind() string { return "damage" }

func (a *DamageAttack) DetermineResult() Outcome {
	resist := 0
	if p := ResistForDamage(a.DamageType); p != property.Undefined {
		resist = a.target.Props.GetModified(p)
	}
	resisted := a.Damage * resist / 100
	return &DamageAttackOutcome{
		outcome:    outcome{sink: a.sink, actor: a.actor, recipient: a.target},
		Damage:     a.Damage - resisted,
		DamageType: a.DamageType,
		Resisted:   resisted,
	}
}

// DamageAttackOutcome may be changed by hooks before Enact, e.g. absorbed.
type DamageAttackOutcome struct {
	outcome
	Damage     int
	DamageType DamageType
	Resisted   int
	// Dealt is the health actually removed, set by Enact.
	Dealt int
}

func (o *DamageAttackOutcome) Kind() string { return "damage" }
func (o *DamageAttackOutcome) Amount() int  { return o.Damage }

func (o *DamageAttackOutcome) Enact() error {
	return o.enact(func() {
		if o.Damage > 0 {
			o.Dealt = -o.sink.ChangeHealth(o.recipient, -o.Damage, o.actorID())
		}
		o.sink.NotifyAttacked(o.recipient.ID, o.actorID())
	})
}

package skill

import (
	"fmt"
	"time"

	"github.com/dolgo/server/internal/action"
	"github.com/dolgo/server/internal/data"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/world"
)

// Factory assembles ModularSkills from catalogue definitions using the same
// public constructors as hand-built skills.
type Factory struct {
	Env *Env
}

// Build creates an unbound skill from def.
func (f Factory) Build(def *data.SkillDef) (*ModularSkill, error) {
	inv, err := buildInvocation(def.Invocation)
	if err != nil {
		return nil, fmt.Errorf("skill %s: %w", def.ID, err)
	}
	comps := make([]*Component, 0, len(def.Components))
	for i, cd := range def.Components {
		c, err := buildComponent(cd)
		if err != nil {
			return nil, fmt.Errorf("skill %s component %d: %w", def.ID, i, err)
		}
		comps = append(comps, c)
	}
	return New(def.ID, def.Name, inv, comps...), nil
}

// Grant builds def and grants it to l as a talent.
func (f Factory) Grant(def *data.SkillDef, l *world.Living) (*ModularSkill, error) {
	s, err := f.Build(def)
	if err != nil {
		return nil, err
	}
	if !l.Talents.Add(NewTalent(f.Env, s)) {
		return nil, fmt.Errorf("skill %s: cannot be granted to %s", def.ID, l.Name)
	}
	return s, nil
}

func buildInvocation(d data.InvocationDef) (Invocation, error) {
	duration := time.Duration(d.DurationMs) * time.Millisecond
	switch d.Kind {
	case "", "instant":
		return NewInstantInvocation(), nil
	case "delayed":
		inv := NewDelayedInvocation(duration)
		applyInterruptFlags(inv, d)
		return inv, nil
	case "gestured":
		inv := NewGesturedInvocation(duration, d.Animation)
		applyInterruptFlags(inv.DelayedInvocation, d)
		return inv, nil
	case "pulsed":
		return NewPulsedInvocation(d.FrequencyHz), nil
	}
	return nil, fmt.Errorf("unknown invocation %q", d.Kind)
}

func applyInterruptFlags(inv *DelayedInvocation, d data.InvocationDef) {
	if d.InterruptOnMove != nil {
		inv.InterruptOnMove = *d.InterruptOnMove
	}
	if d.InterruptOnAttack != nil {
		inv.InterruptOnAttack = *d.InterruptOnAttack
	}
}

func buildComponent(cd data.ComponentDef) (*Component, error) {
	area := Area{Range: cd.Selector.Range, Radius: cd.Selector.Radius, MaxTargets: cd.Selector.MaxTargets}
	var sel TargetSelector
	switch cd.Selector.Kind {
	case "self":
		sel = SelfSelector{Area: area}
	case "friendly":
		sel = FriendlySelector{Area: area}
	case "enemy":
		sel = EnemySelector{Area: area}
	default:
		return nil, fmt.Errorf("unknown selector %q", cd.Selector.Kind)
	}

	var app Applicator
	switch cd.Applicator.Kind {
	case "", "direct":
		app = DirectApplicator{}
	case "projectile":
		if cd.Applicator.Speed <= 0 {
			return nil, fmt.Errorf("projectile speed must be positive")
		}
		app = ProjectileApplicator{Speed: cd.Applicator.Speed}
	default:
		return nil, fmt.Errorf("unknown applicator %q", cd.Applicator.Kind)
	}

	effects := make([]Effect, 0, len(cd.Effects))
	for i, ed := range cd.Effects {
		e, err := buildEffect(ed)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		effects = append(effects, e)
	}
	return NewComponent(sel, app, effects...), nil
}

func buildEffect(ed data.EffectDef) (Effect, error) {
	duration := time.Duration(ed.DurationMs) * time.Millisecond
	switch ed.Kind {
	case "heal":
		eff := ed.Effectiveness
		if eff == 0 {
			eff = 1
		}
		return HealEffect{Value: ed.Value, Effectiveness: eff}, nil
	case "damage":
		dt, ok := action.ParseDamageType(ed.DamageType)
		if !ok {
			return nil, fmt.Errorf("unknown damage type %q", ed.DamageType)
		}
		return DamageEffect{Value: ed.Value, DamageType: dt}, nil
	case "buff":
		p, ok := property.ParseProperty(ed.Property)
		if !ok {
			return nil, fmt.Errorf("unknown property %q", ed.Property)
		}
		c, ok := property.ParseCategory(ed.Category)
		if !ok || c == property.CategoryBase {
			return nil, fmt.Errorf("invalid bonus category %q", ed.Category)
		}
		return &BuffEffect{Property: p, Category: c, Amount: ed.Value, Duration: duration}, nil
	case "multiplier":
		p, ok := property.ParseProperty(ed.Property)
		if !ok {
			return nil, fmt.Errorf("unknown property %q", ed.Property)
		}
		return &MultiplierEffect{Property: p, Percent: ed.Percent, Duration: duration}, nil
	case "chance":
		return ChanceEffect{Percent: ed.Percent}, nil
	}
	return nil, fmt.Errorf("unknown effect %q", ed.Kind)
}

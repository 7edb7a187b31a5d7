package skill

import (
	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/world"
)

// TargetSelector checks whether a skill may be used on a target and picks
// the recipients once it fires.
type TargetSelector interface {
	CheckRequirementsForUse(env *Env, caster *world.Living, target ecs.EntityID) FailReason
	// SelectTargets assumes CheckRequirementsForUse passed.
	SelectTargets(env *Env, caster *world.Living, target ecs.EntityID) []*world.Living
}

// Area shapes a selector. Range is how far the primary target may be; 0
// centres the skill on the caster whatever is targeted. Radius is the area
// around the centre; 0 affects only the centre. MaxTargets caps the
// recipients, 0 meaning no cap; the centre is always kept first.
type Area struct {
	Range      int32
	Radius     int32
	MaxTargets int
}

// SelfSelector affects the caster, plus friends within Radius.
type SelfSelector struct {
	Area
}

func (SelfSelector) CheckRequirementsForUse(*Env, *world.Living, ecs.EntityID) FailReason {
	return NoReason
}

func (s SelfSelector) SelectTargets(env *Env, caster *world.Living, _ ecs.EntityID) []*world.Living {
	return s.around(env, caster, caster, true, env.Rules.IsFriendly)
}

// FriendlySelector affects a friendly target, falling back to the caster
// when Range is 0.
type FriendlySelector struct {
	Area
}

func (s FriendlySelector) CheckRequirementsForUse(env *Env, caster *world.Living, target ecs.EntityID) FailReason {
	if s.Range == 0 {
		return NoReason
	}
	t, ok := env.World.Living(target)
	if !ok || !t.IsAlive() || !env.Rules.IsFriendly(caster, t) {
		return InvalidTarget
	}
	return s.checkRange(env, caster, t)
}

func (s FriendlySelector) SelectTargets(env *Env, caster *world.Living, target ecs.EntityID) []*world.Living {
	center := caster
	if s.Range > 0 {
		if t, ok := env.World.Living(target); ok && t.IsAlive() && env.Rules.IsFriendly(caster, t) {
			center = t
		}
	}
	return s.around(env, caster, center, true, env.Rules.IsFriendly)
}

// EnemySelector affects a hostile target, or every enemy within Radius of
// the caster when Range is 0.
type EnemySelector struct {
	Area
}

func (s EnemySelector) CheckRequirementsForUse(env *Env, caster *world.Living, target ecs.EntityID) FailReason {
	if s.Range == 0 {
		return NoReason
	}
	t, ok := env.World.Living(target)
	if !ok || !env.Rules.IsAllowedToAttack(caster, t) {
		return InvalidTarget
	}
	return s.checkRange(env, caster, t)
}

func (s EnemySelector) SelectTargets(env *Env, caster *world.Living, target ecs.EntityID) []*world.Living {
	if s.Range == 0 {
		if s.Radius == 0 {
			return nil
		}
		// Point blank: the caster is the centre, not a recipient.
		return s.around(env, caster, caster, false, env.Rules.IsAllowedToAttack)
	}
	t, ok := env.World.Living(target)
	if !ok || !env.Rules.IsAllowedToAttack(caster, t) {
		return nil
	}
	return s.around(env, caster, t, true, env.Rules.IsAllowedToAttack)
}

func (a Area) checkRange(env *Env, caster, target *world.Living) FailReason {
	if env.World.Distance(caster, target) > float64(a.Range) {
		return TargetTooFar
	}
	return NoReason
}

// around returns center (unless excluded) followed by every living within
// Radius of it that accept(caster, living) admits, capped at MaxTargets.
func (a Area) around(env *Env, caster, center *world.Living, withCenter bool, accept func(a, b *world.Living) bool) []*world.Living {
	var out []*world.Living
	if withCenter {
		out = append(out, center)
	}
	if a.Radius > 0 {
		for _, l := range env.World.Nearby(center.RegionID, center.Pos, a.Radius) {
			if l == center || !l.IsAlive() || !accept(caster, l) {
				continue
			}
			out = append(out, l)
		}
	}
	if a.MaxTargets > 0 && len(out) > a.MaxTargets {
		out = out[:a.MaxTargets]
	}
	return out
}

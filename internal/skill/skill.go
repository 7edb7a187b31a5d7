// Package skill assembles modular skills: an invocation decides when a skill
// fires, then each component selects its targets, delivers through an
// applicator and runs its effect chain on every recipient.
//
// All methods run on the game loop; suspension is done with region timers,
// never by blocking.
package skill

import (
	"go.uber.org/zap"

	"github.com/dolgo/server/internal/combat"
	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/world"
)

// Listener receives the player-visible side effects of skill use.
type Listener interface {
	SkillFailed(s *ModularSkill, caster ecs.EntityID, reason FailReason)
	CastAnimation(s *ModularSkill, caster, target ecs.EntityID, animation uint16)
	InterruptAnimation(s *ModularSkill, caster ecs.EntityID)
}

// Env is what a bound skill runs against.
type Env struct {
	World    *world.State
	Rules    world.Rules
	Resolver *combat.Resolver
	Listener Listener
	Books    *Books
	Log      *zap.Logger
}

// InvokedFunc continues a skill once its invocation completes.
type InvokedFunc func(caster *world.Living, target ecs.EntityID)

// Component is one target selector, applicator and effect chain.
type Component struct {
	Selector   TargetSelector
	Applicator Applicator
	Effects    []Effect
}

func NewComponent(sel TargetSelector, app Applicator, effects ...Effect) *Component {
	return &Component{Selector: sel, Applicator: app, Effects: effects}
}

// Context is handed to applicators and effects.
type Context struct {
	Env      *Env
	Skill    *ModularSkill
	CasterID ecs.EntityID
}

// Caster resolves the caster; false once it no longer exists.
func (c *Context) Caster() (*world.Living, bool) {
	return c.Env.World.Living(c.CasterID)
}

// ModularSkill is an invocation plus an ordered list of components.
type ModularSkill struct {
	ID         string
	Name       string
	Invocation Invocation
	Components []*Component

	owner ecs.EntityID
	env   *Env
}

func New(id, name string, inv Invocation, comps ...*Component) *ModularSkill {
	s := &ModularSkill{ID: id, Name: name, Invocation: inv, Components: comps}
	inv.Attach(s, s.invoked)
	return s
}

// Bind attaches the skill to its owner.
func (s *ModularSkill) Bind(env *Env, owner ecs.EntityID) {
	s.env = env
	s.owner = owner
}

func (s *ModularSkill) Owner() ecs.EntityID { return s.owner }

func (s *ModularSkill) Env() *Env { return s.env }

// PrimarySelector is the selector checked before invocation: the first
// component's.
func (s *ModularSkill) PrimarySelector() TargetSelector {
	if len(s.Components) == 0 {
		return nil
	}
	return s.Components[0].Selector
}

// TryUse starts the skill. Other skills of the owner may veto first. Failures
// are reported to the listener and returned.
func (s *ModularSkill) TryUse() FailReason {
	if s.env == nil {
		return CasterDead
	}
	caster, ok := s.env.World.Living(s.owner)
	if !ok || !caster.IsAlive() {
		return s.fail(CasterDead)
	}

	req := &TryUseRequest{Skill: s, Caster: caster}
	if s.env.Books != nil {
		s.env.Books.Of(s.owner).offer(req)
	}
	if req.veto != NoReason {
		return s.fail(req.veto)
	}

	if reason := s.Invocation.Start(caster); reason != NoReason {
		return s.fail(reason)
	}
	return NoReason
}

// checkPrimary runs the primary selector's requirements against the
// caster's current target.
func (s *ModularSkill) checkPrimary(caster *world.Living, target ecs.EntityID) FailReason {
	sel := s.PrimarySelector()
	if sel == nil {
		return NoReason
	}
	return sel.CheckRequirementsForUse(s.env, caster, target)
}

func (s *ModularSkill) fail(reason FailReason) FailReason {
	if s.env != nil && s.env.Listener != nil {
		s.env.Listener.SkillFailed(s, s.owner, reason)
	}
	return reason
}

// invoked runs every component in declaration order; within a component
// every target in selection order.
func (s *ModularSkill) invoked(caster *world.Living, target ecs.EntityID) {
	ctx := &Context{Env: s.env, Skill: s, CasterID: caster.ID}
	for _, c := range s.Components {
		for _, recipient := range c.Selector.SelectTargets(s.env, caster, target) {
			c.Applicator.Start(ctx, recipient, c.applied(ctx))
		}
	}
}

// applied runs the effect chain on one recipient, stopping at the first
// effect that returns false.
func (c *Component) applied(ctx *Context) func(*world.Living) {
	return func(recipient *world.Living) {
		for _, e := range c.Effects {
			if !e.Apply(ctx, recipient) {
				return
			}
		}
	}
}

// TryUseRequest is offered to the owner's other skills before a skill
// starts.
type TryUseRequest struct {
	Skill  *ModularSkill
	Caster *world.Living
	veto   FailReason
}

// Veto stops the request. The first veto wins.
func (r *TryUseRequest) Veto(reason FailReason) {
	if r.veto == NoReason {
		r.veto = reason
	}
}

func (r *TryUseRequest) Vetoed() FailReason { return r.veto }

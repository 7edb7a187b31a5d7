package skill

import (
	"github.com/dolgo/server/internal/talent"
)

// Talent grants a modular skill: applying it binds the skill to the owner
// and puts it in the owner's book.
type Talent struct {
	Skill *ModularSkill
	env   *Env
}

func NewTalent(env *Env, s *ModularSkill) *Talent {
	return &Talent{Skill: s, env: env}
}

func (t *Talent) Name() string { return t.Skill.ID }

func (t *Talent) IsValid(o talent.Owner) bool {
	if t.Skill == nil || t.env == nil || o == nil {
		return false
	}
	l, ok := t.env.World.Living(o.LivingID())
	return ok && l.IsAlive()
}

func (t *Talent) Apply(o talent.Owner) {
	t.Skill.Bind(t.env, o.LivingID())
	t.env.Books.Of(o.LivingID()).Add(t.Skill)
}

func (t *Talent) Remove(o talent.Owner) {
	t.env.Books.Of(o.LivingID()).Remove(t.Skill)
}

package skill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dolgo/server/internal/combat"
	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/core/event"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/world"
)

type recorder struct {
	failures   []FailReason
	casts      []uint16
	interrupts int
}

func (r *recorder) SkillFailed(_ *ModularSkill, _ ecs.EntityID, reason FailReason) {
	r.failures = append(r.failures, reason)
}

func (r *recorder) CastAnimation(_ *ModularSkill, _, _ ecs.EntityID, animation uint16) {
	r.casts = append(r.casts, animation)
}

func (r *recorder) InterruptAnimation(*ModularSkill, ecs.EntityID) { r.interrupts++ }

type fixture struct {
	t      *testing.T
	env    *Env
	world  *world.State
	region *world.Region
	rec    *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	regs := property.DefaultRegistrations()[:5]
	reg, err := property.BuildRegistry(regs, property.Deps{Log: zap.NewNop()}, property.RegistryConfig{})
	require.NoError(t, err)

	bus := event.NewBus()
	w := world.NewState(reg, bus, zap.NewNop())
	region := w.AddRegion(1, "Tir na Nog")
	rec := &recorder{}
	env := &Env{
		World:    w,
		Rules:    world.NewRules(w),
		Resolver: combat.NewResolver(zap.NewNop(), combat.NewLog(0), nil, bus),
		Listener: rec,
		Log:      zap.NewNop(),
	}
	env.Books = NewBooks(w)
	return &fixture{t: t, env: env, world: w, region: region, rec: rec}
}

// spawn creates a living whose MaxHealth is 50 + con.
func (f *fixture) spawn(name string, realm world.Realm, x int32, con int) *world.Living {
	f.t.Helper()
	l, err := f.world.Spawn(world.Spawn{Name: name, Realm: realm, RegionID: 1, Pos: world.Position{X: x},
		Bases: map[property.Property]int{property.Constitution: con}})
	require.NoError(f.t, err)
	return l
}

// grant binds s to l through the talent set.
func (f *fixture) grant(l *world.Living, s *ModularSkill) *ModularSkill {
	f.t.Helper()
	require.True(f.t, l.Talents.Add(NewTalent(f.env, s)))
	return s
}

func (f *fixture) advance(d time.Duration) {
	f.region.Timers.Advance(d)
}

// tracer records every recipient it is applied to.
type tracer struct {
	name   string
	result bool
	log    *[]string
}

func (p tracer) Apply(_ *Context, recipient *world.Living) bool {
	*p.log = append(*p.log, p.name+":"+recipient.Name)
	return p.result
}

func (tracer) Expire(*Context, *world.Living) {}

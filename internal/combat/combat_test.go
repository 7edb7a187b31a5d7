package combat

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dolgo/server/internal/action"
	"github.com/dolgo/server/internal/core/event"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/world"
)

type countingRecorder map[string]int

func (c countingRecorder) OutcomeEnacted(kind string) { c[kind]++ }

func setup(t *testing.T) (*world.State, *world.Living, *world.Living) {
	t.Helper()
	reg, err := property.BuildRegistry(property.DefaultRegistrations()[:5], property.Deps{Log: zap.NewNop()}, property.RegistryConfig{})
	require.NoError(t, err)
	s := world.NewState(reg, event.NewBus(), zap.NewNop())
	s.AddRegion(1, "Jordheim")
	a, err := s.Spawn(world.Spawn{Name: "Thor", Realm: world.RealmMidgard, RegionID: 1})
	require.NoError(t, err)
	b, err := s.Spawn(world.Spawn{Name: "Lugh", Realm: world.RealmHibernia, RegionID: 1,
		Bases: map[property.Property]int{property.Constitution: 50}})
	require.NoError(t, err)
	return s, a, b
}

func TestResolveEnactsAndRecords(t *testing.T) {
	s, a, b := setup(t)
	clog := NewLog(0)
	rec := countingRecorder{}
	r := NewResolver(zap.NewNop(), clog, rec, s.Bus())

	out, err := r.Resolve(action.NewDamageAttack(s, a, b, 30, action.DamageCrush))
	require.NoError(t, err)
	assert.Equal(t, action.StateEnacted, out.State())
	assert.Equal(t, 70, b.Health)
	assert.Equal(t, 1, rec["damage"])
	assert.Equal(t, 1, event.Pending[event.OutcomeEnacted](s.Bus()))

	entries := clog.Drain()
	require.Len(t, entries, 1)
	assert.NotEqual(t, ulid.ULID{}, entries[0].ID)
	assert.Equal(t, "crush", entries[0].DamageType)
	assert.Equal(t, 30, entries[0].Amount)
	assert.Equal(t, "Lugh", entries[0].RecipientName)
	assert.Zero(t, clog.Len())
}

func TestBeforeHookCancels(t *testing.T) {
	s, a, b := setup(t)
	r := NewResolver(zap.NewNop(), NewLog(0), nil, nil)
	r.BeforeAttack(func(in action.Intention) bool { return in.Target().ID != b.ID })

	out, err := r.Resolve(action.NewDamageAttack(s, a, b, 30, action.DamageCrush))
	assert.ErrorIs(t, err, action.ErrCancelled)
	assert.Nil(t, out)
	assert.Equal(t, 100, b.Health)
}

func TestAfterHookAbsorbs(t *testing.T) {
	s, a, b := setup(t)
	r := NewResolver(zap.NewNop(), NewLog(0), nil, nil)
	shield := 20
	r.AfterResolve(func(out action.Outcome) bool {
		if dmg, ok := out.(*action.DamageAttackOutcome); ok {
			absorbed := min(shield, dmg.Damage)
			dmg.Damage -= absorbed
			shield -= absorbed
		}
		return true
	})

	_, err := r.Resolve(action.NewDamageAttack(s, a, b, 30, action.DamageCrush))
	require.NoError(t, err)
	assert.Equal(t, 90, b.Health)
	assert.Zero(t, shield)
}

func TestAfterHookCancels(t *testing.T) {
	s, a, b := setup(t)
	r := NewResolver(zap.NewNop(), NewLog(0), nil, nil)
	r.AfterResolve(func(action.Outcome) bool { return false })

	out, err := r.Resolve(action.NewHealingAid(s, a, b, 30))
	assert.ErrorIs(t, err, action.ErrCancelled)
	require.NotNil(t, out)
	assert.Equal(t, action.StateCancelled, out.State())
}

func TestResolveWithoutTarget(t *testing.T) {
	s, a, _ := setup(t)
	r := NewResolver(zap.NewNop(), nil, nil, nil)
	_, err := r.Resolve(action.NewAttack(s, a, nil))
	assert.ErrorIs(t, err, ErrNoParticipants)
}

func TestLogLimitAndRequeue(t *testing.T) {
	l := NewLog(3)
	for i := range 5 {
		l.Record(Entry{Amount: i})
	}
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 2, l.Dropped())

	drained := l.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, 2, drained[0].Amount)

	l.Record(Entry{Amount: 9})
	l.Requeue(drained)
	assert.Equal(t, 3, l.Len())
	got := l.Drain()
	assert.Equal(t, []int{3, 4, 9}, []int{got[0].Amount, got[1].Amount, got[2].Amount})
	assert.Equal(t, 3, l.Dropped())
}

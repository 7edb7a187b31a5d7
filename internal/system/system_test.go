package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dolgo/server/internal/combat"
	"github.com/dolgo/server/internal/core/event"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/skill"
	"github.com/dolgo/server/internal/world"
)

func newWorld(t *testing.T) (*world.State, *event.Bus) {
	t.Helper()
	// stat, resist, max_health, max_mana, max_speed, regeneration
	reg, err := property.BuildRegistry(property.DefaultRegistrations()[:6], property.Deps{}, property.RegistryConfig{})
	require.NoError(t, err)
	bus := event.NewBus()
	w := world.NewState(reg, bus, zap.NewNop())
	w.AddRegion(1, "Camelot Hills")
	w.AddRegion(2, "Vale of Mularn")
	return w, bus
}

func spawn(t *testing.T, w *world.State, sp world.Spawn) *world.Living {
	t.Helper()
	if sp.RegionID == 0 {
		sp.RegionID = 1
	}
	l, err := w.Spawn(sp)
	require.NoError(t, err)
	return l
}

func TestTimerSystemAdvancesEveryRegion(t *testing.T) {
	w, _ := newWorld(t)
	fired := 0
	for _, r := range w.Regions() {
		r.Timers.Schedule(time.Second, func() { fired++ })
	}
	s := NewTimerSystem(w)
	s.Update(999 * time.Millisecond)
	assert.Zero(t, fired)
	s.Update(time.Millisecond)
	assert.Equal(t, 2, fired)
}

func TestEventDispatchDeliversNextTick(t *testing.T) {
	w, bus := newWorld(t)
	var spawned []string
	event.Subscribe(bus, func(e event.LivingSpawned) { spawned = append(spawned, e.Name) })

	spawn(t, w, world.Spawn{Name: "Arthur"})
	assert.Empty(t, spawned)

	s := NewEventDispatchSystem(bus)
	s.Update(0)
	assert.Equal(t, []string{"Arthur"}, spawned)
	s.Update(0)
	assert.Len(t, spawned, 1)
}

func TestRegenSystem(t *testing.T) {
	w, _ := newWorld(t)
	bases := map[property.Property]int{property.Constitution: 50, property.HealthRegenerationRate: 4}
	hurt := spawn(t, w, world.Spawn{Name: "Hurt", Health: 50, Bases: bases})
	full := spawn(t, w, world.Spawn{Name: "Full", Bases: bases})
	dead := spawn(t, w, world.Spawn{Name: "Dead", Health: 10, Bases: bases})
	dead.Dead = true

	s := NewRegenSystem(w, time.Second)
	s.Update(500 * time.Millisecond)
	assert.Equal(t, 50, hurt.Health)
	s.Update(500 * time.Millisecond)
	assert.Equal(t, 54, hurt.Health)
	assert.Equal(t, 100, full.Health)
	assert.Equal(t, 10, dead.Health)

	s.Update(20 * time.Second)
	assert.Equal(t, 100, hurt.Health, "clamped at MaxHealth")
}

func newSkillEnv(t *testing.T, w *world.State, bus *event.Bus) *skill.Env {
	t.Helper()
	env := &skill.Env{
		World:    w,
		Rules:    world.NewRules(w),
		Resolver: combat.NewResolver(zap.NewNop(), combat.NewLog(0), nil, bus),
		Listener: &skill.BusListener{Bus: bus},
		Log:      zap.NewNop(),
	}
	env.Books = skill.NewBooks(w)
	return env
}

func TestInputSystemRunsQueuedSkills(t *testing.T) {
	w, bus := newWorld(t)
	env := newSkillEnv(t, w, bus)
	bases := map[property.Property]int{property.Constitution: 100}
	healer := spawn(t, w, world.Spawn{Name: "Friar", Realm: world.RealmAlbion, Bases: bases})
	patient := spawn(t, w, world.Spawn{Name: "Knight", Realm: world.RealmAlbion, Health: 10, Bases: bases})

	heal := skill.New("heal", "Heal", skill.NewInstantInvocation(),
		skill.NewComponent(skill.FriendlySelector{Area: skill.Area{Range: 1500}}, skill.DirectApplicator{},
			skill.HealEffect{Value: 20, Effectiveness: 1}))
	require.True(t, healer.Talents.Add(skill.NewTalent(env, heal)))

	s := NewInputSystem(w, env.Books, 4, 2, zap.NewNop())
	require.True(t, s.Submit(UseSkill{Caster: healer.ID, SkillID: "heal", Target: patient.ID}))
	require.True(t, s.Submit(UseSkill{Caster: healer.ID, SkillID: "heal"}))
	require.True(t, s.Submit(UseSkill{Caster: healer.ID, SkillID: "missing"}))
	require.True(t, s.Submit(UseSkill{Caster: healer.ID, SkillID: "heal"}))
	assert.False(t, s.Submit(UseSkill{Caster: healer.ID, SkillID: "heal"}), "queue full")

	s.Update(0)
	assert.Equal(t, 50, patient.Health, "two requests per tick")
	assert.Equal(t, patient.ID, healer.TargetID)

	s.Update(0)
	assert.Equal(t, 70, patient.Health, "unknown skill is skipped")

	w.Despawn(healer.ID)
	w.Flush()
	require.True(t, s.Submit(UseSkill{Caster: healer.ID, SkillID: "heal"}))
	assert.NotPanics(t, func() { s.Update(0) })
	assert.Equal(t, 70, patient.Health)
}

type fakeWriter struct {
	fail    error
	batches [][]combat.Entry
}

func (f *fakeWriter) WriteBatch(_ context.Context, entries []combat.Entry) error {
	if f.fail != nil {
		return f.fail
	}
	f.batches = append(f.batches, entries)
	return nil
}

type fakeSaver struct {
	saved map[string]map[property.Property]int
	fail  string
}

func (f *fakeSaver) SaveBases(_ context.Context, key string, bases map[property.Property]int) error {
	if key == f.fail {
		return errors.New("save failed")
	}
	f.saved[key] = bases
	return nil
}

func TestPersistenceSystemFlushesAndRequeues(t *testing.T) {
	w, _ := newWorld(t)
	clog := combat.NewLog(16)
	writer := &fakeWriter{fail: errors.New("db down")}
	s := NewPersistenceSystem(w, clog, writer, &fakeSaver{}, zap.NewNop(), time.Second)

	clog.Record(combat.Entry{Kind: "damage", Amount: 10})
	clog.Record(combat.Entry{Kind: "heal", Amount: 5})

	s.Update(500 * time.Millisecond)
	assert.Equal(t, 2, clog.Len())
	s.Update(500 * time.Millisecond)
	assert.Equal(t, 2, clog.Len(), "failed batch is requeued")
	assert.Empty(t, writer.batches)

	writer.fail = nil
	clog.Record(combat.Entry{Kind: "attack"})
	s.Update(time.Second)
	assert.Zero(t, clog.Len())
	require.Len(t, writer.batches, 1)
	kinds := []string{}
	for _, e := range writer.batches[0] {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []string{"damage", "heal", "attack"}, kinds)
}

func TestPersistenceSaveAllSavesPlayers(t *testing.T) {
	w, _ := newWorld(t)
	spawn(t, w, world.Spawn{Name: "Arthur", Role: world.RolePlayer,
		Bases: map[property.Property]int{property.Strength: 60}})
	spawn(t, w, world.Spawn{Name: "Lancelot", Role: world.RolePlayer})
	spawn(t, w, world.Spawn{Name: "Troll", Role: world.RoleNPC})

	saver := &fakeSaver{saved: map[string]map[property.Property]int{}, fail: "Lancelot"}
	clog := combat.NewLog(0)
	clog.Record(combat.Entry{Kind: "heal"})
	writer := &fakeWriter{}
	s := NewPersistenceSystem(w, clog, writer, saver, zap.NewNop(), 0)

	err := s.SaveAll(context.Background())
	assert.ErrorContains(t, err, "save failed")
	assert.Equal(t, map[property.Property]int{property.Strength: 60}, saver.saved["Arthur"])
	assert.NotContains(t, saver.saved, "Troll")
	assert.Len(t, writer.batches, 1)
}

func TestCleanupSystemFlushesDespawns(t *testing.T) {
	w, _ := newWorld(t)
	l := spawn(t, w, world.Spawn{Name: "Rat"})
	w.Despawn(l.ID)
	assert.Equal(t, 1, w.Count())

	NewCleanupSystem(w).Update(0)
	assert.Zero(t, w.Count())
	_, ok := w.Living(l.ID)
	assert.False(t, ok)
}

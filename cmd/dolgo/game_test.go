package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dolgo/server/internal/combat"
	"github.com/dolgo/server/internal/config"
	"github.com/dolgo/server/internal/data"
	"github.com/dolgo/server/internal/metrics"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/system"
	"github.com/dolgo/server/internal/world"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
[world]
tick_rate = "200ms"
regen_interval = "1s"
livings = "../../data/livings.yaml"

[scripting]
dir = "../../scripts"

[skills]
catalog = "../../data/skills.yaml"

[persist]
enabled = false
`))
	require.NoError(t, err)
	return cfg
}

type memBases map[string]map[property.Property]int

func (m memBases) LoadBases(_ context.Context, key string) (map[property.Property]int, error) {
	return m[key], nil
}

func (m memBases) SaveBases(_ context.Context, key string, bases map[property.Property]int) error {
	m[key] = bases
	return nil
}

func newTestGame(t *testing.T, bases BaseStore, writer system.CombatLogWriter) (*game, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	g, err := newGame(testConfig(t), zap.NewNop(), m, bases, writer)
	require.NoError(t, err)
	return g, m
}

func find(t *testing.T, g *game, name string) *world.Living {
	t.Helper()
	var out *world.Living
	g.world.EachLiving(func(l *world.Living) {
		if l.Name == name {
			out = l
		}
	})
	require.NotNil(t, out, name)
	return out
}

func TestGameBootsShippedData(t *testing.T) {
	g, m := newTestGame(t, nil, nil)
	defer g.lua.Close()
	assert.Zero(t, testutil.ToFloat64(m.RegistryFailures), "every shipped formula loads")

	templates, err := data.LoadLivingTemplates(g.cfg.World.Livings)
	require.NoError(t, err)
	n, err := g.spawnLivings(context.Background(), templates, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	arthur := find(t, g, "Arthur")
	cabal := find(t, g, "Cabal")
	assert.Equal(t, arthur.ID, cabal.OwnerID)
	assert.True(t, g.env.Rules.IsFriendly(arthur, cabal), "pets follow their owner's realm")
	assert.Equal(t, 120, arthur.MaxHealth())
	assert.Len(t, g.env.Books.Of(arthur.ID).Skills(), 3)
}

func TestGameTicksSkillsThroughInput(t *testing.T) {
	g, m := newTestGame(t, nil, nil)
	defer g.lua.Close()
	templates, err := data.LoadLivingTemplates(g.cfg.World.Livings)
	require.NoError(t, err)
	_, err = g.spawnLivings(context.Background(), templates, nil)
	require.NoError(t, err)

	arthur := find(t, g, "Arthur")
	guinevere := find(t, g, "Guinevere")
	guinevere.Health = 20

	require.True(t, g.input.Submit(system.UseSkill{Caster: arthur.ID, SkillID: "castheal", Target: guinevere.ID}))
	for range 20 { // 3s cast at 200ms ticks
		g.runner.Tick(200 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, guinevere.Health, 70)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutcomesEnacted.WithLabelValues("heal")))

	require.True(t, g.input.Submit(system.UseSkill{Caster: arthur.ID, SkillID: "heal", Target: find(t, g, "Forest Troll").ID}))
	g.runner.Tick(200 * time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkillUseFailures.WithLabelValues("invalid_target")))
}

func TestSpawnLivingsPrefersStoredBases(t *testing.T) {
	store := memBases{"Arthur": {property.Constitution: 200}}
	g, _ := newTestGame(t, store, &nopWriter{})
	templates, err := data.LoadLivingTemplates(g.cfg.World.Livings)
	require.NoError(t, err)
	_, err = g.spawnLivings(context.Background(), templates, store)
	require.NoError(t, err)

	assert.Equal(t, 250, find(t, g, "Arthur").MaxHealth())
	assert.Equal(t, 105, find(t, g, "Guinevere").MaxHealth(), "nothing stored keeps the template")

	find(t, g, "Guinevere").Props.SetPropertyBase(property.Piety, 75)
	require.NoError(t, g.shutdown(context.Background()))
	assert.Equal(t, 75, store["Guinevere"][property.Piety])
	assert.NotContains(t, store, "Forest Troll")
}

func TestSpawnLivingsRejectsBadTemplates(t *testing.T) {
	tests := []struct {
		name string
		tmpl data.LivingTemplate
		want string
	}{
		{"role", data.LivingTemplate{Name: "A", Role: "vendor", Region: 1}, "unknown role"},
		{"owner", data.LivingTemplate{Name: "B", Role: "pet", Owner: "Nobody", Region: 1}, "owner"},
		{"property", data.LivingTemplate{Name: "C", Role: "npc", Region: 1, Bases: map[string]int{"luck": 3}}, "unknown property"},
		{"skill", data.LivingTemplate{Name: "D", Role: "npc", Region: 1, Skills: []string{"fly"}}, "unknown skill"},
		{"region", data.LivingTemplate{Name: "E", Role: "npc", Region: 99}, "region"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGame(t, nil, nil)
			defer g.lua.Close()
			_, err := g.spawnLivings(context.Background(), []data.LivingTemplate{tt.tmpl}, nil)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

type nopWriter struct{}

func (nopWriter) WriteBatch(context.Context, []combat.Entry) error { return nil }

func TestPopulateClosesLuaOnFailure(t *testing.T) {
	badSkill := filepath.Join(t.TempDir(), "livings.yaml")
	require.NoError(t, os.WriteFile(badSkill, []byte(`
livings:
  - {name: Morgana, role: player, realm: 1, region: 1, skills: [curse]}
`), 0o644))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(t.TempDir(), "none.yaml"), "livings"},
		{"unknown skill", badSkill, "unknown skill"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGame(t, nil, nil)
			_, err := g.populate(context.Background(), tt.path, nil)
			assert.ErrorContains(t, err, tt.want)
			assert.True(t, g.lua.Closed())
		})
	}

	g, _ := newTestGame(t, nil, nil)
	defer g.lua.Close()
	n, err := g.populate(context.Background(), g.cfg.World.Livings, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.False(t, g.lua.Closed())
}

package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dolgo/server/internal/combat"
	"github.com/dolgo/server/internal/config"
	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/core/event"
	coresys "github.com/dolgo/server/internal/core/system"
	"github.com/dolgo/server/internal/data"
	"github.com/dolgo/server/internal/metrics"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/scripting"
	"github.com/dolgo/server/internal/skill"
	"github.com/dolgo/server/internal/system"
	"github.com/dolgo/server/internal/world"
)

// BaseStore loads and saves player bases. Nil when persistence is off.
type BaseStore interface {
	system.BaseSaver
	LoadBases(ctx context.Context, key string) (map[property.Property]int, error)
}

// game is the assembled world: state, systems and the skill environment.
type game struct {
	cfg     *config.Config
	log     *zap.Logger
	bus     *event.Bus
	world   *world.State
	env     *skill.Env
	catalog *data.SkillCatalog
	runner  *coresys.Runner
	input   *system.InputSystem
	persist *system.PersistenceSystem
	metrics *metrics.Metrics
	lua     *scripting.Engine
}

// newGame wires every component. bases and writer may be nil, which leaves
// persistence out.
func newGame(cfg *config.Config, log *zap.Logger, m *metrics.Metrics, bases BaseStore, writer system.CombatLogWriter) (*game, error) {
	lua, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("lua engine: %w", err)
	}

	reg, err := property.BuildRegistry(property.DefaultRegistrations(),
		property.Deps{Log: log, Formulas: lua},
		property.RegistryConfig{
			MaxDepth:  cfg.Properties.MaxDepth,
			Policy:    property.ParsePolicy(cfg.Properties.Policy),
			OnMissing: m.PropertyMissing,
			OnGuard:   m.PropertyGuard,
		})
	if err != nil {
		n := 1
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			n = len(joined.Unwrap())
		}
		m.RegistryFailed(n)
		log.Error("property registry incomplete", zap.Int("failures", n), zap.Error(err))
	}
	log.Info("property calculators registered", zap.Int("count", reg.Registered()))

	catalog, err := data.LoadSkillCatalog(cfg.Skills.Catalog)
	if err != nil {
		lua.Close()
		return nil, fmt.Errorf("skill catalog: %w", err)
	}
	log.Info("skill catalog loaded", zap.Int("skills", catalog.Count()))

	bus := event.NewBus()
	ws := world.NewState(reg, bus, log)
	for _, r := range cfg.World.Regions {
		ws.AddRegion(r.ID, r.Name)
	}

	clog := combat.NewLog(cfg.Persist.CombatLogBuffer)
	env := &skill.Env{
		World:    ws,
		Rules:    world.NewRules(ws),
		Resolver: combat.NewResolver(log, clog, m, bus),
		Listener: &skill.BusListener{Bus: bus, Metrics: m, Log: log},
		Log:      log,
	}
	env.Books = skill.NewBooks(ws)

	g := &game{
		cfg:     cfg,
		log:     log,
		bus:     bus,
		world:   ws,
		env:     env,
		catalog: catalog,
		runner:  coresys.NewRunner(),
		metrics: m,
		lua:     lua,
	}
	g.subscribe()

	g.input = system.NewInputSystem(ws, env.Books, 256, 64, log)
	g.runner.Register(g.input)
	g.runner.Register(system.NewEventDispatchSystem(bus))
	g.runner.Register(system.NewTimerSystem(ws))
	g.runner.Register(system.NewRegenSystem(ws, cfg.World.RegenInterval))
	if writer != nil && bases != nil {
		g.persist = system.NewPersistenceSystem(ws, clog, writer, bases, log, cfg.Persist.FlushInterval)
		g.runner.Register(g.persist)
	}
	g.runner.Register(system.NewCleanupSystem(ws))
	return g, nil
}

func (g *game) subscribe() {
	event.Subscribe(g.bus, func(e event.LivingDied) {
		g.log.Info("living died", zap.Stringer("id", e.ID), zap.Stringer("killer", e.Killer))
	})
	event.Subscribe(g.bus, func(e event.InterruptAnimation) {
		g.log.Debug("cast interrupted", zap.Stringer("caster", e.Caster), zap.String("skill", e.SkillID))
	})
}

// populate loads the startup templates and spawns them. On failure the game
// cannot run and its Lua VM is closed.
func (g *game) populate(ctx context.Context, path string, bases BaseStore) (n int, err error) {
	defer func() {
		if err != nil {
			g.lua.Close()
		}
	}()
	templates, err := data.LoadLivingTemplates(path)
	if err != nil {
		return 0, fmt.Errorf("livings: %w", err)
	}
	n, err = g.spawnLivings(ctx, templates, bases)
	if err != nil {
		return 0, fmt.Errorf("spawn: %w", err)
	}
	return n, nil
}

// spawnLivings places the startup population. Pets must follow their
// owner in the file. Players take stored bases over the template's.
func (g *game) spawnLivings(ctx context.Context, templates []data.LivingTemplate, bases BaseStore) (int, error) {
	factory := skill.Factory{Env: g.env}
	byName := make(map[string]ecs.EntityID, len(templates))

	for _, t := range templates {
		sp, err := g.spawnOf(t, byName)
		if err != nil {
			return 0, err
		}
		if sp.Role == world.RolePlayer && bases != nil {
			stored, err := bases.LoadBases(ctx, t.Name)
			if err != nil {
				return 0, fmt.Errorf("living %s: %w", t.Name, err)
			}
			if len(stored) > 0 {
				sp.Bases = stored
			}
		}

		l, err := g.world.Spawn(sp)
		if err != nil {
			return 0, err
		}
		byName[t.Name] = l.ID

		for _, id := range t.Skills {
			def := g.catalog.Get(id)
			if def == nil {
				return 0, fmt.Errorf("living %s: unknown skill %q", t.Name, id)
			}
			if _, err := factory.Grant(def, l); err != nil {
				return 0, fmt.Errorf("living %s: %w", t.Name, err)
			}
		}
	}
	return len(byName), nil
}

func (g *game) spawnOf(t data.LivingTemplate, byName map[string]ecs.EntityID) (world.Spawn, error) {
	role, ok := world.ParseRole(t.Role)
	if !ok {
		return world.Spawn{}, fmt.Errorf("living %s: unknown role %q", t.Name, t.Role)
	}
	sp := world.Spawn{
		Name:     t.Name,
		Role:     role,
		Realm:    world.Realm(t.Realm),
		RegionID: t.Region,
		Pos:      world.Position{X: t.X, Y: t.Y, Z: t.Z},
		Bases:    make(map[property.Property]int, len(t.Bases)),
	}
	if t.Owner != "" {
		owner, ok := byName[t.Owner]
		if !ok {
			return world.Spawn{}, fmt.Errorf("living %s: owner %q not spawned before it", t.Name, t.Owner)
		}
		sp.OwnerID = owner
	}
	for name, v := range t.Bases {
		p, ok := property.ParseProperty(name)
		if !ok {
			return world.Spawn{}, fmt.Errorf("living %s: unknown property %q", t.Name, name)
		}
		sp.Bases[p] = v
	}
	return sp, nil
}

// loop ticks the runner until ctx is done.
func (g *game) loop(ctx context.Context) error {
	tick := g.cfg.World.TickRate
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	g.log.Info("world loop started", zap.Duration("tick", tick), zap.Int("livings", g.world.Count()))
	for {
		select {
		case <-ctx.Done():
			g.log.Info("world loop stopped", zap.Uint64("ticks", g.runner.Ticks()))
			return nil
		case <-ticker.C:
			start := time.Now()
			g.runner.Tick(tick)
			g.metrics.ObserveTick(time.Since(start), g.world.Count())
		}
	}
}

// shutdown saves the world and releases the Lua VM.
func (g *game) shutdown(ctx context.Context) error {
	defer g.lua.Close()
	if g.persist == nil {
		return nil
	}
	if err := g.persist.SaveAll(ctx); err != nil {
		return fmt.Errorf("save world: %w", err)
	}
	return nil
}

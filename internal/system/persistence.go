package system

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dolgo/server/internal/combat"
	coresys "github.com/dolgo/server/internal/core/system"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/world"
)

// CombatLogWriter persists a batch of combat log entries atomically.
type CombatLogWriter interface {
	WriteBatch(ctx context.Context, entries []combat.Entry) error
}

// BaseSaver persists the base properties of a named living.
type BaseSaver interface {
	SaveBases(ctx context.Context, key string, bases map[property.Property]int) error
}

// PersistenceSystem flushes the in-memory combat log to the database every
// interval. Phase 5 (Persist). A failed batch is requeued for the next
// flush. Player bases are saved on SaveAll.
type PersistenceSystem struct {
	world    *world.State
	log      *combat.Log
	writer   CombatLogWriter
	bases    BaseSaver
	logger   *zap.Logger
	interval time.Duration
	acc      time.Duration
	timeout  time.Duration
}

func NewPersistenceSystem(ws *world.State, clog *combat.Log, writer CombatLogWriter, bases BaseSaver, log *zap.Logger, interval time.Duration) *PersistenceSystem {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &PersistenceSystem{
		world:    ws,
		log:      clog,
		writer:   writer,
		bases:    bases,
		logger:   log,
		interval: interval,
		timeout:  5 * time.Second,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(dt time.Duration) {
	s.acc += dt
	if s.acc < s.interval {
		return
	}
	s.acc = 0
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.FlushCombatLog(ctx); err != nil {
		s.logger.Error("combat log flush failed", zap.Error(err))
	}
}

// FlushCombatLog writes every buffered entry. On failure the entries go
// back into the buffer.
func (s *PersistenceSystem) FlushCombatLog(ctx context.Context) error {
	entries := s.log.Drain()
	if len(entries) == 0 {
		return nil
	}
	if err := s.writer.WriteBatch(ctx, entries); err != nil {
		s.log.Requeue(entries)
		return err
	}
	s.logger.Debug("combat log flushed", zap.Int("entries", len(entries)))
	return nil
}

// SaveAll flushes the combat log and saves every player's bases. Called on
// graceful shutdown; it keeps going past individual failures.
func (s *PersistenceSystem) SaveAll(ctx context.Context) error {
	var errs []error
	if err := s.FlushCombatLog(ctx); err != nil {
		errs = append(errs, err)
	}
	saved := 0
	s.world.EachLiving(func(l *world.Living) {
		if !l.IsPlayer() {
			return
		}
		if err := s.bases.SaveBases(ctx, l.Name, l.Props.Bases()); err != nil {
			errs = append(errs, err)
			s.logger.Error("save bases failed", zap.String("living", l.Name), zap.Error(err))
			return
		}
		saved++
	})
	s.logger.Info("world saved", zap.Int("players", saved), zap.Int("failures", len(errs)))
	return errors.Join(errs...)
}

package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/dolgo/server/internal/core/ecs"
	coresys "github.com/dolgo/server/internal/core/system"
	"github.com/dolgo/server/internal/skill"
	"github.com/dolgo/server/internal/world"
)

// UseSkill asks a living to use one of its skills. A zero Target keeps the
// living's current target.
type UseSkill struct {
	Caster  ecs.EntityID
	SkillID string
	Target  ecs.EntityID
}

// InputSystem drains queued skill requests into the game loop. Phase 0
// (Input). Submit may be called from any goroutine.
type InputSystem struct {
	queue      chan UseSkill
	world      *world.State
	books      *skill.Books
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(ws *world.State, books *skill.Books, queueSize, maxPerTick int, log *zap.Logger) *InputSystem {
	if queueSize <= 0 {
		queueSize = 256
	}
	if maxPerTick <= 0 {
		maxPerTick = queueSize
	}
	return &InputSystem{
		queue:      make(chan UseSkill, queueSize),
		world:      ws,
		books:      books,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Submit queues req; false when the queue is full.
func (s *InputSystem) Submit(req UseSkill) bool {
	select {
	case s.queue <- req:
		return true
	default:
		return false
	}
}

func (s *InputSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case req := <-s.queue:
			s.handle(req)
		default:
			return
		}
	}
}

func (s *InputSystem) handle(req UseSkill) {
	if _, ok := s.world.Living(req.Caster); !ok {
		s.log.Debug("skill request for unknown living", zap.Stringer("caster", req.Caster))
		return
	}
	sk, ok := s.books.Of(req.Caster).Find(req.SkillID)
	if !ok {
		s.log.Warn("skill not in book",
			zap.Stringer("caster", req.Caster),
			zap.String("skill", req.SkillID))
		return
	}
	if !req.Target.IsZero() {
		if err := s.world.SetTarget(req.Caster, req.Target); err != nil {
			s.log.Debug("set target failed", zap.Error(err))
		}
	}
	sk.TryUse()
}

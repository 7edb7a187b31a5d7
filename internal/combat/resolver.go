// Package combat resolves action intentions: it runs hooks around the
// intention/outcome pipeline, enacts the outcome and records it.
package combat

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dolgo/server/internal/action"
	"github.com/dolgo/server/internal/core/event"
)

var ErrNoParticipants = errors.New("intention without actor or target")

// BeforeHook inspects an intention before it is resolved. Returning false
// cancels it.
type BeforeHook func(action.Intention) bool

// AfterHook inspects or modifies a resolved outcome, e.g. to absorb damage.
// Returning false cancels it.
type AfterHook func(action.Outcome) bool

// Recorder counts enacted outcomes. metrics.Metrics implements it.
type Recorder interface {
	OutcomeEnacted(kind string)
}

type Resolver struct {
	log    *zap.Logger
	clog   *Log
	rec    Recorder
	bus    *event.Bus
	before []BeforeHook
	after  []AfterHook
	now    func() time.Time
}

func NewResolver(log *zap.Logger, clog *Log, rec Recorder, bus *event.Bus) *Resolver {
	return &Resolver{log: log, clog: clog, rec: rec, bus: bus, now: time.Now}
}

func (r *Resolver) BeforeAttack(h BeforeHook) { r.before = append(r.before, h) }
func (r *Resolver) AfterResolve(h AfterHook)  { r.after = append(r.after, h) }

// Resolve runs in through DetermineResult and Enact. A cancelled intention or
// outcome returns action.ErrCancelled.
func (r *Resolver) Resolve(in action.Intention) (action.Outcome, error) {
	if in.Actor() == nil || in.Target() == nil {
		return nil, ErrNoParticipants
	}
	for _, h := range r.before {
		if !h(in) {
			return nil, action.ErrCancelled
		}
	}

	out := in.DetermineResult()
	for _, h := range r.after {
		if !h(out) {
			out.Cancel()
			return out, action.ErrCancelled
		}
	}
	if err := out.Enact(); err != nil {
		return out, err
	}

	r.record(out)
	return out, nil
}

func (r *Resolver) record(out action.Outcome) {
	e := Entry{
		At:            r.now(),
		Kind:          out.Kind(),
		Actor:         out.Actor().ID,
		ActorName:     out.Actor().Name,
		Recipient:     out.Recipient().ID,
		RecipientName: out.Recipient().Name,
		Amount:        out.Amount(),
	}
	switch o := out.(type) {
	case *action.DamageAttackOutcome:
		e.Amount = o.Dealt
		e.DamageType = o.DamageType.String()
		e.Resisted = o.Resisted
	case *action.HealingAidOutcome:
		e.Amount = o.Healed
	}

	if r.clog != nil {
		r.clog.Record(e)
	}
	if r.rec != nil {
		r.rec.OutcomeEnacted(e.Kind)
	}
	if r.bus != nil {
		event.Emit(r.bus, event.OutcomeEnacted{Kind: e.Kind, Actor: e.Actor, Recipient: e.Recipient, Amount: e.Amount})
	}
	r.log.Debug("outcome enacted",
		zap.String("kind", e.Kind),
		zap.String("actor", e.ActorName),
		zap.String("recipient", e.RecipientName),
		zap.Int("amount", e.Amount))
}

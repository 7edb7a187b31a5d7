// Package action separates deciding what an action does (Intention) from
// applying it (Outcome). DetermineResult never mutates anything; Enact is the
// only place recipients change.
package action

import (
	"errors"

	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/world"
)

var (
	ErrAlreadyEnacted = errors.New("outcome already enacted")
	ErrCancelled      = errors.New("outcome cancelled")
)

// State of an outcome. Outcomes are born resolved.
type State uint8

const (
	StateResolved State = iota
	StateEnacted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateResolved:
		return "resolved"
	case StateEnacted:
		return "enacted"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Sink receives the mutations of enacted outcomes. world.State implements it.
type Sink interface {
	ChangeHealth(l *world.Living, delta int, source ecs.EntityID) int
	NotifyAttacked(id, attacker ecs.EntityID)
}

// Intention is "Actor intends to do something to Target".
type Intention interface {
	Kind() string
	Actor() *world.Living
	Target() *world.Living
	DetermineResult() Outcome
}

// Outcome is the resolved, not yet applied result of an intention.
type Outcome interface {
	Kind() string
	Actor() *world.Living
	Recipient() *world.Living
	State() State
	// Amount is the kind-specific magnitude, for logging.
	Amount() int
	// Cancel drops a resolved outcome; Enact then returns ErrCancelled.
	Cancel()
	Enact() error
}

type parties struct {
	actor  *world.Living
	target *world.Living
}

func (p parties) Actor() *world.Living  { return p.actor }
func (p parties) Target() *world.Living { return p.target }

// outcome carries the state machine shared by every outcome kind.
type outcome struct {
	sink      Sink
	actor     *world.Living
	recipient *world.Living
	state     State
}

func (o *outcome) Actor() *world.Living     { return o.actor }
func (o *outcome) Recipient() *world.Living { return o.recipient }
func (o *outcome) State() State             { return o.state }

func (o *outcome) Cancel() {
	if o.state == StateResolved {
		o.state = StateCancelled
	}
}

func (o *outcome) enact(apply func()) error {
	switch o.state {
	case StateEnacted:
		return ErrAlreadyEnacted
	case StateCancelled:
		return ErrCancelled
	}
	o.state = StateEnacted
	apply()
	return nil
}

func (o *outcome) actorID() ecs.EntityID {
	if o.actor == nil {
		return 0
	}
	return o.actor.ID
}

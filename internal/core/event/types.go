package event

import (
	"time"

	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/property"
)

// Living lifecycle.

type LivingSpawned struct {
	ID       ecs.EntityID
	Name     string
	RegionID uint32
}

type LivingDespawned struct {
	ID ecs.EntityID
}

type LivingDied struct {
	ID     ecs.EntityID
	Killer ecs.EntityID
}

// State changes the client needs to see.

type HealthChanged struct {
	ID     ecs.EntityID
	Source ecs.EntityID
	Old    int
	New    int
}

type PropertyChanged struct {
	ID       ecs.EntityID
	Property property.Property
	Old      int
	New      int
}

// Combat and skills.

type OutcomeEnacted struct {
	Kind      string
	Actor     ecs.EntityID
	Recipient ecs.EntityID
	Amount    int
}

type SkillUseFailed struct {
	Caster  ecs.EntityID
	SkillID string
	Reason  string
	Message string
}

type CastAnimation struct {
	Caster    ecs.EntityID
	Target    ecs.EntityID
	SkillID   string
	Animation uint16
	Duration  time.Duration
}

type InterruptAnimation struct {
	Caster  ecs.EntityID
	SkillID string
}

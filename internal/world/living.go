package world

import (
	"math"

	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/talent"
)

// Role is the closed set of living kinds, fixed at spawn.
type Role uint8

const (
	RolePlayer Role = iota
	RoleNPC
	RolePet
)

var roleNames = [...]string{"player", "npc", "pet"}

func (r Role) String() string {
	if int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// ParseRole resolves "player", "npc" or "pet".
func ParseRole(s string) (Role, bool) {
	for i, n := range roleNames {
		if n == s {
			return Role(i), true
		}
	}
	return 0, false
}

// Realm is the faction a living fights for. RealmNone livings (monsters)
// are hostile to every realm.
type Realm uint8

const (
	RealmNone Realm = iota
	RealmAlbion
	RealmMidgard
	RealmHibernia
)

// Position is a point in region coordinates.
type Position struct {
	X, Y, Z int32
}

// Distance is the euclidean distance between two points.
func (p Position) Distance(o Position) float64 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	dz := float64(p.Z - o.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Living is a player, NPC or pet present in a region.
// Accessed only from the game loop goroutine.
type Living struct {
	ID       ecs.EntityID
	Name     string
	Role     Role
	Realm    Realm
	OwnerID  ecs.EntityID // pets only
	RegionID uint32
	Pos      Position
	TargetID ecs.EntityID
	Health   int
	Mana     int
	Dead     bool

	Props   *property.LivingProperties
	Talents *talent.Set
}

func (l *Living) IsPlayer() bool { return l.Role == RolePlayer }
func (l *Living) IsNPC() bool    { return l.Role == RoleNPC }
func (l *Living) IsPet() bool    { return l.Role == RolePet }

func (l *Living) IsAlive() bool { return !l.Dead }

func (l *Living) LivingID() ecs.EntityID                 { return l.ID }
func (l *Living) Properties() *property.LivingProperties { return l.Props }

func (l *Living) MaxHealth() int { return l.Props.GetModified(property.MaxHealth) }
func (l *Living) MaxMana() int   { return l.Props.GetModified(property.MaxMana) }

// ChangeHealth adds delta clamped to [0, MaxHealth] and returns the applied
// change. Dead livings are not healed. Reaching 0 marks the living dead.
func (l *Living) ChangeHealth(delta int) int {
	if l.Dead {
		return 0
	}
	old := l.Health
	l.Health = min(max(l.Health+delta, 0), l.MaxHealth())
	if l.Health == 0 {
		l.Dead = true
	}
	return l.Health - old
}

// HealthPercent is the current health in percent of MaxHealth.
func (l *Living) HealthPercent() int {
	maxHP := l.MaxHealth()
	if maxHP <= 0 {
		return 0
	}
	return l.Health * 100 / maxHP
}

package action

import (
	"strings"

	"github.com/dolgo/server/internal/property"
)

// DamageType is the kind of damage an attack deals.
type DamageType uint8

const (
	DamageNatural DamageType = iota
	DamageCrush
	DamageSlash
	DamageThrust
	DamageBody
	DamageCold
	DamageEnergy
	DamageHeat
	DamageMatter
	DamageSpirit
)

var damageTypes = [...]struct {
	name   string
	resist property.Property
}{
	DamageNatural: {"natural", property.ResistNatural},
	DamageCrush:   {"crush", property.ResistCrush},
	DamageSlash:   {"slash", property.ResistSlash},
	DamageThrust:  {"thrust", property.ResistThrust},
	DamageBody:    {"body", property.ResistBody},
	DamageCold:    {"cold", property.ResistCold},
	DamageEnergy:  {"energy", property.ResistEnergy},
	DamageHeat:    {"heat", property.ResistHeat},
	DamageMatter:  {"matter", property.ResistMatter},
	DamageSpirit:  {"spirit", property.ResistSpirit},
}

func (d DamageType) String() string {
	if int(d) >= len(damageTypes) {
		return "unknown"
	}
	return damageTypes[d].name
}

// ResistForDamage maps a damage type to the resist property reducing it.
func ResistForDamage(d DamageType) property.Property {
	if int(d) >= len(damageTypes) {
		return property.Undefined
	}
	return damageTypes[d].resist
}

// ParseDamageType resolves a lower-case damage type name.
func ParseDamageType(s string) (DamageType, bool) {
	for i, dt := range damageTypes {
		if dt.name == strings.ToLower(s) {
			return DamageType(i), true
		}
	}
	return 0, false
}

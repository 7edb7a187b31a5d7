// Package property computes the effective numeric stats of a living from its
// base values and bonus categories through a per-property calculator table.
package property

import (
	"strconv"
	"strings"
)

// Property identifies one numeric stat. Values form the closed, contiguous
// range 0..MaxProperty and are only ever used as lookup keys.
type Property uint16

const (
	Undefined Property = iota

	Strength
	Dexterity
	Constitution
	Quickness
	Intelligence
	Piety
	Empathy
	Charisma

	ResistBody
	ResistCold
	ResistEnergy
	ResistHeat
	ResistMatter
	ResistSpirit
	ResistCrush
	ResistSlash
	ResistThrust
	ResistNatural

	MaxHealth
	MaxMana
	MaxSpeed
	MeleeSpeed
	CastingSpeed
	ArmorFactor
	ArmorAbsorption
	HealthRegenerationRate
	PowerRegenerationRate
	EnduranceRegenerationRate
	FatigueConsumption
	CriticalSpellHitChance
	LivingEffectiveLevel

	// MaxProperty is the highest key. Tables are sized MaxProperty+1.
	MaxProperty
)

const (
	StatFirst   = Strength
	StatLast    = Charisma
	ResistFirst = ResistBody
	ResistLast  = ResistNatural
)

var propertyNames = [MaxProperty + 1]string{
	Undefined:                 "Undefined",
	Strength:                  "Strength",
	Dexterity:                 "Dexterity",
	Constitution:              "Constitution",
	Quickness:                 "Quickness",
	Intelligence:              "Intelligence",
	Piety:                     "Piety",
	Empathy:                   "Empathy",
	Charisma:                  "Charisma",
	ResistBody:                "Resist_Body",
	ResistCold:                "Resist_Cold",
	ResistEnergy:              "Resist_Energy",
	ResistHeat:                "Resist_Heat",
	ResistMatter:              "Resist_Matter",
	ResistSpirit:              "Resist_Spirit",
	ResistCrush:               "Resist_Crush",
	ResistSlash:               "Resist_Slash",
	ResistThrust:              "Resist_Thrust",
	ResistNatural:             "Resist_Natural",
	MaxHealth:                 "MaxHealth",
	MaxMana:                   "MaxMana",
	MaxSpeed:                  "MaxSpeed",
	MeleeSpeed:                "MeleeSpeed",
	CastingSpeed:              "CastingSpeed",
	ArmorFactor:               "ArmorFactor",
	ArmorAbsorption:           "ArmorAbsorption",
	HealthRegenerationRate:    "HealthRegenerationRate",
	PowerRegenerationRate:     "PowerRegenerationRate",
	EnduranceRegenerationRate: "EnduranceRegenerationRate",
	FatigueConsumption:        "FatigueConsumption",
	CriticalSpellHitChance:    "CriticalSpellHitChance",
	LivingEffectiveLevel:      "LivingEffectiveLevel",
	MaxProperty:               "MaxProperty",
}

// Valid reports whether p is inside 0..MaxProperty.
func (p Property) Valid() bool { return p <= MaxProperty }

func (p Property) IsStat() bool   { return p >= StatFirst && p <= StatLast }
func (p Property) IsResist() bool { return p >= ResistFirst && p <= ResistLast }

func (p Property) String() string {
	if !p.Valid() {
		return "Property(" + strconv.Itoa(int(p)) + ")"
	}
	return propertyNames[p]
}

// SnakeName converts the display name to lower snake case
// ("MaxHealth" -> "max_health", "Resist_Cold" -> "resist_cold").
// Scripted formulas are looked up by this name.
func (p Property) SnakeName() string {
	name := p.String()
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_':
			b.WriteByte('_')
			continue
		case r >= 'A' && r <= 'Z':
			if i > 0 && name[i-1] != '_' {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseProperty resolves a display or snake-case name, ignoring case.
func ParseProperty(name string) (Property, bool) {
	for p := Property(0); p <= MaxProperty; p++ {
		if strings.EqualFold(propertyNames[p], name) || strings.EqualFold(p.SnakeName(), name) {
			return p, true
		}
	}
	return Undefined, false
}

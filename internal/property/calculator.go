package property

// CalculationType selects which contributions a calculator includes.
type CalculationType int

const (
	CalcAll      CalculationType = iota // fully modified value
	CalcNotBuffs                        // everything except buffs and debuffs
	CalcNotItems                        // everything except equipment
	CalcBonus                           // bonus delta only, base excluded
	CalcBase                            // unmodified base value
)

var calcTypeNames = [...]string{"all", "not_buffs", "not_items", "bonus", "base"}

func (t CalculationType) String() string {
	if t < 0 || int(t) >= len(calcTypeNames) {
		return "unknown"
	}
	return calcTypeNames[t]
}

// Calculator is the formula for one or more properties. Implementations are
// stateless and must treat every category as possibly empty.
type Calculator interface {
	CalculateValue(l *LivingProperties, p Property, t CalculationType) int
	// Cap returns the upper bound for t, or 0 when the property has no
	// independent cap.
	Cap(t CalculationType) int
}

// Category is one additive bonus source owned by a living.
type Category int

const (
	CategoryBase       Category = iota // unmodified base value
	CategoryTalent                     // talents and abilities
	CategoryEquipment                  // worn items
	CategoryEffect                     // applied skill effects
	CategoryBaseBuff                   // buff category 1
	CategorySpecBuff                   // buff category 2
	CategoryBuff4                      // buff category 4
	CategoryDebuff                     // debuffs
	CategorySpecDebuff                 // spec debuffs
	numCategories
)

var categoryNames = [numCategories]string{
	"base", "talent", "equipment", "effect", "base_buff", "spec_buff", "buff4", "debuff", "spec_debuff",
}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// ParseCategory resolves the snake-case category name.
func ParseCategory(name string) (Category, bool) {
	for c := Category(0); c < numCategories; c++ {
		if categoryNames[c] == name {
			return c, true
		}
	}
	return 0, false
}

// isBuff reports categories dropped by CalcNotBuffs.
func (c Category) isBuff() bool {
	switch c {
	case CategoryEffect, CategoryBaseBuff, CategorySpecBuff, CategoryBuff4, CategoryDebuff, CategorySpecDebuff:
		return true
	}
	return false
}

func (c Category) subtracts() bool {
	return c == CategoryDebuff || c == CategorySpecDebuff
}

// includes reports whether category c contributes under calculation type t.
func includes(t CalculationType, c Category) bool {
	switch t {
	case CalcBase:
		return c == CategoryBase
	case CalcBonus:
		return c != CategoryBase
	case CalcNotBuffs:
		return !c.isBuff()
	case CalcNotItems:
		return c != CategoryEquipment
	default:
		return true
	}
}

// additiveSum adds the categories of p that contribute under t, in category
// order: base, talent, equipment, effect, the three buffs, then subtracts
// both debuffs.
func additiveSum(l *LivingProperties, p Property, t CalculationType) int {
	sum := 0
	for c := CategoryBase; c < numCategories; c++ {
		if !includes(t, c) {
			continue
		}
		v := l.categories[c].Get(p)
		if c.subtracts() {
			sum -= v
		} else {
			sum += v
		}
	}
	return sum
}

// multiplied scales v by the multiplicative buff category when t includes buffs.
func multiplied(l *LivingProperties, p Property, t CalculationType, v int) int {
	if t == CalcBase || t == CalcNotBuffs {
		return v
	}
	return v * l.buffMult.Get(p) / 100
}

func applyCap(v, limit int) int {
	if limit > 0 && v > limit {
		return limit
	}
	return v
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

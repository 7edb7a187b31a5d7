package property

const (
	// BaseHealth is the health every living has before Constitution.
	BaseHealth = 50
	// BaseSpeed is the movement speed at 100%.
	BaseSpeed = 191
	// MaxSpeedCap bounds the speed percentage.
	MaxSpeedCap = 250
	// ResistCap bounds modified resists.
	ResistCap = 70
	// ItemStatCap bounds the equipment contribution to a primary stat.
	ItemStatCap = 75
)

// MaxHealthCalculator: BaseHealth plus Constitution of the same calculation
// type. No cap of its own; it is capped through Constitution.
type MaxHealthCalculator struct{}

func (MaxHealthCalculator) CalculateValue(l *LivingProperties, _ Property, t CalculationType) int {
	return BaseHealth + l.GetProperty(Constitution, t)
}

func (MaxHealthCalculator) Cap(CalculationType) int { return 0 }

// MaxSpeedCalculator turns the MaxSpeed percentage into a speed value.
type MaxSpeedCalculator struct{}

func (c MaxSpeedCalculator) CalculateValue(l *LivingProperties, p Property, t CalculationType) int {
	percent := additiveSum(l, p, t)
	percent = applyCap(percent, c.Cap(t))
	return int(float32(percent) / 100 * BaseSpeed)
}

func (MaxSpeedCalculator) Cap(CalculationType) int { return MaxSpeedCap }

// StatCalculator covers the eight primary stats.
type StatCalculator struct{}

func (c StatCalculator) CalculateValue(l *LivingProperties, p Property, t CalculationType) int {
	if t == CalcBonus {
		all := multiplied(l, p, CalcAll, c.sum(l, p, CalcAll))
		return all - l.categories[CategoryBase].Get(p)
	}
	return floorZero(multiplied(l, p, t, c.sum(l, p, t)))
}

func (StatCalculator) sum(l *LivingProperties, p Property, t CalculationType) int {
	sum := additiveSum(l, p, t)
	if includes(t, CategoryEquipment) {
		if item := l.categories[CategoryEquipment].Get(p); item > ItemStatCap {
			sum -= item - ItemStatCap
		}
	}
	return sum
}

func (StatCalculator) Cap(CalculationType) int { return 0 }

// ResistCalculator covers Resist_Body..Resist_Natural.
type ResistCalculator struct{}

func (c ResistCalculator) CalculateValue(l *LivingProperties, p Property, t CalculationType) int {
	return applyCap(additiveSum(l, p, t), c.Cap(t))
}

func (ResistCalculator) Cap(t CalculationType) int {
	if t == CalcBase {
		return 0
	}
	return ResistCap
}

// MaxManaCalculator derives mana from Intelligence plus MaxMana bonuses.
type MaxManaCalculator struct{}

func (MaxManaCalculator) CalculateValue(l *LivingProperties, p Property, t CalculationType) int {
	return floorZero(l.GetProperty(Intelligence, t) + additiveSum(l, p, t))
}

func (MaxManaCalculator) Cap(CalculationType) int { return 0 }

// RegenerationCalculator covers the three regeneration rates. A living with a
// base rate always regenerates at least 1 per interval.
type RegenerationCalculator struct{}

func (RegenerationCalculator) CalculateValue(l *LivingProperties, p Property, t CalculationType) int {
	v := additiveSum(l, p, t)
	if t == CalcAll && v < 1 && l.categories[CategoryBase].Get(p) > 0 {
		return 1
	}
	return floorZero(v)
}

func (RegenerationCalculator) Cap(CalculationType) int { return 0 }

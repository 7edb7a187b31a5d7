package property

import "go.uber.org/zap"

// PropertyChanged reports a change of a modified value caused by a bonus write.
type PropertyChanged struct {
	Property Property
	Old      int
	New      int
}

// ChangeListener receives PropertyChanged notifications.
type ChangeListener func(PropertyChanged)

type evalFrame struct {
	p Property
	t CalculationType
}

// LivingProperties is the property facade of one living: it owns the bonus
// categories and dispatches queries to the shared registry.
//
// Not safe for concurrent use; a living is only touched from the tick of its
// region.
type LivingProperties struct {
	name       string
	registry   *Registry
	categories [numCategories]Indexer
	buffMult   *MultiplicativeProperties
	listener   ChangeListener
	stack      []evalFrame
}

func (l *LivingProperties) Name() string { return l.name }

// SetListener installs the change listener; nil removes it.
func (l *LivingProperties) SetListener(fn ChangeListener) { l.listener = fn }

// GetProperty dispatches p to its calculator. A property without calculator,
// or a query that would re-enter itself, logs an error and yields 0.
func (l *LivingProperties) GetProperty(p Property, t CalculationType) int {
	calc := l.registry.Lookup(p)
	if calc == nil {
		l.registry.logger().Error("no property calculator registered",
			zap.Stringer("property", p),
			zap.Stringer("type", t),
			zap.String("living", l.name))
		l.registry.reportMissing(p)
		return 0
	}
	if l.inFlight(p, t) || len(l.stack) >= l.registry.maxDepth() {
		l.registry.logger().Error("property calculation recursion aborted",
			zap.Stringer("property", p),
			zap.Stringer("type", t),
			zap.String("calculator", l.registry.CalculatorName(p)),
			zap.Int("depth", len(l.stack)),
			zap.String("living", l.name))
		l.registry.reportGuard(p)
		return 0
	}

	l.stack = append(l.stack, evalFrame{p: p, t: t})
	defer func() { l.stack = l.stack[:len(l.stack)-1] }()
	return calc.CalculateValue(l, p, t)
}

func (l *LivingProperties) inFlight(p Property, t CalculationType) bool {
	for _, f := range l.stack {
		if f.p == p && f.t == t {
			return true
		}
	}
	return false
}

// GetModified is the fully modified value of p.
func (l *LivingProperties) GetModified(p Property) int { return l.GetProperty(p, CalcAll) }

// GetModifiedBase is the unmodified value run through the calculator.
func (l *LivingProperties) GetModifiedBase(p Property) int { return l.GetProperty(p, CalcBase) }

// GetModifiedFromBuffs is the part of the modified value contributed by buffs
// and debuffs.
func (l *LivingProperties) GetModifiedFromBuffs(p Property) int {
	return l.GetProperty(p, CalcAll) - l.GetProperty(p, CalcNotBuffs)
}

// GetModifiedFromItems is the part of the modified value contributed by
// equipment.
func (l *LivingProperties) GetModifiedFromItems(p Property) int {
	return l.GetProperty(p, CalcAll) - l.GetProperty(p, CalcNotItems)
}

// GetBonus is the modified value without the base.
func (l *LivingProperties) GetBonus(p Property) int { return l.GetProperty(p, CalcBonus) }

// Raw category values; these bypass calculators.

func (l *LivingProperties) GetTalentBonus(p Property) int { return l.categories[CategoryTalent].Get(p) }
func (l *LivingProperties) GetEquipmentBonus(p Property) int {
	return l.categories[CategoryEquipment].Get(p)
}
func (l *LivingProperties) GetEffectBonus(p Property) int { return l.categories[CategoryEffect].Get(p) }

func (l *LivingProperties) GetPropertyBase(p Property) int { return l.categories[CategoryBase].Get(p) }

func (l *LivingProperties) SetPropertyBase(p Property, v int) { l.categories[CategoryBase].Set(p, v) }

// Category exposes one additive category for its writers. Writes through the
// returned indexer do not notify the listener; use AddBonus for that.
func (l *LivingProperties) Category(c Category) *Indexer {
	if c < 0 || c >= numCategories {
		return nil
	}
	return &l.categories[c]
}

// BuffMult exposes the multiplicative buff category.
func (l *LivingProperties) BuffMult() *MultiplicativeProperties { return l.buffMult }

// AddBonus adds delta to category c of p and reports a change of the modified
// value to the listener.
func (l *LivingProperties) AddBonus(c Category, p Property, delta int) {
	ix := l.Category(c)
	if ix == nil || delta == 0 {
		return
	}
	l.notify(p, func() { ix.Add(p, delta) })
}

// SetMultiplier registers the percentage multiplier of key on p.
func (l *LivingProperties) SetMultiplier(key any, p Property, percent int) {
	l.notify(p, func() { l.buffMult.Set(key, p, percent) })
}

// RemoveMultiplier drops the multiplier of key on p.
func (l *LivingProperties) RemoveMultiplier(key any, p Property) {
	l.notify(p, func() { l.buffMult.Remove(key, p) })
}

func (l *LivingProperties) notify(p Property, write func()) {
	if l.listener == nil {
		write()
		return
	}
	old := l.GetModified(p)
	write()
	if cur := l.GetModified(p); cur != old {
		l.listener(PropertyChanged{Property: p, Old: old, New: cur})
	}
}

// Bases returns the non-zero base values.
func (l *LivingProperties) Bases() map[Property]int {
	out := make(map[Property]int)
	l.categories[CategoryBase].Each(func(p Property, v int) { out[p] = v })
	return out
}

// LoadBases replaces every base value with bases.
func (l *LivingProperties) LoadBases(bases map[Property]int) {
	l.categories[CategoryBase].Reset()
	for p, v := range bases {
		l.categories[CategoryBase].Set(p, v)
	}
}

// Destroy drops every category. Called when the living is removed.
func (l *LivingProperties) Destroy() {
	for c := range l.categories {
		l.categories[c].Reset()
	}
	l.buffMult.Reset()
	l.listener = nil
	l.stack = nil
}

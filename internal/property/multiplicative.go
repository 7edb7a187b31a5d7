package property

import "math"

// MultiplicativePolicy decides how several percentage multipliers on the same
// property compose into one.
type MultiplicativePolicy int

const (
	// PolicyProduct multiplies the factors: 110% and 120% give 132%.
	PolicyProduct MultiplicativePolicy = iota
	// PolicyAdditive sums the deltas from 100%: 110% and 120% give 130%.
	PolicyAdditive
)

func (p MultiplicativePolicy) String() string {
	if p == PolicyAdditive {
		return "additive"
	}
	return "product"
}

// ParsePolicy accepts "product" or "additive"; anything else is product.
func ParsePolicy(s string) MultiplicativePolicy {
	if s == "additive" {
		return PolicyAdditive
	}
	return PolicyProduct
}

// MultiplicativeProperties stores keyed percentage multipliers per property.
// 100 is neutral. Keys identify the source (usually the effect instance) so
// the same source can be removed again on expiry.
type MultiplicativeProperties struct {
	policy MultiplicativePolicy
	values map[Property]map[any]int
}

func NewMultiplicativeProperties(policy MultiplicativePolicy) *MultiplicativeProperties {
	return &MultiplicativeProperties{
		policy: policy,
		values: make(map[Property]map[any]int),
	}
}

func (m *MultiplicativeProperties) Policy() MultiplicativePolicy { return m.policy }

// Set registers or replaces the multiplier of key on p. key must be comparable.
func (m *MultiplicativeProperties) Set(key any, p Property, percent int) {
	if !p.Valid() {
		return
	}
	byKey, ok := m.values[p]
	if !ok {
		byKey = make(map[any]int, 2)
		m.values[p] = byKey
	}
	byKey[key] = percent
}

// Remove drops the multiplier of key on p.
func (m *MultiplicativeProperties) Remove(key any, p Property) {
	byKey, ok := m.values[p]
	if !ok {
		return
	}
	delete(byKey, key)
	if len(byKey) == 0 {
		delete(m.values, p)
	}
}

// Factor returns the composed multiplier (1.0 when nothing is registered).
func (m *MultiplicativeProperties) Factor(p Property) float64 {
	byKey := m.values[p]
	if len(byKey) == 0 {
		return 1
	}
	switch m.policy {
	case PolicyAdditive:
		delta := 0
		for _, pct := range byKey {
			delta += pct - 100
		}
		return float64(100+delta) / 100
	default:
		f := 1.0
		for _, pct := range byKey {
			f *= float64(pct) / 100
		}
		return f
	}
}

// Get returns the composed multiplier as a rounded percentage.
func (m *MultiplicativeProperties) Get(p Property) int {
	return int(math.Round(m.Factor(p) * 100))
}

// Count returns how many multipliers are registered on p.
func (m *MultiplicativeProperties) Count(p Property) int {
	return len(m.values[p])
}

func (m *MultiplicativeProperties) Reset() {
	clear(m.values)
}

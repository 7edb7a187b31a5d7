package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyNames(t *testing.T) {
	assert.Equal(t, "MaxHealth", MaxHealth.String())
	assert.Equal(t, "max_health", MaxHealth.SnakeName())
	assert.Equal(t, "resist_cold", ResistCold.SnakeName())
	assert.Equal(t, "living_effective_level", LivingEffectiveLevel.SnakeName())
	assert.Equal(t, "Property(999)", Property(999).String())
}

func TestParseProperty(t *testing.T) {
	for p := Property(0); p <= MaxProperty; p++ {
		got, ok := ParseProperty(p.String())
		assert.True(t, ok, p.String())
		assert.Equal(t, p, got)

		got, ok = ParseProperty(p.SnakeName())
		assert.True(t, ok, p.SnakeName())
		assert.Equal(t, p, got)
	}
	_, ok := ParseProperty("no_such_property")
	assert.False(t, ok)
}

func TestIndexer(t *testing.T) {
	var ix Indexer
	for p := Property(0); p <= MaxProperty; p++ {
		assert.Zero(t, ix.Get(p))
	}
	assert.Zero(t, ix.Get(MaxProperty+10))

	ix.Set(MaxProperty+10, 5)
	assert.Zero(t, ix.Get(MaxProperty+10))

	ix.Set(Strength, 10)
	assert.Equal(t, 15, ix.Add(Strength, 5))
	assert.Equal(t, 12, ix.Add(Strength, -3))

	var seen []Property
	ix.Set(Charisma, -1)
	ix.Each(func(p Property, _ int) { seen = append(seen, p) })
	assert.Equal(t, []Property{Strength, Charisma}, seen)

	ix.Reset()
	assert.Zero(t, ix.Get(Strength))
}

func TestMultiplicativePolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy MultiplicativePolicy
		want   int
	}{
		{"product", PolicyProduct, 132},
		{"additive", PolicyAdditive, 130},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMultiplicativeProperties(tt.policy)
			assert.Equal(t, 100, m.Get(Strength))

			m.Set("haste", Strength, 110)
			m.Set("might", Strength, 120)
			assert.Equal(t, tt.want, m.Get(Strength))
			assert.Equal(t, 2, m.Count(Strength))

			m.Remove("might", Strength)
			assert.Equal(t, 110, m.Get(Strength))
			m.Remove("haste", Strength)
			assert.Equal(t, 100, m.Get(Strength))
			assert.Zero(t, m.Count(Strength))
		})
	}
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, PolicyAdditive, ParsePolicy("additive"))
	assert.Equal(t, PolicyProduct, ParsePolicy("product"))
	assert.Equal(t, PolicyProduct, ParsePolicy(""))
	assert.Equal(t, "additive", PolicyAdditive.String())
}

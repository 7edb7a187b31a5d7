package talent

import "github.com/dolgo/server/internal/property"

// PassiveBonus adds fixed values to the talent bonus category while granted.
type PassiveBonus struct {
	Title   string
	Bonuses map[property.Property]int
}

func (b *PassiveBonus) Name() string { return b.Title }

func (b *PassiveBonus) IsValid(o Owner) bool {
	return o != nil && o.Properties() != nil && len(b.Bonuses) > 0
}

func (b *PassiveBonus) Apply(o Owner) {
	for p, v := range b.Bonuses {
		o.Properties().AddBonus(property.CategoryTalent, p, v)
	}
}

func (b *PassiveBonus) Remove(o Owner) {
	for p, v := range b.Bonuses {
		o.Properties().AddBonus(property.CategoryTalent, p, -v)
	}
}

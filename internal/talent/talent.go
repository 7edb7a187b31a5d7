// Package talent keeps the per-living set of talents: passive bonuses and
// usable skills granted to a living.
package talent

import (
	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/property"
)

// Owner is the living a talent is granted to.
type Owner interface {
	LivingID() ecs.EntityID
	Properties() *property.LivingProperties
}

// Talent is anything a living can learn.
type Talent interface {
	Name() string
	// IsValid reports whether the talent may be granted to o.
	IsValid(o Owner) bool
	Apply(o Owner)
	Remove(o Owner)
}

// Set is the ordered talent list of one living.
type Set struct {
	owner     Owner
	talents   []Talent
	onAdded   []func(Talent)
	onRemoved []func(Talent)
}

func NewSet(owner Owner) *Set {
	return &Set{owner: owner}
}

// OnAdded registers a hook run after a talent is applied.
func (s *Set) OnAdded(fn func(Talent)) { s.onAdded = append(s.onAdded, fn) }

// OnRemoved registers a hook run after a talent is removed.
func (s *Set) OnRemoved(fn func(Talent)) { s.onRemoved = append(s.onRemoved, fn) }

// Add grants t. Returns false for nil, invalid or already granted talents.
func (s *Set) Add(t Talent) bool {
	if t == nil || s.Has(t) || !t.IsValid(s.owner) {
		return false
	}
	s.talents = append(s.talents, t)
	t.Apply(s.owner)
	for _, fn := range s.onAdded {
		fn(t)
	}
	return true
}

// Remove revokes t. Returns false if it was not granted.
func (s *Set) Remove(t Talent) bool {
	for i, have := range s.talents {
		if have == t {
			s.talents = append(s.talents[:i], s.talents[i+1:]...)
			t.Remove(s.owner)
			for _, fn := range s.onRemoved {
				fn(t)
			}
			return true
		}
	}
	return false
}

// Has reports whether t, or another talent of the same name, is granted.
func (s *Set) Has(t Talent) bool {
	for _, have := range s.talents {
		if have == t || have.Name() == t.Name() {
			return true
		}
	}
	return false
}

// Find returns the granted talent called name.
func (s *Set) Find(name string) (Talent, bool) {
	for _, t := range s.talents {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// All returns the granted talents in grant order.
func (s *Set) All() []Talent {
	out := make([]Talent, len(s.talents))
	copy(out, s.talents)
	return out
}

func (s *Set) Len() int { return len(s.talents) }

// Clear revokes every talent, newest first.
func (s *Set) Clear() {
	for len(s.talents) > 0 {
		s.Remove(s.talents[len(s.talents)-1])
	}
}

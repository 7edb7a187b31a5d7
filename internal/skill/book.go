package skill

import (
	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/world"
)

// Book is the list of usable skills of one living.
type Book struct {
	skills []*ModularSkill
}

func (b *Book) Add(s *ModularSkill) {
	for _, have := range b.skills {
		if have == s {
			return
		}
	}
	b.skills = append(b.skills, s)
}

// Remove drops s and cancels anything it has pending.
func (b *Book) Remove(s *ModularSkill) bool {
	for i, have := range b.skills {
		if have == s {
			b.skills = append(b.skills[:i], b.skills[i+1:]...)
			s.Invocation.Stop()
			return true
		}
	}
	return false
}

// Find returns the skill with the given id.
func (b *Book) Find(id string) (*ModularSkill, bool) {
	for _, s := range b.skills {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

func (b *Book) Skills() []*ModularSkill {
	out := make([]*ModularSkill, len(b.skills))
	copy(out, b.skills)
	return out
}

// offer lets every other skill veto req.
func (b *Book) offer(req *TryUseRequest) {
	for _, s := range b.Skills() {
		if s != req.Skill {
			s.Invocation.HandleUseOtherSkill(req)
		}
	}
}

func (b *Book) stopAll() {
	for _, s := range b.skills {
		s.Invocation.Stop()
	}
}

// Books holds the skill book of every living. A destroyed living's book is
// dropped with it and its pending casts are cancelled.
type Books struct {
	store *ecs.PtrComponentStore[Book]
}

func NewBooks(w *world.State) *Books {
	b := &Books{store: ecs.NewPtrComponentStore[Book]()}
	w.Stores().Register(b)
	return b
}

// Of returns id's book, creating it on first use.
func (b *Books) Of(id ecs.EntityID) *Book {
	book, ok := b.store.Get(id)
	if !ok {
		book = &Book{}
		b.store.Set(id, book)
	}
	return book
}

// Remove implements ecs.Removable.
func (b *Books) Remove(id ecs.EntityID) {
	if book, ok := b.store.Get(id); ok {
		book.stopAll()
		b.store.Remove(id)
	}
}

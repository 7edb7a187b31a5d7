package ecs

// Removable is implemented by every per-entity store so the Registry can
// drop an entity's data from all of them when it is destroyed.
type Removable interface {
	Remove(id EntityID)
}

// PtrComponentStore keeps one *T per entity.
type PtrComponentStore[T any] struct {
	data map[EntityID]*T
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		data: make(map[EntityID]*T, 256),
	}
}

func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

// Each visits every stored component. Iteration order is unspecified.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

// RemoveFunc adapts a plain callback to Removable, for cleanup that is not
// backed by a component store.
type RemoveFunc func(id EntityID)

func (f RemoveFunc) Remove(id EntityID) { f(id) }

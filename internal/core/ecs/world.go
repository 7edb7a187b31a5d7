package ecs

// World owns the entity pool, the store registry, and the deferred
// destruction queue flushed by the cleanup system at the end of each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
	queued       map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
		queued:       make(map[EntityID]struct{}),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
// Queuing the same entity twice is a no-op.
func (w *World) MarkForDestruction(id EntityID) {
	if !w.pool.Alive(id) {
		return
	}
	if _, dup := w.queued[id]; dup {
		return
	}
	w.queued[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestruction reports whether id is queued for destruction.
func (w *World) PendingDestruction(id EntityID) bool {
	_, ok := w.queued[id]
	return ok
}

// FlushDestroyQueue clears queued entities from every store, then
// invalidates their handles. Returns how many were destroyed.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		if w.pool.Destroy(id) {
			n++
		}
		delete(w.queued, id)
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

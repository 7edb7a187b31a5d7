// Package world holds the livings of every region and routes the
// notifications that drive skill interruption.
package world

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/core/event"
	"github.com/dolgo/server/internal/property"
	"github.com/dolgo/server/internal/talent"
)

var (
	ErrUnknownRegion = errors.New("unknown region")
	ErrStaleHandle   = errors.New("living no longer exists")
)

// Interrupter is told when its living moves or is attacked.
type Interrupter interface {
	OnMoved(id ecs.EntityID)
	OnAttacked(id, attacker ecs.EntityID)
}

// Spawn describes a living to create.
type Spawn struct {
	Name     string
	Role     Role
	Realm    Realm
	OwnerID  ecs.EntityID
	RegionID uint32
	Pos      Position
	Bases    map[property.Property]int
	// Health defaults to MaxHealth when zero.
	Health int
}

// State is the arena of livings. Handles stay valid until the living is
// flushed by the cleanup system; afterwards they no longer resolve.
// Accessed only from the game loop goroutine; no locks.
type State struct {
	ecs          *ecs.World
	livings      *ecs.PtrComponentStore[Living]
	interrupters *ecs.PtrComponentStore[[]Interrupter]
	regions      map[uint32]*Region
	props        *property.Registry
	bus          *event.Bus
	log          *zap.Logger
}

func NewState(props *property.Registry, bus *event.Bus, log *zap.Logger) *State {
	s := &State{
		ecs:          ecs.NewWorld(),
		livings:      ecs.NewPtrComponentStore[Living](),
		interrupters: ecs.NewPtrComponentStore[[]Interrupter](),
		regions:      make(map[uint32]*Region),
		props:        props,
		bus:          bus,
		log:          log,
	}
	reg := s.ecs.Registry()
	reg.Register(s.interrupters)
	reg.Register(ecs.RemoveFunc(s.removeLiving))
	return s
}

// Stores registers an extra per-living store for cleanup on destroy.
func (s *State) Stores() *ecs.Registry { return s.ecs.Registry() }

func (s *State) Bus() *event.Bus { return s.bus }

func (s *State) Log() *zap.Logger { return s.log }

// AddRegion creates the region or returns the existing one.
func (s *State) AddRegion(id uint32, name string) *Region {
	if r, ok := s.regions[id]; ok {
		return r
	}
	r := newRegion(id, name)
	s.regions[id] = r
	return r
}

func (s *State) Region(id uint32) (*Region, bool) {
	r, ok := s.regions[id]
	return r, ok
}

// Regions returns every region ordered by id.
func (s *State) Regions() []*Region {
	out := make([]*Region, 0, len(s.regions))
	for _, r := range s.regions {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b *Region) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Spawn creates a living in its region.
func (s *State) Spawn(sp Spawn) (*Living, error) {
	r, ok := s.regions[sp.RegionID]
	if !ok {
		return nil, fmt.Errorf("spawn %s: %w %d", sp.Name, ErrUnknownRegion, sp.RegionID)
	}
	id := s.ecs.CreateEntity()
	l := &Living{
		ID:       id,
		Name:     sp.Name,
		Role:     sp.Role,
		Realm:    sp.Realm,
		OwnerID:  sp.OwnerID,
		RegionID: sp.RegionID,
		Pos:      sp.Pos,
		Props:    s.props.NewLivingProperties(sp.Name),
	}
	l.Props.LoadBases(sp.Bases)
	l.Talents = talent.NewSet(l)
	l.Health = sp.Health
	if l.Health <= 0 {
		l.Health = l.MaxHealth()
	}
	l.Props.SetListener(func(c property.PropertyChanged) {
		event.Emit(s.bus, event.PropertyChanged{ID: id, Property: c.Property, Old: c.Old, New: c.New})
	})

	s.livings.Set(id, l)
	r.grid.Add(id, l.Pos)
	event.Emit(s.bus, event.LivingSpawned{ID: id, Name: l.Name, RegionID: l.RegionID})
	return l, nil
}

// Living resolves a handle. Stale handles return false.
func (s *State) Living(id ecs.EntityID) (*Living, bool) {
	if !s.ecs.Alive(id) {
		return nil, false
	}
	return s.livings.Get(id)
}

// Count returns the number of livings.
func (s *State) Count() int { return s.livings.Len() }

// EachLiving visits every living in handle order.
func (s *State) EachLiving(fn func(*Living)) {
	ids := make([]ecs.EntityID, 0, s.livings.Len())
	s.livings.Each(func(id ecs.EntityID, _ *Living) { ids = append(ids, id) })
	slices.Sort(ids)
	for _, id := range ids {
		if l, ok := s.livings.Get(id); ok {
			fn(l)
		}
	}
}

// Nearby returns the livings of a region within radius of pos, in handle
// order.
func (s *State) Nearby(regionID uint32, pos Position, radius int32) []*Living {
	r, ok := s.regions[regionID]
	if !ok {
		return nil
	}
	ids := r.nearby(pos, radius)
	out := make([]*Living, 0, len(ids))
	for _, id := range ids {
		if l, ok := s.livings.Get(id); ok {
			out = append(out, l)
		}
	}
	return out
}

// Distance between two livings; livings of different regions are
// infinitely far apart.
func (s *State) Distance(a, b *Living) float64 {
	if a.RegionID != b.RegionID {
		return math.Inf(1)
	}
	return a.Pos.Distance(b.Pos)
}

// SetTarget changes what a living has selected.
func (s *State) SetTarget(id, target ecs.EntityID) error {
	l, ok := s.Living(id)
	if !ok {
		return ErrStaleHandle
	}
	l.TargetID = target
	return nil
}

// Move relocates a living and notifies its interrupters.
func (s *State) Move(id ecs.EntityID, to Position) error {
	l, ok := s.Living(id)
	if !ok {
		return ErrStaleHandle
	}
	if r, ok := s.regions[l.RegionID]; ok {
		r.grid.Move(id, l.Pos, to)
	}
	l.Pos = to
	s.NotifyMoved(id)
	return nil
}

// ChangeHealth applies delta to a living and reports the change and a death
// on the bus. Returns the applied change.
func (s *State) ChangeHealth(l *Living, delta int, source ecs.EntityID) int {
	old := l.Health
	wasDead := l.Dead
	applied := l.ChangeHealth(delta)
	if applied != 0 {
		event.Emit(s.bus, event.HealthChanged{ID: l.ID, Source: source, Old: old, New: l.Health})
	}
	if l.Dead && !wasDead {
		s.log.Debug("living died", zap.String("name", l.Name), zap.Stringer("id", l.ID), zap.Stringer("killer", source))
		event.Emit(s.bus, event.LivingDied{ID: l.ID, Killer: source})
	}
	return applied
}

// Despawn queues a living for removal at the end of the tick.
func (s *State) Despawn(id ecs.EntityID) {
	s.ecs.MarkForDestruction(id)
}

// PendingDespawn reports whether id is queued for removal.
func (s *State) PendingDespawn(id ecs.EntityID) bool {
	return s.ecs.PendingDestruction(id)
}

// Flush removes every queued living. Returns how many were removed.
func (s *State) Flush() int {
	return s.ecs.FlushDestroyQueue()
}

func (s *State) removeLiving(id ecs.EntityID) {
	l, ok := s.livings.Get(id)
	if !ok {
		return
	}
	if r, ok := s.regions[l.RegionID]; ok {
		r.grid.Remove(id, l.Pos)
	}
	l.Talents.Clear()
	l.Props.Destroy()
	s.livings.Remove(id)
	event.Emit(s.bus, event.LivingDespawned{ID: id})
}

// AddInterrupter registers in for movement and attack notifications of id.
func (s *State) AddInterrupter(id ecs.EntityID, in Interrupter) {
	if !s.ecs.Alive(id) {
		return
	}
	list, _ := s.interrupters.Get(id)
	if list == nil {
		list = new([]Interrupter)
		s.interrupters.Set(id, list)
	}
	if !slices.Contains(*list, in) {
		*list = append(*list, in)
	}
}

// RemoveInterrupter drops in from id's registrations.
func (s *State) RemoveInterrupter(id ecs.EntityID, in Interrupter) {
	list, ok := s.interrupters.Get(id)
	if !ok {
		return
	}
	*list = slices.DeleteFunc(*list, func(have Interrupter) bool { return have == in })
	if len(*list) == 0 {
		s.interrupters.Remove(id)
	}
}

// NotifyMoved tells id's interrupters that it moved.
func (s *State) NotifyMoved(id ecs.EntityID) {
	for _, in := range s.snapshot(id) {
		in.OnMoved(id)
	}
}

// NotifyAttacked tells id's interrupters that attacker hit it.
func (s *State) NotifyAttacked(id, attacker ecs.EntityID) {
	for _, in := range s.snapshot(id) {
		in.OnAttacked(id, attacker)
	}
}

// snapshot copies the list; interrupters usually unregister while notified.
func (s *State) snapshot(id ecs.EntityID) []Interrupter {
	list, ok := s.interrupters.Get(id)
	if !ok {
		return nil
	}
	return slices.Clone(*list)
}

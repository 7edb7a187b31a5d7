package world

import (
	"github.com/dolgo/server/internal/core/ecs"
	"github.com/dolgo/server/internal/timer"
)

// Region is one scheduling context: its livings and its timer wheel are
// only touched from the region's tick.
type Region struct {
	ID     uint32
	Name   string
	Timers *timer.Wheel
	grid   *AOIGrid
}

func newRegion(id uint32, name string) *Region {
	return &Region{
		ID:     id,
		Name:   name,
		Timers: timer.NewWheel(),
		grid:   NewAOIGrid(),
	}
}

// Population returns how many livings are in the region.
func (r *Region) Population() int { return r.grid.Count() }

func (r *Region) nearby(pos Position, radius int32) []ecs.EntityID {
	return r.grid.Query(pos, radius)
}

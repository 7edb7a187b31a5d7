package world

import (
	"slices"

	"github.com/dolgo/server/internal/core/ecs"
)

// AOIGrid buckets the livings of one region into square cells so radius
// queries only visit nearby cells.
// Accessed only from the game loop goroutine; no locks.

const cellSize = 512

type cellKey struct {
	cx int32
	cy int32
}

func toCellCoord(v int32) int32 {
	if v < 0 {
		return (v - cellSize + 1) / cellSize
	}
	return v / cellSize
}

type AOIGrid struct {
	cells map[cellKey]map[ecs.EntityID]Position
	count int
}

func NewAOIGrid() *AOIGrid {
	return &AOIGrid{
		cells: make(map[cellKey]map[ecs.EntityID]Position),
	}
}

func (g *AOIGrid) key(p Position) cellKey {
	return cellKey{cx: toCellCoord(p.X), cy: toCellCoord(p.Y)}
}

// Add places a living into the grid.
func (g *AOIGrid) Add(id ecs.EntityID, p Position) {
	k := g.key(p)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]Position)
		g.cells[k] = cell
	}
	if _, ok := cell[id]; !ok {
		g.count++
	}
	cell[id] = p
}

// Remove takes a living out of the grid.
func (g *AOIGrid) Remove(id ecs.EntityID, p Position) {
	k := g.key(p)
	cell := g.cells[k]
	if cell == nil {
		return
	}
	if _, ok := cell[id]; ok {
		delete(cell, id)
		g.count--
	}
	if len(cell) == 0 {
		delete(g.cells, k)
	}
}

// Move updates a living's position, changing cell if needed.
func (g *AOIGrid) Move(id ecs.EntityID, from, to Position) {
	if g.key(from) == g.key(to) {
		g.cells[g.key(to)][id] = to
		return
	}
	g.Remove(id, from)
	g.Add(id, to)
}

// Count returns the number of livings in the grid.
func (g *AOIGrid) Count() int { return g.count }

// Query returns every living within radius of center, ordered by handle so
// callers see a deterministic order.
func (g *AOIGrid) Query(center Position, radius int32) []ecs.EntityID {
	if radius < 0 {
		return nil
	}
	minX, maxX := toCellCoord(center.X-radius), toCellCoord(center.X+radius)
	minY, maxY := toCellCoord(center.Y-radius), toCellCoord(center.Y+radius)
	r := float64(radius)

	var out []ecs.EntityID
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for id, p := range g.cells[cellKey{cx: cx, cy: cy}] {
				if center.Distance(p) <= r {
					out = append(out, id)
				}
			}
		}
	}
	slices.Sort(out)
	return out
}

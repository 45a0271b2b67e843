package sph

import "math"

type cellKey struct{ col, row int }

// grid is a sparse uniform grid for neighbor search. Cells are square with
// side = interaction radius, so every neighbor of a particle lies in the
// 3x3 block of cells around it. The world is unbounded: escaped particles
// just land in cells far from the rest.
//
// Cell slices are kept between frames and truncated, not reallocated.
type grid struct {
	cellSize    float64
	invCellSize float64
	cells       map[cellKey][]int
	used        []cellKey
}

func newGrid(cellSize float64) *grid {
	return &grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cells:       make(map[cellKey][]int),
	}
}

// reset drops all items and resizes cells if the radius changed.
func (g *grid) reset(cellSize float64) {
	if cellSize != g.cellSize {
		g.cellSize = cellSize
		g.invCellSize = 1.0 / cellSize
		g.cells = make(map[cellKey][]int)
		g.used = g.used[:0]
		return
	}
	for _, k := range g.used {
		g.cells[k] = g.cells[k][:0]
	}
	g.used = g.used[:0]
}

func (g *grid) insert(pos Vec2, index int) {
	k := g.keyOf(pos)
	items := g.cells[k]
	if len(items) == 0 {
		g.used = append(g.used, k)
	}
	g.cells[k] = append(items, index)
}

// queryAround calls fn for every item in the 3x3 neighborhood of pos.
func (g *grid) queryAround(pos Vec2, fn func(index int)) {
	k := g.keyOf(pos)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			for _, idx := range g.cells[cellKey{k.col + dc, k.row + dr}] {
				fn(idx)
			}
		}
	}
}

func (g *grid) keyOf(pos Vec2) cellKey {
	return cellKey{
		col: int(math.Floor(pos.X * g.invCellSize)),
		row: int(math.Floor(pos.Y * g.invCellSize)),
	}
}

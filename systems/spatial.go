// Package systems provides geometry, broad phase and per-entity update helpers for the simulation.
package systems

import (
	"sort"

	"github.com/mlange-42/ark/ecs"
)

// Neighbor is a grid entry: an entity, its index in the owning population list, and its disk.
type Neighbor struct {
	E     ecs.Entity
	Index int
	C     Circle
}

// SpatialGrid is a uniform grid over the bounded arena.
// Entries are bucketed by center; queries return every entry whose bucket overlaps the query square.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	height   float32
	cells    [][]Neighbor // flat grid of entry lists
}

// NewSpatialGrid creates a spatial grid covering the given arena size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]Neighbor, cols*rows)
	for i := range cells {
		cells[i] = make([]Neighbor, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entry to the bucket containing its center.
func (g *SpatialGrid) Insert(n Neighbor) {
	col, row := g.cellCoords(n.C.X, n.C.Y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], n)
}

// QueryInto appends all entries bucketed within reach of (x, y) to dst, sorted by Index.
// reach must cover the query radius plus the largest inserted radius.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryInto(dst []Neighbor, x, y, reach float32) []Neighbor {
	start := len(dst)

	minCol, minRow := g.cellCoords(x-reach, y-reach)
	maxCol, maxRow := g.cellCoords(x+reach, y+reach)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}

	found := dst[start:]
	sort.Slice(found, func(i, j int) bool { return found[i].Index < found[j].Index })
	return dst
}

// Len returns the number of entries in the grid.
func (g *SpatialGrid) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

// cellCoords returns the clamped bucket column and row for a position.
func (g *SpatialGrid) cellCoords(x, y float32) (int, int) {
	col := int(clampFloat(x, 0, g.width) / g.cellSize)
	row := int(clampFloat(y, 0, g.height) / g.cellSize)

	if col >= g.cols {
		col = g.cols - 1
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

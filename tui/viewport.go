package tui

import "github.com/pthm-cable/munchers/game"

// Viewport maps arena coordinates onto a rectangle of terminal cells.
// Each axis is scaled independently so the whole arena fills the rectangle.
type Viewport struct {
	Left, Top  int
	Cols, Rows int
	ScaleX     float32 // cells per world unit
	ScaleY     float32
}

// NewViewport fits an arena of arenaW x arenaH into cols x rows cells starting at (left, top).
func NewViewport(left, top, cols, rows int, arenaW, arenaH float32) Viewport {
	v := Viewport{Left: left, Top: top, Cols: max(cols, 0), Rows: max(rows, 0)}
	if arenaW > 0 {
		v.ScaleX = float32(v.Cols) / arenaW
	}
	if arenaH > 0 {
		v.ScaleY = float32(v.Rows) / arenaH
	}
	return v
}

// Empty reports whether the viewport has no cells to draw into.
func (v Viewport) Empty() bool {
	return v.Cols == 0 || v.Rows == 0
}

// ToCell returns the screen cell holding the world point, and false when the
// point falls outside the viewport.
func (v Viewport) ToCell(x, y float32) (int, int, bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col := int(x * v.ScaleX)
	row := int(y * v.ScaleY)
	if col >= v.Cols || row >= v.Rows {
		return 0, 0, false
	}
	return v.Left + col, v.Top + row, true
}

// CellCenter returns the world point at the middle of a screen cell.
func (v Viewport) CellCenter(col, row int) (float32, float32) {
	return (float32(col-v.Left) + 0.5) / v.ScaleX, (float32(row-v.Top) + 0.5) / v.ScaleY
}

// DiskCells calls fn for every cell whose center lies inside the disk.
// A disk smaller than a cell still covers the cell holding its center.
func (v Viewport) DiskCells(x, y, r float32, fn func(col, row int)) {
	if v.Empty() {
		return
	}
	c0, r0 := v.clampedCell(x-r, y-r)
	c1, r1 := v.clampedCell(x+r, y+r)

	hit := false
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cx, cy := v.CellCenter(col, row)
			dx, dy := cx-x, cy-y
			if dx*dx+dy*dy <= r*r {
				fn(col, row)
				hit = true
			}
		}
	}
	if !hit {
		if col, row, ok := v.ToCell(x, y); ok {
			fn(col, row)
		}
	}
}

func (v Viewport) clampedCell(x, y float32) (int, int) {
	col := max(0, min(int(x*v.ScaleX), v.Cols-1))
	row := max(0, min(int(y*v.ScaleY), v.Rows-1))
	return v.Left + col, v.Top + row
}

// axisHold turns key presses on one axis into velocity intents.
// Terminals report no key-up, so a held direction is released after
// frames without a repeated press.
type axisHold struct {
	axis game.Axis
	dir  int
	left int
}

// press records a key press in direction dir and returns the intent to submit, if any.
func (h *axisHold) press(dir, holdFrames int) (game.Intent, bool) {
	h.left = holdFrames
	if dir == h.dir {
		return game.Intent{}, false
	}
	h.dir = dir
	return game.SetAxisIntent(h.axis, dir), true
}

// tick advances one frame and returns a stop intent when the hold runs out.
func (h *axisHold) tick() (game.Intent, bool) {
	if h.dir == 0 {
		return game.Intent{}, false
	}
	h.left--
	if h.left > 0 {
		return game.Intent{}, false
	}
	h.dir = 0
	return game.SetAxisIntent(h.axis, 0), true
}

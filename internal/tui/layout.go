package tui

import (
	"math"

	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/geom"
)

// Minimum terminal dimensions for usable rendering.
const (
	MinWidth  = 40
	MinHeight = 10
)

// Layout breakpoints for adaptive rendering.
const (
	// CompactWidth triggers compact mode for the footer and status bar.
	CompactWidth = 60
)

// Rows taken by chrome around the canvas: status bar on top; message line,
// footer border and footer hints below.
const (
	headerRows = 1
	footerRows = 3
)

// Default layer units covered by one terminal cell.
const (
	DefaultCellWidth  = 10.0
	DefaultCellHeight = 20.0
)

// Viewport maps terminal cells to layer units. The canvas starts at row Top
// and covers Width x Height cells.
type Viewport struct {
	CellW, CellH  float64
	Top           int
	Width, Height int
}

// NewViewport sizes a viewport for a terminal of w x h cells.
func NewViewport(cellW, cellH float64, w, h int) Viewport {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	return Viewport{
		CellW:  cellW,
		CellH:  cellH,
		Top:    headerRows,
		Width:  max(w, 0),
		Height: max(h-headerRows-footerRows, 0),
	}
}

// Contains reports whether screen cell (x, y) lies on the canvas.
func (v Viewport) Contains(x, y int) bool {
	return x >= 0 && x < v.Width && y >= v.Top && y < v.Top+v.Height
}

// ToLayer converts screen cell (x, y) to the layer point at the cell's
// top-left corner.
func (v Viewport) ToLayer(x, y int) geom.Point {
	return geom.Point{X: float64(x) * v.CellW, Y: float64(y-v.Top) * v.CellH}
}

// cells is the inclusive range of canvas cells an element covers.
type cells struct {
	x0, y0, x1, y1 int
}

func (c cells) contains(x, y int) bool {
	return x >= c.x0 && x <= c.x1 && y >= c.y0 && y <= c.y1
}

// Cells returns the canvas-relative cells covered by r. Every element covers
// at least one cell.
func (v Viewport) Cells(r geom.Rect) cells {
	c := cells{
		x0: int(math.Floor(r.X / v.CellW)),
		y0: int(math.Floor(r.Y / v.CellH)),
		x1: int(math.Ceil((r.X+r.W)/v.CellW)) - 1,
		y1: int(math.Ceil((r.Y+r.H)/v.CellH)) - 1,
	}
	c.x1 = max(c.x1, c.x0)
	c.y1 = max(c.y1, c.y0)
	return c
}

// Grip returns the resize grip of el under screen cell (x, y). The
// bottom-right corner cell is the corner grip; the remaining border cells
// are edge grips. ok is false for interior cells and cells outside el.
func (v Viewport) Grip(el board.Element, x, y int) (h geom.Handle, ok bool) {
	c := v.Cells(el.Bounds())
	y -= v.Top
	if !c.contains(x, y) {
		return 0, false
	}
	switch {
	case x == c.x1 && y == c.y1:
		return geom.HandleCorner, true
	case x == c.x1 && y > c.y0:
		return geom.HandleRight, true
	case y == c.y1 && x > c.x0:
		return geom.HandleBottom, true
	case x == c.x0 && y > c.y0:
		return geom.HandleLeft, true
	case y == c.y0 && x > c.x0 && x < c.x1:
		return geom.HandleTop, true
	}
	return 0, false
}

// HitTest returns the topmost element of l under screen cell (x, y), or nil.
func (v Viewport) HitTest(l *board.Layer, x, y int) board.Element {
	els := l.Elements()
	for i := len(els) - 1; i >= 0; i-- {
		if v.Cells(els[i].Bounds()).contains(x, y-v.Top) {
			return els[i]
		}
	}
	return nil
}

// TruncateWithEllipsis truncates s to maxLen runes, appending "..." if truncated.
func TruncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return board.Truncate(s, maxLen)
}

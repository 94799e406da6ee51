package tui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/papapumpkin/kouan/internal/board"
)

// cellStyle is the comparable key of a canvas cell's look.
type cellStyle struct {
	fg, bg lipgloss.Color
	bold   bool
}

func (s cellStyle) style() lipgloss.Style {
	st := lipgloss.NewStyle().Bold(s.bold)
	if s.fg != "" {
		st = st.Foreground(s.fg)
	}
	if s.bg != "" {
		st = st.Background(s.bg)
	}
	return st
}

type cell struct {
	r  rune
	st cellStyle
}

// grid is a fixed-size character canvas.
type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

func (g *grid) set(x, y int, r rune, st cellStyle) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = cell{r: r, st: st}
}

func (g *grid) fill(c cells, st cellStyle) {
	for y := c.y0; y <= c.y1; y++ {
		for x := c.x0; x <= c.x1; x++ {
			g.set(x, y, ' ', st)
		}
	}
}

// write puts s at (x, y), clipped to width runes. The background of the
// cells underneath is kept when st has none.
func (g *grid) write(x, y, width int, s string, st cellStyle) {
	i := 0
	for _, r := range s {
		if i >= width {
			return
		}
		cx := x + i
		if cx >= 0 && cx < g.w && y >= 0 && y < g.h {
			under := g.cells[y*g.w+cx].st
			if st.bg == "" {
				st.bg = under.bg
			}
		}
		g.set(cx, y, r, st)
		i++
	}
}

// Box drawing sets: light for idle frames, heavy for the selection.
var (
	boxLight = [6]rune{'┌', '┐', '└', '┘', '─', '│'}
	boxHeavy = [6]rune{'┏', '┓', '┗', '┛', '━', '┃'}
)

func (g *grid) box(c cells, set [6]rune, st cellStyle) {
	for x := c.x0 + 1; x < c.x1; x++ {
		g.write(x, c.y0, 1, string(set[4]), st)
		g.write(x, c.y1, 1, string(set[4]), st)
	}
	for y := c.y0 + 1; y < c.y1; y++ {
		g.write(c.x0, y, 1, string(set[5]), st)
		g.write(c.x1, y, 1, string(set[5]), st)
	}
	g.write(c.x0, c.y0, 1, string(set[0]), st)
	g.write(c.x1, c.y0, 1, string(set[1]), st)
	g.write(c.x0, c.y1, 1, string(set[2]), st)
	g.write(c.x1, c.y1, 1, string(set[3]), st)
}

// paragraph word-wraps s into the interior of c, starting at row offset.
func (g *grid) paragraph(c cells, offset int, s string, st cellStyle) {
	width := c.x1 - c.x0 - 1
	if width <= 0 {
		return
	}
	y := c.y0 + 1 + offset
	for _, line := range strings.Split(wordwrap.String(s, width), "\n") {
		if y >= c.y1 {
			return
		}
		g.write(c.x0+1, y, width, line, st)
		y++
	}
}

// String renders the grid row by row, styling runs of equal cells once.
func (g *grid) String() string {
	cache := make(map[cellStyle]lipgloss.Style)
	render := func(st cellStyle, s string) string {
		if st == (cellStyle{}) {
			return s
		}
		ls, ok := cache[st]
		if !ok {
			ls = st.style()
			cache[st] = ls
		}
		return ls.Render(s)
	}

	var b strings.Builder
	for y := 0; y < g.h; y++ {
		row := g.cells[y*g.w : (y+1)*g.w]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].st == row[start].st {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:x] {
				run.WriteRune(c.r)
			}
			b.WriteString(render(row[start].st, run.String()))
			start = x
		}
		if y < g.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Canvas draws one layer into the viewport.
type Canvas struct {
	Port  Viewport
	Layer *board.Layer
}

// View renders every element of the layer in order, later ones on top.
func (c Canvas) View() string {
	g := newGrid(c.Port.Width, c.Port.Height)
	if c.Layer != nil {
		for _, el := range c.Layer.Elements() {
			c.draw(g, el)
		}
	}
	return g.String()
}

func (c Canvas) draw(g *grid, el board.Element) {
	area := c.Port.Cells(el.Bounds())
	frame, set := cellFrame, boxLight
	if el.Selected() {
		frame, set = cellSelected, boxHeavy
	}

	switch e := el.(type) {
	case *board.Note:
		fill := cellStyle{fg: colorInk, bg: lipgloss.Color(e.Color)}
		g.fill(area, fill)
		g.box(area, set, cellStyle{fg: frameFG(el, colorInk), bg: fill.bg, bold: el.Selected()})
		g.paragraph(area, 0, e.Text, fill)
	case *board.Textbox:
		g.box(area, set, frame)
		g.paragraph(area, 0, e.PlainText(), cellText)
	case *board.Scene:
		g.fill(area, cellScene)
		g.box(area, set, cellStyle{fg: frame.fg, bg: cellScene.bg, bold: frame.bold})
		g.paragraph(area, 0, e.Title, cellStyle{fg: cellTitle.fg, bg: cellScene.bg, bold: true})
		g.paragraph(area, 1, e.Body, cellScene)
	case *board.ImageBox:
		g.box(area, set, frame)
		g.paragraph(area, 0, "▣ "+filepath.Base(e.Source), cellImage)
	}
}

// frameFG picks the border color of a filled element: the accent when
// selected, its ink otherwise.
func frameFG(el board.Element, ink lipgloss.Color) lipgloss.Color {
	if el.Selected() {
		return colorAccent
	}
	return ink
}

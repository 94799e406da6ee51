// Package geom holds the rectangle arithmetic behind element dragging and
// resizing. Every function here is pure: callers pass the geometry recorded
// when a gesture started plus the pointer delta since then, and get back the
// new geometry. Recomputing from the start state on each move keeps many small
// pointer events from accumulating rounding drift.
package geom

import "math"

// MinEdge is the smallest width or height a resize may produce.
const MinEdge = 50.0

// MinFontSize is the floor applied when a text element scales its font.
const MinFontSize = 12.0

// Point is a position or a delta in layer units.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Handle identifies one of the five resizer grips on an element frame.
type Handle int

// Resizer grips.
const (
	HandleCorner Handle = iota // bottom-right corner
	HandleLeft
	HandleRight
	HandleTop
	HandleBottom
)

var handleNames = [...]string{"corner", "left", "right", "top", "bottom"}

// String returns the grip name used in logs and tests.
func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "unknown"
	}
	return handleNames[h]
}

// Resize returns start resized by the grip h dragged by d. The left and top
// grips move the origin so the opposite edge stays where it was. Both edges
// are clamped to MinEdge.
func Resize(start Rect, h Handle, d Point) Rect {
	r := start
	switch h {
	case HandleCorner:
		r.W = math.Max(start.W+d.X, MinEdge)
		r.H = math.Max(start.H+d.Y, MinEdge)
	case HandleRight:
		r.W = math.Max(start.W+d.X, MinEdge)
	case HandleLeft:
		r.W = math.Max(start.W-d.X, MinEdge)
		r.X = start.X + start.W - r.W
	case HandleBottom:
		r.H = math.Max(start.H+d.Y, MinEdge)
	case HandleTop:
		r.H = math.Max(start.H-d.Y, MinEdge)
		r.Y = start.Y + start.H - r.H
	}
	return r
}

// WidthDriven reports which axis drives an aspect-locked resize for grip h.
// Left and right are width-driven, top and bottom height-driven. The corner
// grip follows width unless the height delta is growing and, scaled by the
// ratio, outweighs the width delta; an exact tie goes to width.
func WidthDriven(h Handle, d Point, ratio float64) bool {
	switch h {
	case HandleLeft, HandleRight:
		return true
	case HandleTop, HandleBottom:
		return false
	}
	if d.Y > 0 && math.Abs(d.Y)*ratio > math.Abs(d.X) {
		return false
	}
	return true
}

// FitAspect corrects r so that r.W/r.H == ratio. When widthDriven is true the
// width is kept and the height derived, otherwise the reverse. The driving
// edge is raised first so that both edges end up at least MinEdge.
func FitAspect(r Rect, ratio float64, widthDriven bool) Rect {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return r
	}
	if widthDriven {
		r.W = math.Max(r.W, math.Max(MinEdge, MinEdge*ratio))
		r.H = math.Max(r.W/ratio, MinEdge)
		return r
	}
	r.H = math.Max(r.H, math.Max(MinEdge, MinEdge/ratio))
	r.W = math.Max(r.H*ratio, MinEdge)
	return r
}

// LockAspect resizes start by grip h and delta d while preserving ratio
// (width / height). Left and top grips keep the opposite edge fixed.
func LockAspect(start Rect, h Handle, d Point, ratio float64) Rect {
	r := Resize(start, h, d)
	r = FitAspect(r, ratio, WidthDriven(h, d, ratio))
	switch h {
	case HandleLeft:
		r.X = start.X + start.W - r.W
		r.Y = start.Y
	case HandleTop:
		r.Y = start.Y + start.H - r.H
		r.X = start.X
	default:
		r.X, r.Y = start.X, start.Y
	}
	return r
}

// ScaleFont scales a font size proportionally to a height change, never
// going below MinFontSize.
func ScaleFont(startSize, startHeight, newHeight float64) float64 {
	if startHeight <= 0 {
		return math.Max(startSize, MinFontSize)
	}
	return math.Max(startSize*newHeight/startHeight, MinFontSize)
}

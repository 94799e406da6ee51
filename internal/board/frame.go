package board

import "github.com/papapumpkin/kouan/internal/geom"

// Frame is the geometry and selection state every element variant embeds.
// Variants override BeginResize and ResizeBy when they need to constrain or
// extend a resize.
type Frame struct {
	rect        geom.Rect
	selected    bool
	layer       *Layer
	resizeStart geom.Rect
}

func newFrame(w, h float64) Frame {
	return Frame{rect: geom.Rect{W: w, H: h}}
}

// Bounds returns the frame rectangle.
func (f *Frame) Bounds() geom.Rect { return f.rect }

// SetBounds replaces the frame rectangle.
func (f *Frame) SetBounds(r geom.Rect) { f.rect = r }

// MoveTo sets the frame origin.
func (f *Frame) MoveTo(x, y float64) {
	f.rect.X = x
	f.rect.Y = y
}

// Selected reports whether the element holds the selection.
func (f *Frame) Selected() bool { return f.selected }

// SetSelected sets the selection flag.
func (f *Frame) SetSelected(v bool) { f.selected = v }

// Layer returns the owning layer.
func (f *Frame) Layer() *Layer { return f.layer }

func (f *Frame) attach(l *Layer) { f.layer = l }

// BeginResize records the current rectangle as the resize origin.
func (f *Frame) BeginResize() { f.resizeStart = f.rect }

// ResizeBy resizes from the recorded origin with the minimum edge floor.
func (f *Frame) ResizeBy(h geom.Handle, d geom.Point) {
	f.rect = geom.Resize(f.resizeStart, h, d)
}

func (f *Frame) record(k Kind) ElementRecord {
	return ElementRecord{
		Type:   string(k),
		X:      ptr(f.rect.X),
		Y:      ptr(f.rect.Y),
		Width:  ptr(f.rect.W),
		Height: ptr(f.rect.H),
	}
}

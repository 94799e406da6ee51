// Package board is the storyboard document model: a Project of Documents
// (files), each an ordered list of Layers (acts), each an ordered list of
// Elements (notes, text boxes, scene cards and images).
//
// The model is not safe for concurrent use. All mutation is expected to
// happen on the single goroutine that receives input events; code that needs
// to hand state to another goroutine takes a Snapshot first.
//
// Structural edits flush the owning Document into the Project's in-memory
// State, which is the value the store package writes to disk.
package board

import "github.com/papapumpkin/kouan/internal/geom"

// Kind is the type tag of an element variant. The tag doubles as the "type"
// field of a persisted element record.
type Kind string

// Element variants.
const (
	KindNote     Kind = "Note"
	KindTextbox  Kind = "Textbox"
	KindScene    Kind = "Scene"
	KindImageBox Kind = "ImageBox"
)

// Kinds lists every element variant in toolbar order.
var Kinds = []Kind{KindNote, KindTextbox, KindScene, KindImageBox}

// Selectable is the selection capability shared by every element. The
// interact package flips it; nothing in board reads it except Record
// consumers that want to paint a selection border.
type Selectable interface {
	Selected() bool
	SetSelected(bool)
}

// Element is a positioned, resizable unit living on a Layer.
type Element interface {
	Selectable

	Kind() Kind

	// Bounds returns the live frame geometry in layer units.
	Bounds() geom.Rect
	// SetBounds replaces the frame geometry verbatim.
	SetBounds(geom.Rect)
	// MoveTo sets the frame origin, keeping its size.
	MoveTo(x, y float64)

	// Content returns the editable text of the element; empty for images.
	Content() string
	// SetContent replaces the editable text; a no-op for images.
	SetContent(string)

	// Layer returns the owning layer, or nil once the element is removed.
	Layer() *Layer

	// BeginResize records the geometry a resize gesture is measured against.
	BeginResize()
	// ResizeBy applies grip h dragged by d, measured from the state recorded
	// by the last BeginResize.
	ResizeBy(h geom.Handle, d geom.Point)

	// Record serializes the element from its live state.
	Record() ElementRecord

	attach(l *Layer)
}

// ImageProber reads the intrinsic pixel size of an image file. It returns an
// error when the path is missing or not a decodable image.
type ImageProber interface {
	Probe(path string) (width, height int, err error)
}

// Attached reports whether el is still reachable from a live project: it
// sits on a layer, the layer belongs to a document, and the document belongs
// to a project.
func Attached(el Element) bool {
	if el == nil {
		return false
	}
	l := el.Layer()
	if l == nil || l.doc == nil {
		return false
	}
	return l.doc.project != nil
}

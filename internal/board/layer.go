package board

import (
	"fmt"
	"slices"

	"github.com/papapumpkin/kouan/internal/geom"
)

// LayerName formats the default name of the n-th layer (1-based).
func LayerName(n int) string {
	return fmt.Sprintf("Act %d", n)
}

// Layer is one act of a Document: a named, ordered stack of elements.
// Creation order is paint order; the last element is on top.
type Layer struct {
	name     string
	elements []Element
	// sceneCounter only ever grows, so a deleted scene's number is never
	// handed out again.
	sceneCounter int
	doc          *Document
}

func newLayer(name string, doc *Document) *Layer {
	return &Layer{name: name, doc: doc}
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// Rename sets the layer name and flushes the document.
func (l *Layer) Rename(name string) {
	l.name = name
	l.Flush()
}

// Document returns the owning document, or nil once the layer is deleted.
func (l *Layer) Document() *Document { return l.doc }

// SceneCounter returns the number given to the most recent scene.
func (l *Layer) SceneCounter() int { return l.sceneCounter }

// Elements returns the elements in paint order. The slice is a copy.
func (l *Layer) Elements() []Element {
	return slices.Clone(l.elements)
}

// Len returns the number of elements.
func (l *Layer) Len() int { return len(l.elements) }

// Index returns the position of el in paint order, or -1.
func (l *Layer) Index(el Element) int {
	return slices.Index(l.elements, el)
}

type placer interface {
	placementOffset() geom.Point
}

// AddElement appends el, places it at (x, y) adjusted by its variant's
// placement offset, numbers it if it is a scene, and flushes the document.
// An element already on a layer is moved: it leaves the old layer first, and
// a different document it leaves is flushed too.
func (l *Layer) AddElement(el Element, x, y float64) {
	if old := el.Layer(); old != nil {
		old.RemoveElement(el)
		if old.doc != l.doc {
			old.Flush()
		}
	}
	if p, ok := el.(placer); ok {
		off := p.placementOffset()
		x += off.X
		y += off.Y
	}
	el.MoveTo(x, y)
	if s, ok := el.(*Scene); ok {
		l.sceneCounter++
		s.Number = l.sceneCounter
		s.Title = SceneTitle(s.Number)
	}
	l.elements = append(l.elements, el)
	el.attach(l)
	l.Flush()
}

// restore appends a decoded element exactly where its record put it.
func (l *Layer) restore(el Element) {
	if s, ok := el.(*Scene); ok && s.Number > l.sceneCounter {
		l.sceneCounter = s.Number
	}
	l.elements = append(l.elements, el)
	el.attach(l)
}

// RemoveElement detaches el from the layer. It does not flush; callers
// decide when the removal becomes durable. It reports whether el was found.
func (l *Layer) RemoveElement(el Element) bool {
	i := l.Index(el)
	if i < 0 {
		return false
	}
	l.elements = slices.Delete(l.elements, i, i+1)
	el.attach(nil)
	return true
}

// ElementAt returns the topmost element containing p, or nil.
func (l *Layer) ElementAt(p geom.Point) Element {
	for i := len(l.elements) - 1; i >= 0; i-- {
		if l.elements[i].Bounds().Contains(p) {
			return l.elements[i]
		}
	}
	return nil
}

// Pan moves every element by d.
func (l *Layer) Pan(d geom.Point) {
	for _, el := range l.elements {
		r := el.Bounds()
		el.MoveTo(r.X+d.X, r.Y+d.Y)
	}
}

// Flush writes the owning document into the project state.
func (l *Layer) Flush() {
	if l.doc != nil {
		l.doc.Flush()
	}
}

// MarkDirty flags the owning document as changed without flushing it.
func (l *Layer) MarkDirty() {
	if l.doc != nil {
		l.doc.MarkDirty()
	}
}

// Record serializes the layer and its elements in paint order.
func (l *Layer) Record() LayerRecord {
	rec := LayerRecord{
		Name:         l.name,
		SceneCounter: l.sceneCounter,
		Elements:     make([]ElementRecord, 0, len(l.elements)),
	}
	for _, el := range l.elements {
		rec.Elements = append(rec.Elements, el.Record())
	}
	return rec
}

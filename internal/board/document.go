package board

import "slices"

// Document is one storyboard file: an ordered list of layers with an active
// layer cursor. A document always has at least one layer.
type Document struct {
	id     string
	name   string
	layers []*Layer
	active int
	dirty  bool

	project *Project
}

func newDocument(id, name string, p *Project) *Document {
	return &Document{id: id, name: name, project: p}
}

// ID returns the immutable document id.
func (d *Document) ID() string { return d.id }

// Name returns the display name.
func (d *Document) Name() string { return d.name }

// Project returns the owning project, or nil once the document is deleted.
func (d *Document) Project() *Project { return d.project }

// Layers returns the layers in order. The slice is a copy.
func (d *Document) Layers() []*Layer { return slices.Clone(d.layers) }

// Layer returns the layer at i, or nil when i is out of range.
func (d *Document) Layer(i int) *Layer {
	if i < 0 || i >= len(d.layers) {
		return nil
	}
	return d.layers[i]
}

// ActiveIndex returns the index of the active layer.
func (d *Document) ActiveIndex() int { return d.active }

// ActiveLayer returns the active layer.
func (d *Document) ActiveLayer() *Layer { return d.layers[d.active] }

// AddLayer appends a layer named after the new layer count and flushes. The
// new layer becomes active unless it is the document's first.
func (d *Document) AddLayer() *Layer {
	l := newLayer(LayerName(len(d.layers)+1), d)
	d.layers = append(d.layers, l)
	if len(d.layers) > 1 {
		d.active = len(d.layers) - 1
	}
	d.Flush()
	return l
}

// DeleteLayer removes the active layer and flushes. The previous layer, or
// the first one when the active layer was first, becomes active. With a
// single layer it does nothing and reports false.
func (d *Document) DeleteLayer() bool {
	if len(d.layers) < 2 {
		return false
	}
	i := d.active
	gone := d.layers[i]
	d.layers = slices.Delete(d.layers, i, i+1)
	gone.doc = nil
	d.active = max(i-1, 0)
	d.Flush()
	return true
}

// SwitchToLayer makes layer i active. Out of range indexes are ignored.
func (d *Document) SwitchToLayer(i int) bool {
	if i < 0 || i >= len(d.layers) {
		return false
	}
	d.active = i
	return true
}

// SwitchToLayerNamed activates the first layer called name.
func (d *Document) SwitchToLayerNamed(name string) bool {
	for i, l := range d.layers {
		if l.name == name {
			d.active = i
			return true
		}
	}
	return false
}

// Rename changes the display name through the owning project so names stay
// unique.
func (d *Document) Rename(name string) error {
	if d.project == nil {
		return ErrNoSuchFile
	}
	return d.project.RenameFile(d.name, name)
}

// MarkDirty flags the document as changed since its last flush.
func (d *Document) MarkDirty() { d.dirty = true }

// Dirty reports whether the document changed since its last flush.
func (d *Document) Dirty() bool { return d.dirty }

// Flush rebuilds the document record and upserts it into the project state
// by id. A detached document only clears its dirty flag.
func (d *Document) Flush() {
	d.dirty = false
	if d.project == nil {
		return
	}
	d.project.upsert(d.Record())
}

// Record serializes the document.
func (d *Document) Record() FileRecord {
	rec := FileRecord{
		FileID:   d.id,
		FileName: d.name,
		Layers:   make([]LayerRecord, 0, len(d.layers)),
	}
	for _, l := range d.layers {
		rec.Layers = append(rec.Layers, l.Record())
	}
	return rec
}

// ElementCount returns the number of elements across all layers.
func (d *Document) ElementCount() int {
	n := 0
	for _, l := range d.layers {
		n += l.Len()
	}
	return n
}

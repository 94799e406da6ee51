package board

import (
	"fmt"

	"github.com/papapumpkin/kouan/internal/geom"
)

const imageWidth = 200.0

// ImageBox shows a bitmap from disk. Its aspect ratio comes from the image's
// intrinsic size and never changes; every resize keeps it.
type ImageBox struct {
	Frame
	Source string
	ratio  float64
}

// NewImageBox returns an image element for the file at source whose
// intrinsic size is width x height pixels. The frame starts imageWidth wide.
func NewImageBox(source string, width, height int) (*ImageBox, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %s has size %dx%d", ErrImageUnavailable, source, width, height)
	}
	ratio := float64(width) / float64(height)
	b := &ImageBox{Source: source, ratio: ratio}
	b.rect = geom.FitAspect(geom.Rect{W: imageWidth}, ratio, true)
	return b, nil
}

// Kind returns KindImageBox.
func (b *ImageBox) Kind() Kind { return KindImageBox }

// AspectRatio returns width / height of the source image.
func (b *ImageBox) AspectRatio() float64 { return b.ratio }

// Content is always empty; images carry no text.
func (b *ImageBox) Content() string { return "" }

// SetContent does nothing.
func (b *ImageBox) SetContent(string) {}

// ResizeBy resizes from the recorded origin, preserving the aspect ratio.
func (b *ImageBox) ResizeBy(h geom.Handle, d geom.Point) {
	b.rect = geom.LockAspect(b.resizeStart, h, d, b.ratio)
}

// Record serializes the image element.
func (b *ImageBox) Record() ElementRecord {
	rec := b.record(KindImageBox)
	rec.SourcePath = ptr(b.Source)
	return rec
}

func decodeImageBox(rec ElementRecord, ctx decodeContext) (Element, error) {
	src := deref(rec.SourcePath, "")
	if src == "" {
		return nil, fmt.Errorf("%w: source_path", ErrMissingField)
	}
	if ctx.images == nil {
		return nil, fmt.Errorf("%w: %s: no image decoder", ErrImageUnavailable, src)
	}
	w, h, err := ctx.images.Probe(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageUnavailable, src, err)
	}
	b, err := NewImageBox(src, w, h)
	if err != nil {
		return nil, err
	}
	// The stored width wins; the height is re-derived in case the file on
	// disk changed shape since the last save.
	r := b.rect
	r.W = ctx.length(rec.Width, imageWidth)
	b.rect = geom.FitAspect(r, b.ratio, true)
	return b, nil
}

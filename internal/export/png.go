// Package export renders a layer to a PNG image or dumps a file's records as
// YAML.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/papapumpkin/kouan/internal/board"
)

// ErrEmptyLayer is returned when a layer has no elements to draw.
var ErrEmptyLayer = errors.New("export: nothing to export")

// ImageLoader decodes the bitmap behind an image element.
type ImageLoader interface {
	Load(path string) (image.Image, error)
}

// PNGOptions controls rendering. Zero values take defaults.
type PNGOptions struct {
	// Scale is output pixels per layer unit. Default 1.
	Scale float64
	// Padding is the margin around the elements in layer units. Default 20.
	Padding float64
	// Images loads image elements. Without it images draw as placeholders.
	Images ImageLoader
}

const (
	defaultPadding = 20.0
	bodyFontSize   = 14.0
	titleFontSize  = 16.0
	inset          = 10.0
)

var (
	background  = color.White
	ink         = color.Black
	frameStroke = color.RGBA{0x55, 0x55, 0x55, 0xff}
	sceneFill   = color.RGBA{0xf4, 0xf1, 0xea, 0xff}
	placeholder = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
)

// renderer draws one layer onto a gg context.
type renderer struct {
	dc       *gg.Context
	font     *truetype.Font
	scale    float64
	minX     float64
	minY     float64
	images   ImageLoader
	failures []error
}

// Render draws every element of l, back to front, onto a white canvas sized
// to fit them. Image elements that fail to load are drawn as placeholders and
// reported in the returned error list.
func Render(l *board.Layer, opts PNGOptions) (image.Image, []error, error) {
	els := l.Elements()
	if len(els) == 0 {
		return nil, nil, ErrEmptyLayer
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Padding <= 0 {
		opts.Padding = defaultPadding
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, el := range els {
		r := el.Bounds()
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.W)
		maxY = math.Max(maxY, r.Y+r.H)
	}
	minX -= opts.Padding
	minY -= opts.Padding
	maxX += opts.Padding
	maxY += opts.Padding

	width := int(math.Ceil((maxX - minX) * opts.Scale))
	height := int(math.Ceil((maxY - minY) * opts.Scale))

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, nil, fmt.Errorf("export: parse font: %w", err)
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()

	r := &renderer{
		dc:     dc,
		font:   ttf,
		scale:  opts.Scale,
		minX:   minX,
		minY:   minY,
		images: opts.Images,
	}
	for _, el := range els {
		r.draw(el)
	}
	return dc.Image(), r.failures, nil
}

// WritePNG renders l and encodes it to w.
func WritePNG(w io.Writer, l *board.Layer, opts PNGOptions) ([]error, error) {
	img, failures, err := Render(l, opts)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(w); err != nil {
		return failures, fmt.Errorf("export: encode png: %w", err)
	}
	return failures, nil
}

// SavePNG renders l to the file at path.
func SavePNG(path string, l *board.Layer, opts PNGOptions) ([]error, error) {
	img, failures, err := Render(l, opts)
	if err != nil {
		return nil, err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return failures, fmt.Errorf("export: save %s: %w", path, err)
	}
	return failures, nil
}

func (r *renderer) face(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    size * r.scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// rect converts element bounds to pixel coordinates.
func (r *renderer) rect(el board.Element) (x, y, w, h float64) {
	b := el.Bounds()
	return (b.X - r.minX) * r.scale, (b.Y - r.minY) * r.scale, b.W * r.scale, b.H * r.scale
}

func (r *renderer) draw(el board.Element) {
	switch e := el.(type) {
	case *board.Note:
		r.drawNote(e)
	case *board.Textbox:
		r.drawTextbox(e)
	case *board.Scene:
		r.drawScene(e)
	case *board.ImageBox:
		r.drawImage(e)
	}
}

func (r *renderer) drawNote(n *board.Note) {
	x, y, w, h := r.rect(n)
	dc := r.dc
	dc.DrawRectangle(x, y, w, h)
	dc.SetHexColor(n.Color)
	dc.FillPreserve()
	dc.SetColor(frameStroke)
	dc.SetLineWidth(1)
	dc.Stroke()

	r.text(n.Text, bodyFontSize, x, y, w)
}

func (r *renderer) drawTextbox(t *board.Textbox) {
	x, y, w, _ := r.rect(t)
	r.text(t.PlainText(), t.FontSize, x, y, math.Min(w, t.BoxW*r.scale))
}

func (r *renderer) drawScene(s *board.Scene) {
	x, y, w, h := r.rect(s)
	dc := r.dc
	dc.DrawRectangle(x, y, w, h)
	dc.SetColor(sceneFill)
	dc.FillPreserve()
	dc.SetColor(ink)
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.SetFontFace(r.face(titleFontSize))
	dc.SetColor(ink)
	dc.DrawStringAnchored(s.Title, x+inset*r.scale, y+inset*r.scale, 0, 1)
	r.text(s.Body, bodyFontSize, x, y+(titleFontSize+inset)*r.scale, w)
}

func (r *renderer) drawImage(b *board.ImageBox) {
	x, y, w, h := r.rect(b)
	dc := r.dc

	var img image.Image
	if r.images != nil {
		var err error
		if img, err = r.images.Load(b.Source); err != nil {
			r.failures = append(r.failures, err)
		}
	}
	if img == nil {
		dc.DrawRectangle(x, y, w, h)
		dc.SetColor(placeholder)
		dc.Fill()
		return
	}

	bounds := img.Bounds()
	dc.Push()
	dc.Translate(x, y)
	dc.Scale(w/float64(bounds.Dx()), h/float64(bounds.Dy()))
	dc.DrawImage(img, -bounds.Min.X, -bounds.Min.Y)
	dc.Pop()
}

// text draws s wrapped to the inner width of a box whose top-left corner is
// (x, y) in pixels.
func (r *renderer) text(s string, size, x, y, w float64) {
	if s == "" {
		return
	}
	pad := inset * r.scale
	width := w - 2*pad
	if width <= 0 {
		return
	}
	dc := r.dc
	dc.SetFontFace(r.face(size))
	dc.SetColor(ink)
	dc.DrawStringWrapped(s, x+pad, y+pad, 0, 0, width, 1.3, gg.AlignLeft)
}

package board

import (
	"math"
	"regexp"

	"github.com/papapumpkin/kouan/internal/geom"
)

// Textbox defaults: the outer frame carries the resize grips, the inner box
// holds the text.
const (
	textboxWidth     = 262.0
	textboxHeight    = 75.0
	textboxBoxWidth  = 200.0
	textboxBoxHeight = 50.0
	// DefaultFontSize is the font size of a fresh text box.
	DefaultFontSize = geom.MinFontSize
)

// textboxPlacement shifts a freshly added text box left so its grips line up
// with the toolbar anchor.
var textboxPlacement = geom.Point{X: -14}

// Textbox is a rich-text box whose font scales with corner resizes.
type Textbox struct {
	Frame
	Text     string
	FontSize float64
	// BoxW and BoxH size the inner text area, which is stored separately from
	// the frame.
	BoxW, BoxH float64

	startFont float64
	startBoxW float64
	startBoxH float64
}

// NewTextbox returns an empty text box with default geometry.
func NewTextbox() *Textbox {
	return &Textbox{
		Frame:    newFrame(textboxWidth, textboxHeight),
		FontSize: DefaultFontSize,
		BoxW:     textboxBoxWidth,
		BoxH:     textboxBoxHeight,
	}
}

// Kind returns KindTextbox.
func (t *Textbox) Kind() Kind { return KindTextbox }

// Content returns the text.
func (t *Textbox) Content() string { return t.Text }

// SetContent replaces the text.
func (t *Textbox) SetContent(s string) { t.Text = s }

var markup = regexp.MustCompile(`<[^>]*>`)

// PlainText returns the text with its markup tags removed.
func (t *Textbox) PlainText() string {
	return markup.ReplaceAllString(t.Text, "")
}

// SetFontSize sets the font size, clamped to geom.MinFontSize.
func (t *Textbox) SetFontSize(size float64) {
	t.FontSize = math.Max(size, geom.MinFontSize)
}

// BeginResize records frame, font and inner box sizes.
func (t *Textbox) BeginResize() {
	t.Frame.BeginResize()
	t.startFont = t.FontSize
	t.startBoxW = t.BoxW
	t.startBoxH = t.BoxH
}

// ResizeBy resizes the frame, scales the inner box with it, and on corner
// drags scales the font with the height change.
func (t *Textbox) ResizeBy(h geom.Handle, d geom.Point) {
	t.Frame.ResizeBy(h, d)
	start, r := t.resizeStart, t.rect
	if start.W > 0 {
		t.BoxW = t.startBoxW * r.W / start.W
	}
	if start.H > 0 {
		t.BoxH = t.startBoxH * r.H / start.H
	}
	if h == geom.HandleCorner {
		t.FontSize = geom.ScaleFont(t.startFont, start.H, r.H)
	}
}

func (t *Textbox) placementOffset() geom.Point { return textboxPlacement }

// Record serializes the text box.
func (t *Textbox) Record() ElementRecord {
	rec := t.record(KindTextbox)
	rec.Content = ptr(t.Text)
	rec.FontSize = ptr(t.FontSize)
	rec.BoxWidth = ptr(t.BoxW)
	rec.BoxHeight = ptr(t.BoxH)
	return rec
}

func decodeTextbox(rec ElementRecord, ctx decodeContext) (Element, error) {
	t := NewTextbox()
	t.Text = deref(rec.Content, "")
	t.SetFontSize(deref(rec.FontSize, DefaultFontSize))
	t.rect.W = ctx.edge(rec.Width, textboxWidth)
	t.rect.H = ctx.edge(rec.Height, textboxHeight)
	t.BoxW = ctx.length(rec.BoxWidth, textboxBoxWidth)
	t.BoxH = ctx.length(rec.BoxHeight, textboxBoxHeight)
	return t, nil
}

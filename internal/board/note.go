package board

// DefaultNoteColor is the sticky-note yellow used when no color is set.
const DefaultNoteColor = "#ffd60a"

// Default note frame size.
const (
	noteWidth  = 200.0
	noteHeight = 200.0
)

// Note is a colored sticky note holding plain text.
type Note struct {
	Frame
	Text  string
	Color string
}

// NewNote returns an empty yellow note with the default size.
func NewNote() *Note {
	return &Note{Frame: newFrame(noteWidth, noteHeight), Color: DefaultNoteColor}
}

// Kind returns KindNote.
func (n *Note) Kind() Kind { return KindNote }

// Content returns the note text.
func (n *Note) Content() string { return n.Text }

// SetContent replaces the note text.
func (n *Note) SetContent(s string) { n.Text = s }

// SetColor sets the note color. An empty string restores the default; the
// caller is trusted to pass a hex RGB value otherwise.
func (n *Note) SetColor(hex string) {
	if hex == "" {
		hex = DefaultNoteColor
	}
	n.Color = hex
}

// Record serializes the note.
func (n *Note) Record() ElementRecord {
	rec := n.record(KindNote)
	rec.Content = ptr(n.Text)
	rec.Color = ptr(n.Color)
	return rec
}

func decodeNote(rec ElementRecord, ctx decodeContext) (Element, error) {
	n := NewNote()
	n.Text = deref(rec.Content, "")
	n.SetColor(deref(rec.Color, DefaultNoteColor))
	n.rect.W = ctx.edge(rec.Width, noteWidth)
	n.rect.H = ctx.edge(rec.Height, noteHeight)
	return n, nil
}

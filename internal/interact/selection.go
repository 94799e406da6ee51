// Package interact turns pointer and key events into edits of the board
// model: single selection, live drag, grip resize, layer pan and delete.
//
// It is driven from the one goroutine that owns the model.
package interact

import "github.com/papapumpkin/kouan/internal/board"

// Selection holds the one selected element of the whole application. The
// application root owns a single Selection and hands it to every controller,
// so selecting on one document deselects on any other.
type Selection struct {
	cur board.Element
}

// Select makes el the sole selected element. Selecting nil clears.
func (s *Selection) Select(el board.Element) {
	if s.cur == el {
		if el != nil {
			el.SetSelected(true)
		}
		return
	}
	if s.cur != nil {
		s.cur.SetSelected(false)
	}
	s.cur = el
	if el != nil {
		el.SetSelected(true)
	}
}

// Clear deselects the current element, if any.
func (s *Selection) Clear() { s.Select(nil) }

// Current returns the selected element, or nil. An element that was removed
// from the model behind the selection's back is dropped here.
func (s *Selection) Current() board.Element {
	if s.cur != nil && !board.Attached(s.cur) {
		s.Clear()
	}
	return s.cur
}

// Is reports whether el is the current selection.
func (s *Selection) Is(el board.Element) bool {
	return el != nil && s.Current() == el
}

// ForgetDocument clears the selection if it lives in d.
func (s *Selection) ForgetDocument(d *board.Document) {
	if s.cur == nil {
		return
	}
	if l := s.cur.Layer(); l == nil || l.Document() == d {
		s.Clear()
	}
}

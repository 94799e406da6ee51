package tui

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/kouan/internal/board"
)

// HomeView renders the landing page list of files in the project.
type HomeView struct {
	Files  []*board.Document
	Cursor int
	Width  int
}

// View renders one row per file with its act and element counts. An empty
// state is shown when the project has no files.
func (hv HomeView) View() string {
	if len(hv.Files) == 0 {
		return "  " + styleRowDim.Render("No files yet. Press n to create one.") + "\n"
	}

	var b strings.Builder
	for i, d := range hv.Files {
		b.WriteString(hv.renderRow(i, d))
		b.WriteString("\n")
	}
	return b.String()
}

func (hv HomeView) renderRow(i int, d *board.Document) string {
	selected := i == hv.Cursor

	indicator := "  "
	if selected {
		indicator = styleSelectionIndicator.Render(selectionIndicator) + " "
	}

	nameWidth := board.DefaultTruncate + 4
	if hv.Width < CompactWidth && hv.Width > 0 {
		nameWidth = max(hv.Width/3, 8)
	}
	name := board.Truncate(d.Name(), nameWidth)
	name = fmt.Sprintf("%-*s", nameWidth, name)
	if selected {
		name = styleRowSelected.Render(name)
	} else {
		name = styleRowNormal.Render(name)
	}

	counts := fmt.Sprintf("%s · %s", plural(len(d.Layers()), "act"), plural(d.ElementCount(), "element"))
	return indicator + name + "  " + styleRowDim.Render(counts)
}

// Selected returns the document under the cursor, or nil.
func (hv HomeView) Selected() *board.Document {
	if hv.Cursor < 0 || hv.Cursor >= len(hv.Files) {
		return nil
	}
	return hv.Files[hv.Cursor]
}

// MoveUp moves the cursor up one row.
func (hv *HomeView) MoveUp() {
	if hv.Cursor > 0 {
		hv.Cursor--
	}
}

// MoveDown moves the cursor down one row.
func (hv *HomeView) MoveDown() {
	if hv.Cursor < len(hv.Files)-1 {
		hv.Cursor++
	}
}

// SetFiles replaces the rows and keeps the cursor in range.
func (hv *HomeView) SetFiles(files []*board.Document) {
	hv.Files = files
	if hv.Cursor >= len(files) {
		hv.Cursor = len(files) - 1
	}
	if hv.Cursor < 0 {
		hv.Cursor = 0
	}
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// StatusBar renders the persistent top bar: file, act, tool and save state.
type StatusBar struct {
	Width int

	// Home mode fields.
	HomeMode  bool
	FileCount int

	File       string
	Layer      string
	LayerIndex int
	LayerCount int
	Elements   int
	Panning    bool
	Dirty      bool
	Saving     bool
	LastSave   time.Time
	Now        time.Time
}

// View renders the status bar as a single line. Narrow terminals drop the
// element count and the save age first.
func (s StatusBar) View() string {
	compact := s.Width < CompactWidth
	barBg := lipgloss.NewStyle().Background(colorSurface)

	var left []string
	left = append(left, styleStatusLabel.Render("kouan"))
	if s.HomeMode {
		left = append(left, styleStatusValue.Render(plural(s.FileCount, "file")))
	} else {
		name := TruncateWithEllipsis(s.File, 24)
		left = append(left, styleStatusValue.Render(name))
		act := fmt.Sprintf("%s %d/%d", TruncateWithEllipsis(s.Layer, 16), s.LayerIndex+1, s.LayerCount)
		left = append(left, styleStatusValue.Render(act))
		if !compact {
			left = append(left, styleStatusValue.Render(plural(s.Elements, "element")))
		}
		if s.Panning {
			left = append(left, styleStatusPan.Render("PAN"))
		}
	}

	right := s.saveState(compact)
	sep := barBg.Render("  ")
	line := strings.Join(left, sep)

	gap := s.Width - 2 - lipgloss.Width(line) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styleStatusBar.Width(s.Width).Render(line + barBg.Render(strings.Repeat(" ", gap)) + right)
}

func (s StatusBar) saveState(compact bool) string {
	switch {
	case s.Saving:
		return styleStatusDirty.Render("saving…")
	case s.Dirty:
		return styleStatusDirty.Render("● unsaved")
	case s.LastSave.IsZero():
		return ""
	case compact:
		return styleStatusSaved.Render("✓")
	}
	now := s.Now
	if now.IsZero() {
		now = time.Now()
	}
	return styleStatusSaved.Render("✓ saved " + humanize.RelTime(s.LastSave, now, "ago", "from now"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

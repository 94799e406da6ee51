package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Footer renders the latest message above context-sensitive keybinding
// hints.
type Footer struct {
	Width    int
	Bindings []key.Binding
	Message  string
	IsError  bool
	// Prompt replaces the message line while an input is open.
	Prompt string
}

// View renders the message line and the hint line. In compact mode (narrow
// terminals), shows only key hints without descriptions.
func (f Footer) View() string {
	return f.messageLine() + "\n" + f.hints()
}

func (f Footer) messageLine() string {
	if f.Prompt != "" {
		return " " + f.Prompt
	}
	msg := TruncateWithEllipsis(f.Message, f.Width-1)
	if f.IsError {
		return " " + styleMsgError.Render(msg)
	}
	return " " + styleMsgInfo.Render(msg)
}

func (f Footer) hints() string {
	compact := f.Width < CompactWidth
	sep := styleFooterSep.Render("  ")
	if compact {
		sep = styleFooterSep.Render(" ")
	}

	// Hints that would wrap are dropped from the end.
	var line string
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		part := styleFooterKey.Render(help.Key)
		if !compact {
			part += styleFooterSep.Render(":") + styleFooterDesc.Render(help.Desc)
		}
		next := part
		if line != "" {
			next = line + sep + part
		}
		if f.Width > 0 && lipgloss.Width(next) > f.Width {
			break
		}
		line = next
	}
	return styleFooter.Width(f.Width).Render(line)
}

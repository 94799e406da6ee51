package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/export"
	"github.com/papapumpkin/kouan/internal/telemetry"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptEdit
	promptImage
	promptRenameFile
	promptRenameLayer
	promptExport
)

var promptLabels = map[promptKind]string{
	promptEdit:        "text",
	promptImage:       "image path",
	promptRenameFile:  "file name",
	promptRenameLayer: "act name",
	promptExport:      "export to",
}

func (m *AppModel) openPrompt(kind promptKind, value string) {
	m.prompt = kind
	m.Input.Placeholder = promptLabels[kind]
	m.Input.SetValue(value)
	m.Input.CursorEnd()
	m.Input.Focus()
}

func (m *AppModel) closePrompt() {
	m.prompt = promptNone
	m.editing = nil
	m.Input.Blur()
	m.Input.SetValue("")
}

// handlePromptKey routes keys to the open prompt.
func (m AppModel) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		kind, value, target := m.prompt, m.Input.Value(), m.editing
		m.closePrompt()
		m.applyPrompt(kind, value, target)
		return m, nil
	case tea.KeyCtrlC:
		m.closePrompt()
		m.Project.FlushDirty()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m *AppModel) applyPrompt(kind promptKind, value string, target board.Element) {
	switch kind {
	case promptEdit:
		if !board.Attached(target) {
			m.setError("element no longer exists")
			return
		}
		target.SetContent(value)
		target.Layer().Flush()

	case promptImage:
		path := strings.TrimSpace(value)
		if path == "" || m.Current == nil {
			return
		}
		w, h, err := m.opts.Images.Probe(path)
		if err != nil {
			m.setError("image: %v", err)
			return
		}
		img, err := board.NewImageBox(path, w, h)
		if err != nil {
			m.setError("image: %v", err)
			return
		}
		m.place(m.Current.ActiveLayer(), img)

	case promptRenameFile:
		d := m.Home.Selected()
		if d == nil {
			return
		}
		if err := d.Rename(strings.TrimSpace(value)); err != nil {
			m.setError("rename: %v", err)
			return
		}
		m.setInfo("renamed to %s", d.Name())

	case promptRenameLayer:
		name := strings.TrimSpace(value)
		if name == "" || m.Current == nil {
			return
		}
		m.Current.ActiveLayer().Rename(name)

	case promptExport:
		m.exportPNG(strings.TrimSpace(value))
	}
}

func (m *AppModel) exportPNG(path string) {
	if path == "" || m.Current == nil {
		return
	}
	opts := export.PNGOptions{}
	if m.opts.Images != nil {
		opts.Images = m.opts.Images
	}
	failures, err := export.SavePNG(path, m.Current.ActiveLayer(), opts)
	if err != nil {
		m.setError("%v", err)
		return
	}
	m.opts.Telemetry.Record(telemetry.KindExport, m.Current.Name(), map[string]any{"path": path, "missing_images": len(failures)})
	if len(failures) > 0 {
		m.setError("exported %s; %d images could not be drawn", path, len(failures))
		return
	}
	m.setInfo("exported %s", path)
}

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Home list.
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	NewFile key.Binding
	DelFile key.Binding
	Rename  key.Binding

	// Board.
	Back        key.Binding
	NextFile    key.Binding
	AddNote     key.Binding
	AddTextbox  key.Binding
	AddScene    key.Binding
	AddImage    key.Binding
	Edit        key.Binding
	Paste       key.Binding
	Delete      key.Binding
	Pan         key.Binding
	AddLayer    key.Binding
	DelLayer    key.Binding
	PrevLayer   key.Binding
	NextLayer   key.Binding
	RenameLayer key.Binding
	Export      key.Binding

	// Global.
	Save   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		NewFile: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new file"),
		),
		DelFile: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete file"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "files"),
		),
		NextFile: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next file"),
		),
		AddNote: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "note"),
		),
		AddTextbox: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "text"),
		),
		AddScene: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scene"),
		),
		AddImage: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "image"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "paste"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete", "backspace"),
			key.WithHelp("x", "delete"),
		),
		Pan: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pan"),
		),
		AddLayer: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add act"),
		),
		DelLayer: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete act"),
		),
		PrevLayer: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev act"),
		),
		NextLayer: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next act"),
		),
		RenameLayer: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename act"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export png"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HomeFooterBindings returns footer bindings for the file list.
func HomeFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Open, km.NewFile, km.Rename, km.DelFile, km.Save, km.Quit}
}

// BoardFooterBindings returns footer bindings for the canvas.
func BoardFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{
		km.AddNote, km.AddTextbox, km.AddScene, km.AddImage, km.Edit, km.Delete, km.Pan,
		km.AddLayer, km.PrevLayer, km.NextLayer, km.Back, km.Save, km.Quit,
	}
}

// InputFooterBindings returns footer bindings while a prompt is open.
func InputFooterBindings() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
	}
}

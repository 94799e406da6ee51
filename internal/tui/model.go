package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/kouan/internal/autosave"
	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/export"
	"github.com/papapumpkin/kouan/internal/geom"
	"github.com/papapumpkin/kouan/internal/interact"
	"github.com/papapumpkin/kouan/internal/telemetry"
)

// Screen is the top-level view.
type Screen int

const (
	// ScreenHome lists the files of the project.
	ScreenHome Screen = iota
	// ScreenBoard shows the active act of one file.
	ScreenBoard
)

// Saver writes project snapshots. autosave.Saver implements it.
type Saver interface {
	Submit(board.State) error
	Flush(ctx context.Context, st board.State) error
}

// Images probes and loads the bitmaps behind image elements.
type Images interface {
	board.ImageProber
	export.ImageLoader
}

// Options wires the model to its collaborators. Only Project is required.
type Options struct {
	Project *board.Project
	Saver   Saver
	Images  Images
	// Reload reads the project back from the store.
	Reload func() (*board.Project, board.LoadReport, error)
	// Clipboard reads text for pasting. Defaults to the system clipboard.
	Clipboard func() (string, error)
	// ExportDir is where PNG exports are suggested. Defaults to the working
	// directory.
	ExportDir string
	Telemetry *telemetry.Emitter

	CellWidth, CellHeight float64
}

// AppModel is the root BubbleTea model composing all sub-views.
type AppModel struct {
	Project     *board.Project
	Selection   *interact.Selection
	Controllers map[*board.Document]*interact.Controller
	Current     *board.Document
	Screen      Screen
	Home        HomeView
	Keys        KeyMap
	Input       textinput.Model
	Viewport    Viewport
	Width       int
	Height      int

	Message    string
	MessageErr bool
	Saving     bool
	LastSave   time.Time
	Now        time.Time

	// written is the newest project revision known to be on disk.
	written uint64

	prompt  promptKind
	editing board.Element
	placeAt geom.Point
	opts    Options
}

// NewAppModel creates a root model on the home screen.
func NewAppModel(opts Options) AppModel {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.ReadAll
	}
	ti := textinput.New()
	ti.Prompt = "▸ "
	ti.CharLimit = 4096

	m := AppModel{
		Selection: &interact.Selection{},
		Keys:      DefaultKeyMap(),
		Input:     ti,
		Viewport:  NewViewport(opts.CellWidth, opts.CellHeight, 80, 24),
		Now:       time.Now(),
		opts:      opts,
	}
	m.setProject(opts.Project)
	return m
}

func (m *AppModel) setProject(p *board.Project) {
	m.Project = p
	m.written = p.Rev()
	m.Controllers = make(map[*board.Document]*interact.Controller)
	m.Selection.Clear()
	m.Home.SetFiles(p.Files())
}

// Init starts the tick timer and runs a first autosave.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		func() tea.Msg { return MsgAutosave{} },
	)
}

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return MsgTick{Time: t}
	})
}

// Update handles all messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Viewport = NewViewport(m.Viewport.CellW, m.Viewport.CellH, msg.Width, msg.Height)

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case MsgTick:
		m.Now = msg.Time
		return m, tickCmd()

	case MsgAutosave:
		m.autosave()

	case MsgSaved:
		m.Saving = false
		if msg.Result.Err != nil {
			m.setError("save failed: %v", msg.Result.Err)
		} else {
			m.written = max(m.written, msg.Result.Rev)
			m.LastSave = m.Now
			if m.LastSave.IsZero() {
				m.LastSave = time.Now()
			}
		}

	case MsgExternalChange:
		m.opts.Telemetry.Record(telemetry.KindExternal, msg.Change.File, map[string]string{"kind": msg.Change.Kind.String()})
		if m.unsaved() || m.opts.Reload == nil {
			m.setInfo("state file changed on disk; ctrl+r reloads and drops unsaved edits")
			return m, nil
		}
		return m, m.reload()

	case MsgReloaded:
		m.applyReload(msg)

	case MsgInfo:
		m.setInfo("%s", msg.Msg)
	case MsgError:
		m.setError("%s", msg.Msg)
	}
	return m, nil
}

func (m *AppModel) setInfo(format string, args ...any) {
	m.Message = fmt.Sprintf(format, args...)
	m.MessageErr = false
}

func (m *AppModel) setError(format string, args ...any) {
	m.Message = fmt.Sprintf(format, args...)
	m.MessageErr = true
}

// unsaved reports whether the project holds edits that are not on disk:
// either a document still dirty, or flushed state newer than the last write.
func (m AppModel) unsaved() bool {
	if m.Project.Rev() != m.written {
		return true
	}
	for _, d := range m.Project.Files() {
		if d.Dirty() {
			return true
		}
	}
	return false
}

// controller returns the interaction controller of d. Every controller
// shares the model's Selection.
func (m AppModel) controller(d *board.Document) *interact.Controller {
	c, ok := m.Controllers[d]
	if !ok {
		c = interact.NewController(m.Selection)
		m.Controllers[d] = c
	}
	return c
}

// handleKey processes keyboard input outside prompts.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Project.FlushDirty()
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Save):
		cmd := m.save()
		return m, cmd
	case key.Matches(msg, m.Keys.Reload):
		if m.opts.Reload != nil {
			return m, m.reload()
		}
		return m, nil
	}

	if m.Screen == ScreenHome {
		m.handleHomeKey(msg)
		return m, nil
	}
	m.handleBoardKey(msg)
	return m, nil
}

func (m *AppModel) handleHomeKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.Keys.Up):
		m.Home.MoveUp()
	case key.Matches(msg, m.Keys.Down):
		m.Home.MoveDown()
	case key.Matches(msg, m.Keys.Open):
		if d := m.Home.Selected(); d != nil {
			m.open(d)
		}
	case key.Matches(msg, m.Keys.NewFile):
		d := m.Project.AddFile()
		m.Home.SetFiles(m.Project.Files())
		m.Home.Cursor = len(m.Home.Files) - 1
		m.setInfo("created %s", d.Name())
	case key.Matches(msg, m.Keys.Rename):
		if d := m.Home.Selected(); d != nil {
			m.openPrompt(promptRenameFile, d.Name())
		}
	case key.Matches(msg, m.Keys.DelFile):
		if d := m.Home.Selected(); d != nil {
			m.Selection.ForgetDocument(d)
			delete(m.Controllers, d)
			m.Project.DeleteFile(d.Name())
			m.Home.SetFiles(m.Project.Files())
			m.setInfo("deleted %s", d.Name())
		}
	}
}

func (m *AppModel) open(d *board.Document) {
	m.Current = d
	m.Screen = ScreenBoard
	m.setInfo("%s", d.Name())
}

func (m *AppModel) handleBoardKey(msg tea.KeyMsg) {
	d := m.Current
	if d == nil {
		m.Screen = ScreenHome
		return
	}
	ctrl := m.controller(d)
	layer := d.ActiveLayer()

	switch {
	case key.Matches(msg, m.Keys.Back):
		ctrl.SetTool(interact.ToolSelect)
		m.Selection.Clear()
		m.Screen = ScreenHome
		m.Home.SetFiles(m.Project.Files())

	case key.Matches(msg, m.Keys.NextFile):
		files := m.Project.Files()
		for i, f := range files {
			if f == d {
				m.Selection.Clear()
				m.open(files[(i+1)%len(files)])
				break
			}
		}

	case key.Matches(msg, m.Keys.AddNote):
		m.place(layer, board.NewNote())
	case key.Matches(msg, m.Keys.AddTextbox):
		m.place(layer, board.NewTextbox())
	case key.Matches(msg, m.Keys.AddScene):
		m.place(layer, board.NewScene())
	case key.Matches(msg, m.Keys.AddImage):
		if m.opts.Images == nil {
			m.setError("images are not available")
			return
		}
		m.openPrompt(promptImage, "")

	case key.Matches(msg, m.Keys.Edit):
		el := m.Selection.Current()
		if el == nil || el.Kind() == board.KindImageBox {
			return
		}
		m.editing = el
		m.openPrompt(promptEdit, el.Content())

	case key.Matches(msg, m.Keys.Paste):
		m.paste()

	case key.Matches(msg, m.Keys.Delete):
		if ctrl.DeleteSelected() {
			m.setInfo("deleted element")
		}

	case key.Matches(msg, m.Keys.Pan):
		if ctrl.Tool() == interact.ToolPan {
			ctrl.SetTool(interact.ToolSelect)
		} else {
			ctrl.SetTool(interact.ToolPan)
		}

	case key.Matches(msg, m.Keys.AddLayer):
		ctrl.SetTool(interact.ToolSelect)
		m.Selection.Clear()
		l := d.AddLayer()
		m.setInfo("added %s", l.Name())

	case key.Matches(msg, m.Keys.DelLayer):
		name := layer.Name()
		m.Selection.Clear()
		if !d.DeleteLayer() {
			m.setError("%s is the last act and cannot be deleted", name)
			return
		}
		m.setInfo("deleted %s", name)

	case key.Matches(msg, m.Keys.PrevLayer):
		m.switchLayer(d, d.ActiveIndex()-1)
	case key.Matches(msg, m.Keys.NextLayer):
		m.switchLayer(d, d.ActiveIndex()+1)

	case key.Matches(msg, m.Keys.RenameLayer):
		m.openPrompt(promptRenameLayer, layer.Name())

	case key.Matches(msg, m.Keys.Export):
		name := fmt.Sprintf("%s-%d.png", d.Name(), d.ActiveIndex()+1)
		m.openPrompt(promptExport, filepath.Join(m.opts.ExportDir, name))
	}
}

func (m *AppModel) switchLayer(d *board.Document, i int) {
	c := m.controller(d)
	if c.Busy() {
		return
	}
	if d.SwitchToLayer(i) {
		m.Selection.Clear()
		m.setInfo("%s", d.ActiveLayer().Name())
	}
}

// place adds el at the last pointer position and selects it.
func (m *AppModel) place(l *board.Layer, el board.Element) {
	m.controller(m.Current).SetTool(interact.ToolSelect)
	l.AddElement(el, m.placeAt.X, m.placeAt.Y)
	m.Selection.Select(el)
}

func (m *AppModel) paste() {
	el := m.Selection.Current()
	if el == nil || el.Kind() == board.KindImageBox {
		return
	}
	text, err := m.opts.Clipboard()
	if err != nil {
		m.setError("paste: %v", err)
		return
	}
	if text == "" {
		return
	}
	el.SetContent(el.Content() + text)
	el.Layer().Flush()
}

// handleMouse maps a pointer event on the canvas to the controller of the
// current document.
func (m *AppModel) handleMouse(msg tea.MouseMsg) {
	if m.Screen != ScreenBoard || m.Current == nil || m.prompt != promptNone {
		return
	}
	ctrl := m.controller(m.Current)
	layer := m.Current.ActiveLayer()
	p := m.Viewport.ToLayer(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.Viewport.Contains(msg.X, msg.Y) {
			return
		}
		m.placeAt = p
		if sel := m.Selection.Current(); sel != nil && sel.Layer() == layer && ctrl.Tool() == interact.ToolSelect {
			if h, ok := m.Viewport.Grip(sel, msg.X, msg.Y); ok {
				ctrl.BeginResize(sel, h, p)
				return
			}
		}
		if el := m.Viewport.HitTest(layer, msg.X, msg.Y); el != nil {
			ctrl.PointerDown(el, p)
		} else {
			ctrl.PointerDownEmpty(layer, p)
		}
	case tea.MouseActionMotion:
		ctrl.PointerMove(p)
	case tea.MouseActionRelease:
		ctrl.PointerUp(p)
	}
}

// autosave flushes dirty documents and queues a snapshot with the saver.
func (m *AppModel) autosave() {
	n := m.Project.FlushDirty()
	m.opts.Telemetry.Record(telemetry.KindAutosave, "", map[string]int{"flushed": n})
	if m.opts.Saver == nil {
		return
	}
	if err := m.opts.Saver.Submit(m.Project.Snapshot()); err != nil {
		m.setError("autosave: %v", err)
	}
}

// save flushes and writes the project now, reporting through MsgSaved.
func (m *AppModel) save() tea.Cmd {
	m.Project.FlushDirty()
	if m.opts.Saver == nil {
		return nil
	}
	m.Saving = true
	snap := m.Project.Snapshot()
	saver := m.opts.Saver
	return func() tea.Msg {
		start := time.Now()
		err := saver.Flush(context.Background(), snap)
		return MsgSaved{Result: autosave.Result{Rev: snap.Rev, Files: len(snap.Files), Duration: time.Since(start), Err: err}}
	}
}

func (m AppModel) reload() tea.Cmd {
	load := m.opts.Reload
	return func() tea.Msg {
		p, rep, err := load()
		return MsgReloaded{Project: p, Report: rep, Err: err}
	}
}

func (m *AppModel) applyReload(msg MsgReloaded) {
	if msg.Err != nil {
		m.setError("reload: %v", msg.Err)
		return
	}
	var id string
	if m.Current != nil {
		id = m.Current.ID()
	}
	m.setProject(msg.Project)
	m.Current = nil
	if d := msg.Project.FileByID(id); d != nil && m.Screen == ScreenBoard {
		m.Current = d
	} else {
		m.Screen = ScreenHome
	}
	if n := len(msg.Report.Skipped); n > 0 {
		m.setError("reloaded with %d elements skipped", n)
		return
	}
	m.setInfo("reloaded %d files", msg.Report.Files)
}

// View renders the status bar, the current screen and the footer.
func (m AppModel) View() string {
	if m.Width > 0 && (m.Width < MinWidth || m.Height < MinHeight) {
		return fmt.Sprintf("Terminal too small (%dx%d, need %dx%d)", m.Width, m.Height, MinWidth, MinHeight)
	}

	status := m.statusBar()
	var body string
	bindings := BoardFooterBindings(m.Keys)
	if m.Screen == ScreenBoard && m.Current != nil {
		body = Canvas{Port: m.Viewport, Layer: m.Current.ActiveLayer()}.View()
	} else {
		home := m.Home
		home.Width = m.Width
		body = lipgloss.NewStyle().
			Height(m.Viewport.Height).
			MaxHeight(m.Viewport.Height).
			Render(home.View())
		bindings = HomeFooterBindings(m.Keys)
	}

	footer := Footer{Width: m.Width, Bindings: bindings, Message: m.Message, IsError: m.MessageErr}
	if m.prompt != promptNone {
		footer.Bindings = InputFooterBindings()
		footer.Prompt = stylePrompt.Render(promptLabels[m.prompt]) + " " + m.Input.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, status.View(), body, footer.View())
}

func (m AppModel) statusBar() StatusBar {
	s := StatusBar{
		Width:    m.Width,
		Saving:   m.Saving,
		Dirty:    m.unsaved(),
		LastSave: m.LastSave,
		Now:      m.Now,
	}
	if m.Screen != ScreenBoard || m.Current == nil {
		s.HomeMode = true
		s.FileCount = m.Project.Len()
		return s
	}
	d := m.Current
	s.File = d.Name()
	s.Layer = d.ActiveLayer().Name()
	s.LayerIndex = d.ActiveIndex()
	s.LayerCount = len(d.Layers())
	s.Elements = d.ActiveLayer().Len()
	if c, ok := m.Controllers[d]; ok {
		s.Panning = c.Tool() == interact.ToolPan
	}
	return s
}

package tui

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/kouan/internal/board"
)

// fakeSaver records submitted and flushed snapshots.
type fakeSaver struct {
	submitted []board.State
	flushed   []board.State
}

func (f *fakeSaver) Submit(st board.State) error {
	f.submitted = append(f.submitted, st)
	return nil
}

func (f *fakeSaver) Flush(_ context.Context, st board.State) error {
	f.flushed = append(f.flushed, st)
	return nil
}

type fakeImages map[string][2]int

func (f fakeImages) Probe(path string) (int, int, error) {
	if s, ok := f[path]; ok {
		return s[0], s[1], nil
	}
	return 0, 0, errors.New("not an image")
}

func (f fakeImages) Load(path string) (image.Image, error) {
	if s, ok := f[path]; ok {
		return image.NewRGBA(image.Rect(0, 0, s[0], s[1])), nil
	}
	return nil, errors.New("not an image")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func send(t *testing.T, m AppModel, msgs ...tea.Msg) AppModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(AppModel); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

// newBoardModel opens a one-file project on the board screen with a single
// note at the layer origin. With 10x20 cells the note covers canvas cells
// (0,0)-(19,9), which is screen rows 1-10.
func newBoardModel(t *testing.T, opts Options) (AppModel, *board.Note) {
	t.Helper()
	if opts.Project == nil {
		opts.Project = board.NewProject()
		opts.Project.AddFile()
	}
	d := opts.Project.Files()[0]
	n := board.NewNote()
	d.ActiveLayer().AddElement(n, 0, 0)

	m := NewAppModel(opts)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Screen != ScreenBoard || m.Current != d {
		t.Fatalf("screen = %v current = %v, want board of %s", m.Screen, m.Current, d.Name())
	}
	return m, n
}

func TestMouseDragMovesAndFlushes(t *testing.T) {
	t.Parallel()

	m, n := newBoardModel(t, Options{})
	m = send(t, m, press(5, 4), motion(8, 5))
	if got := n.Bounds().Origin(); got.X != 30 || got.Y != 20 {
		t.Errorf("origin mid-drag = %v, want (30,20)", got)
	}
	if x := *m.Project.State().Files[0].Layers[0].Elements[0].X; x != 0 {
		t.Errorf("state x mid-drag = %v, want 0", x)
	}

	m = send(t, m, release(8, 5))
	if x := *m.Project.State().Files[0].Layers[0].Elements[0].X; x != 30 {
		t.Errorf("state x after release = %v, want 30", x)
	}
	if !n.Selected() {
		t.Error("dragged note not selected")
	}
}

func TestMouseCornerGripResizes(t *testing.T) {
	t.Parallel()

	m, n := newBoardModel(t, Options{})
	m = send(t, m, press(5, 4), release(5, 4))
	m = send(t, m, press(19, 10), motion(24, 10), release(24, 10))

	if r := n.Bounds(); r.W != 250 || r.H != 200 {
		t.Errorf("size = %vx%v, want 250x200", r.W, r.H)
	}
	if !m.Current.Dirty() {
		t.Error("resize did not mark the document dirty")
	}
	if w := *m.Project.State().Files[0].Layers[0].Elements[0].Width; w != 200 {
		t.Errorf("state width = %v, want unflushed 200", w)
	}
}

func TestClickEmptyClearsSelection(t *testing.T) {
	t.Parallel()

	m, n := newBoardModel(t, Options{})
	m = send(t, m, press(5, 4), release(5, 4))
	if !n.Selected() {
		t.Fatal("note not selected")
	}
	m = send(t, m, press(60, 30), release(60, 30))
	if n.Selected() || m.Selection.Current() != nil {
		t.Error("click on empty canvas kept the selection")
	}
}

func TestBoardKeys(t *testing.T) {
	t.Parallel()

	m, n := newBoardModel(t, Options{})
	d := m.Current

	// Add a scene where the pointer last went down.
	m = send(t, m, press(50, 20), release(50, 20), runes("s"))
	l := d.ActiveLayer()
	if l.Len() != 2 {
		t.Fatalf("elements = %d, want 2", l.Len())
	}
	scene, ok := m.Selection.Current().(*board.Scene)
	if !ok {
		t.Fatalf("selection = %T, want new scene", m.Selection.Current())
	}
	if scene.Title != "Scene 1" || scene.Bounds().X != 500 || scene.Bounds().Y != 380 {
		t.Errorf("scene %q at %v", scene.Title, scene.Bounds().Origin())
	}

	m = send(t, m, runes("x"))
	if l.Len() != 1 || l.Elements()[0] != board.Element(n) {
		t.Error("delete removed the wrong element")
	}

	m = send(t, m, runes("D"))
	if !m.MessageErr || len(d.Layers()) != 1 {
		t.Errorf("deleting the last act: message %q, layers %d", m.Message, len(d.Layers()))
	}

	m = send(t, m, runes("a"))
	if len(d.Layers()) != 2 || d.ActiveIndex() != 1 {
		t.Errorf("after add act: layers %d active %d", len(d.Layers()), d.ActiveIndex())
	}
	m = send(t, m, runes("["))
	if d.ActiveIndex() != 0 {
		t.Errorf("after [: active %d, want 0", d.ActiveIndex())
	}
	m = send(t, m, runes("["))
	if d.ActiveIndex() != 0 {
		t.Errorf("switch below 0 moved to %d", d.ActiveIndex())
	}

	m = send(t, m, runes("p"))
	if !m.statusBar().Panning {
		t.Error("p did not enter pan mode")
	}
	m = send(t, m, press(0, 30), motion(3, 30), release(3, 30))
	if got := n.Bounds().X; got != 30 {
		t.Errorf("panned note x = %v, want 30", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Screen != ScreenHome {
		t.Error("esc did not return to the file list")
	}
}

func TestEditPrompt(t *testing.T) {
	t.Parallel()

	m, n := newBoardModel(t, Options{})
	m = send(t, m, press(5, 4), release(5, 4), tea.KeyMsg{Type: tea.KeyEnter})
	if m.prompt != promptEdit {
		t.Fatalf("prompt = %v, want edit", m.prompt)
	}
	// Keys go to the input, not the board.
	m = send(t, m, runes("x"), runes("y"))
	if n.Layer() == nil {
		t.Fatal("typing in the prompt deleted the note")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if n.Content() != "xy" {
		t.Errorf("content = %q, want xy", n.Content())
	}
	if got := *m.Project.State().Files[0].Layers[0].Elements[0].Content; got != "xy" {
		t.Errorf("state content = %q, want flushed xy", got)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("z"), tea.KeyMsg{Type: tea.KeyEsc})
	if n.Content() != "xy" || m.prompt != promptNone {
		t.Errorf("cancelled edit changed content to %q", n.Content())
	}
}

func TestPasteAppendsClipboard(t *testing.T) {
	t.Parallel()

	clip := func() (string, error) { return " pasted", nil }
	m, n := newBoardModel(t, Options{Clipboard: clip})
	n.SetContent("note")
	m = send(t, m, press(5, 4), release(5, 4), tea.KeyMsg{Type: tea.KeyCtrlV})
	if n.Content() != "note pasted" {
		t.Errorf("content = %q, want note pasted", n.Content())
	}
}

func TestAddImagePrompt(t *testing.T) {
	t.Parallel()

	m, _ := newBoardModel(t, Options{Images: fakeImages{"wide.png": {400, 100}}})
	m = send(t, m, runes("i"))
	for _, r := range "wide.png" {
		m = send(t, m, runes(string(r)))
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	img, ok := m.Selection.Current().(*board.ImageBox)
	if !ok {
		t.Fatalf("selection = %T, want image", m.Selection.Current())
	}
	if r := img.Bounds(); r.W != 200 || r.H != 50 {
		t.Errorf("image size = %vx%v, want 200x50", r.W, r.H)
	}

	m = send(t, m, runes("i"), runes("?"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.MessageErr {
		t.Error("bad image path did not report an error")
	}
}

func TestHomeKeys(t *testing.T) {
	t.Parallel()

	m := NewAppModel(Options{Project: board.NewProject()})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if !strings.Contains(m.View(), "No files yet") {
		t.Error("empty project view missing hint")
	}

	m = send(t, m, runes("n"), runes("n"))
	if m.Project.Len() != 2 || m.Home.Cursor != 1 {
		t.Fatalf("files = %d cursor = %d", m.Project.Len(), m.Home.Cursor)
	}

	m = send(t, m, runes("r"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("9"), tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Project.Files()[1].Name(); got != "Untitled_9" {
		t.Errorf("renamed file = %q, want Untitled_9", got)
	}

	m = send(t, m, runes("k"), runes("d"))
	if m.Project.Len() != 1 || m.Project.Names()[0] != "Untitled_9" {
		t.Errorf("after delete: %v", m.Project.Names())
	}
	if !strings.Contains(m.View(), "Untitled_9") {
		t.Error("view does not list the remaining file")
	}
}

func TestAutosaveAndSave(t *testing.T) {
	t.Parallel()

	saver := &fakeSaver{}
	m, n := newBoardModel(t, Options{Saver: saver})
	n.MoveTo(70, 0)
	m.Current.MarkDirty()

	m = send(t, m, MsgAutosave{})
	if len(saver.submitted) != 1 {
		t.Fatalf("submitted = %d, want 1", len(saver.submitted))
	}
	if x := *saver.submitted[0].Files[0].Layers[0].Elements[0].X; x != 70 {
		t.Errorf("autosaved x = %v, want flushed 70", x)
	}
	if m.Current.Dirty() {
		t.Error("document still dirty after autosave")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(AppModel)
	if !m.Saving || cmd == nil {
		t.Fatal("ctrl+s did not start a save")
	}
	saved, ok := cmd().(MsgSaved)
	if !ok || saved.Result.Err != nil {
		t.Fatalf("save cmd returned %#v", saved)
	}
	m = send(t, m, saved)
	if m.Saving || m.LastSave.IsZero() || len(saver.flushed) != 1 {
		t.Errorf("after save: saving=%v last=%v flushed=%d", m.Saving, m.LastSave, len(saver.flushed))
	}
}

func TestQuitFlushesDirty(t *testing.T) {
	t.Parallel()

	m, n := newBoardModel(t, Options{})
	n.MoveTo(90, 0)
	m.Current.MarkDirty()

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if x := *m.Project.State().Files[0].Layers[0].Elements[0].X; x != 90 {
		t.Errorf("state x = %v, want 90 flushed on quit", x)
	}
}

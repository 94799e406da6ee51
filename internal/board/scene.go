package board

import "fmt"

const (
	sceneWidth  = 200.0
	sceneHeight = 150.0
)

// Scene is a titled narrative beat. The title is assigned by the layer from
// its scene counter; the body is the editable content.
type Scene struct {
	Frame
	Title  string
	Number int
	Body   string
}

// NewScene returns an unnumbered scene card. Layer.AddElement numbers it.
func NewScene() *Scene {
	return &Scene{Frame: newFrame(sceneWidth, sceneHeight)}
}

// SceneTitle formats the default title for scene number n.
func SceneTitle(n int) string {
	return fmt.Sprintf("Scene %d", n)
}

// Kind returns KindScene.
func (s *Scene) Kind() Kind { return KindScene }

// Content returns the body text.
func (s *Scene) Content() string { return s.Body }

// SetContent replaces the body text.
func (s *Scene) SetContent(body string) { s.Body = body }

// Record serializes the scene card.
func (s *Scene) Record() ElementRecord {
	rec := s.record(KindScene)
	rec.Content = ptr(s.Body)
	rec.SceneName = ptr(s.Title)
	rec.SceneNumber = ptr(s.Number)
	return rec
}

func decodeScene(rec ElementRecord, ctx decodeContext) (Element, error) {
	s := NewScene()
	s.Body = deref(rec.Content, "")
	s.Number = deref(rec.SceneNumber, 0)
	s.Title = deref(rec.SceneName, "")
	if s.Number == 0 && s.Title != "" {
		// Older records carry only the title.
		var n int
		if _, err := fmt.Sscanf(s.Title, "Scene %d", &n); err == nil && n > 0 {
			s.Number = n
		}
	}
	if s.Title == "" && s.Number > 0 {
		s.Title = SceneTitle(s.Number)
	}
	s.rect.W = ctx.edge(rec.Width, sceneWidth)
	s.rect.H = ctx.edge(rec.Height, sceneHeight)
	return s, nil
}

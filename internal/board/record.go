package board

// CurrentVersion is the persisted-state schema version written by Encode.
// Version 0 marks untagged state from before versioning, whose positions
// still carry the legacy scale factor.
const CurrentVersion = 2

// DefaultLegacyScale is the position correction applied once when importing
// version 0 state.
const DefaultLegacyScale = 0.8

// State is the persisted form of a whole project.
type State struct {
	Version int          `toml:"version" json:"version" yaml:"version"`
	Files   []FileRecord `toml:"files" json:"files" yaml:"files"`

	// Rev counts in-memory changes to the owning Project. It is never
	// persisted; a Saver reports it back so callers know what reached disk.
	Rev uint64 `toml:"-" json:"-" yaml:"-"`
}

// FileRecord is the persisted form of one Document.
type FileRecord struct {
	FileID   string        `toml:"file_id" json:"file_id" yaml:"file_id"`
	FileName string        `toml:"file_name" json:"file_name" yaml:"file_name"`
	Layers   []LayerRecord `toml:"layers" json:"layers" yaml:"layers"`
}

// LayerRecord is the persisted form of one Layer.
type LayerRecord struct {
	Name         string          `toml:"name" json:"name" yaml:"name"`
	SceneCounter int             `toml:"scene_counter,omitempty" json:"scene_counter,omitempty" yaml:"scene_counter,omitempty"`
	Elements     []ElementRecord `toml:"elements" json:"elements" yaml:"elements"`
}

// ElementRecord is the persisted form of one Element. Every field except
// Type is optional so that decoding can tell a missing value from a zero one
// and substitute the variant's default.
type ElementRecord struct {
	Type        string   `toml:"type" json:"type" yaml:"type"`
	X           *float64 `toml:"x,omitempty" json:"x,omitempty" yaml:"x,omitempty"`
	Y           *float64 `toml:"y,omitempty" json:"y,omitempty" yaml:"y,omitempty"`
	Width       *float64 `toml:"width,omitempty" json:"width,omitempty" yaml:"width,omitempty"`
	Height      *float64 `toml:"height,omitempty" json:"height,omitempty" yaml:"height,omitempty"`
	Content     *string  `toml:"content,omitempty" json:"content,omitempty" yaml:"content,omitempty"`
	Color       *string  `toml:"color,omitempty" json:"color,omitempty" yaml:"color,omitempty"`
	FontSize    *float64 `toml:"font_size,omitempty" json:"font_size,omitempty" yaml:"font_size,omitempty"`
	BoxWidth    *float64 `toml:"box_width,omitempty" json:"box_width,omitempty" yaml:"box_width,omitempty"`
	BoxHeight   *float64 `toml:"box_height,omitempty" json:"box_height,omitempty" yaml:"box_height,omitempty"`
	SourcePath  *string  `toml:"source_path,omitempty" json:"source_path,omitempty" yaml:"source_path,omitempty"`
	SceneName   *string  `toml:"scene_name,omitempty" json:"scene_name,omitempty" yaml:"scene_name,omitempty"`
	SceneNumber *int     `toml:"scene_number,omitempty" json:"scene_number,omitempty" yaml:"scene_number,omitempty"`
}

// Clone returns a deep copy of s that shares no memory with it.
func (s State) Clone() State {
	out := State{Version: s.Version, Rev: s.Rev}
	if s.Files != nil {
		out.Files = make([]FileRecord, len(s.Files))
		for i, f := range s.Files {
			out.Files[i] = f.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of f.
func (f FileRecord) Clone() FileRecord {
	out := FileRecord{FileID: f.FileID, FileName: f.FileName}
	if f.Layers != nil {
		out.Layers = make([]LayerRecord, len(f.Layers))
		for i, l := range f.Layers {
			out.Layers[i] = l.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of l.
func (l LayerRecord) Clone() LayerRecord {
	out := LayerRecord{Name: l.Name, SceneCounter: l.SceneCounter}
	if l.Elements != nil {
		out.Elements = make([]ElementRecord, len(l.Elements))
		for i, e := range l.Elements {
			out.Elements[i] = e.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of e.
func (e ElementRecord) Clone() ElementRecord {
	return ElementRecord{
		Type:        e.Type,
		X:           clonePtr(e.X),
		Y:           clonePtr(e.Y),
		Width:       clonePtr(e.Width),
		Height:      clonePtr(e.Height),
		Content:     clonePtr(e.Content),
		Color:       clonePtr(e.Color),
		FontSize:    clonePtr(e.FontSize),
		BoxWidth:    clonePtr(e.BoxWidth),
		BoxHeight:   clonePtr(e.BoxHeight),
		SourcePath:  clonePtr(e.SourcePath),
		SceneName:   clonePtr(e.SceneName),
		SceneNumber: clonePtr(e.SceneNumber),
	}
}

// ElementCount returns the number of element records across all layers.
func (f FileRecord) ElementCount() int {
	n := 0
	for _, l := range f.Layers {
		n += len(l.Elements)
	}
	return n
}

func ptr[T any](v T) *T { return &v }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

package board

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// defaultFileBase is the stem of generated file names.
const defaultFileBase = "Untitled"

// Project is the root of the model: documents in insertion order, unique by
// name, plus the in-memory State that document flushes upsert into.
type Project struct {
	docs   []*Document
	byName map[string]*Document
	// fileCount only grows; it seeds generated names the way the menu did.
	fileCount int
	state     State

	newID   func() string
	onFlush func(FileRecord)
}

// Option configures a Project.
type Option func(*Project)

// WithIDFunc replaces the uuid generator used for new document ids.
func WithIDFunc(fn func() string) Option {
	return func(p *Project) { p.newID = fn }
}

// WithFlushHook registers fn to observe every document flush.
func WithFlushHook(fn func(FileRecord)) Option {
	return func(p *Project) { p.onFlush = fn }
}

// NewProject returns an empty project.
func NewProject(opts ...Option) *Project {
	p := &Project{
		byName: make(map[string]*Document),
		state:  State{Version: CurrentVersion},
		newID:  uuid.NewString,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Len returns the number of documents.
func (p *Project) Len() int { return len(p.docs) }

// Files returns the documents in insertion order. The slice is a copy.
func (p *Project) Files() []*Document { return slices.Clone(p.docs) }

// Names returns the document names in insertion order.
func (p *Project) Names() []string {
	names := make([]string, len(p.docs))
	for i, d := range p.docs {
		names[i] = d.name
	}
	return names
}

// FileByName returns the document called name, or nil.
func (p *Project) FileByName(name string) *Document { return p.byName[name] }

// FileByID returns the document with the given id, or nil.
func (p *Project) FileByID(id string) *Document {
	for _, d := range p.docs {
		if d.id == id {
			return d
		}
	}
	return nil
}

// UniqueName returns base if no document uses it, otherwise the first free
// name of base_1, base_2, and so on.
func (p *Project) UniqueName(base string) string {
	if _, taken := p.byName[base]; !taken {
		return base
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s_%d", base, n)
		if _, taken := p.byName[name]; !taken {
			return name
		}
	}
}

// AddFile creates a document with a generated unique name and one default
// layer.
func (p *Project) AddFile() *Document {
	p.fileCount++
	return p.addFile(p.newID(), p.UniqueName(fmt.Sprintf("%s_%d", defaultFileBase, p.fileCount)))
}

// AddFileNamed creates a document called name, or the first free variant of
// it when name is taken.
func (p *Project) AddFileNamed(name string) (*Document, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	p.fileCount++
	return p.addFile(p.newID(), p.UniqueName(name)), nil
}

func (p *Project) addFile(id, name string) *Document {
	d := p.insert(id, name)
	d.AddLayer()
	return d
}

func (p *Project) insert(id, name string) *Document {
	d := newDocument(id, name, p)
	p.docs = append(p.docs, d)
	p.byName[name] = d
	return d
}

// DeleteFile removes the document called name together with its layers,
// elements and state record. It reports whether the document existed.
func (p *Project) DeleteFile(name string) bool {
	d, ok := p.byName[name]
	if !ok {
		return false
	}
	delete(p.byName, name)
	p.docs = slices.DeleteFunc(p.docs, func(x *Document) bool { return x == d })
	p.state.Files = slices.DeleteFunc(p.state.Files, func(f FileRecord) bool { return f.FileID == d.id })
	p.state.Rev++
	d.project = nil
	return true
}

// RenameFile renames a document, keeping its id, and flushes it.
func (p *Project) RenameFile(oldName, newName string) error {
	d, ok := p.byName[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchFile, oldName)
	}
	if newName == "" {
		return ErrEmptyName
	}
	if newName == oldName {
		return nil
	}
	if _, taken := p.byName[newName]; taken {
		return fmt.Errorf("%w: %q", ErrNameTaken, newName)
	}
	delete(p.byName, oldName)
	p.byName[newName] = d
	d.name = newName
	d.Flush()
	return nil
}

// FlushDirty flushes every document with pending changes and returns how
// many it flushed.
func (p *Project) FlushDirty() int {
	n := 0
	for _, d := range p.docs {
		if d.dirty {
			d.Flush()
			n++
		}
	}
	return n
}

// State returns the in-memory persisted state. It shares memory with the
// project; use Snapshot to hand it to another goroutine.
func (p *Project) State() State { return p.state }

// Rev returns the revision of the in-memory state. It grows on every flush
// and deletion.
func (p *Project) Rev() uint64 { return p.state.Rev }

// Snapshot returns a deep copy of the in-memory state.
func (p *Project) Snapshot() State { return p.state.Clone() }

// upsert replaces the record with the same id, or appends it.
func (p *Project) upsert(rec FileRecord) {
	p.put(rec)
	if p.onFlush != nil {
		p.onFlush(rec)
	}
}

func (p *Project) put(rec FileRecord) {
	p.state.Rev++
	i := slices.IndexFunc(p.state.Files, func(f FileRecord) bool { return f.FileID == rec.FileID })
	if i >= 0 {
		p.state.Files[i] = rec
		return
	}
	p.state.Files = append(p.state.Files, rec)
}

package board

import (
	"errors"
	"testing"
)

func TestAddFileNamesAreUnique(t *testing.T) {
	t.Parallel()

	p := NewProject()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		d := p.AddFile()
		if seen[d.Name()] {
			t.Fatalf("AddFile #%d reused name %q", i+1, d.Name())
		}
		seen[d.Name()] = true
	}

	// Deleting and re-adding must not collide with survivors either.
	p.DeleteFile("Untitled_3")
	if _, err := p.AddFileNamed("Untitled_4"); err != nil {
		t.Fatal(err)
	}
	names := map[string]int{}
	for _, n := range p.Names() {
		names[n]++
		if names[n] > 1 {
			t.Fatalf("duplicate name %q in %v", n, p.Names())
		}
	}
}

func TestUniqueNameProbing(t *testing.T) {
	t.Parallel()

	p := NewProject()
	for _, name := range []string{"Untitled_1", "Untitled_1_1", "Draft"} {
		if _, err := p.AddFileNamed(name); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		base string
		want string
	}{
		{"Fresh", "Fresh"},
		{"Draft", "Draft_1"},
		{"Untitled_1", "Untitled_1_2"},
	}
	for _, tt := range tests {
		if got := p.UniqueName(tt.base); got != tt.want {
			t.Errorf("UniqueName(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestAddFileNamedEmpty(t *testing.T) {
	t.Parallel()

	if _, err := NewProject().AddFileNamed(""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("err = %v, want ErrEmptyName", err)
	}
}

func TestDeleteFileCascades(t *testing.T) {
	t.Parallel()

	p := NewProject()
	keep := p.AddFile()
	gone := p.AddFile()
	n := NewNote()
	gone.ActiveLayer().AddElement(n, 0, 0)

	if !p.DeleteFile(gone.Name()) {
		t.Fatal("DeleteFile = false")
	}
	if p.DeleteFile(gone.Name()) {
		t.Error("second DeleteFile = true")
	}
	if Attached(n) {
		t.Error("element of deleted file still attached")
	}
	if gone.Project() != nil {
		t.Error("deleted document still owned")
	}
	st := p.State()
	if len(st.Files) != 1 || st.Files[0].FileID != keep.ID() {
		t.Errorf("state files = %+v, want only %s", st.Files, keep.ID())
	}

	// A flush through a stale reference must not resurrect the record.
	gone.Flush()
	if len(p.State().Files) != 1 {
		t.Error("stale flush re-added deleted file")
	}
}

func TestRenameFileErrors(t *testing.T) {
	t.Parallel()

	p := NewProject()
	a := p.AddFile()
	b := p.AddFile()

	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"missing", "Nope", "Other", ErrNoSuchFile},
		{"empty", a.Name(), "", ErrEmptyName},
		{"taken", a.Name(), b.Name(), ErrNameTaken},
		{"same", a.Name(), a.Name(), nil},
	}
	for _, tt := range tests {
		if err := p.RenameFile(tt.from, tt.to); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestFlushHookAndSnapshotIsolation(t *testing.T) {
	t.Parallel()

	var flushed []string
	p := NewProject(WithIDFunc(seqIDs()), WithFlushHook(func(r FileRecord) {
		flushed = append(flushed, r.FileID)
	}))
	d := p.AddFile()
	if d.ID() != "doc-1" {
		t.Errorf("ID = %q, want doc-1", d.ID())
	}
	d.ActiveLayer().AddElement(NewNote(), 1, 2)
	if len(flushed) != 2 {
		t.Errorf("flushes = %v, want two", flushed)
	}

	snap := p.Snapshot()
	*snap.Files[0].Layers[0].Elements[0].X = 999
	snap.Files[0].FileName = "mutated"
	if st := p.State(); *st.Files[0].Layers[0].Elements[0].X != 1 || st.Files[0].FileName != d.Name() {
		t.Error("mutating a snapshot changed project state")
	}
}

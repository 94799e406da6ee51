package board

import "fmt"

// DecodeEnv supplies the collaborators Decode needs.
type DecodeEnv struct {
	// Images resolves image sources. Without it every ImageBox is skipped.
	Images ImageProber
	// LegacyScale multiplies positions of version 0 state. Zero means
	// DefaultLegacyScale.
	LegacyScale float64
}

// Skipped describes one element record that could not be rebuilt.
type Skipped struct {
	File  string
	Layer string
	Index int
	Kind  string
	Err   error
}

// String formats the record location and the reason it was skipped.
func (s Skipped) String() string {
	return fmt.Sprintf("%s/%s #%d (%s): %v", s.File, s.Layer, s.Index, s.Kind, s.Err)
}

// LoadReport summarizes a Decode.
type LoadReport struct {
	Files    int
	Layers   int
	Elements int
	Skipped  []Skipped
	// Renamed maps stored names that collided to the names they were given.
	Renamed map[string]string
	// Scale is the position factor that was applied; 1 for current state.
	Scale float64
}

// Encode serializes the live project tree.
func Encode(p *Project) State {
	st := State{Version: CurrentVersion, Files: make([]FileRecord, 0, len(p.docs))}
	for _, d := range p.docs {
		st.Files = append(st.Files, d.Record())
	}
	return st
}

// Decode rebuilds a project from persisted state. Element records that
// cannot be rebuilt are skipped and listed in the report; the rest of the
// tree loads regardless.
func Decode(st State, env DecodeEnv, opts ...Option) (*Project, LoadReport) {
	p := NewProject(opts...)
	rep := p.LoadProject(st, env)
	return p, rep
}

// LoadProject appends every document in st to p. Each loaded document starts
// on its first layer, and the project state is replaced by the re-encoded
// result so skipped records do not linger.
func (p *Project) LoadProject(st State, env DecodeEnv) LoadReport {
	rep := LoadReport{Scale: 1, Renamed: map[string]string{}}
	if st.Version == 0 {
		rep.Scale = env.LegacyScale
		if rep.Scale == 0 {
			rep.Scale = DefaultLegacyScale
		}
	}
	ctx := decodeContext{images: env.Images, scale: rep.Scale}

	seen := make(map[string]bool, len(p.docs)+len(st.Files))
	for _, d := range p.docs {
		seen[d.id] = true
	}
	for _, fr := range st.Files {
		id := fr.FileID
		if id == "" || seen[id] {
			id = p.newID()
		}
		seen[id] = true

		p.fileCount++
		want := fr.FileName
		if want == "" {
			want = fmt.Sprintf("%s_%d", defaultFileBase, p.fileCount)
		}
		name := p.UniqueName(want)
		if name != want && fr.FileName != "" {
			rep.Renamed[fr.FileName] = name
		}

		d := p.insert(id, name)
		for li, lr := range fr.Layers {
			lname := lr.Name
			if lname == "" {
				lname = LayerName(li + 1)
			}
			l := newLayer(lname, d)
			for ei, er := range lr.Elements {
				el, err := decodeElement(er, ctx)
				if err != nil {
					rep.Skipped = append(rep.Skipped, Skipped{File: name, Layer: lname, Index: ei, Kind: er.Type, Err: err})
					continue
				}
				l.restore(el)
				rep.Elements++
			}
			l.sceneCounter = max(l.sceneCounter, lr.SceneCounter)
			d.layers = append(d.layers, l)
			rep.Layers++
		}
		if len(d.layers) == 0 {
			d.layers = append(d.layers, newLayer(LayerName(1), d))
			rep.Layers++
		}
		d.active = 0
		p.put(d.Record())
		rep.Files++
	}
	p.state.Version = CurrentVersion
	return rep
}

package board

import (
	"fmt"
	"math"

	"github.com/papapumpkin/kouan/internal/geom"
)

// decodeContext carries what element decoders need beyond the record.
type decodeContext struct {
	images ImageProber
	scale  float64
}

// factor is the import scale, 1 for current state.
func (c decodeContext) factor() float64 {
	if c.scale == 0 {
		return 1
	}
	return c.scale
}

// length reads a stored size in the import scale. A missing size yields def,
// which is already in layer units.
func (c decodeContext) length(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p * c.factor()
}

// edge is length floored at geom.MinEdge, for frame sides.
func (c decodeContext) edge(p *float64, def float64) float64 {
	return math.Max(c.length(p, def), geom.MinEdge)
}

type decodeFunc func(ElementRecord, decodeContext) (Element, error)

// decoders maps every persisted type tag to its constructor. The set is
// closed: a tag missing here is rejected rather than looked up dynamically.
var decoders = map[Kind]decodeFunc{
	KindNote:     decodeNote,
	KindTextbox:  decodeTextbox,
	KindScene:    decodeScene,
	KindImageBox: decodeImageBox,
}

// KnownKind reports whether k names an element variant.
func KnownKind(k Kind) bool {
	_, ok := decoders[k]
	return ok
}

// decodeElement rebuilds a live element from rec. Position is required for
// every variant; everything else falls back to the variant's defaults.
func decodeElement(rec ElementRecord, ctx decodeContext) (Element, error) {
	dec, ok := decoders[Kind(rec.Type)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, rec.Type)
	}
	if rec.X == nil || rec.Y == nil {
		return nil, fmt.Errorf("%w: %s position", ErrMissingField, rec.Type)
	}
	el, err := dec(rec, ctx)
	if err != nil {
		return nil, err
	}
	scale := ctx.factor()
	el.MoveTo(*rec.X*scale, *rec.Y*scale)
	return el, nil
}

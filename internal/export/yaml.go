package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/kouan/internal/board"
)

// AllLayers selects every layer of a file in WriteYAML.
const AllLayers = -1

// WriteYAML dumps the persisted records of d to w. With layer set to an
// index only that layer is written; AllLayers writes the whole file. The
// document is flushed first so the dump matches what is on screen.
func WriteYAML(w io.Writer, d *board.Document, layer int) error {
	d.Flush()
	rec := d.Record()
	if layer != AllLayers {
		if layer < 0 || layer >= len(rec.Layers) {
			return fmt.Errorf("export: %s has no layer %d", d.Name(), layer+1)
		}
		rec.Layers = rec.Layers[layer : layer+1]
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("export: encode yaml: %w", err)
	}
	return enc.Close()
}

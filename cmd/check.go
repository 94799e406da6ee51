package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/store"
	"github.com/papapumpkin/kouan/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that every image on the board still resolves",
	Long: `Check reads the saved state and probes the source of every image
element, including ones the board skipped at load because they were already
missing. It exits non-zero when any image is unavailable.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 8, "images probed at once")
	rootCmd.AddCommand(checkCmd)
}

// imageRef locates one image element in the saved state.
type imageRef struct {
	file, layer, source string
}

func runCheck(cmd *cobra.Command, _ []string) error {
	jobs, _ := cmd.Flags().GetInt("jobs")

	ctx := commandContext(cmd)
	s, err := openSession(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := s.store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		s.printer.CheckResult(0, nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	refs := imageRefs(st)
	paths := make([]string, 0, len(refs))
	for _, r := range refs {
		paths = append(paths, r.source)
	}
	failed, err := s.images.ProbeAll(ctx, paths, jobs)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	var missing []ui.MissingImage
	for _, r := range refs {
		if perr, ok := failed[r.source]; ok {
			missing = append(missing, ui.MissingImage{File: r.file, Layer: r.layer, Source: r.source, Err: perr})
		}
	}
	s.printer.CheckResult(len(refs), missing)
	if len(missing) > 0 {
		return fmt.Errorf("check: %d image(s) unavailable", len(missing))
	}
	return nil
}

// imageRefs lists every image element with a source in st.
func imageRefs(st board.State) []imageRef {
	var refs []imageRef
	for _, f := range st.Files {
		for li, l := range f.Layers {
			name := l.Name
			if name == "" {
				name = board.LayerName(li + 1)
			}
			for _, el := range l.Elements {
				if board.Kind(el.Type) != board.KindImageBox || el.SourcePath == nil || *el.SourcePath == "" {
					continue
				}
				refs = append(refs, imageRef{file: f.FileName, layer: name, source: *el.SourcePath})
			}
		}
	}
	return refs
}

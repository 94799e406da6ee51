package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/export"
	"github.com/papapumpkin/kouan/internal/telemetry"
)

// Export formats.
const (
	formatPNG  = "png"
	formatYAML = "yaml"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export an act as PNG or a file as YAML",
	Long: `Export renders one act of a file to a PNG image, or dumps the file's
records as YAML.

PNG output defaults to <file>-<act number>.png in the working directory. YAML goes
to stdout unless --out is given. --layer counts acts from 1; without it PNG
uses the first act and YAML writes every act.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", formatPNG, "output format: png or yaml")
	exportCmd.Flags().IntP("layer", "l", 0, "act number, starting at 1")
	exportCmd.Flags().StringP("out", "o", "", "output path (\"-\" for stdout)")
	exportCmd.Flags().Float64("scale", 1, "PNG pixels per board unit")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	layer, _ := cmd.Flags().GetInt("layer")
	out, _ := cmd.Flags().GetString("out")
	scale, _ := cmd.Flags().GetFloat64("scale")

	format = strings.ToLower(format)
	if format != formatPNG && format != formatYAML {
		return fmt.Errorf("export: unknown format %q: want %q or %q", format, formatPNG, formatYAML)
	}
	if layer < 0 {
		return fmt.Errorf("export: --layer must be 1 or more, got %d", layer)
	}

	ctx := commandContext(cmd)
	s, err := openSession(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	p, rep, err := s.load(ctx)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	s.report(rep)

	d := p.FileByName(args[0])
	if d == nil {
		return fmt.Errorf("export: %w: %q", board.ErrNoSuchFile, args[0])
	}

	if format == formatYAML {
		idx := export.AllLayers
		if layer > 0 {
			idx = layer - 1
		}
		if out == "" || out == "-" {
			return export.WriteYAML(cmd.OutOrStdout(), d, idx)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := export.WriteYAML(f, d, idx); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		s.tel.Record(telemetry.KindExport, d.Name(), map[string]string{"path": out, "format": formatYAML})
		s.printer.Exported(out, fileSize(out))
		return nil
	}

	if layer == 0 {
		layer = 1
	}
	l := d.Layer(layer - 1)
	if l == nil {
		return fmt.Errorf("export: %s has no act %d", d.Name(), layer)
	}

	opts := export.PNGOptions{Scale: scale, Images: s.images}
	var failures []error
	if out == "-" {
		failures, err = export.WritePNG(cmd.OutOrStdout(), l, opts)
	} else {
		if out == "" {
			out = pngName(d.Name(), layer)
		}
		failures, err = export.SavePNG(out, l, opts)
	}
	if err != nil {
		return err
	}
	for _, f := range failures {
		s.printer.Warn(f.Error())
	}
	s.tel.Record(telemetry.KindExport, d.Name(), map[string]any{"path": out, "format": formatPNG, "missing_images": len(failures)})
	if out != "-" {
		s.printer.Exported(out, fileSize(out))
	}
	return nil
}

// pngName matches the name the board suggests for an export.
func pngName(file string, act int) string {
	return fmt.Sprintf("%s-%d.png", strings.ReplaceAll(file, string(os.PathSeparator), "_"), act)
}

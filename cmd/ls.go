package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kouan/internal/ui"
)

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List the files of the project",
	Args:    cobra.NoArgs,
	RunE:    runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	s, err := openSession(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()
	if s.cfg.Verbose {
		s.printer.Banner()
	}

	p, rep, err := s.load(ctx)
	if err != nil {
		s.printer.Error(err.Error())
		return err
	}
	s.report(rep)

	rows := make([]ui.FileRow, 0, p.Len())
	for _, d := range p.Files() {
		rows = append(rows, ui.FileRow{
			Name:     d.Name(),
			Layers:   len(d.Layers()),
			Elements: d.ElementCount(),
		})
	}

	var modified time.Time
	if fi, err := os.Stat(s.store.Location()); err == nil {
		modified = fi.ModTime()
	}
	s.printer.FileList(s.store.Location(), fileSize(s.store.Location()), modified, rows)
	return nil
}

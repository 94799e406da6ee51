package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kouan/internal/board"
)

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Add a file to the project",
	Long: `Add a file with one empty act. Without a name the file is called
Untitled_N. A name already in use gets a numeric suffix.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
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

	var d *board.Document
	if len(args) == 1 {
		if d, err = p.AddFileNamed(args[0]); err != nil {
			return fmt.Errorf("new: %w", err)
		}
	} else {
		d = p.AddFile()
	}
	s.printer.Info(fmt.Sprintf("added %s", d.Name()))
	return s.save(ctx, p)
}

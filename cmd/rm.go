package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kouan/internal/board"
)

var rmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a file and everything on it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
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

	if !p.DeleteFile(args[0]) {
		return fmt.Errorf("rm: %w: %q", board.ErrNoSuchFile, args[0])
	}
	s.printer.Info(fmt.Sprintf("deleted %s", args[0]))
	return s.save(ctx, p)
}

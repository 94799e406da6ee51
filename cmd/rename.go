package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a file",
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
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

	if err := p.RenameFile(args[0], args[1]); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	s.printer.Info(fmt.Sprintf("renamed %s to %s", args[0], args[1]))
	return s.save(ctx, p)
}

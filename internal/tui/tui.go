package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program for the model. The program uses the
// alternate screen buffer and reports mouse motion while a button is held.
func NewProgram(model AppModel, opts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
	allOpts = append(allOpts, opts...)

	return tea.NewProgram(model, allOpts...)
}

// Run runs p until it exits and returns the final model.
func Run(p *Program) (AppModel, error) {
	final, err := p.Run()
	if err != nil {
		return AppModel{}, fmt.Errorf("TUI error: %w", err)
	}
	m, ok := final.(AppModel)
	if !ok {
		return AppModel{}, fmt.Errorf("TUI error: unexpected model %T", final)
	}
	return m, nil
}

// WithOutput returns a program option that directs TUI output to the given writer.
// Useful for testing or redirecting output.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}

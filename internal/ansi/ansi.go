// Package ansi holds the SGR codes the CLI printer colors its lines with, and
// the means to drop them when output is not a terminal.
package ansi

import (
	"io"
	"os"
	"regexp"

	"github.com/mattn/go-isatty"
)

// SGR codes.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

var sgr = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Strip returns s without SGR sequences.
func Strip(s string) string {
	return sgr.ReplaceAllString(s, "")
}

// Plain wraps w so that SGR sequences written through it are dropped. A
// sequence split across two writes passes through.
func Plain(w io.Writer) io.Writer {
	return plainWriter{w: w}
}

type plainWriter struct {
	w io.Writer
}

func (p plainWriter) Write(b []byte) (int, error) {
	if _, err := p.w.Write(sgr.ReplaceAll(b, nil)); err != nil {
		return 0, err
	}
	return len(b), nil
}

// IsTerminal reports whether w is a terminal that should get colors. Setting
// NO_COLOR turns colors off everywhere.
func IsTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

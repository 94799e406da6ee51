// Package ui prints user-facing status lines for the kouan CLI. Output goes
// to stderr so that stdout stays clean for exported data.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/kouan/internal/ansi"
	"github.com/papapumpkin/kouan/internal/board"
)

// Printer writes colored status lines.
type Printer struct {
	w       io.Writer
	verbose bool
}

// New returns a Printer writing to stderr.
func New() *Printer {
	return NewWriter(os.Stderr)
}

// NewWriter returns a Printer writing to w. Colors are dropped unless w is a
// terminal.
func NewWriter(w io.Writer) *Printer {
	if !ansi.IsTerminal(w) {
		w = ansi.Plain(w)
	}
	return &Printer{w: w}
}

// SetVerbose enables Debug output.
func (p *Printer) SetVerbose(v bool) { p.verbose = v }

// Banner prints the kouan title box.
func (p *Printer) Banner() {
	fmt.Fprintln(p.w, ansi.Bold+ansi.Yellow+"  ┌──────────────────────────────┐"+ansi.Reset)
	fmt.Fprintln(p.w, ansi.Bold+ansi.Yellow+"  │"+ansi.Reset+ansi.Bold+"   KOUAN  "+ansi.Dim+"storyboard editor"+ansi.Reset+ansi.Bold+ansi.Yellow+"   │"+ansi.Reset)
	fmt.Fprintln(p.w, ansi.Bold+ansi.Yellow+"  └──────────────────────────────┘"+ansi.Reset)
	fmt.Fprintln(p.w)
}

// Error prints msg as an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, ansi.Red+ansi.Bold+"error: "+ansi.Reset+"%s\n", msg)
}

// Warn prints msg as a warning line.
func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, ansi.Yellow+ansi.Bold+"⚠ "+ansi.Reset+"%s\n", msg)
}

// Info prints msg dimmed.
func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.w, ansi.Dim+"%s"+ansi.Reset+"\n", msg)
}

// Debug prints msg only in verbose mode.
func (p *Printer) Debug(msg string) {
	if p.verbose {
		fmt.Fprintf(p.w, ansi.Dim+"· %s"+ansi.Reset+"\n", msg)
	}
}

// Saved reports a completed write of the project state.
func (p *Printer) Saved(path string, size int64, files int) {
	fmt.Fprintf(p.w, ansi.Green+"✓ saved"+ansi.Reset+" %s "+ansi.Dim+"(%d file(s), %s)"+ansi.Reset+"\n",
		path, files, humanize.Bytes(uint64(max(size, 0))))
}

// LoadReport summarizes a project load, listing every skipped element.
func (p *Printer) LoadReport(path string, rep board.LoadReport) {
	fmt.Fprintf(p.w, ansi.Cyan+"◆ loaded"+ansi.Reset+" %s "+ansi.Dim+"(%d file(s), %d layer(s), %d element(s))"+ansi.Reset+"\n",
		path, rep.Files, rep.Layers, rep.Elements)
	if rep.Scale != 1 {
		p.Warn(fmt.Sprintf("legacy state: positions scaled by %g once", rep.Scale))
	}
	for from, to := range rep.Renamed {
		p.Warn(fmt.Sprintf("duplicate file name %q loaded as %q", from, to))
	}
	if len(rep.Skipped) == 0 {
		return
	}
	p.Warn(fmt.Sprintf("%d element(s) could not be restored:", len(rep.Skipped)))
	for _, s := range rep.Skipped {
		fmt.Fprintf(p.w, "  "+ansi.Red+"• "+ansi.Reset+"%s\n", s)
	}
}

// FileRow is one line of a file listing.
type FileRow struct {
	Name     string
	Layers   int
	Elements int
}

// FileList prints the files of a project with their sizes.
func (p *Printer) FileList(path string, size int64, modified time.Time, rows []FileRow) {
	fmt.Fprintf(p.w, ansi.Bold+"%s"+ansi.Reset+ansi.Dim+"  %s, saved %s"+ansi.Reset+"\n",
		path, humanize.Bytes(uint64(max(size, 0))), humanize.Time(modified))
	if len(rows) == 0 {
		fmt.Fprintln(p.w, ansi.Dim+"  (no files)"+ansi.Reset)
		return
	}
	for _, r := range rows {
		fmt.Fprintf(p.w, "  "+ansi.Cyan+"%-*s"+ansi.Reset+" %s, %s\n",
			board.DefaultTruncate, board.Truncate(r.Name, board.DefaultTruncate),
			plural(r.Layers, "layer"), plural(r.Elements, "element"))
	}
}

// MissingImage is one image element whose source no longer resolves.
type MissingImage struct {
	File, Layer, Source string
	Err                 error
}

// CheckResult prints the outcome of an image check.
func (p *Printer) CheckResult(checked int, missing []MissingImage) {
	if len(missing) == 0 {
		fmt.Fprintf(p.w, ansi.Green+ansi.Bold+"✓ %s"+ansi.Reset+" all resolve\n", plural(checked, "image"))
		return
	}
	fmt.Fprintf(p.w, ansi.Red+ansi.Bold+"✗ %d of %s"+ansi.Reset+" unavailable:\n", len(missing), plural(checked, "image"))
	for _, m := range missing {
		fmt.Fprintf(p.w, "  "+ansi.Red+"• "+ansi.Reset+"%s/%s: %s "+ansi.Dim+"(%v)"+ansi.Reset+"\n", m.File, m.Layer, m.Source, m.Err)
	}
}

// Exported reports a written export.
func (p *Printer) Exported(path string, size int64) {
	fmt.Fprintf(p.w, ansi.Green+"✓ exported"+ansi.Reset+" %s "+ansi.Dim+"(%s)"+ansi.Reset+"\n", path, humanize.Bytes(uint64(max(size, 0))))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/config"
	"github.com/papapumpkin/kouan/internal/imaging"
	"github.com/papapumpkin/kouan/internal/store"
	"github.com/papapumpkin/kouan/internal/telemetry"
	"github.com/papapumpkin/kouan/internal/ui"
)

// session bundles what every subcommand needs to read or change a project.
type session struct {
	cfg     config.Config
	printer *ui.Printer
	store   store.Store
	images  *imaging.Prober
	tel     *telemetry.Emitter
}

// openSession loads configuration and opens the configured store. Relative
// image sources resolve against the state file's directory.
func openSession(ctx context.Context, out io.Writer) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.Open(ctx, cfg.Store.Backend, cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	s := &session{
		cfg:     cfg,
		printer: ui.NewWriter(out),
		store:   st,
		images:  imaging.NewProber(filepath.Dir(cfg.StatePath)),
	}
	s.printer.SetVerbose(cfg.Verbose)
	s.printer.Debug(fmt.Sprintf("%s store at %s", cfg.Store.Backend, cfg.StatePath))
	if cfg.Telemetry.Path != "" {
		tel, err := telemetry.NewEmitter(cfg.Telemetry.Path)
		if err != nil {
			s.printer.Warn(fmt.Sprintf("telemetry disabled: %v", err))
		} else {
			s.tel = tel
		}
	}
	return s, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.printer.Warn(err.Error())
	}
	_ = s.tel.Close()
}

// load reads and decodes the project. Nothing saved yet yields an empty
// project; a state that cannot be read is an error.
func (s *session) load(ctx context.Context) (*board.Project, board.LoadReport, error) {
	st, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.tel.Record(telemetry.KindLoad, "", map[string]any{"path": s.store.Location(), "fresh": true})
		return board.NewProject(board.WithFlushHook(s.flushed)), board.LoadReport{Scale: 1}, nil
	case err != nil:
		s.tel.Record(telemetry.KindLoadFailed, "", map[string]string{"path": s.store.Location(), "error": err.Error()})
		return nil, board.LoadReport{}, fmt.Errorf("failed to load %s: %w", s.store.Location(), err)
	}

	p, rep := board.Decode(st, board.DecodeEnv{
		Images:      s.images,
		LegacyScale: s.cfg.LegacyScale,
	}, board.WithFlushHook(s.flushed))

	s.tel.Record(telemetry.KindLoad, "", map[string]any{
		"path":     s.store.Location(),
		"version":  st.Version,
		"files":    rep.Files,
		"elements": rep.Elements,
		"skipped":  len(rep.Skipped),
	})
	for _, sk := range rep.Skipped {
		s.tel.Record(telemetry.KindSkipElement, sk.File, map[string]any{
			"layer": sk.Layer,
			"index": sk.Index,
			"type":  sk.Kind,
			"error": sk.Err.Error(),
		})
	}
	return p, rep, nil
}

// loadOrFresh is load for the board, which starts regardless. State that
// cannot be read is copied aside to <path>.bad, reported, and replaced by an
// empty project. Other commands keep the strict load so they never replace
// state they could not read.
func (s *session) loadOrFresh(ctx context.Context) (*board.Project, board.LoadReport) {
	p, rep, err := s.load(ctx)
	if err == nil {
		return p, rep
	}
	s.printer.Warn(fmt.Sprintf("%v; starting with an empty project", err))
	if bad, cerr := keepAside(s.store.Location()); cerr != nil {
		s.printer.Warn(fmt.Sprintf("could not keep a copy of the unreadable state: %v", cerr))
	} else if bad != "" {
		s.printer.Info(fmt.Sprintf("unreadable state copied to %s", bad))
	}
	return board.NewProject(board.WithFlushHook(s.flushed)), board.LoadReport{Scale: 1}
}

// keepAside copies path to path.bad and returns the copy's name, or "" when
// there is no file to copy.
func keepAside(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	bad := path + ".bad"
	if err := os.WriteFile(bad, data, 0o644); err != nil {
		return "", err
	}
	return bad, nil
}

// save flushes every dirty document and writes the whole state.
func (s *session) save(ctx context.Context, p *board.Project) error {
	p.FlushDirty()
	if err := s.store.Save(ctx, p.Snapshot()); err != nil {
		s.tel.Record(telemetry.KindSaveFailed, "", map[string]string{"error": err.Error()})
		return fmt.Errorf("failed to save %s: %w", s.store.Location(), err)
	}
	s.tel.Record(telemetry.KindSave, "", map[string]int{"files": p.Len()})
	s.printer.Saved(s.store.Location(), fileSize(s.store.Location()), p.Len())
	return nil
}

func (s *session) flushed(rec board.FileRecord) {
	s.tel.Record(telemetry.KindFlush, rec.FileID, map[string]any{
		"name":     rec.FileName,
		"layers":   len(rec.Layers),
		"elements": rec.ElementCount(),
	})
}

// report prints the load summary when it carries anything worth reading.
func (s *session) report(rep board.LoadReport) {
	if s.cfg.Verbose || len(rep.Skipped) > 0 || len(rep.Renamed) > 0 || rep.Scale != 1 {
		s.printer.LoadReport(s.store.Location(), rep)
	}
}

// commandContext returns the command's context, which is nil when a run
// function is called directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// fileSize returns the size of path, or 0 when it cannot be read. The
// sqlite backend keeps recent writes in a -wal file beside the database.
func fileSize(path string) int64 {
	var n int64
	for _, p := range []string{path, path + "-wal"} {
		if fi, err := os.Stat(p); err == nil {
			n += fi.Size()
		}
	}
	return n
}

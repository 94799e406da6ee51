package cmd

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/kouan/internal/autosave"
	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/store"
	"github.com/papapumpkin/kouan/internal/telemetry"
	"github.com/papapumpkin/kouan/internal/tui"
	"github.com/papapumpkin/kouan/internal/watch"
)

// ownWriteWindow covers the file events a single save produces.
const ownWriteWindow = time.Second

// finalSaveTimeout bounds the save that runs after the board closes.
const finalSaveTimeout = 10 * time.Second

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the storyboard",
	Long: `Open the project in the interactive board. Changes are flushed into the
project state as you work and written to disk by the autosave schedule, on
ctrl+s, and once more on exit.

When another process rewrites the state file and nothing is unsaved, the
project is reloaded.`,
	Args: cobra.NoArgs,
	RunE: runOpen,
}

func init() {
	openCmd.Flags().Bool("no-watch", false, "do not reload when the state file changes on disk")
	openCmd.Flags().String("export-dir", "", "directory suggested for PNG exports (default: cwd)")
	rootCmd.AddCommand(openCmd)
}

func isStderrTTY() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ownWrites marks every save as expected so the watcher does not report the
// session's own writes back to it.
type ownWrites struct {
	store.Store
	w *watch.Watcher
}

func (o ownWrites) Save(ctx context.Context, st board.State) error {
	o.w.Expect(ownWriteWindow)
	return o.Store.Save(ctx, st)
}

func runOpen(cmd *cobra.Command, _ []string) error {
	if !isStderrTTY() {
		return fmt.Errorf("kouan requires a TTY (terminal)")
	}

	ctx := commandContext(cmd)
	s, err := openSession(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	p, rep := s.loadOrFresh(ctx)
	s.report(rep)

	// prog is nil until the program exists and again once it has exited.
	var prog atomic.Pointer[tui.Program]
	send := func(msg any) {
		if tp := prog.Load(); tp != nil {
			tp.Send(msg)
		}
	}

	var st store.Store = s.store
	noWatch, _ := cmd.Flags().GetBool("no-watch")
	if s.cfg.Watch && !noWatch {
		w, err := startWatcher(s.store.Location())
		if err != nil {
			s.printer.Warn(fmt.Sprintf("watcher unavailable: %v", err))
		} else {
			defer w.Stop()
			st = ownWrites{Store: s.store, w: w}
			done := make(chan struct{})
			defer close(done)
			go func() {
				for {
					select {
					case ch := <-w.Changes:
						send(tui.MsgExternalChange{Change: ch})
					case <-done:
						return
					}
				}
			}()
		}
	}

	saver := autosave.NewSaver(st,
		autosave.WithMinInterval(s.cfg.Autosave.MinInterval),
		autosave.WithResultFunc(func(r autosave.Result) {
			if r.Err != nil {
				s.tel.Record(telemetry.KindSaveFailed, "", map[string]string{"error": r.Err.Error()})
			} else {
				s.tel.Record(telemetry.KindSave, "", map[string]any{"files": r.Files, "ms": r.Duration.Milliseconds()})
			}
			send(tui.MsgSaved{Result: r})
		}),
	)

	if spec := s.cfg.Autosave.Schedule; spec != "" {
		sched, err := autosave.NewSchedule(spec, func() { send(tui.MsgAutosave{}) })
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	exportDir, _ := cmd.Flags().GetString("export-dir")
	model := tui.NewAppModel(tui.Options{
		Project: p,
		Saver:   saver,
		Images:  s.images,
		Reload: func() (*board.Project, board.LoadReport, error) {
			s.images.Forget()
			return s.load(context.Background())
		},
		ExportDir:  exportDir,
		Telemetry:  s.tel,
		CellWidth:  s.cfg.View.CellWidth,
		CellHeight: s.cfg.View.CellHeight,
	})

	tp := tui.NewProgram(model)
	prog.Store(tp)
	final, tuiErr := tui.Run(tp)
	prog.Store(nil)

	project := p
	if final.Project != nil {
		project = final.Project
	}
	saveErr := finalSave(saver, project)
	if saveErr != nil {
		s.printer.Error(saveErr.Error())
	} else {
		s.printer.Saved(s.store.Location(), fileSize(s.store.Location()), project.Len())
	}

	if tuiErr != nil {
		return tuiErr
	}
	return saveErr
}

// finalSave writes the project one last time and stops the saver.
func finalSave(saver *autosave.Saver, p *board.Project) error {
	ctx, cancel := context.WithTimeout(context.Background(), finalSaveTimeout)
	defer cancel()

	p.FlushDirty()
	if err := saver.Flush(ctx, p.Snapshot()); err != nil {
		_ = saver.Stop(ctx)
		return fmt.Errorf("final save: %w", err)
	}
	if err := saver.Stop(ctx); err != nil {
		return fmt.Errorf("final save: %w", err)
	}
	return nil
}

func startWatcher(path string) (*watch.Watcher, error) {
	w, err := watch.NewWatcher(path)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

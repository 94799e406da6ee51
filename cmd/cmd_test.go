package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/store"
)

func TestSubcommands_Registered(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"open", "ls", "new", "rm", "rename", "export", "check", "log"} {
		if !names[want] {
			t.Errorf("expected %q subcommand to be registered on rootCmd", want)
		}
	}
}

func TestFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  *cobra.Command
		flag string
	}{
		{"root state", rootCmd, "state"},
		{"root backend", rootCmd, "backend"},
		{"root verbose", rootCmd, "verbose"},
		{"open no-watch", openCmd, "no-watch"},
		{"open export-dir", openCmd, "export-dir"},
		{"export format", exportCmd, "format"},
		{"export layer", exportCmd, "layer"},
		{"export out", exportCmd, "out"},
		{"export scale", exportCmd, "scale"},
		{"check jobs", checkCmd, "jobs"},
		{"log follow", logCmd, "follow"},
		{"log kind", logCmd, "kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := tt.cmd.Flags().Lookup(tt.flag)
			if f == nil {
				f = tt.cmd.PersistentFlags().Lookup(tt.flag)
			}
			if f == nil {
				t.Errorf("expected flag %q to be registered on %s", tt.flag, tt.cmd.Name())
			}
		})
	}
}

func TestOpen_RequiresTTY(t *testing.T) {
	if isStderrTTY() {
		t.Skip("stderr is a terminal")
	}
	err := runOpen(openCmd, nil)
	if err == nil {
		t.Fatal("expected error when not on a TTY")
	}
	if got := err.Error(); got != "kouan requires a TTY (terminal)" {
		t.Errorf("unexpected error: %q", got)
	}
}

// useState points the config at a fresh state file and sends command output
// to buffers. Not parallel: viper and the commands are shared.
func useState(t *testing.T) (path string, stdout, stderr *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	path = filepath.Join(dir, "project.toml")
	viper.Set("state_path", path)
	viper.Set("telemetry.path", filepath.Join(dir, "events.jsonl"))

	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	for _, c := range rootCmd.Commands() {
		c.SetOut(stdout)
		c.SetErr(stderr)
	}
	t.Cleanup(func() {
		viper.Set("state_path", nil)
		viper.Set("telemetry.path", nil)
		for _, c := range rootCmd.Commands() {
			c.SetOut(nil)
			c.SetErr(nil)
		}
	})
	return path, stdout, stderr
}

func loadNames(t *testing.T, path string) []string {
	t.Helper()
	st, err := store.NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var names []string
	for _, f := range st.Files {
		names = append(names, f.FileName)
	}
	return names
}

func TestFileCommands(t *testing.T) {
	path, _, stderr := useState(t)

	if err := runNew(newCmd, []string{"Pilot"}); err != nil {
		t.Fatalf("new Pilot: %v", err)
	}
	if err := runNew(newCmd, nil); err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := runNew(newCmd, []string{"Pilot"}); err != nil {
		t.Fatalf("new Pilot again: %v", err)
	}
	if got := strings.Join(loadNames(t, path), ","); got != "Pilot,Untitled_2,Pilot_1" {
		t.Errorf("names after new = %s", got)
	}

	if err := runRename(renameCmd, []string{"Untitled_2", "Finale"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := runRename(renameCmd, []string{"Finale", "Pilot"}); !errors.Is(err, board.ErrNameTaken) {
		t.Errorf("rename onto a taken name: err = %v, want ErrNameTaken", err)
	}
	if err := runRm(rmCmd, []string{"Pilot_1"}); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if err := runRm(rmCmd, []string{"Nope"}); !errors.Is(err, board.ErrNoSuchFile) {
		t.Errorf("rm missing: err = %v, want ErrNoSuchFile", err)
	}
	if got := strings.Join(loadNames(t, path), ","); got != "Pilot,Finale" {
		t.Errorf("names = %s, want Pilot,Finale", got)
	}

	stderr.Reset()
	if err := runLs(lsCmd, nil); err != nil {
		t.Fatalf("ls: %v", err)
	}
	for _, want := range []string{"Pilot", "Finale", "1 layer"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("ls output missing %q:\n%s", want, stderr.String())
		}
	}
}

func TestLs_NothingSaved(t *testing.T) {
	path, _, stderr := useState(t)

	if err := runLs(lsCmd, nil); err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(stderr.String(), "no files") {
		t.Errorf("ls output:\n%s", stderr.String())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("ls wrote the state file: %v", err)
	}
}

func TestLoad_CorruptStateFails(t *testing.T) {
	path, _, _ := useState(t)
	if err := os.WriteFile(path, []byte("version = [nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runLs(lsCmd, nil)
	if !errors.Is(err, store.ErrCorrupt) {
		t.Errorf("err = %v, want ErrCorrupt", err)
	}
}

func TestExportYAML(t *testing.T) {
	_, stdout, _ := useState(t)
	if err := runNew(newCmd, []string{"Pilot"}); err != nil {
		t.Fatal(err)
	}

	set := func(name, value string) {
		t.Helper()
		if err := exportCmd.Flags().Set(name, value); err != nil {
			t.Fatal(err)
		}
	}
	set("format", "yaml")
	defer set("format", formatPNG)

	if err := runExport(exportCmd, []string{"Pilot"}); err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, want := range []string{"file_name: Pilot", "name: Act 1"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("yaml missing %q:\n%s", want, stdout.String())
		}
	}

	if err := runExport(exportCmd, []string{"Nope"}); !errors.Is(err, board.ErrNoSuchFile) {
		t.Errorf("export missing file: err = %v", err)
	}
}

func TestExport_RejectsFormat(t *testing.T) {
	if err := exportCmd.Flags().Set("format", "gif"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = exportCmd.Flags().Set("format", formatPNG) }()

	err := runExport(exportCmd, []string{"Pilot"})
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("err = %v, want unknown format", err)
	}
}

func TestCheck_ReportsMissingImages(t *testing.T) {
	path, _, stderr := useState(t)

	good := filepath.Join(filepath.Dir(path), "good.png")
	writeTestPNG(t, good)
	st := board.State{Version: board.CurrentVersion, Files: []board.FileRecord{{
		FileID:   "f1",
		FileName: "Pilot",
		Layers: []board.LayerRecord{{
			Name: "Act 1",
			Elements: []board.ElementRecord{
				{Type: string(board.KindImageBox), SourcePath: ptr("good.png")},
				{Type: string(board.KindImageBox), SourcePath: ptr("gone.png")},
				{Type: string(board.KindNote)},
			},
		}},
	}}}
	if err := store.NewFileStore(path).Save(context.Background(), st); err != nil {
		t.Fatal(err)
	}

	err := runCheck(checkCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "1 image(s) unavailable") {
		t.Fatalf("err = %v, want one unavailable image", err)
	}
	if !strings.Contains(stderr.String(), "gone.png") || strings.Contains(stderr.String(), "good.png") {
		t.Errorf("check output:\n%s", stderr.String())
	}
}

func TestImageRefs_DefaultLayerName(t *testing.T) {
	t.Parallel()

	st := board.State{Files: []board.FileRecord{{
		FileName: "Pilot",
		Layers: []board.LayerRecord{{
			Elements: []board.ElementRecord{
				{Type: string(board.KindImageBox), SourcePath: ptr("a.png")},
				{Type: string(board.KindImageBox)},
			},
		}},
	}}}
	refs := imageRefs(st)
	if len(refs) != 1 {
		t.Fatalf("refs = %v, want 1", refs)
	}
	if refs[0] != (imageRef{file: "Pilot", layer: "Act 1", source: "a.png"}) {
		t.Errorf("ref = %+v", refs[0])
	}
}

func TestPNGName(t *testing.T) {
	t.Parallel()

	if got := pngName("Pilot", 2); got != "Pilot-2.png" {
		t.Errorf("pngName = %q", got)
	}
	if got := pngName("a"+string(os.PathSeparator)+"b", 1); got != "a_b-1.png" {
		t.Errorf("pngName with separator = %q", got)
	}
}

func ptr[T any](v T) *T { return &v }

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 2))); err != nil {
		t.Fatal(err)
	}
}

func TestLog_ReadsSessionTelemetry(t *testing.T) {
	_, stdout, _ := useState(t)
	if err := runNew(newCmd, []string{"Pilot"}); err != nil {
		t.Fatal(err)
	}

	if err := runLog(logCmd, nil); err != nil {
		t.Fatalf("log: %v", err)
	}
	for _, want := range []string{"load ", "fresh=true", "flush file=", "name=Pilot", "save "} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("log missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestPrintEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		kind string
		want string
	}{
		{
			name: "sorted data",
			line: `{"ts":"2026-03-01T09:30:00Z","kind":"save","data":{"ms":3,"files":2}}`,
			want: "[2026-03-01 09:30:00] save files=2 ms=3\n",
		},
		{
			name: "file",
			line: `{"ts":"2026-03-01T09:30:00Z","kind":"flush","file":"f1"}`,
			want: "[2026-03-01 09:30:00] flush file=f1\n",
		},
		{
			name: "filtered out",
			line: `{"ts":"2026-03-01T09:30:00Z","kind":"flush"}`,
			kind: "save",
			want: "",
		},
		{
			name: "garbage",
			line: "not json",
			want: "??? not json\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var b bytes.Buffer
			printEvent(&b, tt.line, tt.kind)
			if b.String() != tt.want {
				t.Errorf("printEvent = %q, want %q", b.String(), tt.want)
			}
		})
	}
}

func TestLoadOrFresh_KeepsUnreadableStateAside(t *testing.T) {
	path, _, stderr := useState(t)
	if err := os.WriteFile(path, []byte("version = [nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	s, err := openSession(ctx, stderr)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	p, rep := s.loadOrFresh(ctx)
	if p.Len() != 0 || rep.Files != 0 {
		t.Errorf("project has %d files, want an empty project", p.Len())
	}
	data, err := os.ReadFile(path + ".bad")
	if err != nil {
		t.Fatalf("unreadable state not kept: %v", err)
	}
	if string(data) != "version = [nope" {
		t.Errorf(".bad content = %q", data)
	}
	if !strings.Contains(stderr.String(), "starting with an empty project") {
		t.Errorf("no warning printed:\n%s", stderr.String())
	}
}

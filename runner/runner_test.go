package runner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/ardnew/chaintool/lang"
	"github.com/ardnew/chaintool/store"
)

type execRecorder struct {
	cmdlines []string
	fail     map[string]error
}

func (e *execRecorder) exec(_ context.Context, cmdline string) error {
	e.cmdlines = append(e.cmdlines, cmdline)

	for prefix, err := range e.fail {
		if strings.HasPrefix(cmdline, prefix) {
			return err
		}
	}

	return nil
}

func newTestRunner(t *testing.T) (*Runner, *execRecorder, *strings.Builder) {
	t.Helper()

	st, err := store.New(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	rec := &execRecorder{fail: make(map[string]error)}

	var out strings.Builder

	r := New(st)
	r.Out = &out
	r.Err = &out
	r.Exec = rec.exec

	return r, rec, &out
}

func saveCommand(t *testing.T, st *store.Store, name, cmdline string) {
	t.Helper()

	cmd, err := store.NewCommand(name, cmdline)
	if err != nil {
		t.Fatalf("new command: %v", err)
	}

	if err := st.SaveCommand(cmd, true); err != nil {
		t.Fatalf("save command: %v", err)
	}
}

func saveSequence(t *testing.T, st *store.Store, name string, commands ...string) {
	t.Helper()

	err := st.SaveSequence(&store.Sequence{Name: name, Commands: commands}, true)
	if err != nil {
		t.Fatalf("save sequence: %v", err)
	}
}

func TestRunCommand_Resolved(t *testing.T) {
	r, rec, out := newTestRunner(t)
	saveCommand(t, r.Store, "build", "gcc -O{level=2} {file}")

	vals := lang.NewValueMap()
	vals.Set("file", "main.c")

	if err := r.RunCommand(context.Background(), "build", vals); err != nil {
		t.Fatalf("run error: %v", err)
	}

	if len(rec.cmdlines) != 1 || rec.cmdlines[0] != "gcc -O2 main.c" {
		t.Errorf("unexpected exec: %v", rec.cmdlines)
	}

	if !strings.Contains(out.String(), "gcc -O2 main.c") {
		t.Errorf("resolved cmdline not echoed: %q", out.String())
	}
}

func TestRunCommand_Unresolved(t *testing.T) {
	r, rec, _ := newTestRunner(t)
	saveCommand(t, r.Store, "build", "gcc {file} {out}")

	err := r.RunCommand(context.Background(), "build", lang.NewValueMap())
	if !errors.Is(err, lang.ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}

	var unresolved *lang.UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected *UnresolvedError, got %T", err)
	}

	if len(unresolved.Names) != 2 {
		t.Errorf("expected both names reported, got %v", unresolved.Names)
	}

	if len(rec.cmdlines) != 0 {
		t.Errorf("nothing should spawn on unresolved placeholders: %v", rec.cmdlines)
	}
}

func TestRunCommand_EnvTool(t *testing.T) {
	r, rec, _ := newTestRunner(t)
	saveCommand(t, r.Store, "setdir", "chaintool-env dir={dirname/f}")

	vals := lang.NewValueMap()
	vals.Set("f", "/home/bob/foo.txt")

	if err := r.RunCommand(context.Background(), "setdir", vals); err != nil {
		t.Fatalf("run error: %v", err)
	}

	if v, _ := vals.Value("dir"); v != "/home/bob" {
		t.Errorf("expected dir=/home/bob, got %q", v)
	}

	if len(rec.cmdlines) != 0 {
		t.Errorf("env tool must not spawn a process: %v", rec.cmdlines)
	}
}

func TestRunCommand_CopyTool(t *testing.T) {
	r, rec, _ := newTestRunner(t)
	saveCommand(t, r.Store, "stash", "chaintool-copy {src} {src}.bak")

	if err := afero.WriteFile(r.Fs, "/a.txt", []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	vals := lang.NewValueMap()
	vals.Set("src", "/a.txt")

	if err := r.RunCommand(context.Background(), "stash", vals); err != nil {
		t.Fatalf("run error: %v", err)
	}

	if ok, _ := afero.Exists(r.Fs, "/a.txt.bak"); !ok {
		t.Error("expected copy destination to exist")
	}

	if len(rec.cmdlines) != 0 {
		t.Errorf("copy tool must not spawn a process: %v", rec.cmdlines)
	}
}

func TestRunCommand_QuotedVirtualArgs(t *testing.T) {
	r, _, _ := newTestRunner(t)
	saveCommand(t, r.Store, "del", `chaintool-del "{path}"`)

	if err := afero.WriteFile(r.Fs, "/with space.txt", []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	vals := lang.NewValueMap()
	vals.Set("path", "/with space.txt")

	if err := r.RunCommand(context.Background(), "del", vals); err != nil {
		t.Fatalf("run error: %v", err)
	}

	if ok, _ := afero.Exists(r.Fs, "/with space.txt"); ok {
		t.Error("expected quoted path deleted as one argument")
	}
}

func TestRunSequence_Order(t *testing.T) {
	r, rec, _ := newTestRunner(t)
	saveCommand(t, r.Store, "one", "echo one")
	saveCommand(t, r.Store, "two", "echo two")
	saveCommand(t, r.Store, "three", "echo three")
	saveSequence(t, r.Store, "all", "one", "two", "three")

	err := r.RunSequence(context.Background(), "all", lang.NewValueMap(), SeqOptions{})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	want := []string{"echo one", "echo two", "echo three"}
	if len(rec.cmdlines) != len(want) {
		t.Fatalf("expected %v, got %v", want, rec.cmdlines)
	}

	for i := range want {
		if rec.cmdlines[i] != want[i] {
			t.Errorf("expected %v, got %v", want, rec.cmdlines)
		}
	}
}

func TestRunSequence_AbortsOnFailure(t *testing.T) {
	r, rec, _ := newTestRunner(t)
	saveCommand(t, r.Store, "one", "echo one")
	saveCommand(t, r.Store, "boom", "false now")
	saveCommand(t, r.Store, "two", "echo two")
	saveSequence(t, r.Store, "all", "one", "boom", "two")

	rec.fail["false"] = errors.New("exit status 1")

	err := r.RunSequence(context.Background(), "all", lang.NewValueMap(), SeqOptions{})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(rec.cmdlines) != 2 {
		t.Errorf("expected abort after failure, got %v", rec.cmdlines)
	}
}

func TestRunSequence_IgnoreErrors(t *testing.T) {
	r, rec, _ := newTestRunner(t)
	saveCommand(t, r.Store, "one", "echo one")
	saveCommand(t, r.Store, "boom", "false now")
	saveCommand(t, r.Store, "two", "echo two")
	saveSequence(t, r.Store, "all", "one", "boom", "two")

	rec.fail["false"] = errors.New("exit status 1")

	err := r.RunSequence(
		context.Background(), "all", lang.NewValueMap(),
		SeqOptions{IgnoreErrors: true},
	)
	if err == nil {
		t.Fatal("expected first failure reported after the run")
	}

	if len(rec.cmdlines) != 3 {
		t.Errorf("expected all commands attempted, got %v", rec.cmdlines)
	}
}

func TestRunSequence_Skip(t *testing.T) {
	r, rec, _ := newTestRunner(t)
	saveCommand(t, r.Store, "one", "echo one")
	saveCommand(t, r.Store, "two", "echo two")
	saveSequence(t, r.Store, "all", "one", "two")

	err := r.RunSequence(
		context.Background(), "all", lang.NewValueMap(),
		SeqOptions{Skip: []string{"one"}},
	)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if len(rec.cmdlines) != 1 || rec.cmdlines[0] != "echo two" {
		t.Errorf("expected only two to run, got %v", rec.cmdlines)
	}
}

func TestRunSequence_EnvFeedsLaterCommands(t *testing.T) {
	r, rec, _ := newTestRunner(t)
	saveCommand(t, r.Store, "setup", "chaintool-env out={stem/src}.o")
	saveCommand(t, r.Store, "link", "ld -o {out}")
	saveSequence(t, r.Store, "build", "setup", "link")

	vals := lang.NewValueMap()
	vals.Set("src", "main.c")

	err := r.RunSequence(context.Background(), "build", vals, SeqOptions{})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if len(rec.cmdlines) != 1 || rec.cmdlines[0] != "ld -o main.o" {
		t.Errorf("expected env value to flow into link, got %v", rec.cmdlines)
	}
}

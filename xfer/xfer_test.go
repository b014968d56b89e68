package xfer

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/ardnew/chaintool/lang"
	"github.com/ardnew/chaintool/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	return st
}

func save(t *testing.T, st *store.Store, name, cmdline string) {
	t.Helper()

	cmd, err := store.NewCommand(name, cmdline)
	if err != nil {
		t.Fatalf("new command: %v", err)
	}

	if err := st.SaveCommand(cmd, true); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := newTestStore(t)
	save(t, src, "build", "gcc -O{level=2} {file}")
	save(t, src, "clean", "rm -f {+all=:-r} out")

	seq := &store.Sequence{Name: "release", Commands: []string{"build", "clean"}}
	if err := src.SaveSequence(seq, false); err != nil {
		t.Fatalf("save sequence: %v", err)
	}

	var doc strings.Builder
	if err := Export(src, &doc, nil, nil); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newTestStore(t)
	if err := Import(dst, strings.NewReader(doc.String()), false); err != nil {
		t.Fatalf("import: %v", err)
	}

	cmd, err := dst.Command("build")
	if err != nil {
		t.Fatalf("load imported command: %v", err)
	}

	if cmd.Cmdline != "gcc -O{level=2} {file}" {
		t.Errorf("unexpected cmdline: %q", cmd.Cmdline)
	}

	loaded, err := dst.Sequence("release")
	if err != nil {
		t.Fatalf("load imported sequence: %v", err)
	}

	if len(loaded.Commands) != 2 || loaded.Commands[0] != "build" {
		t.Errorf("unexpected sequence: %+v", loaded)
	}
}

func TestExport_Selected(t *testing.T) {
	st := newTestStore(t)
	save(t, st, "keep", "echo keep")
	save(t, st, "drop", "echo drop")

	var doc strings.Builder
	if err := Export(st, &doc, []string{"keep"}, nil); err != nil {
		t.Fatalf("export: %v", err)
	}

	if strings.Contains(doc.String(), "echo drop") {
		t.Errorf("unselected command exported: %q", doc.String())
	}

	if !strings.Contains(doc.String(), "echo keep") {
		t.Errorf("selected command missing: %q", doc.String())
	}
}

func TestImport_ValidatesBeforeWriting(t *testing.T) {
	st := newTestStore(t)

	// One valid command followed by one with a parse error: neither may be
	// written.
	doc := strings.Join([]string{
		"commands:",
		"  - name: good",
		"    cmdline: echo {x=1}",
		"  - name: bad",
		"    cmdline: echo {1bad}",
	}, "\n")

	err := Import(st, strings.NewReader(doc), false)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	if !errors.Is(err, lang.ErrBadName) {
		t.Errorf("expected parse failure in chain, got %v", err)
	}

	if st.HasCommand("good") {
		t.Error("valid item written despite failed validation")
	}
}

func TestImport_ExistingWithoutOverwrite(t *testing.T) {
	st := newTestStore(t)
	save(t, st, "build", "echo old")

	doc := strings.Join([]string{
		"commands:",
		"  - name: build",
		"    cmdline: echo new",
	}, "\n")

	err := Import(st, strings.NewReader(doc), false)
	if !errors.Is(err, store.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	cmd, err := st.Command("build")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cmd.Cmdline != "echo old" {
		t.Errorf("existing command modified: %q", cmd.Cmdline)
	}

	if err := Import(st, strings.NewReader(doc), true); err != nil {
		t.Fatalf("overwrite import: %v", err)
	}

	cmd, err = st.Command("build")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	if cmd.Cmdline != "echo new" {
		t.Errorf("expected overwritten cmdline, got %q", cmd.Cmdline)
	}
}

func TestImport_NameConflict(t *testing.T) {
	st := newTestStore(t)

	seq := &store.Sequence{Name: "deploy", Commands: []string{"a"}}
	if err := st.SaveSequence(seq, false); err != nil {
		t.Fatalf("save sequence: %v", err)
	}

	doc := strings.Join([]string{
		"commands:",
		"  - name: deploy",
		"    cmdline: echo hi",
	}, "\n")

	err := Import(st, strings.NewReader(doc), true)
	if !errors.Is(err, store.ErrNameConflict) {
		t.Errorf("expected ErrNameConflict, got %v", err)
	}
}

func TestImport_DuplicateWithinArchive(t *testing.T) {
	st := newTestStore(t)

	doc := strings.Join([]string{
		"commands:",
		"  - name: twice",
		"    cmdline: echo one",
		"sequences:",
		"  - name: twice",
		"    commands: [a]",
	}, "\n")

	if err := Import(st, strings.NewReader(doc), false); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestImport_MalformedDocument(t *testing.T) {
	st := newTestStore(t)

	err := Import(st, strings.NewReader("commands: {not a list"), false)
	if !errors.Is(err, ErrBadArchive) {
		t.Errorf("expected ErrBadArchive, got %v", err)
	}
}

package lang

import (
	"errors"
	"testing"
)

func TestParseRunArgs(t *testing.T) {
	args, err := ParseRunArgs([]string{"file=a.txt", "+verbose", "level=0"})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}

	if args[0].Name != "file" || args[0].Value != "a.txt" || args[0].Toggle {
		t.Errorf("unexpected arg: %+v", args[0])
	}

	if args[1].Name != "verbose" || !args[1].Toggle {
		t.Errorf("unexpected arg: %+v", args[1])
	}
}

func TestParseRunArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{name: "bare name without value", arg: "file"},
		{name: "toggle with value", arg: "+verbose=on"},
		{name: "toggle with pair", arg: "+verbose=a:b"},
		{name: "bad name", arg: "1file=x"},
		{name: "bad toggle name", arg: "+1v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRunArgs([]string{tt.arg}); !errors.Is(err, ErrBadRunArg) {
				t.Errorf("expected ErrBadRunArg, got %v", err)
			}
		})
	}
}

func TestBindRunArgs(t *testing.T) {
	args, err := ParseRunArgs([]string{"a=1", "+v", "a=2"})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	vals := BindRunArgs(args)

	// Later assignment wins.
	if v, _ := vals.Value("a"); v != "2" {
		t.Errorf("expected a=2, got %q", v)
	}

	if !vals.Activated("v") {
		t.Error("expected v activated")
	}
}

func TestIrrelevantRunArgs(t *testing.T) {
	commands := []NamedCommand{
		{Name: "build", Parsed: MustParse("gcc {file} {+dbg=:-g}")},
		{Name: "clean", Parsed: MustParse("rm -f {file=out}")},
	}

	args, err := ParseRunArgs([]string{"file=a.c", "+dbg", "+other", "extra=1"})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	unused := IrrelevantRunArgs(args, commands)

	want := []string{"+other", "extra"}
	if len(unused) != len(want) {
		t.Fatalf("expected %v, got %v", want, unused)
	}

	for i := range want {
		if unused[i] != want[i] {
			t.Errorf("expected %v, got %v", want, unused)
		}
	}
}

func TestParseValsArgs(t *testing.T) {
	args, err := ParseValsArgs([]string{"a=1", "b", "+v=off:on", "+w=:x"})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if args[0].Name != "a" || args[0].Clear || args[0].Value != "1" {
		t.Errorf("unexpected arg: %+v", args[0])
	}

	if args[1].Name != "b" || !args[1].Clear {
		t.Errorf("unexpected arg: %+v", args[1])
	}

	if args[2].Name != "v" || !args[2].Toggle ||
		args[2].Off != "off" || args[2].On != "on" {
		t.Errorf("unexpected arg: %+v", args[2])
	}

	if args[3].Off != "" || args[3].On != "x" {
		t.Errorf("unexpected arg: %+v", args[3])
	}
}

func TestParseValsArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{name: "bare toggle", arg: "+v"},
		{name: "toggle without colon", arg: "+v=on"},
		{name: "bad name", arg: "9x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseValsArgs([]string{tt.arg}); !errors.Is(err, ErrBadValsArg) {
				t.Errorf("expected ErrBadValsArg, got %v", err)
			}
		})
	}
}

func TestApplyVals(t *testing.T) {
	pc := MustParse("gcc -O{level=2} {file} {stem/file}.o {+dbg=:-g}")

	args, err := ParseValsArgs([]string{
		"level",        // clear default: becomes required
		"file=main.c",  // set default: becomes optional
		"+dbg=:-ggdb3", // replace toggle pair
		"other=1",      // not used by this command: ignored
	})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if err := pc.ApplyVals(args); err != nil {
		t.Fatalf("apply error: %v", err)
	}

	want := "gcc -O{level} {file=main.c} {stem/file=main.c}.o {+dbg=:-ggdb3}"
	if pc.Cmdline != want {
		t.Errorf("expected %q, got %q", want, pc.Cmdline)
	}

	if got := pc.Required(); len(got) != 1 || got[0] != "level" {
		t.Errorf("expected required [level], got %v", got)
	}

	// Mutated form must still parse cleanly.
	if _, err := Parse(pc.Cmdline); err != nil {
		t.Errorf("mutated cmdline does not parse: %v", err)
	}
}

func TestApplyVals_KindMismatch(t *testing.T) {
	pc := MustParse("make {+verbose=:V=1}")

	args, err := ParseValsArgs([]string{"verbose=yes"})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if err := pc.ApplyVals(args); !errors.Is(err, ErrToggleCollision) {
		t.Errorf("expected ErrToggleCollision, got %v", err)
	}
}

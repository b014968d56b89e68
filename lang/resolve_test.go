package lang

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		values  map[string]string
		toggles []string
		want    string
	}{
		{
			name:    "literal passthrough",
			cmdline: "echo hello",
			want:    "echo hello",
		},
		{
			name:    "runtime value",
			cmdline: "cat {file}",
			values:  map[string]string{"file": "a.txt"},
			want:    "cat a.txt",
		},
		{
			name:    "default fallback",
			cmdline: "gcc -O{level=2}",
			want:    "gcc -O2",
		},
		{
			name:    "runtime value beats default",
			cmdline: "gcc -O{level=2}",
			values:  map[string]string{"level": "0"},
			want:    "gcc -O0",
		},
		{
			name:    "toggle off by default",
			cmdline: "make {+verbose=:V=1}",
			want:    "make ",
		},
		{
			name:    "toggle on when activated",
			cmdline: "make {+verbose=:V=1}",
			toggles: []string{"verbose"},
			want:    "make V=1",
		},
		{
			name:    "modifiers per occurrence",
			cmdline: "cp {src} {dirname/src}/bak/{basename/src}",
			values:  map[string]string{"src": "/home/bob/foo.txt"},
			want:    "cp /home/bob/foo.txt /home/bob/bak/foo.txt",
		},
		{
			name:    "collapsed braces substitute literally",
			cmdline: "awk '{{print $1}}' {file=in.txt}",
			want:    "awk '{print $1}' in.txt",
		},
		{
			name:    "empty runtime value",
			cmdline: "run {flags} now",
			values:  map[string]string{"flags": ""},
			want:    "run  now",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals := NewValueMap()
			for k, v := range tt.values {
				vals.Set(k, v)
			}

			for _, name := range tt.toggles {
				vals.Activate(name)
			}

			got, err := Resolve(MustParse(tt.cmdline), vals)
			if err != nil {
				t.Fatalf("resolve error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolve_Unresolved(t *testing.T) {
	// All missing names report at once, deduplicated, in first-occurrence
	// order.
	pc := MustParse("cmd {a} {b=1} {c} {a} {d}")

	vals := NewValueMap()
	vals.Set("d", "x")

	_, err := Resolve(pc, vals)
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}

	var unresolved *UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected *UnresolvedError, got %T", err)
	}

	want := []string{"a", "c"}
	if len(unresolved.Names) != len(want) {
		t.Fatalf("expected %v, got %v", want, unresolved.Names)
	}

	for i := range want {
		if unresolved.Names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, unresolved.Names)
		}
	}
}

func TestValueMap_SetIfUnset(t *testing.T) {
	vals := NewValueMap()
	vals.Set("a", "1")

	if vals.SetIfUnset("a", "2") {
		t.Error("SetIfUnset overwrote an existing entry")
	}

	if !vals.SetIfUnset("b", "3") {
		t.Error("SetIfUnset refused a fresh entry")
	}

	if v, _ := vals.Value("a"); v != "1" {
		t.Errorf("expected a=1, got %q", v)
	}
}

func TestValueMap_Clone(t *testing.T) {
	vals := NewValueMap()
	vals.Set("a", "1")
	vals.Activate("v")

	clone := vals.Clone()
	clone.Set("a", "2")
	clone.Activate("w")

	if v, _ := vals.Value("a"); v != "1" {
		t.Errorf("clone mutated original: a=%q", v)
	}

	if vals.Activated("w") {
		t.Error("clone mutated original toggles")
	}

	if !clone.Activated("v") {
		t.Error("clone lost activated toggle")
	}
}

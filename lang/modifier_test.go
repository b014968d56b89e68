package lang

import "testing"

func TestApplyModifiers(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		modifiers []string
		want      string
	}{
		{
			name:      "no modifiers",
			value:     "/home/bob/foo.txt",
			modifiers: nil,
			want:      "/home/bob/foo.txt",
		},
		{
			name:      "dirname",
			value:     "/home/bob/foo.txt",
			modifiers: []string{"dirname"},
			want:      "/home/bob",
		},
		{
			name:      "basename",
			value:     "/home/bob/foo.txt",
			modifiers: []string{"basename"},
			want:      "foo.txt",
		},
		{
			name:      "stem",
			value:     "/home/bob/foo.txt",
			modifiers: []string{"stem"},
			want:      "/home/bob/foo",
		},
		{
			name:      "chain applies right to left",
			value:     "/home/bob/foo.txt",
			modifiers: []string{"basename", "stem"},
			want:      "foo",
		},
		{
			name:      "stem then basename differs",
			value:     "/home/bob/foo.txt",
			modifiers: []string{"stem", "basename"},
			want:      "foo",
		},
		{
			name:      "dirname without separator",
			value:     "foo.txt",
			modifiers: []string{"dirname"},
			want:      "",
		},
		{
			name:      "basename without separator",
			value:     "foo.txt",
			modifiers: []string{"basename"},
			want:      "foo.txt",
		},
		{
			name:      "stem without extension",
			value:     "/home/bob/foo",
			modifiers: []string{"stem"},
			want:      "/home/bob/foo",
		},
		{
			name:      "stem ignores dot in directory",
			value:     "/home/bob.d/foo",
			modifiers: []string{"stem"},
			want:      "/home/bob.d/foo",
		},
		{
			name:      "backslash separators",
			value:     `C:\src\main.go`,
			modifiers: []string{"basename"},
			want:      "main.go",
		},
		{
			name:      "dirname of dirname",
			value:     "/a/b/c",
			modifiers: []string{"dirname", "dirname"},
			want:      "/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyModifiers(tt.value, tt.modifiers); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestModifiers_Registry(t *testing.T) {
	want := []string{"basename", "dirname", "stem"}

	got := Modifiers()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

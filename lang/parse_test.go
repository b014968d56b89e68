package lang

import (
	"errors"
	"testing"
)

func TestParse_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "literal only",
			input: "echo hello",
			want: []Token{
				{Kind: KindLiteral, Text: "echo hello"},
			},
		},
		{
			name:  "required placeholder",
			input: "cat {file}",
			want: []Token{
				{Kind: KindLiteral, Text: "cat "},
				{Kind: KindPlaceholder, Name: "file", Offset: 4},
			},
		},
		{
			name:  "optional placeholder",
			input: "gcc -O{level=2}",
			want: []Token{
				{Kind: KindLiteral, Text: "gcc -O"},
				{Kind: KindPlaceholder, Name: "level", Default: ptr("2"), Offset: 6},
			},
		},
		{
			name:  "empty default",
			input: "run {flags=}",
			want: []Token{
				{Kind: KindLiteral, Text: "run "},
				{Kind: KindPlaceholder, Name: "flags", Default: ptr(""), Offset: 4},
			},
		},
		{
			name:  "toggle",
			input: "make {+verbose=:V=1}",
			want: []Token{
				{Kind: KindLiteral, Text: "make "},
				{Kind: KindToggle, Name: "verbose", Off: "", On: "V=1", Offset: 5},
			},
		},
		{
			name:  "modifier chain",
			input: "cd {basename/stem/src}",
			want: []Token{
				{Kind: KindLiteral, Text: "cd "},
				{
					Kind:      KindPlaceholder,
					Name:      "src",
					Modifiers: []string{"basename", "stem"},
					Offset:    3,
				},
			},
		},
		{
			name:  "doubled braces in literal text",
			input: "awk '{{print $1}}'",
			want: []Token{
				{Kind: KindLiteral, Text: "awk '{print $1}'"},
			},
		},
		{
			name:  "doubled braces in default value",
			input: "fmt {pat={{}}}",
			want: []Token{
				{Kind: KindLiteral, Text: "fmt "},
				{Kind: KindPlaceholder, Name: "pat", Default: ptr("{}"), Offset: 4},
			},
		},
		{
			name:  "adjacent placeholders",
			input: "{a}{b}",
			want: []Token{
				{Kind: KindPlaceholder, Name: "a"},
				{Kind: KindPlaceholder, Name: "b", Offset: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if len(pc.Tokens) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %+v",
					len(tt.want), len(pc.Tokens), pc.Tokens)
			}

			for i, want := range tt.want {
				got := pc.Tokens[i]
				if got.Kind != want.Kind || got.Text != want.Text ||
					got.Name != want.Name || got.Off != want.Off ||
					got.On != want.On || got.Offset != want.Offset {
					t.Errorf("token %d: expected %+v, got %+v", i, want, got)
				}

				if (got.Default == nil) != (want.Default == nil) {
					t.Errorf("token %d: default presence mismatch", i)
				} else if got.Default != nil && *got.Default != *want.Default {
					t.Errorf("token %d: expected default %q, got %q",
						i, *want.Default, *got.Default)
				}

				if len(got.Modifiers) != len(want.Modifiers) {
					t.Errorf("token %d: expected modifiers %v, got %v",
						i, want.Modifiers, got.Modifiers)
				}
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "empty commandline",
			input: "",
			want:  ErrEmptyCmdline,
		},
		{
			name:  "whitespace commandline",
			input: "   ",
			want:  ErrEmptyCmdline,
		},
		{
			name:  "unterminated token",
			input: "echo {name",
			want:  ErrUnterminatedToken,
		},
		{
			name:  "stray closing brace",
			input: "echo }",
			want:  ErrUnmatchedBrace,
		},
		{
			name:  "nested opening brace",
			input: "echo {a{b}}",
			want:  ErrNestedToken,
		},
		{
			name:  "name starts with digit",
			input: "echo {1abc}",
			want:  ErrBadName,
		},
		{
			name:  "name with hyphen",
			input: "echo {a-b}",
			want:  ErrBadName,
		},
		{
			name:  "empty name",
			input: "echo {}",
			want:  ErrBadName,
		},
		{
			name:  "unknown modifier",
			input: "echo {upcase/x}",
			want:  ErrUnknownModifier,
		},
		{
			name:  "toggle without values",
			input: "echo {+v}",
			want:  ErrToggleValues,
		},
		{
			name:  "toggle without colon",
			input: "echo {+v=on}",
			want:  ErrToggleValues,
		},
		{
			name:  "toggle with modifier",
			input: "echo {stem/+v=a:b}",
			want:  ErrToggleModifier,
		},
		{
			name:  "conflicting defaults",
			input: "echo {x=1} {x=2}",
			want:  ErrInconsistent,
		},
		{
			name:  "default versus required",
			input: "echo {x=1} {x}",
			want:  ErrInconsistent,
		},
		{
			name:  "conflicting toggle values",
			input: "echo {+v=a:b} {+v=a:c}",
			want:  ErrInconsistent,
		},
		{
			name:  "toggle and value collision",
			input: "echo {v} {+v=a:b}",
			want:  ErrToggleCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParse_RepeatedConsistent(t *testing.T) {
	// The same name may repeat when every occurrence declares identically,
	// and modifiers may vary per occurrence.
	pc, err := Parse("cp {src=a.txt} {stem/src=a.txt}.bak")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	params := pc.Params()
	if len(params) != 1 {
		t.Fatalf("expected 1 distinct placeholder, got %d", len(params))
	}

	if params[0].Name != "src" || params[0].Default == nil {
		t.Errorf("unexpected param: %+v", params[0])
	}
}

func TestParse_ToggleAndValueSeparateNames(t *testing.T) {
	// "+v" and "x" occupy distinct names; only same-name kind mixing is an
	// error.
	pc, err := Parse("run {x} {+v=:-v}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(pc.Params()) != 2 {
		t.Fatalf("expected 2 distinct placeholders, got %d", len(pc.Params()))
	}

	if got := pc.Required(); len(got) != 1 || got[0] != "x" {
		t.Errorf("expected required [x], got %v", got)
	}
}

func TestParsedCommand_Render(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "canonical form is stable",
			input: "gcc -O{level=2} {+dbg=:-g} {infile}",
			want:  "gcc -O{level=2} {+dbg=:-g} {infile}",
		},
		{
			name:  "doubled braces survive a round trip",
			input: "awk '{{print}}' {pat={{x}}}",
			want:  "awk '{{print}}' {pat={{x}}}",
		},
		{
			name:  "modifiers are preserved",
			input: "cd {dirname/path} && cat {basename/path}",
			want:  "cd {dirname/path} && cat {basename/path}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := pc.Render(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			// Rendered text must parse back to the same token count.
			again, err := Parse(pc.Render())
			if err != nil {
				t.Fatalf("reparse error: %v", err)
			}

			if len(again.Tokens) != len(pc.Tokens) {
				t.Errorf("round trip changed token count: %d != %d",
					len(again.Tokens), len(pc.Tokens))
			}
		})
	}
}

func TestParsedCommand_LeadingWord(t *testing.T) {
	pc := MustParse("chaintool-env dir={dirname/f}")
	if got := pc.LeadingWord(); got != "chaintool-env" {
		t.Errorf("expected chaintool-env, got %q", got)
	}
}

func ptr(s string) *string { return &s }

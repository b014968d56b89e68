package lang

import (
	"log/slog"
	"strings"
)

// Parse parses a commandline template into its token sequence, validating
// every placeholder occurrence. No partial result is produced on error.
func Parse(cmdline string) (*ParsedCommand, error) {
	if strings.TrimSpace(cmdline) == "" {
		return nil, ErrEmptyCmdline
	}

	s := &scanner{input: cmdline}
	pc := &ParsedCommand{
		Cmdline: cmdline,
		params:  make(map[string]*Param),
	}

	var lit strings.Builder

	litStart := 0

	flush := func() {
		if lit.Len() > 0 {
			pc.Tokens = append(pc.Tokens, Token{
				Kind:   KindLiteral,
				Text:   lit.String(),
				Offset: litStart,
			})
			lit.Reset()
		}

		litStart = s.pos
	}

	for !s.eof() {
		switch s.peek() {
		case '{':
			if s.peekAt(1) == '{' {
				s.pos += 2

				lit.WriteByte('{')

				continue
			}

			flush()

			tok, err := s.scanToken()
			if err != nil {
				return nil, err
			}

			if err := pc.declare(tok); err != nil {
				return nil, err
			}

			pc.Tokens = append(pc.Tokens, tok)

			litStart = s.pos

		case '}':
			if s.peekAt(1) == '}' {
				s.pos += 2

				lit.WriteByte('}')

				continue
			}

			return nil, ErrUnmatchedBrace.
				With(slog.Int("offset", s.pos), slog.String("brace", "}"))

		default:
			lit.WriteByte(s.input[s.pos])
			s.pos++
		}
	}

	flush()

	return pc, nil
}

// MustParse is like [Parse] but panics on error. It is intended for tests
// and for commandlines already validated at authoring time.
func MustParse(cmdline string) *ParsedCommand {
	pc, err := Parse(cmdline)
	if err != nil {
		panic(err)
	}

	return pc
}

// scanner holds the tokenizer state. Commandlines are treated as byte
// strings: the template grammar is pure ASCII, and literal text passes
// through untouched.
type scanner struct {
	input string
	pos   int
}

func (s *scanner) eof() bool { return s.pos >= len(s.input) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}

	return s.input[s.pos]
}

func (s *scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.input) {
		return 0
	}

	return s.input[s.pos+n]
}

// scanToken consumes one placeholder token starting at the opening '{'.
// Doubled braces within the token body are preserved as-is here and
// collapsed when the body is split into name and value parts.
func (s *scanner) scanToken() (Token, error) {
	start := s.pos
	s.pos++ // opening '{'

	var body strings.Builder

	for {
		if s.eof() {
			return Token{}, ErrUnterminatedToken.
				With(slog.Int("offset", start))
		}

		switch s.peek() {
		case '}':
			if s.peekAt(1) == '}' {
				body.WriteString("}}")

				s.pos += 2

				continue
			}

			s.pos++ // closing '}'

			return parseTokenBody(body.String(), start)

		case '{':
			if s.peekAt(1) == '{' {
				body.WriteString("{{")

				s.pos += 2

				continue
			}

			return Token{}, ErrNestedToken.
				With(slog.Int("offset", s.pos))

		default:
			body.WriteByte(s.input[s.pos])
			s.pos++
		}
	}
}

// parseTokenBody splits a raw token body into modifiers, name, and value
// parts, producing a placeholder or toggle token.
func parseTokenBody(body string, offset int) (Token, error) {
	head, value, hasValue := strings.Cut(body, "=")

	segments := strings.Split(head, "/")
	name := segments[len(segments)-1]
	modifiers := segments[:len(segments)-1]

	toggle := strings.HasPrefix(name, "+")
	if toggle {
		name = name[1:]
	}

	if !validName(name) {
		return Token{}, ErrBadName.
			With(attrToken(body, offset), attrName(name))
	}

	if toggle {
		if len(modifiers) > 0 {
			return Token{}, ErrToggleModifier.
				With(attrToken(body, offset), attrName("+"+name))
		}

		if !hasValue {
			return Token{}, ErrToggleValues.
				With(attrToken(body, offset), attrName("+"+name))
		}

		off, on, hasSep := strings.Cut(value, ":")
		if !hasSep {
			return Token{}, ErrToggleValues.
				With(attrToken(body, offset), attrName("+"+name))
		}

		return Token{
			Kind:   KindToggle,
			Name:   name,
			Off:    collapseBraces(off),
			On:     collapseBraces(on),
			Offset: offset,
		}, nil
	}

	for _, mod := range modifiers {
		if _, ok := modifierRegistry[mod]; !ok {
			return Token{}, ErrUnknownModifier.
				With(attrToken(body, offset), slog.String("modifier", mod))
		}
	}

	tok := Token{
		Kind:      KindPlaceholder,
		Name:      name,
		Modifiers: modifiers,
		Offset:    offset,
	}

	if hasValue {
		def := collapseBraces(value)
		tok.Default = &def
	}

	return tok, nil
}

// validName reports whether name is a legal placeholder name: a letter
// followed by letters, digits, or underscores.
func validName(name string) bool {
	if name == "" {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]

		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		case i > 0 && c == '_':
		default:
			return false
		}
	}

	return true
}

func attrToken(body string, offset int) slog.Attr {
	return slog.Group("token",
		slog.String("text", "{"+body+"}"),
		slog.Int("offset", offset),
	)
}

func attrName(name string) slog.Attr {
	return slog.String("placeholder", name)
}

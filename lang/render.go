package lang

import "strings"

// collapseBraces rewrites doubled brace characters to single braces. Token
// values and literal text are stored collapsed so resolution substitutes the
// characters the user meant.
func collapseBraces(s string) string {
	s = strings.ReplaceAll(s, "{{", "{")

	return strings.ReplaceAll(s, "}}", "}")
}

// explodeBraces is the inverse of collapseBraces, re-doubling every brace so
// rendered text parses back to the same tokens.
func explodeBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")

	return strings.ReplaceAll(s, "}", "}}")
}

// Render reconstructs the canonical commandline from the token sequence.
// Literal text and embedded values have their braces re-doubled, so the
// result always parses back to an equivalent [ParsedCommand]. Render is how
// the stored commandline is refreshed after [ParsedCommand.ApplyVals].
func (pc *ParsedCommand) Render() string {
	var sb strings.Builder

	for _, tok := range pc.Tokens {
		sb.WriteString(tok.render())
	}

	return sb.String()
}

func (t Token) render() string {
	switch t.Kind {
	case KindLiteral:
		return explodeBraces(t.Text)

	case KindToggle:
		return "{+" + t.Name + "=" +
			explodeBraces(t.Off) + ":" + explodeBraces(t.On) + "}"

	case KindPlaceholder:
		var sb strings.Builder

		sb.WriteByte('{')

		for _, mod := range t.Modifiers {
			sb.WriteString(mod)
			sb.WriteByte('/')
		}

		sb.WriteString(t.Name)

		if t.Default != nil {
			sb.WriteByte('=')
			sb.WriteString(explodeBraces(*t.Default))
		}

		sb.WriteByte('}')

		return sb.String()

	default:
		return ""
	}
}

// ApplyVals mutates the declared values of the commandline's placeholders in
// place: clearing or replacing defaults, and replacing toggle off:on pairs.
// Every occurrence of a named placeholder changes together, preserving the
// consistency invariant, and Cmdline is re-rendered to match.
//
// Arguments naming placeholders this commandline does not use are ignored;
// the caller decides whether to warn about them. An argument that names an
// existing placeholder with the wrong kind (a toggle argument for a value
// placeholder, or vice versa) is an error.
func (pc *ParsedCommand) ApplyVals(args []ValsArg) error {
	for _, arg := range args {
		p, ok := pc.params[arg.Display()]
		if !ok {
			if _, collides := pc.params[flipDisplay(arg)]; collides {
				return ErrToggleCollision.With(attrName(arg.Name))
			}

			continue
		}

		if arg.Toggle {
			p.Off, p.On = arg.Off, arg.On
		} else if arg.Clear {
			p.Default = nil
		} else {
			v := arg.Value
			p.Default = &v
		}

		for i := range pc.Tokens {
			tok := &pc.Tokens[i]
			if tok.Kind == KindLiteral || tok.Display() != arg.Display() {
				continue
			}

			if arg.Toggle {
				tok.Off, tok.On = arg.Off, arg.On
			} else {
				tok.Default = p.Default
			}
		}
	}

	pc.Cmdline = pc.Render()

	return nil
}

// flipDisplay returns the display name the argument would have with the
// opposite kind, used to detect kind-mismatched vals arguments.
func flipDisplay(arg ValsArg) string {
	if arg.Toggle {
		return arg.Name
	}

	return "+" + arg.Name
}

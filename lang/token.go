package lang

import "strings"

// Kind discriminates the token variants produced by [Parse]. It is a closed
// set: every token is exactly one of literal text, a value placeholder, or a
// toggle placeholder, and resolution switches exhaustively over it.
type Kind int

const (
	// KindLiteral is a run of literal commandline text.
	KindLiteral Kind = iota
	// KindPlaceholder is a named substitution point, optionally carrying a
	// declared default value and a modifier chain.
	KindPlaceholder
	// KindToggle is a two-valued placeholder selected by activation rather
	// than free-form assignment.
	KindToggle
)

// String returns the name of the token kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindPlaceholder:
		return "placeholder"
	case KindToggle:
		return "toggle"
	default:
		return "invalid"
	}
}

// Token is one segment of a parsed commandline. The fields populated depend
// on Kind: Text for literals; Name, Modifiers, and Default for placeholders;
// Name, Off, and On for toggles.
//
// Literal text and token values are stored with doubled braces already
// collapsed to single characters. [ParsedCommand.Render] re-doubles them.
type Token struct {
	Kind      Kind
	Text      string   // literal text run
	Name      string   // placeholder name, without any '+' prefix
	Modifiers []string // modifier chain in source (left to right) order
	Default   *string  // declared default; nil when the value is required
	Off       string   // toggle value substituted when not activated
	On        string   // toggle value substituted when activated
	Offset    int      // byte offset of the token within the source cmdline
}

// Display returns the user-facing name of the token's placeholder: toggles
// are shown with their '+' prefix. Literal tokens have no display name.
func (t Token) Display() string {
	if t.Kind == KindToggle {
		return "+" + t.Name
	}

	return t.Name
}

// Param describes one distinct placeholder of a parsed commandline,
// aggregated across all of its occurrences.
type Param struct {
	Name    string  // bare name, without any '+' prefix
	Toggle  bool    // whether this is a toggle placeholder
	Default *string // declared default; nil when required (non-toggle only)
	Off     string  // toggle values (toggle only)
	On      string
}

// Display returns the user-facing placeholder name, '+'-prefixed for toggles.
func (p Param) Display() string {
	if p.Toggle {
		return "+" + p.Name
	}

	return p.Name
}

// ParsedCommand is the parsed, validated form of a commandline template.
// It is produced once at authoring time and reused for every resolution.
type ParsedCommand struct {
	Cmdline string // canonical source text
	Tokens  []Token

	params map[string]*Param // distinct placeholders by display name
	order  []string          // display names in order of first occurrence
}

// Params returns the distinct placeholders of the commandline in order of
// first occurrence.
func (pc *ParsedCommand) Params() []Param {
	out := make([]Param, 0, len(pc.order))
	for _, name := range pc.order {
		out = append(out, *pc.params[name])
	}

	return out
}

// Param retrieves a distinct placeholder by display name ('+'-prefixed for
// toggles).
func (pc *ParsedCommand) Param(display string) (Param, bool) {
	p, ok := pc.params[display]
	if !ok {
		return Param{}, false
	}

	return *p, true
}

// Required returns the names of all non-toggle placeholders that have no
// declared default, in order of first occurrence.
func (pc *ParsedCommand) Required() []string {
	var out []string

	for _, name := range pc.order {
		p := pc.params[name]
		if !p.Toggle && p.Default == nil {
			out = append(out, p.Name)
		}
	}

	return out
}

// LeadingWord returns the first whitespace-delimited word of the source
// commandline, before any placeholder resolution. Virtual tool dispatch
// matches on this literal text.
func (pc *ParsedCommand) LeadingWord() string {
	fields := strings.Fields(pc.Cmdline)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// declare records one placeholder occurrence, enforcing the authoring-time
// invariant that all occurrences of a name agree on kind and on their
// default (or off:on) values.
func (pc *ParsedCommand) declare(tok Token) error {
	if tok.Kind == KindLiteral {
		return nil
	}

	display := tok.Display()

	// A name may not be used both as a toggle and as a value placeholder.
	var conflict string
	if tok.Kind == KindToggle {
		conflict = tok.Name
	} else {
		conflict = "+" + tok.Name
	}

	if _, ok := pc.params[conflict]; ok {
		return ErrToggleCollision.With(attrName(tok.Name))
	}

	existing, ok := pc.params[display]
	if !ok {
		pc.params[display] = &Param{
			Name:    tok.Name,
			Toggle:  tok.Kind == KindToggle,
			Default: tok.Default,
			Off:     tok.Off,
			On:      tok.On,
		}
		pc.order = append(pc.order, display)

		return nil
	}

	if tok.Kind == KindToggle {
		if existing.Off != tok.Off || existing.On != tok.On {
			return ErrInconsistent.With(attrName(display))
		}

		return nil
	}

	switch {
	case existing.Default == nil && tok.Default == nil:
	case existing.Default != nil && tok.Default != nil &&
		*existing.Default == *tok.Default:
	default:
		return ErrInconsistent.With(attrName(display))
	}

	return nil
}

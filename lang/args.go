package lang

import (
	"log/slog"
	"strings"
)

// RunArg is one parsed `run`-style argument: either a value assignment
// (name=value) or a bare toggle activation (+name). Toggle off/on pairs
// cannot be set at run time, and defaults cannot be cleared.
type RunArg struct {
	Name   string // bare name, without any '+' prefix
	Value  string
	Toggle bool // bare +name activation
}

// Display returns the argument's user-facing placeholder name.
func (a RunArg) Display() string {
	if a.Toggle {
		return "+" + a.Name
	}

	return a.Name
}

// ParseRunArgs parses run-style arguments. A bare non-toggle name, or an
// attempt to assign values to a toggle, is rejected.
func ParseRunArgs(args []string) ([]RunArg, error) {
	parsed := make([]RunArg, 0, len(args))

	for _, arg := range args {
		if strings.HasPrefix(arg, "+") {
			if strings.Contains(arg, "=") {
				return nil, ErrBadRunArg.
					With(slog.String("arg", arg)).
					Wrap(NewError("toggle values cannot be set at run time"))
			}

			name := arg[1:]
			if !validName(name) {
				return nil, ErrBadRunArg.With(slog.String("arg", arg))
			}

			parsed = append(parsed, RunArg{Name: name, Toggle: true})

			continue
		}

		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, ErrBadRunArg.
				With(slog.String("arg", arg)).
				Wrap(NewError("placeholder specified without a value"))
		}

		if !validName(name) {
			return nil, ErrBadRunArg.With(slog.String("arg", arg))
		}

		parsed = append(parsed, RunArg{Name: name, Value: value})
	}

	return parsed, nil
}

// BindRunArgs constructs a fresh ValueMap for one run invocation from the
// parsed arguments. Later assignments to the same name win, matching
// positional CLI semantics.
func BindRunArgs(args []RunArg) *ValueMap {
	vals := NewValueMap()

	for _, arg := range args {
		if arg.Toggle {
			vals.Activate(arg.Name)
		} else {
			vals.Set(arg.Name, arg.Value)
		}
	}

	return vals
}

// NamedCommand pairs a command name with its parsed form.
type NamedCommand struct {
	Name   string
	Parsed *ParsedCommand
}

// IrrelevantRunArgs returns the display names of run arguments that match no
// placeholder in any of the given commands. These are reported as warnings,
// never errors.
func IrrelevantRunArgs(args []RunArg, commands []NamedCommand) []string {
	var unused []string

	for _, arg := range args {
		if !anyCommandHas(commands, arg.Display()) {
			unused = append(unused, arg.Display())
		}
	}

	return unused
}

// ValsArg is one parsed `vals`-style mutation argument: a bare name clears a
// default, name=value sets one, and +name=off:on sets a toggle's pair.
type ValsArg struct {
	Name   string // bare name, without any '+' prefix
	Toggle bool
	Clear  bool   // bare name: clear the default
	Value  string // new default (non-toggle)
	Off    string // new toggle pair
	On     string
}

// Display returns the argument's user-facing placeholder name.
func (a ValsArg) Display() string {
	if a.Toggle {
		return "+" + a.Name
	}

	return a.Name
}

// ParseValsArgs parses vals-style arguments. Toggles must be given a full
// off:on pair; clearing a toggle is not expressible.
func ParseValsArgs(args []string) ([]ValsArg, error) {
	parsed := make([]ValsArg, 0, len(args))

	for _, arg := range args {
		if strings.HasPrefix(arg, "+") {
			head, value, hasValue := strings.Cut(arg[1:], "=")
			if !validName(head) {
				return nil, ErrBadValsArg.With(slog.String("arg", arg))
			}

			off, on, hasSep := strings.Cut(value, ":")
			if !hasValue || !hasSep {
				return nil, ErrBadValsArg.
					With(slog.String("arg", arg)).
					Wrap(NewError("toggles require off:on values in this operation"))
			}

			parsed = append(parsed, ValsArg{
				Name:   head,
				Toggle: true,
				Off:    off,
				On:     on,
			})

			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if !validName(name) {
			return nil, ErrBadValsArg.With(slog.String("arg", arg))
		}

		parsed = append(parsed, ValsArg{
			Name:  name,
			Clear: !hasValue,
			Value: value,
		})
	}

	return parsed, nil
}

func anyCommandHas(commands []NamedCommand, display string) bool {
	for _, nc := range commands {
		if nc.Parsed == nil {
			continue
		}

		if _, ok := nc.Parsed.Param(display); ok {
			return true
		}
	}

	return false
}

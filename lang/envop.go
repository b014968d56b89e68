package lang

import (
	"log/slog"
	"strings"
)

// EnvOp is a conditional "set if unset" assignment applied between commands
// within one sequence run. Value is placeholder-substitutable source text,
// resolved against the run's current value map at the moment the op applies.
type EnvOp struct {
	Name  string
	Value string
}

// ParseEnvOps parses chaintool-env arguments of the form name=value_source
// into ordered ops. Each argument must name a legal placeholder.
func ParseEnvOps(args []string) ([]EnvOp, error) {
	ops := make([]EnvOp, 0, len(args))

	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || !validName(name) {
			return nil, ErrBadEnvOp.With(slog.String("arg", arg))
		}

		ops = append(ops, EnvOp{Name: name, Value: value})
	}

	return ops, nil
}

// ApplyEnvOps applies each op strictly in order. An op whose name already
// has an entry in vals is a no-op; otherwise its value source is parsed and
// resolved against the current map and the result is inserted, visible to
// every later op and every later command in the run.
//
// Value sources resolve under the restricted resolver: only the current
// value map (and activated toggles) are consulted, never declared defaults,
// and an unresolved reference is a hard error rather than a collected one.
// Assigned names are returned in application order.
func ApplyEnvOps(ops []EnvOp, vals *ValueMap) ([]string, error) {
	var assigned []string

	for _, op := range ops {
		if _, ok := vals.Value(op.Name); ok {
			continue
		}

		// An empty value source needs no parsing: it binds the empty string.
		if op.Value == "" {
			vals.Set(op.Name, "")

			assigned = append(assigned, op.Name)

			continue
		}

		pc, err := Parse(op.Value)
		if err != nil {
			return assigned, ErrBadEnvOp.
				With(attrName(op.Name)).
				Wrap(err)
		}

		value, err := resolveStrict(pc, vals)
		if err != nil {
			return assigned, ErrBadEnvOp.
				With(attrName(op.Name)).
				Wrap(err)
		}

		vals.Set(op.Name, value)

		assigned = append(assigned, op.Name)
	}

	return assigned, nil
}

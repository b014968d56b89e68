package lang

import (
	"maps"
	"slices"
	"strings"
)

// ValueMap holds the resolved values for one run: non-toggle placeholder
// values plus the set of activated toggles. Its lifecycle is exactly one
// sequence (or single-command) execution. Runtime arguments populate it at
// run start; env-ops may add entries but never overwrite existing ones, so a
// runtime argument always wins over a later conditional assignment.
type ValueMap struct {
	values  map[string]string
	toggles map[string]struct{}
}

// NewValueMap creates an empty ValueMap.
func NewValueMap() *ValueMap {
	return &ValueMap{
		values:  make(map[string]string),
		toggles: make(map[string]struct{}),
	}
}

// Set assigns a value to a placeholder name, overwriting any existing entry.
// Runtime arguments are bound with Set.
func (m *ValueMap) Set(name, value string) { m.values[name] = value }

// SetIfUnset assigns a value only when the name has no entry, reporting
// whether the assignment was made. Env-ops are applied with SetIfUnset.
func (m *ValueMap) SetIfUnset(name, value string) bool {
	if _, ok := m.values[name]; ok {
		return false
	}

	m.values[name] = value

	return true
}

// Value retrieves the value bound to a placeholder name.
func (m *ValueMap) Value(name string) (string, bool) {
	v, ok := m.values[name]

	return v, ok
}

// Activate marks a toggle as activated.
func (m *ValueMap) Activate(name string) { m.toggles[name] = struct{}{} }

// Activated reports whether a toggle has been activated.
func (m *ValueMap) Activated(name string) bool {
	_, ok := m.toggles[name]

	return ok
}

// Names returns the sorted names of all bound values.
func (m *ValueMap) Names() []string {
	return slices.Sorted(maps.Keys(m.values))
}

// Clone returns an independent copy of the map.
func (m *ValueMap) Clone() *ValueMap {
	return &ValueMap{
		values:  maps.Clone(m.values),
		toggles: maps.Clone(m.toggles),
	}
}

// Resolve renders the parsed commandline into the final string to execute.
//
// Literal segments pass through unchanged. Toggles substitute their "on"
// value when activated, "off" otherwise, always verbatim. Value placeholders
// look up their name in vals and fall back to the occurrence's declared
// default; the winning value is passed through the occurrence's modifier
// chain, so the same underlying value can appear differently at different
// positions.
//
// When one or more placeholders have no value from either source, Resolve
// returns an [UnresolvedError] naming all of them at once.
func Resolve(pc *ParsedCommand, vals *ValueMap) (string, error) {
	return resolve(pc, vals, false)
}

// resolveStrict is the restricted resolver used for env-op value sources:
// declared defaults are not consulted, so every reference must already be
// bound in vals. The restriction keeps value sources non-recursive.
func resolveStrict(pc *ParsedCommand, vals *ValueMap) (string, error) {
	return resolve(pc, vals, true)
}

func resolve(pc *ParsedCommand, vals *ValueMap, strict bool) (string, error) {
	var sb strings.Builder

	var missing []string

	seen := make(map[string]struct{})

	for _, tok := range pc.Tokens {
		switch tok.Kind {
		case KindLiteral:
			sb.WriteString(tok.Text)

		case KindToggle:
			if vals.Activated(tok.Name) {
				sb.WriteString(tok.On)
			} else {
				sb.WriteString(tok.Off)
			}

		case KindPlaceholder:
			value, ok := vals.Value(tok.Name)
			if !ok && !strict && tok.Default != nil {
				value, ok = *tok.Default, true
			}

			if !ok {
				if _, dup := seen[tok.Name]; !dup {
					seen[tok.Name] = struct{}{}
					missing = append(missing, tok.Name)
				}

				continue
			}

			sb.WriteString(ApplyModifiers(value, tok.Modifiers))
		}
	}

	if len(missing) > 0 {
		return "", &UnresolvedError{Names: missing}
	}

	return sb.String(), nil
}

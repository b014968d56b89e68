package lang

import (
	"slices"
	"strings"
)

// Modifier is a pure path-manipulation transform applied to a resolved value
// before substitution. Modifiers never consult external state.
type Modifier func(string) string

// modifierRegistry is the fixed set of modifier names accepted by the token
// grammar. Unknown names are rejected at parse time.
//
//nolint:gochecknoglobals
var modifierRegistry = map[string]Modifier{
	"dirname":  dirname,
	"basename": basename,
	"stem":     stem,
}

// Modifiers returns the names of all registered modifiers, sorted.
func Modifiers() []string {
	names := make([]string, 0, len(modifierRegistry))
	for name := range modifierRegistry {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// ApplyModifiers transforms value through the given modifier chain. The
// chain is written left to right but applied right to left: the modifier
// nearest the placeholder name consumes the raw value, and each one to its
// left consumes the previous result.
func ApplyModifiers(value string, modifiers []string) string {
	for i := len(modifiers) - 1; i >= 0; i-- {
		mod, ok := modifierRegistry[modifiers[i]]
		if !ok {
			// Unknown names are rejected at parse time; an unregistered
			// modifier reaching this point is substituted as identity.
			continue
		}

		value = mod(value)
	}

	return value
}

// pathSeparators covers both slash conventions so resolved values behave the
// same regardless of which style the user writes.
const pathSeparators = `/\`

// dirname removes the final path separator and everything after it. A value
// with no separator has no containing directory and yields the empty string.
func dirname(v string) string {
	i := strings.LastIndexAny(v, pathSeparators)
	if i < 0 {
		return ""
	}

	return v[:i]
}

// basename removes everything up to and including the final path separator.
// A value with no separator is unchanged.
func basename(v string) string {
	i := strings.LastIndexAny(v, pathSeparators)
	if i < 0 {
		return v
	}

	return v[i+1:]
}

// stem removes the rightmost extension, but only when the final '.' occurs
// after the final path separator: an extension-like substring that is part
// of a directory name is not touched.
func stem(v string) string {
	sep := strings.LastIndexAny(v, pathSeparators)

	dot := strings.LastIndex(v, ".")
	if dot > sep {
		return v[:dot]
	}

	return v
}

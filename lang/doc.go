// Package lang implements the commandline template language: tokenizing and
// parsing placeholder syntax, validating placeholder declarations, applying
// value modifiers, resolving templates against runtime values, evaluating
// conditional environment ops, and summarizing placeholders across commands
// for display.
//
// The grammar embeds three token forms in otherwise-literal text:
//
//	{name}              required value placeholder
//	{name=default}      optional value placeholder with declared default
//	{+name=off:on}      toggle placeholder
//
// A value placeholder name may be preceded by a chain of modifiers, as in
// {dirname/name} or {basename/stem/name=a/b.txt}. Literal brace characters
// are written doubled.
package lang

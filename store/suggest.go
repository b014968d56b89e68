package store

import "github.com/sahilm/fuzzy"

// maxSuggestions bounds the "did you mean" list.
const maxSuggestions = 3

// suggest fuzzy-matches name against every stored command and sequence
// name. Used to decorate not-found errors.
func (s *Store) suggest(name string) []string {
	var pool []string

	if commands, err := s.Commands(); err == nil {
		pool = append(pool, commands...)
	}

	if sequences, err := s.Sequences(); err == nil {
		pool = append(pool, sequences...)
	}

	matches := fuzzy.Find(name, pool)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}

	return out
}

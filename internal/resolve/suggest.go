package resolve

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/campusbot/whereis/internal/normalize"
)

// Suggest returns up to n building codes whose full names contain the
// characters of query in order. It is meant for "did you mean" hints after
// ResolveOne misses and never influences resolution.
func (r *Resolver) Suggest(query string, n int) []string {
	key := normalize.Key(query)
	if key == "" || n <= 0 {
		return nil
	}

	names := make([]string, len(r.candidates))
	for i, c := range r.candidates {
		names[i] = c.terms[0]
	}

	matches := fuzzy.Find(key, names)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})

	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = r.candidates[m.Index].code
	}
	return out
}

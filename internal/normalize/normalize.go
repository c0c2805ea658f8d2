// Package normalize folds free text into the key form shared by catalog
// lookups and query matching.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Key standardizes text for building lookup by:
//  1. Trimming surrounding whitespace
//  2. Collapsing internal whitespace runs (spaces, tabs, newlines) into one space
//  3. Applying Unicode full case folding
//
// The result is empty when s holds nothing but whitespace.
func Key(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	// A Caser carries state and must not be shared across goroutines.
	return cases.Fold().String(strings.Join(fields, " "))
}

// Keys applies Key to every value and drops the ones that fold to empty.
func Keys(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if k := Key(v); k != "" {
			out = append(out, k)
		}
	}
	return out
}

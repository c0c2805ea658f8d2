package building

import (
	"errors"
	"fmt"
	"strings"
)

// Problem describes one invalid record in a catalog source.
type Problem struct {
	Index  int    // zero-based record position in the source
	Code   string // record code as given, possibly empty
	Reason string
}

func (p Problem) String() string {
	if p.Code == "" {
		return fmt.Sprintf("record %d: %s", p.Index, p.Reason)
	}
	return fmt.Sprintf("record %d (%s): %s", p.Index, p.Code, p.Reason)
}

// CatalogError reports a catalog that cannot be served. It lists every
// problem found, not just the first.
type CatalogError struct {
	Problems []Problem
}

func (e *CatalogError) Error() string {
	if len(e.Problems) == 1 {
		return "catalog: " + e.Problems[0].String()
	}
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.String()
	}
	return fmt.Sprintf("catalog: %d problems: %s", len(e.Problems), strings.Join(lines, "; "))
}

// IsCatalogError reports whether err (or any error it wraps) is a *CatalogError.
func IsCatalogError(err error) bool {
	var ce *CatalogError
	return errors.As(err, &ce)
}

// AsCatalogError extracts the *CatalogError from err's chain.
func AsCatalogError(err error) (*CatalogError, bool) {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

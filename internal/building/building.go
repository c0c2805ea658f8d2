// Package building holds the immutable campus building catalog.
package building

import (
	"strings"

	"github.com/campusbot/whereis/internal/normalize"
)

// Building is one physical campus building.
type Building struct {
	Code     string   `json:"code" yaml:"code"`
	FullName string   `json:"full_name" yaml:"full_name"`
	Aliases  []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Record is an unvalidated building row as read from a catalog source.
type Record struct {
	Code     string   `json:"code" yaml:"code" toml:"code" mapstructure:"code"`
	FullName string   `json:"full_name" yaml:"full_name" toml:"full_name" mapstructure:"full_name"`
	Aliases  []string `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases" mapstructure:"aliases"`
}

// SplitAliases splits a delimited alias cell (as found in CSV, XLSX and
// SQLite sources) on ';' or '|'. Blank parts are dropped.
func SplitAliases(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool { return r == ';' || r == '|' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinAliases is the inverse of SplitAliases.
func JoinAliases(aliases []string) string {
	return strings.Join(aliases, ";")
}

// keys returns every normalized exact-lookup key of b, deduplicated, with the
// code first.
func (b Building) keys() []string {
	seen := make(map[string]bool, len(b.Aliases)+2)
	var out []string
	for _, k := range append([]string{normalize.Key(b.Code), normalize.Key(b.FullName)}, normalize.Keys(b.Aliases)...) {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

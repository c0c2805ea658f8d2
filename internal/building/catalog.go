package building

import (
	"fmt"
	"strings"

	"github.com/campusbot/whereis/internal/normalize"
)

// Catalog is an immutable, ordered collection of buildings. It is built once
// by Load and is safe for concurrent reads without locking.
type Catalog struct {
	buildings []Building
	byCode    map[string]int // normalized code -> position
	byKey     map[string]int // normalized code, full name or alias -> position
}

// Load validates records and builds a Catalog that preserves their order.
//
// Every record must carry a code and a full name. Codes, full names and
// aliases share one normalized key space: a key claimed by two different
// records is a collision. All problems are collected into a single
// *CatalogError; the catalog is rejected as a whole.
func Load(records []Record) (*Catalog, error) {
	c := &Catalog{
		buildings: make([]Building, 0, len(records)),
		byCode:    make(map[string]int, len(records)),
		byKey:     make(map[string]int, len(records)*2),
	}

	var problems []Problem
	owner := make(map[string]int, len(records)*2) // key -> source index

	for i, r := range records {
		b := Building{
			Code:     strings.TrimSpace(r.Code),
			FullName: strings.TrimSpace(r.FullName),
		}
		for _, a := range r.Aliases {
			if a = strings.TrimSpace(a); a != "" {
				b.Aliases = append(b.Aliases, a)
			}
		}

		var missing []string
		if b.Code == "" {
			missing = append(missing, "code")
		}
		if b.FullName == "" {
			missing = append(missing, "full_name")
		}
		if len(missing) > 0 {
			problems = append(problems, Problem{
				Index:  i,
				Code:   b.Code,
				Reason: "missing " + strings.Join(missing, " and "),
			})
		}

		// Rejected records still claim their free keys so later collisions
		// with them are reported in the same pass.
		clash := false
		keys := b.keys()
		for _, k := range keys {
			if prev, ok := owner[k]; ok {
				problems = append(problems, Problem{
					Index:  i,
					Code:   b.Code,
					Reason: fmt.Sprintf("key %q already used by record %d (%s)", k, prev, strings.TrimSpace(records[prev].Code)),
				})
				clash = true
				continue
			}
			owner[k] = i
		}
		if clash || len(missing) > 0 {
			continue
		}

		pos := len(c.buildings)
		for _, k := range keys {
			c.byKey[k] = pos
		}
		c.byCode[normalize.Key(b.Code)] = pos
		c.buildings = append(c.buildings, b)
	}

	if len(problems) > 0 {
		return nil, &CatalogError{Problems: problems}
	}
	return c, nil
}

// MustLoad is like Load but panics on error. Intended for tests and fixtures.
func MustLoad(records []Record) *Catalog {
	c, err := Load(records)
	if err != nil {
		panic(err)
	}
	return c
}

// GetByCode returns the building whose code matches, ignoring case and
// surrounding whitespace.
func (c *Catalog) GetByCode(code string) (Building, bool) {
	pos, ok := c.byCode[normalize.Key(code)]
	if !ok {
		return Building{}, false
	}
	return c.buildings[pos].clone(), true
}

// Lookup matches an already-normalized key against every code, full name and
// alias. It also returns the building's position in catalog order.
func (c *Catalog) Lookup(key string) (Building, int, bool) {
	pos, ok := c.byKey[key]
	if !ok {
		return Building{}, -1, false
	}
	return c.buildings[pos].clone(), pos, true
}

// All returns the buildings in source order. The slice is a copy.
func (c *Catalog) All() []Building {
	out := make([]Building, len(c.buildings))
	for i, b := range c.buildings {
		out[i] = b.clone()
	}
	return out
}

// Len returns the number of buildings.
func (c *Catalog) Len() int {
	return len(c.buildings)
}

func (b Building) clone() Building {
	if b.Aliases != nil {
		b.Aliases = append([]string(nil), b.Aliases...)
	}
	return b
}

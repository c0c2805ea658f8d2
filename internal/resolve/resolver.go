// Package resolve maps free-text building queries onto catalog entries.
//
// Resolution runs in tiers. The normalized query is first compared verbatim
// against every code, full name and alias; any hit wins outright. Otherwise
// each building's full name and aliases are scored with a similarity Metric,
// candidates under the threshold are discarded, and the best score wins with
// ties going to the building listed first in the catalog.
//
// Callers reserve the query "list" to mean ListAll; the Resolver itself gives
// it no special meaning.
package resolve

import (
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campusbot/whereis/internal/building"
	"github.com/campusbot/whereis/internal/normalize"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithThreshold overrides DefaultThreshold. New rejects values outside [0,1].
func WithThreshold(t float64) Option {
	return func(r *Resolver) { r.threshold = t }
}

// WithMetric overrides the JaroWinkler similarity function.
func WithMetric(m Metric) Option {
	return func(r *Resolver) {
		if m != nil {
			r.metric = m
		}
	}
}

type candidate struct {
	code  string
	name  string
	terms []string // normalized full name followed by normalized aliases
}

// Resolver resolves queries against a single immutable catalog. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	catalog    *building.Catalog
	threshold  float64
	metric     Metric
	candidates []candidate
	codes      []string
	names      []string
}

// New builds a Resolver over cat.
func New(cat *building.Catalog, opts ...Option) (*Resolver, error) {
	if cat == nil {
		return nil, eris.New("resolve: nil catalog")
	}

	r := &Resolver{
		catalog:   cat,
		threshold: DefaultThreshold,
		metric:    JaroWinkler,
	}
	for _, opt := range opts {
		opt(r)
	}
	if math.IsNaN(r.threshold) || r.threshold < 0 || r.threshold > 1 {
		return nil, eris.Errorf("resolve: threshold %v out of range [0,1]", r.threshold)
	}

	all := cat.All()
	r.candidates = make([]candidate, len(all))
	r.codes = make([]string, len(all))
	r.names = make([]string, len(all))
	for i, b := range all {
		terms := append([]string{normalize.Key(b.FullName)}, normalize.Keys(b.Aliases)...)
		r.candidates[i] = candidate{code: b.Code, name: b.FullName, terms: terms}
		r.codes[i] = b.Code
		r.names[i] = b.FullName
	}
	return r, nil
}

// Catalog returns the catalog the resolver reads from.
func (r *Resolver) Catalog() *building.Catalog {
	return r.catalog
}

// Threshold returns the effective fuzzy threshold.
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// ResolveOne returns the single best building for query, or NotFound.
// It accepts any string, including empty and whitespace-only input.
func (r *Resolver) ResolveOne(query string) MatchResult {
	key := normalize.Key(query)
	if key == "" {
		return NotFound()
	}

	if b, _, ok := r.catalog.Lookup(key); ok {
		return MatchResult{Found: true, Code: b.Code, Name: b.FullName, Tier: TierExact, Score: 1}
	}

	start := time.Now()
	best := -1
	bestScore := 0.0
	for i, c := range r.candidates {
		score := r.score(key, c)
		if score < r.threshold {
			continue
		}
		// Strictly greater keeps the earliest building on ties.
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		zap.L().Debug("resolve: no match",
			zap.String("query", key),
			zap.Float64("threshold", r.threshold),
			zap.Int64("time_us", time.Since(start).Microseconds()),
		)
		return NotFound()
	}

	c := r.candidates[best]
	zap.L().Debug("resolve: fuzzy match",
		zap.String("query", key),
		zap.String("code", c.code),
		zap.Float64("score", bestScore),
		zap.Int64("time_us", time.Since(start).Microseconds()),
	)
	return MatchResult{Found: true, Code: c.code, Name: c.name, Tier: TierFuzzy, Score: bestScore}
}

// score is the best similarity between key and any of c's terms.
func (r *Resolver) score(key string, c candidate) float64 {
	best := 0.0
	for _, term := range c.terms {
		if s := clamp(r.metric(key, term)); s > best {
			best = s
		}
	}
	return best
}

// ListAll returns building codes and full names as parallel slices in
// catalog order.
func (r *Resolver) ListAll() (codes, names []string) {
	return append([]string(nil), r.codes...), append([]string(nil), r.names...)
}

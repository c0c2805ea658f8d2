package resolve

import (
	"math"

	"github.com/xrash/smetrics"
)

// DefaultThreshold is the minimum fuzzy similarity, inclusive, a building must
// reach to be returned. Jaro-Winkler puts a bare word that prefixes a full
// name ("erie" vs "erie hall") near 0.89 and unrelated text near 0.
const DefaultThreshold = 0.6

// Jaro-Winkler tuning: the prefix bonus applies only above jwBoostThreshold
// and counts at most jwPrefixSize leading characters.
const (
	jwBoostThreshold = 0.7
	jwPrefixSize     = 4
)

// Metric scores the similarity of two normalized strings in [0,1], where 1
// means identical.
type Metric func(a, b string) float64

// JaroWinkler is the default Metric.
func JaroWinkler(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, jwBoostThreshold, jwPrefixSize)
}

// clamp forces a metric result into [0,1]; NaN counts as no similarity.
func clamp(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

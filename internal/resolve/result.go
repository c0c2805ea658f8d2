package resolve

// Tier names the stage that produced a match.
type Tier string

const (
	TierNone  Tier = "none"
	TierExact Tier = "exact"
	TierFuzzy Tier = "fuzzy"
)

// MatchResult is the outcome of ResolveOne. Found is false when nothing matched;
// a miss is an ordinary result, never an error.
type MatchResult struct {
	Found bool    `json:"found"`
	Code  string  `json:"code,omitempty"`
	Name  string  `json:"full_name,omitempty"`
	Tier  Tier    `json:"tier"`
	Score float64 `json:"score"`
}

// NotFound is the result returned when no building matches.
func NotFound() MatchResult {
	return MatchResult{Tier: TierNone}
}

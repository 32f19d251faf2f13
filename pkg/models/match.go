package models

// MatchConfidence is the coarse tier derived from a continuous match score.
// High-confidence matches are auto-selected in the matching wizard; the
// rest are presented for manual review.
type MatchConfidence string

const (
	MatchConfidenceHigh   MatchConfidence = "high"
	MatchConfidenceMedium MatchConfidence = "medium"
	MatchConfidenceLow    MatchConfidence = "low"
)

// ConfidenceForScore maps a score in [0,1] to a confidence tier.
// The 0.8 and 0.5 cutoffs are product-tuned and pinned by tests.
func ConfidenceForScore(score float64) MatchConfidence {
	switch {
	case score > 0.8:
		return MatchConfidenceHigh
	case score >= 0.5:
		return MatchConfidenceMedium
	default:
		return MatchConfidenceLow
	}
}

// StrategyWeights controls how much each matching strategy contributes to
// the blended score. Weights need not sum to 1; the matcher normalizes by
// the total.
type StrategyWeights struct {
	Exact   float64 `json:"exact"`
	Fuzzy   float64 `json:"fuzzy"`
	Soundex float64 `json:"soundex"`
	Time    float64 `json:"time"`
	Pattern float64 `json:"pattern"`
}

// DefaultStrategyWeights returns the product-tuned default blend.
func DefaultStrategyWeights() StrategyWeights {
	return StrategyWeights{
		Exact:   0.4,
		Fuzzy:   0.3,
		Soundex: 0.15,
		Time:    0.1,
		Pattern: 0.05,
	}
}

// Total returns the sum of all weights.
func (w StrategyWeights) Total() float64 {
	return w.Exact + w.Fuzzy + w.Soundex + w.Time + w.Pattern
}

// IsZero reports whether no weight is set at all, which callers treat as
// "use the defaults".
func (w StrategyWeights) IsZero() bool {
	return w.Total() == 0
}

// MatchResult scores how well two records correspond. Transient; produced
// per record pair during entity matching and never persisted.
type MatchResult struct {
	SourceID   string             `json:"source_id"`
	TargetID   string             `json:"target_id"`
	Score      float64            `json:"score"`
	Confidence MatchConfidence    `json:"confidence"`
	Breakdown  map[string]float64 `json:"breakdown"`
}

package services

import (
	"sort"
	"strings"

	"github.com/gridbase-inc/import-engine/pkg/models"
)

// Strategy names used as breakdown keys in MatchResult.
const (
	StrategyExact   = "exact"
	StrategyFuzzy   = "fuzzy"
	StrategySoundex = "soundex"
	StrategyTime    = "time"
	StrategyPattern = "pattern"
)

// temporalDecayDays is the window over which temporal proximity decays
// linearly to zero: same day scores 1, thirty days apart scores 0.
const temporalDecayDays = 30.0

// MatchRecords scores how well two records correspond using a weighted
// blend of five strategies. No single string metric handles all
// real-world field variance (typos, transliteration, truncated
// timestamps, formatted vs raw numbers), so callers tune the blend for
// their domain: raise Time for event logs, raise Soundex for names.
//
// The result's breakdown exposes each sub-score; the final score is the
// weight-normalized blend, clamped to [0,1]. Deterministic for
// identical inputs.
func MatchRecords(sourceID, targetID string, source, target models.Record, weights models.StrategyWeights) models.MatchResult {
	if weights.IsZero() {
		weights = models.DefaultStrategyWeights()
	}

	fields := comparableFields(source, target)

	breakdown := map[string]float64{
		StrategyExact:   exactScore(fields),
		StrategyFuzzy:   fuzzyScore(fields),
		StrategySoundex: soundexScore(fields),
		StrategyTime:    timeScore(fields),
		StrategyPattern: patternScore(fields),
	}

	total := weights.Total()
	score := (weights.Exact*breakdown[StrategyExact] +
		weights.Fuzzy*breakdown[StrategyFuzzy] +
		weights.Soundex*breakdown[StrategySoundex] +
		weights.Time*breakdown[StrategyTime] +
		weights.Pattern*breakdown[StrategyPattern]) / total
	score = clamp01(score)

	return models.MatchResult{
		SourceID:   sourceID,
		TargetID:   targetID,
		Score:      score,
		Confidence: models.ConfidenceForScore(score),
		Breakdown:  breakdown,
	}
}

// fieldPair is one comparable field with both values rendered as strings.
type fieldPair struct {
	name   string
	source string
	target string
}

// comparableFields collects fields present and non-empty on both sides,
// sorted by name for deterministic scoring.
func comparableFields(source, target models.Record) []fieldPair {
	var pairs []fieldPair
	for name, sv := range source {
		tv, ok := target[name]
		if !ok || sv == nil || tv == nil {
			continue
		}
		ss := strings.TrimSpace(cellString(sv))
		ts := strings.TrimSpace(cellString(tv))
		if ss == "" || ts == "" {
			continue
		}
		pairs = append(pairs, fieldPair{name: name, source: ss, target: ts})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })
	return pairs
}

// exactScore is the fraction of fields whose values are equal ignoring
// case.
func exactScore(fields []fieldPair) float64 {
	if len(fields) == 0 {
		return 0
	}
	hits := 0
	for _, f := range fields {
		if strings.EqualFold(f.source, f.target) {
			hits++
		}
	}
	return float64(hits) / float64(len(fields))
}

// fuzzyScore is the mean edit-distance similarity across fields.
func fuzzyScore(fields []fieldPair) float64 {
	if len(fields) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range fields {
		sum += levenshteinRatio(f.source, f.target)
	}
	return sum / float64(len(fields))
}

// soundexScore is the fraction of phonetically equal fields among those
// with phonetic content (values containing letters) on both sides.
func soundexScore(fields []fieldPair) float64 {
	applicable, hits := 0, 0
	for _, f := range fields {
		if !hasLetter(f.source) || !hasLetter(f.target) {
			continue
		}
		applicable++
		if phoneticEqual(f.source, f.target) {
			hits++
		}
	}
	if applicable == 0 {
		return 0
	}
	return float64(hits) / float64(applicable)
}

// timeScore is the mean temporal proximity over fields that parse as
// dates on both sides. Proximity decays linearly over thirty days.
func timeScore(fields []fieldPair) float64 {
	applicable := 0
	sum := 0.0
	for _, f := range fields {
		st, ok1 := parseDate(f.source)
		tt, ok2 := parseDate(f.target)
		if !ok1 || !ok2 {
			continue
		}
		applicable++
		diffDays := st.Sub(tt).Abs().Hours() / 24
		sum += maxFloat(0, 1-diffDays/temporalDecayDays)
	}
	if applicable == 0 {
		return 0
	}
	return sum / float64(applicable)
}

// patternScore is the mean structural-shape similarity across fields.
func patternScore(fields []fieldPair) float64 {
	if len(fields) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range fields {
		sum += shapeSimilarity(f.source, f.target)
	}
	return sum / float64(len(fields))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

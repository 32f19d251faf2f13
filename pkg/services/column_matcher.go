package services

import (
	"sort"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/gridbase-inc/import-engine/pkg/models"
)

// DefaultNameMatchFloor is the minimum name similarity for a fallback
// suggestion to be offered at all.
const DefaultNameMatchFloor = 0.5

// SuggestColumnMappings proposes source-to-target column mappings by
// header-name similarity. This is the fallback path when the mapping
// history has nothing to offer for the current file.
//
// Names are normalized (case-folded, separators stripped, tokens
// singularized) before comparison, so "user_emails" lines up with
// "UserEmail". Each target column is claimed by at most one source
// column; the best-scoring pair wins. Only pairs at or above minScore
// are returned, ordered by the source column's position in the import.
func SuggestColumnMappings(sourceCols, targetCols []string, minScore float64) []models.ColumnMapping {
	if minScore <= 0 {
		minScore = DefaultNameMatchFloor
	}

	type candidate struct {
		sourceIdx int
		targetIdx int
		score     float64
	}

	normSources := make([]string, len(sourceCols))
	for i, c := range sourceCols {
		normSources[i] = normalizeHeader(c)
	}
	normTargets := make([]string, len(targetCols))
	for i, c := range targetCols {
		normTargets[i] = normalizeHeader(c)
	}

	var candidates []candidate
	for si := range sourceCols {
		for ti := range targetCols {
			score := headerSimilarity(normSources[si], normTargets[ti])
			if score >= minScore {
				candidates = append(candidates, candidate{sourceIdx: si, targetIdx: ti, score: score})
			}
		}
	}

	// Greedy assignment, best score first. Ties break on column
	// position so output is deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].sourceIdx != candidates[j].sourceIdx {
			return candidates[i].sourceIdx < candidates[j].sourceIdx
		}
		return candidates[i].targetIdx < candidates[j].targetIdx
	})

	usedSources := make(map[int]bool)
	usedTargets := make(map[int]bool)
	var mappings []models.ColumnMapping
	for _, c := range candidates {
		if usedSources[c.sourceIdx] || usedTargets[c.targetIdx] {
			continue
		}
		usedSources[c.sourceIdx] = true
		usedTargets[c.targetIdx] = true
		mappings = append(mappings, models.ColumnMapping{
			SourceColumn: sourceCols[c.sourceIdx],
			TargetColumn: targetCols[c.targetIdx],
			Confidence:   c.score,
		})
	}

	sort.Slice(mappings, func(i, j int) bool {
		return indexOf(sourceCols, mappings[i].SourceColumn) < indexOf(sourceCols, mappings[j].SourceColumn)
	})
	return mappings
}

// headerSimilarity scores two normalized header names.
func headerSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	return levenshteinRatio(a, b)
}

// normalizeHeader folds case, strips separators and singularizes each
// word, so "Customer_Emails" and "customer email" normalize identically.
func normalizeHeader(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	for i, f := range fields {
		fields[i] = inflection.Singular(f)
	}
	return strings.Join(fields, "")
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return len(list)
}

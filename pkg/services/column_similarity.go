package services

import "strings"

// ColumnSetSimilarity computes the Jaccard index of two header-name sets,
// case-folded. Symmetric: ColumnSetSimilarity(a, b) == ColumnSetSimilarity(b, a).
//
// Two empty sets score 0. "Nothing to compare" and "no overlap" are
// treated identically so the value stays a well-defined number that
// survives JSON encoding.
func ColumnSetSimilarity(a, b []string) float64 {
	setA := foldedSet(a)
	setB := foldedSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for name := range setA {
		if setB[name] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

func foldName(name string) string {
	return strings.ToLower(name)
}

func foldedSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[foldName(n)] = true
	}
	return set
}

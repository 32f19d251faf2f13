package services

import (
	"strings"
	"unicode"
)

// levenshteinRatio returns a similarity in [0,1] based on edit distance,
// case-insensitive. Two empty strings are identical (1).
func levenshteinRatio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes the edit distance between two strings using a
// single rolling row.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		prev := i
		for j := 1; j <= len(rb); j++ {
			val := row[j] + 1
			if ra[i-1] == rb[j-1] {
				val = row[j-1]
			} else if row[j-1]+1 < val {
				val = row[j-1] + 1
			}
			if prev+1 < val {
				val = prev + 1
			}
			row[j-1] = prev
			prev = val
		}
		row[len(rb)] = prev
	}
	return row[len(rb)]
}

// structuralShape maps a value to its character-class skeleton: digits
// become '9', letters become 'a', whitespace collapses to a single
// space, punctuation is kept. "+1 (555) 123-4567" and "+7 (900) 555-1234"
// share a shape even though no character matches.
func structuralShape(s string) string {
	var sb strings.Builder
	lastSpace := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			sb.WriteByte('9')
			lastSpace = false
		case unicode.IsLetter(r):
			sb.WriteByte('a')
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				sb.WriteByte(' ')
			}
			lastSpace = true
		default:
			sb.WriteRune(r)
			lastSpace = false
		}
	}
	return sb.String()
}

// shapeSimilarity scores how closely two values share a structural
// pattern: identical shapes score 1, otherwise the edit-distance ratio
// of the shapes.
func shapeSimilarity(a, b string) float64 {
	sa, sb := structuralShape(a), structuralShape(b)
	if sa == sb {
		return 1.0
	}
	return levenshteinRatio(sa, sb)
}

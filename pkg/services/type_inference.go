package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gridbase-inc/import-engine/pkg/models"
)

// typeInferenceSampleLimit caps how many non-null sample values are
// examined per column. Ten values is enough to separate the semantic
// types without scanning the whole file.
const typeInferenceSampleLimit = 10

// selectMinDistinct and selectMaxDistinct bound the distinct-value count
// for a column to be classified as a select (enum-like) column. Both
// bounds are inclusive and pinned by tests: a single repeated value is
// not an enum, and more than ten options is free text.
const (
	selectMinDistinct = 2
	selectMaxDistinct = 10
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{7,20}$`)
	urlPattern   = regexp.MustCompile(`^https?://.+`)
)

// booleanTokens is the closed set of values recognized as booleans,
// compared case-insensitively. Includes the Russian да/нет pair because
// a large share of imported sheets use them.
var booleanTokens = map[string]bool{
	"true": true, "false": true,
	"yes": true, "no": true,
	"1": true, "0": true,
	"да": true, "нет": true,
}

// dateLayouts lists the formats accepted when classifying a value as a
// date. Ordered from most to least specific.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
}

// InferColumnType guesses a column's semantic type from its sample
// values. Rules are ordered and first-match-wins; an empty sample falls
// back to text.
//
// Pattern checks examine up to the first ten non-null values. The
// select heuristic counts distinct values across the whole sample, so a
// column with eleven options is free text even though only ten values
// were pattern-checked.
func InferColumnType(columnName string, samples []any) models.SemanticType {
	var checked []string
	distinct := make(map[string]bool)
	for _, v := range samples {
		if v == nil {
			continue
		}
		s := cellString(v)
		distinct[s] = true
		if len(checked) < typeInferenceSampleLimit {
			checked = append(checked, s)
		}
	}
	if len(checked) == 0 {
		return models.SemanticTypeText
	}

	if allMatch(checked, isNumeric) {
		return models.SemanticTypeNumber
	}
	if allMatch(checked, isBooleanToken) {
		return models.SemanticTypeBoolean
	}
	if allMatch(checked, emailPattern.MatchString) {
		return models.SemanticTypeEmail
	}
	if allMatch(checked, phonePattern.MatchString) {
		return models.SemanticTypePhone
	}
	if allMatch(checked, urlPattern.MatchString) {
		return models.SemanticTypeURL
	}
	if allMatch(checked, isDateString) {
		return models.SemanticTypeDate
	}

	if len(distinct) >= selectMinDistinct && len(distinct) <= selectMaxDistinct {
		return models.SemanticTypeSelect
	}

	return models.SemanticTypeText
}

func allMatch(values []string, fn func(string) bool) bool {
	for _, v := range values {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func isBooleanToken(s string) bool {
	return booleanTokens[strings.ToLower(strings.TrimSpace(s))]
}

func isDateString(s string) bool {
	_, ok := parseDate(s)
	return ok
}

// parseDate tries the accepted date layouts in order.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// classifyValue assigns a single cell value to a primitive semantic type.
// Used by the quality analyzer's consistency metric. Checks run in the
// same order as InferColumnType, with date inserted before the text
// fallback.
func classifyValue(v any) models.SemanticType {
	switch tv := v.(type) {
	case bool:
		return models.SemanticTypeBoolean
	case float64, float32, int, int32, int64:
		return models.SemanticTypeNumber
	case time.Time:
		return models.SemanticTypeDate
	case string:
		switch {
		case isNumeric(tv):
			return models.SemanticTypeNumber
		case isBooleanToken(tv):
			return models.SemanticTypeBoolean
		case emailPattern.MatchString(tv):
			return models.SemanticTypeEmail
		case phonePattern.MatchString(tv):
			return models.SemanticTypePhone
		case urlPattern.MatchString(tv):
			return models.SemanticTypeURL
		case isDateString(tv):
			return models.SemanticTypeDate
		default:
			return models.SemanticTypeText
		}
	default:
		return models.SemanticTypeText
	}
}

// cellString renders a cell value as the string the heuristics operate on.
func cellString(v any) string {
	switch tv := v.(type) {
	case string:
		return tv
	case bool:
		return strconv.FormatBool(tv)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(tv), 'f', -1, 32)
	case int:
		return strconv.Itoa(tv)
	case int32:
		return strconv.FormatInt(int64(tv), 10)
	case int64:
		return strconv.FormatInt(tv, 10)
	case time.Time:
		return tv.Format(time.RFC3339)
	default:
		return fmt.Sprint(tv)
	}
}

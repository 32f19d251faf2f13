package services

import (
	"sort"

	"github.com/gridbase-inc/import-engine/pkg/models"
)

// AnalyzeQuality computes per-column completeness, uniqueness and
// type-consistency over an import batch, plus an aggregate score used to
// gate the import. Empty input yields a zeroed report.
//
// The analyzer is advisory: a low score surfaces to the user for review,
// it never fails the import.
func AnalyzeQuality(rows []models.Record) models.DataQualityReport {
	report := models.DataQualityReport{Columns: []models.ColumnQuality{}}
	if len(rows) == 0 {
		return report
	}

	// Union of all column names, sorted so reports are stable across
	// runs regardless of map iteration order.
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	sort.Strings(columns)

	scoreSum := 0.0
	for _, name := range columns {
		cq := analyzeColumn(name, rows)
		report.Columns = append(report.Columns, cq)
		scoreSum += (cq.Completeness + cq.Consistency) / 2
	}
	report.OverallScore = clamp01(scoreSum / float64(len(columns)))

	return report
}

// analyzeColumn computes the three metrics for one column.
func analyzeColumn(name string, rows []models.Record) models.ColumnQuality {
	filled := 0
	nonNull := 0
	distinct := make(map[string]bool)
	typeCounts := make(map[models.SemanticType]int)

	for _, row := range rows {
		value, ok := row[name]
		if !ok || value == nil {
			continue
		}
		nonNull++
		s := cellString(value)
		if s != "" {
			filled++
		}
		distinct[s] = true
		typeCounts[classifyValue(value)]++
	}

	cq := models.ColumnQuality{Name: name}
	cq.Completeness = clamp01(float64(filled) / float64(len(rows)))

	if nonNull > 0 {
		cq.Uniqueness = clamp01(float64(len(distinct)) / float64(nonNull))

		// Consistency: fraction of values matching the column's
		// dominant inferred type.
		mode := 0
		for _, count := range typeCounts {
			if count > mode {
				mode = count
			}
		}
		cq.Consistency = clamp01(float64(mode) / float64(nonNull))
	}

	return cq
}

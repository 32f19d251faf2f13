package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbase-inc/import-engine/pkg/models"
)

func TestAnalyzeQualityEmptyInput(t *testing.T) {
	report := AnalyzeQuality(nil)

	assert.Empty(t, report.Columns)
	assert.Zero(t, report.OverallScore)
}

func TestAnalyzeQualityCompleteness(t *testing.T) {
	rows := []models.Record{
		{"name": "John"},
		{"name": "Jane"},
		{"name": nil},
	}

	report := AnalyzeQuality(rows)
	require.Len(t, report.Columns, 1)
	assert.InDelta(t, 2.0/3.0, report.Columns[0].Completeness, 1e-9)
}

func TestAnalyzeQualityEmptyStringsAreIncomplete(t *testing.T) {
	rows := []models.Record{
		{"note": "present"},
		{"note": ""},
		{"note": "also present"},
	}

	report := AnalyzeQuality(rows)
	require.Len(t, report.Columns, 1)
	assert.InDelta(t, 2.0/3.0, report.Columns[0].Completeness, 1e-9)
}

func TestAnalyzeQualityUniqueness(t *testing.T) {
	rows := []models.Record{
		{"status": "open"},
		{"status": "open"},
		{"status": "closed"},
		{"status": "open"},
	}

	report := AnalyzeQuality(rows)
	require.Len(t, report.Columns, 1)
	assert.InDelta(t, 0.5, report.Columns[0].Uniqueness, 1e-9) // 2 distinct / 4 non-null
}

func TestAnalyzeQualityConsistency(t *testing.T) {
	// Three numbers and one free-text value: the dominant type covers
	// three of four non-null values.
	rows := []models.Record{
		{"amount": "10"},
		{"amount": "20"},
		{"amount": float64(30)},
		{"amount": "n/a"},
	}

	report := AnalyzeQuality(rows)
	require.Len(t, report.Columns, 1)
	assert.InDelta(t, 0.75, report.Columns[0].Consistency, 1e-9)
}

func TestAnalyzeQualityMissingKeysCountAsNull(t *testing.T) {
	// The column union covers all rows; rows without the key drag
	// completeness down.
	rows := []models.Record{
		{"name": "John", "email": "john@example.com"},
		{"name": "Jane"},
	}

	report := AnalyzeQuality(rows)
	require.Len(t, report.Columns, 2)

	// Columns are sorted by name.
	assert.Equal(t, "email", report.Columns[0].Name)
	assert.InDelta(t, 0.5, report.Columns[0].Completeness, 1e-9)
	assert.Equal(t, "name", report.Columns[1].Name)
	assert.InDelta(t, 1.0, report.Columns[1].Completeness, 1e-9)
}

func TestAnalyzeQualityOverallScore(t *testing.T) {
	rows := []models.Record{
		{"id": "1", "name": "Alice"},
		{"id": "2", "name": "Bob"},
	}

	report := AnalyzeQuality(rows)

	// Both columns fully complete and consistent.
	assert.InDelta(t, 1.0, report.OverallScore, 1e-9)
	for _, col := range report.Columns {
		assert.InDelta(t, 1.0, col.Completeness, 1e-9)
		assert.InDelta(t, 1.0, col.Consistency, 1e-9)
	}
}

func TestAnalyzeQualityIdempotent(t *testing.T) {
	rows := []models.Record{
		{"a": "1", "b": "x"},
		{"a": "2", "b": nil},
		{"a": "oops", "b": "y"},
	}

	first := AnalyzeQuality(rows)
	second := AnalyzeQuality(rows)
	assert.Equal(t, first, second)
}

package models

// ColumnQuality holds per-column quality metrics, each in [0,1].
type ColumnQuality struct {
	Name         string  `json:"name"`
	Completeness float64 `json:"completeness"`
	Uniqueness   float64 `json:"uniqueness"`
	Consistency  float64 `json:"consistency"`
}

// DataQualityReport is computed fresh from the current import batch and
// used to gate or guide the import. Not persisted.
type DataQualityReport struct {
	Columns      []ColumnQuality `json:"columns"`
	OverallScore float64         `json:"overall_score"`
}

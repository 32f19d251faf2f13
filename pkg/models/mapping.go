package models

import "time"

// ColumnMapping associates a source file header with a target schema field.
// Produced per import session by history lookup or name matching; never
// persisted on its own.
type ColumnMapping struct {
	SourceColumn string  `json:"source_column"`
	TargetColumn string  `json:"target_column"`
	Confidence   float64 `json:"confidence"`
}

// MappingHistoryEntry records one completed import: which columns were
// present, how they were mapped, and whether the import succeeded.
// Entries are immutable after creation; the history store only appends,
// truncates and deletes.
type MappingHistoryEntry struct {
	ID            string            `json:"id"`
	SourceColumns []string          `json:"source_columns"`
	TargetColumns []string          `json:"target_columns"`
	Mapping       map[string]string `json:"mapping"`
	DatabaseID    string            `json:"database_id"`
	FileName      string            `json:"file_name"`
	Timestamp     time.Time         `json:"timestamp"`
	UserID        string            `json:"user_id"`
	Successful    bool              `json:"successful"`
}

// MappingStats summarizes the mapping history for the settings UI.
type MappingStats struct {
	TotalMappings      int      `json:"total_mappings"`
	SuccessfulMappings int      `json:"successful_mappings"`
	Databases          []string `json:"databases"`
	AvgMappingsPerFile float64  `json:"avg_mappings_per_file"`
}

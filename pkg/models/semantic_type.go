package models

// SemanticType classifies what a column's values represent, beyond the raw
// storage type. Inferred from sample data during import; never accepted
// from clients.
type SemanticType string

const (
	SemanticTypeText    SemanticType = "text"
	SemanticTypeNumber  SemanticType = "number"
	SemanticTypeDate    SemanticType = "date"
	SemanticTypeBoolean SemanticType = "boolean"
	SemanticTypeEmail   SemanticType = "email"
	SemanticTypePhone   SemanticType = "phone"
	SemanticTypeURL     SemanticType = "url"
	SemanticTypeSelect  SemanticType = "select"
)

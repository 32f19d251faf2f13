package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/gridbase-inc/import-engine/pkg/models"
)

// Suggestion sources reported to the import wizard so the UI can label
// where a proposal came from.
const (
	SuggestionSourceHistory   = "history"
	SuggestionSourceNameMatch = "name_match"
)

// SuggestRequest describes the current import session.
type SuggestRequest struct {
	SourceColumns []string `json:"source_columns"`
	TargetColumns []string `json:"target_columns"`
	DatabaseID    string   `json:"database_id"`
}

// MappingSuggestion is the advisor's answer: proposed mappings plus the
// path that produced them.
type MappingSuggestion struct {
	Mappings []models.ColumnMapping `json:"mappings"`
	Source   string                 `json:"source"`
}

// ImportAdvisor drives the import wizard's mapping step: consult history
// first for a fast high-confidence mapping, fall back to name matching,
// and record confirmed imports so the next similar file maps itself.
type ImportAdvisor interface {
	SuggestMappings(ctx context.Context, req SuggestRequest) MappingSuggestion
	ConfirmImport(ctx context.Context, entry models.MappingHistoryEntry) models.MappingHistoryEntry
}

type importAdvisor struct {
	history        MappingHistoryService
	nameMatchFloor float64
	logger         *zap.Logger
}

// NewImportAdvisor creates an ImportAdvisor. nameMatchFloor below or at
// zero means the default floor.
func NewImportAdvisor(history MappingHistoryService, nameMatchFloor float64, logger *zap.Logger) ImportAdvisor {
	if nameMatchFloor <= 0 {
		nameMatchFloor = DefaultNameMatchFloor
	}
	return &importAdvisor{
		history:        history,
		nameMatchFloor: nameMatchFloor,
		logger:         logger,
	}
}

var _ ImportAdvisor = (*importAdvisor)(nil)

func (a *importAdvisor) SuggestMappings(ctx context.Context, req SuggestRequest) MappingSuggestion {
	if fromHistory := a.history.SuggestFromHistory(ctx, req.SourceColumns, req.TargetColumns, req.DatabaseID); len(fromHistory) > 0 {
		a.logger.Debug("Suggested mappings from history",
			zap.Int("mappings", len(fromHistory)),
			zap.String("database_id", req.DatabaseID),
		)
		return MappingSuggestion{Mappings: fromHistory, Source: SuggestionSourceHistory}
	}

	byName := SuggestColumnMappings(req.SourceColumns, req.TargetColumns, a.nameMatchFloor)
	a.logger.Debug("Suggested mappings by name matching",
		zap.Int("mappings", len(byName)),
		zap.Int("source_columns", len(req.SourceColumns)),
		zap.Int("target_columns", len(req.TargetColumns)),
	)
	return MappingSuggestion{Mappings: byName, Source: SuggestionSourceNameMatch}
}

func (a *importAdvisor) ConfirmImport(ctx context.Context, entry models.MappingHistoryEntry) models.MappingHistoryEntry {
	saved := a.history.Save(ctx, entry)
	a.logger.Info("Recorded import into mapping history",
		zap.String("entry_id", saved.ID),
		zap.String("file_name", saved.FileName),
		zap.String("database_id", saved.DatabaseID),
		zap.Bool("successful", saved.Successful),
	)
	return saved
}

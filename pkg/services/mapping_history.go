package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gridbase-inc/import-engine/pkg/apperrors"
	"github.com/gridbase-inc/import-engine/pkg/models"
	"github.com/gridbase-inc/import-engine/pkg/repositories"
)

// historyBlobKey is the single storage slot holding the serialized
// history log.
const historyBlobKey = "mapping_history"

// DefaultHistoryRetentionDays is how long history entries are kept when
// cleanup is invoked without an explicit window.
const DefaultHistoryRetentionDays = 30

// HistoryConfig carries the product-tuned history constants. The zero
// value is not usable; construct via config or DefaultHistoryConfig.
type HistoryConfig struct {
	// MaxEntries caps the log; the oldest entries beyond it are evicted.
	MaxEntries int
	// SimilarityThreshold is the minimum column-set similarity for an
	// entry to count as "similar" on both source and target sides.
	SimilarityThreshold float64
	// SuggestionConfidence is assigned to every mapping suggested from
	// history. Fixed rather than derived: a confirmed past mapping is
	// near-certain regardless of how fuzzily the column sets overlap.
	SuggestionConfidence float64
}

// DefaultHistoryConfig returns the tuned defaults.
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		MaxEntries:           100,
		SimilarityThreshold:  0.5,
		SuggestionConfidence: 0.95,
	}
}

// MappingHistoryService owns the persisted log of past import mappings.
//
// Every operation is defensive at the persistence boundary: storage that
// is absent, corrupt or failing degrades to "no history" and is logged,
// never surfaced to callers. A bad history means worse suggestions, not
// a failed import.
type MappingHistoryService interface {
	// Save assigns a fresh ID and timestamp, prepends the entry and
	// truncates the log to MaxEntries. Returns the stored entry.
	Save(ctx context.Context, entry models.MappingHistoryEntry) models.MappingHistoryEntry

	// LoadAll returns all entries, most recent first.
	LoadAll(ctx context.Context) []models.MappingHistoryEntry

	// FindSimilar returns entries whose source and target column sets
	// both overlap the given ones above the similarity threshold,
	// newest first. A non-empty databaseID restricts to that database.
	FindSimilar(ctx context.Context, sourceCols, targetCols []string, databaseID string) []models.MappingHistoryEntry

	// SuggestFromHistory proposes mappings from the most recent similar
	// successful entry, restricted to columns present in the current
	// import. Empty when no similar successful entry exists.
	SuggestFromHistory(ctx context.Context, sourceCols, targetCols []string, databaseID string) []models.ColumnMapping

	// Cleanup removes entries older than daysToKeep days and reports
	// how many were removed. daysToKeep <= 0 means the default window.
	Cleanup(ctx context.Context, daysToKeep int) int

	// Stats summarizes the history log.
	Stats(ctx context.Context) models.MappingStats

	// Clear deletes the entire history.
	Clear(ctx context.Context)
}

type mappingHistoryService struct {
	store  repositories.BlobStore
	cfg    HistoryConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewMappingHistoryService creates a MappingHistoryService on top of the
// given blob store.
func NewMappingHistoryService(store repositories.BlobStore, cfg HistoryConfig, logger *zap.Logger) MappingHistoryService {
	if cfg.MaxEntries <= 0 {
		cfg = DefaultHistoryConfig()
	}
	return &mappingHistoryService{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

var _ MappingHistoryService = (*mappingHistoryService)(nil)

func (s *mappingHistoryService) Save(ctx context.Context, entry models.MappingHistoryEntry) models.MappingHistoryEntry {
	entry.ID = uuid.NewString()
	entry.Timestamp = s.now().UTC()

	entries := s.LoadAll(ctx)
	entries = append([]models.MappingHistoryEntry{entry}, entries...)
	if len(entries) > s.cfg.MaxEntries {
		entries = entries[:s.cfg.MaxEntries]
	}
	s.persist(ctx, entries)

	return entry
}

func (s *mappingHistoryService) LoadAll(ctx context.Context) []models.MappingHistoryEntry {
	data, err := s.store.Get(ctx, historyBlobKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Failed to read mapping history, treating as empty", zap.Error(err))
		}
		return nil
	}

	var entries []models.MappingHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("Mapping history blob is corrupt, treating as empty", zap.Error(err))
		return nil
	}
	return entries
}

func (s *mappingHistoryService) FindSimilar(ctx context.Context, sourceCols, targetCols []string, databaseID string) []models.MappingHistoryEntry {
	var similar []models.MappingHistoryEntry
	for _, entry := range s.LoadAll(ctx) {
		if databaseID != "" && entry.DatabaseID != databaseID {
			continue
		}
		if ColumnSetSimilarity(sourceCols, entry.SourceColumns) <= s.cfg.SimilarityThreshold {
			continue
		}
		if ColumnSetSimilarity(targetCols, entry.TargetColumns) <= s.cfg.SimilarityThreshold {
			continue
		}
		similar = append(similar, entry)
	}
	// LoadAll is already newest-first; keep that order.
	return similar
}

func (s *mappingHistoryService) SuggestFromHistory(ctx context.Context, sourceCols, targetCols []string, databaseID string) []models.ColumnMapping {
	var best *models.MappingHistoryEntry
	for _, entry := range s.FindSimilar(ctx, sourceCols, targetCols, databaseID) {
		if entry.Successful {
			best = &entry
			break
		}
	}
	if best == nil {
		return nil
	}

	currentSources := foldedSet(sourceCols)
	currentTargets := foldedSet(targetCols)

	var suggestions []models.ColumnMapping
	// Iterate in source-column order so output is deterministic.
	sources := make([]string, 0, len(best.Mapping))
	for source := range best.Mapping {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		target := best.Mapping[source]
		if !currentSources[foldName(source)] || !currentTargets[foldName(target)] {
			continue
		}
		suggestions = append(suggestions, models.ColumnMapping{
			SourceColumn: source,
			TargetColumn: target,
			Confidence:   s.cfg.SuggestionConfidence,
		})
	}
	return suggestions
}

func (s *mappingHistoryService) Cleanup(ctx context.Context, daysToKeep int) int {
	if daysToKeep <= 0 {
		daysToKeep = DefaultHistoryRetentionDays
	}
	cutoff := s.now().UTC().AddDate(0, 0, -daysToKeep)

	entries := s.LoadAll(ctx)
	kept := entries[:0:0]
	for _, entry := range entries {
		if entry.Timestamp.After(cutoff) {
			kept = append(kept, entry)
		}
	}
	removed := len(entries) - len(kept)
	if removed > 0 {
		s.persist(ctx, kept)
		s.logger.Info("Cleaned up mapping history",
			zap.Int("removed", removed),
			zap.Int("kept", len(kept)),
			zap.Int("days_to_keep", daysToKeep),
		)
	}
	return removed
}

func (s *mappingHistoryService) Stats(ctx context.Context) models.MappingStats {
	entries := s.LoadAll(ctx)

	stats := models.MappingStats{
		TotalMappings: len(entries),
		Databases:     []string{},
	}

	seen := make(map[string]bool)
	totalPairs := 0
	for _, entry := range entries {
		if entry.Successful {
			stats.SuccessfulMappings++
		}
		if entry.DatabaseID != "" && !seen[entry.DatabaseID] {
			seen[entry.DatabaseID] = true
			stats.Databases = append(stats.Databases, entry.DatabaseID)
		}
		totalPairs += len(entry.Mapping)
	}
	sort.Strings(stats.Databases)

	if len(entries) > 0 {
		stats.AvgMappingsPerFile = float64(totalPairs) / float64(len(entries))
	}
	return stats
}

func (s *mappingHistoryService) Clear(ctx context.Context) {
	if err := s.store.Delete(ctx, historyBlobKey); err != nil {
		s.logger.Warn("Failed to clear mapping history", zap.Error(err))
	}
}

// persist writes the full log back to storage. Write failures (quota,
// permissions, connectivity) are logged and swallowed: losing a history
// update must never fail the import that produced it.
func (s *mappingHistoryService) persist(ctx context.Context, entries []models.MappingHistoryEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		s.logger.Warn("Failed to encode mapping history", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, historyBlobKey, data); err != nil {
		s.logger.Warn("Failed to persist mapping history", zap.Error(err))
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/gridbase-inc/import-engine/pkg/config"
	"github.com/gridbase-inc/import-engine/pkg/jsonutil"
	"github.com/gridbase-inc/import-engine/pkg/models"
	"github.com/gridbase-inc/import-engine/pkg/services"
)

// MatchHandler exposes cross-database record matching to the matching
// wizard. The handler owns the wizard policy: only pairs scoring above
// the threshold are returned, best first.
type MatchHandler struct {
	matching config.MatchingConfig
	logger   *zap.Logger
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matching config.MatchingConfig, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{matching: matching, logger: logger}
}

// RegisterRoutes registers the match endpoint on the given mux.
func (h *MatchHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/match", h.Match)
}

// MatchRecordInput is one record with its caller-supplied identifier.
type MatchRecordInput struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// MatchRequest pairs every source record against every target record.
// Weights and threshold are optional; absent values fall back to the
// configured defaults.
type MatchRequest struct {
	SourceRecords []MatchRecordInput      `json:"source_records"`
	TargetRecords []MatchRecordInput      `json:"target_records"`
	Weights       *models.StrategyWeights `json:"weights,omitempty"`
	Threshold     *float64                `json:"threshold,omitempty"`
}

// MatchResponse carries the retained match results.
type MatchResponse struct {
	Matches []models.MatchResult `json:"matches"`
}

// Match handles POST /api/match.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	weights := h.matching.Weights()
	if req.Weights != nil && !req.Weights.IsZero() {
		weights = *req.Weights
	}
	threshold := h.matching.ScoreThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	matches := []models.MatchResult{}
	for _, source := range req.SourceRecords {
		sourceRecord := models.Record(jsonutil.NormalizeRecord(source.Fields))
		for _, target := range req.TargetRecords {
			targetRecord := models.Record(jsonutil.NormalizeRecord(target.Fields))
			result := services.MatchRecords(source.ID, target.ID, sourceRecord, targetRecord, weights)
			if result.Score > threshold {
				matches = append(matches, result)
			}
		}
	}

	// Best matches first; ties keep source order for a stable wizard UI.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	h.logger.Debug("Matched records",
		zap.Int("source_records", len(req.SourceRecords)),
		zap.Int("target_records", len(req.TargetRecords)),
		zap.Int("retained", len(matches)),
	)

	if err := WriteJSON(w, http.StatusOK, MatchResponse{Matches: matches}); err != nil {
		h.logger.Error("Failed to encode match response", zap.Error(err))
	}
}

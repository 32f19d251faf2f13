package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/gridbase-inc/import-engine/pkg/models"
	"github.com/gridbase-inc/import-engine/pkg/services"
)

// HistoryHandler exposes the mapping history for the settings UI:
// listing, stats, retention cleanup and full reset.
type HistoryHandler struct {
	history       services.MappingHistoryService
	retentionDays int
	logger        *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler. retentionDays is the
// default cleanup window when the request does not specify one.
func NewHistoryHandler(history services.MappingHistoryService, retentionDays int, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, retentionDays: retentionDays, logger: logger}
}

// RegisterRoutes registers the history endpoints on the given mux.
func (h *HistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/history", h.HandleHistory)
	mux.HandleFunc("/api/history/stats", h.Stats)
	mux.HandleFunc("/api/history/cleanup", h.Cleanup)
}

// HandleHistory dispatches GET (list) and DELETE (clear) on /api/history.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	entries := h.history.LoadAll(r.Context())
	if entries == nil {
		entries = []models.MappingHistoryEntry{}
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"entries": entries}); err != nil {
		h.logger.Error("Failed to encode history list", zap.Error(err))
	}
}

func (h *HistoryHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.history.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/history/stats.
func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if err := WriteJSON(w, http.StatusOK, h.history.Stats(r.Context())); err != nil {
		h.logger.Error("Failed to encode history stats", zap.Error(err))
	}
}

// CleanupRequest optionally overrides the retention window.
type CleanupRequest struct {
	DaysToKeep int `json:"days_to_keep"`
}

// Cleanup handles POST /api/history/cleanup.
func (h *HistoryHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	req := CleanupRequest{DaysToKeep: h.retentionDays}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}
	if req.DaysToKeep <= 0 {
		req.DaysToKeep = h.retentionDays
	}

	removed := h.history.Cleanup(r.Context(), req.DaysToKeep)
	if err := WriteJSON(w, http.StatusOK, map[string]int{"removed": removed}); err != nil {
		h.logger.Error("Failed to encode cleanup response", zap.Error(err))
	}
}

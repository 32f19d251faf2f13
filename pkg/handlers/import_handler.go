package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/gridbase-inc/import-engine/pkg/jsonutil"
	"github.com/gridbase-inc/import-engine/pkg/logging"
	"github.com/gridbase-inc/import-engine/pkg/models"
	"github.com/gridbase-inc/import-engine/pkg/services"
)

// sampleLogLimit caps how much of a cell value ends up in a log line.
const sampleLogLimit = 64

// ImportHandler exposes the import wizard's analysis endpoints: type
// inference, quality reporting, mapping suggestions and import
// confirmation.
type ImportHandler struct {
	advisor services.ImportAdvisor
	logger  *zap.Logger
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(advisor services.ImportAdvisor, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{advisor: advisor, logger: logger}
}

// RegisterRoutes registers the import endpoints on the given mux.
func (h *ImportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/import/infer", h.InferTypes)
	mux.HandleFunc("/api/import/analyze", h.AnalyzeQuality)
	mux.HandleFunc("/api/import/suggest", h.SuggestMappings)
	mux.HandleFunc("/api/import/confirm", h.ConfirmImport)
}

// firstSample renders the first non-nil sample for logging.
func firstSample(samples []any) string {
	for _, v := range samples {
		if v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}

// InferTypesRequest carries sampled columns from a parsed upload.
type InferTypesRequest struct {
	Columns []SampledColumn `json:"columns"`
}

// SampledColumn is one column with its sampled cell values.
type SampledColumn struct {
	Name    string `json:"name"`
	Samples []any  `json:"samples"`
}

// InferredColumn is one column with its inferred semantic type.
type InferredColumn struct {
	Name string              `json:"name"`
	Type models.SemanticType `json:"type"`
}

// InferTypes handles POST /api/import/infer.
func (h *ImportHandler) InferTypes(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req InferTypesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	columns := make([]InferredColumn, 0, len(req.Columns))
	for _, col := range req.Columns {
		for i, v := range col.Samples {
			col.Samples[i] = jsonutil.NormalizeCell(v)
		}
		inferred := services.InferColumnType(col.Name, col.Samples)
		columns = append(columns, InferredColumn{
			Name: col.Name,
			Type: inferred,
		})
		h.logger.Debug("Inferred column type",
			zap.String("column", col.Name),
			zap.String("type", string(inferred)),
			zap.String("first_sample", logging.TruncateString(firstSample(col.Samples), sampleLogLimit)),
		)
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"columns": columns}); err != nil {
		h.logger.Error("Failed to encode infer response", zap.Error(err))
	}
}

// AnalyzeQualityRequest carries the rows of the current import batch.
type AnalyzeQualityRequest struct {
	Rows []map[string]any `json:"rows"`
}

// AnalyzeQuality handles POST /api/import/analyze.
func (h *ImportHandler) AnalyzeQuality(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req AnalyzeQualityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	rows := make([]models.Record, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, models.Record(jsonutil.NormalizeRecord(row)))
	}

	report := services.AnalyzeQuality(rows)
	if err := WriteJSON(w, http.StatusOK, report); err != nil {
		h.logger.Error("Failed to encode quality report", zap.Error(err))
	}
}

// SuggestMappings handles POST /api/import/suggest.
func (h *ImportHandler) SuggestMappings(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req services.SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	suggestion := h.advisor.SuggestMappings(r.Context(), req)
	if suggestion.Mappings == nil {
		suggestion.Mappings = []models.ColumnMapping{}
	}
	if err := WriteJSON(w, http.StatusOK, suggestion); err != nil {
		h.logger.Error("Failed to encode mapping suggestions", zap.Error(err))
	}
}

// ConfirmImportRequest records a completed import into history.
type ConfirmImportRequest struct {
	SourceColumns []string          `json:"source_columns"`
	TargetColumns []string          `json:"target_columns"`
	Mapping       map[string]string `json:"mapping"`
	DatabaseID    string            `json:"database_id"`
	FileName      string            `json:"file_name"`
	UserID        string            `json:"user_id"`
	Successful    bool              `json:"successful"`
}

// ConfirmImport handles POST /api/import/confirm.
func (h *ImportHandler) ConfirmImport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req ConfirmImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	saved := h.advisor.ConfirmImport(r.Context(), models.MappingHistoryEntry{
		SourceColumns: req.SourceColumns,
		TargetColumns: req.TargetColumns,
		Mapping:       req.Mapping,
		DatabaseID:    req.DatabaseID,
		FileName:      req.FileName,
		UserID:        req.UserID,
		Successful:    req.Successful,
	})

	if err := WriteJSON(w, http.StatusCreated, saved); err != nil {
		h.logger.Error("Failed to encode confirmed entry", zap.Error(err))
	}
}

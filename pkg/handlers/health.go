package handlers

import (
	"net/http"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/gridbase-inc/import-engine/pkg/config"
)

// PingResponse contains service status and version information, plus
// which history backend the engine is running against.
type PingResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	Service        string `json:"service"`
	GoVersion      string `json:"go_version"`
	Hostname       string `json:"hostname"`
	Environment    string `json:"environment"`
	HistoryBackend string `json:"history_backend"`
}

// HealthHandler handles health check and ping endpoints.
type HealthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler with the given configuration.
func NewHealthHandler(cfg *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/ping", h.Ping)
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ping handles GET /ping requests with service details.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		http.Error(w, "failed to get hostname", http.StatusInternalServerError)
		return
	}

	response := PingResponse{
		Status:         "ok",
		Version:        h.cfg.Version,
		Service:        "import-engine",
		GoVersion:      runtime.Version(),
		Hostname:       hostname,
		Environment:    h.cfg.Env,
		HistoryBackend: h.cfg.History.Backend,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}

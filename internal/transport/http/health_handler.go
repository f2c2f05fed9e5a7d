package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"indicli/internal/config"
	"indicli/internal/services"
	"indicli/internal/session"
)

// HealthHandler reports liveness and the state of the loaded dataset.
type HealthHandler struct {
	service *services.IndicatorService
	logger  *slog.Logger
	started time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service *services.IndicatorService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("component", "health_handler")),
		started: time.Now(),
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Get)
	return r
}

type healthResponse struct {
	Status         string             `json:"status"`
	Version        string             `json:"version"`
	UptimeSeconds  int64              `json:"uptime_seconds"`
	DatasetLoaded  bool               `json:"dataset_loaded"`
	DatasetVersion string             `json:"dataset_version,omitempty"`
	Cache          session.CacheStats `json:"cache"`
}

// Get handles GET /healthz.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	datasetVersion := h.service.Version()

	render.Status(r, http.StatusOK)
	render.JSON(w, r, healthResponse{
		Status:         "ok",
		Version:        config.AppVersion,
		UptimeSeconds:  int64(time.Since(h.started).Seconds()),
		DatasetLoaded:  datasetVersion != "",
		DatasetVersion: datasetVersion,
		Cache:          h.service.CacheStats(),
	})
}

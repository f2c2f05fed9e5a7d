package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"indicli/internal/config"
	apierrors "indicli/internal/errors"
	"indicli/internal/middleware"
	"indicli/internal/services"
)

// NewRouter assembles the full HTTP surface: data API under /api, health
// under /healthz and prometheus under /metrics.
func NewRouter(cfg *config.Config, service *services.IndicatorService, logger *slog.Logger) chi.Router {
	errorHandler := apierrors.NewErrorHandler(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(apierrors.RecoveryMiddleware(errorHandler))
	if cfg.Server.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	r.Mount("/api", NewDataHandler(service, logger, errorHandler).Routes())
	r.Mount("/healthz", NewHealthHandler(service, logger).Routes())
	r.Handle("/metrics", promhttp.Handler())

	return r
}

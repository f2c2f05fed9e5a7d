package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"indicli/internal/analytics"
	"indicli/internal/dataprocessing"
	apierrors "indicli/internal/errors"
	"indicli/internal/services"
	"indicli/pkg/contracts/domain"
)

// DataHandler serves the canonical, aggregate and forecast table contracts.
type DataHandler struct {
	service      *services.IndicatorService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a data handler.
func NewDataHandler(service *services.IndicatorService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data API routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/canonical", h.GetCanonical)
	r.Get("/aggregates", h.GetAggregates)
	r.Get("/forecast", h.GetForecast)
	r.Get("/summary", h.GetSummary)
	r.Post("/reload", h.Reload)

	return r
}

type canonicalResponse struct {
	Success bool                     `json:"success"`
	Version string                   `json:"version"`
	Count   int                      `json:"count"`
	Records []domain.CanonicalRecord `json:"records"`
}

// GetCanonical handles GET /api/canonical with optional countries,
// indicators, from and to filters.
func (h *DataHandler) GetCanonical(w http.ResponseWriter, r *http.Request) {
	filter := analytics.Filter{
		Countries:  splitParam(r.URL.Query().Get("countries")),
		Indicators: splitParam(r.URL.Query().Get("indicators")),
	}

	var err error
	if filter.YearFrom, err = intParam(r, "from", 0); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("from", "must be an integer year"))
		return
	}
	if filter.YearTo, err = intParam(r, "to", 0); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("to", "must be an integer year"))
		return
	}

	records, version, err := h.service.Canonical(filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, canonicalResponse{
		Success: true,
		Version: version,
		Count:   len(records),
		Records: records,
	})
}

type aggregatesResponse struct {
	Success bool                     `json:"success"`
	Count   int                      `json:"count"`
	Records []domain.AggregateRecord `json:"records"`
}

// GetAggregates handles GET /api/aggregates with an optional window
// override for the rolling average.
func (h *DataHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	window, err := intParam(r, "window", 0)
	if err != nil || window < 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("window", "must be a positive integer"))
		return
	}

	records, err := h.service.Aggregates(window)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, aggregatesResponse{
		Success: true,
		Count:   len(records),
		Records: records,
	})
}

type forecastResponse struct {
	Success bool                    `json:"success"`
	Results []domain.ForecastResult `json:"results"`
}

// GetForecast handles GET /api/forecast. country and indicator are
// required; method, horizon and alpha default from configuration.
func (h *DataHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	country := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("country")))
	if country == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("country", "ISO3 country code is required"))
		return
	}
	indicator := strings.TrimSpace(r.URL.Query().Get("indicator"))
	if indicator == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("indicator", "indicator code is required"))
		return
	}

	horizon, err := intParam(r, "horizon", 0)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("horizon", "must be an integer"))
		return
	}
	alpha, err := floatParam(r, "alpha", 0)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("alpha", "must be a number"))
		return
	}

	results, err := h.service.Forecast(country, indicator, r.URL.Query().Get("method"), horizon, alpha)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, forecastResponse{Success: true, Results: results})
}

type summaryResponse struct {
	Success bool              `json:"success"`
	Summary *services.Summary `json:"summary"`
}

// GetSummary handles GET /api/summary with optional year and countries.
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year", 0)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "must be an integer"))
		return
	}

	summary, err := h.service.Summarize(year, splitParam(r.URL.Query().Get("countries")))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, summaryResponse{Success: true, Summary: summary})
}

type reloadRequest struct {
	Path string `json:"path"`
}

type reloadResponse struct {
	Success bool                       `json:"success"`
	Version string                     `json:"version"`
	Report  *dataprocessing.LoadReport `json:"report"`
}

// Reload handles POST /api/reload. The body names the input file; on any
// load error the previous snapshot stays active.
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	var req reloadRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("path", "input file path is required"))
		return
	}

	report, err := h.service.LoadFromFile(r.Context(), req.Path)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, reloadResponse{
		Success: true,
		Version: h.service.Version(),
		Report:  report,
	})
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

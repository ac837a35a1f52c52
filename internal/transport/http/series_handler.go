package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ratelens/internal/errors"
	"ratelens/internal/services"
)

// SeriesHandler serves the series operations as JSON
type SeriesHandler struct {
	service      SeriesServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSeriesHandler creates a new series handler
func NewSeriesHandler(service SeriesServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SeriesHandler {
	return &SeriesHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "series_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the series routes
func (h *SeriesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/period", h.GetPeriod)
	r.Get("/month/{month}", h.GetMonth)
	r.Get("/monthly", h.GetMonthly)
	r.Get("/deviation", h.GetDeviation)
	r.Get("/stats", h.GetStats)

	return r
}

// GetPeriod handles GET /api/series/period?start=&end=
func (h *SeriesHandler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.service.PeriodView(r.Context(), services.PeriodRequest{
		Start: query.Get("start"),
		End:   query.Get("end"),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	success(w, r, result)
}

// GetMonth handles GET /api/series/month/{month}
func (h *SeriesHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	chart, err := h.service.MonthView(r.Context(), services.MonthRequest{Month: month})
	if errors.Is(err, services.ErrNoDataForMonth) {
		h.logger.InfoContext(r.Context(), "no data for month", slog.String("month", month))
		h.errorHandler.HandleError(w, r, apierrors.NoDataError(fmt.Sprintf("month %s", month)))
		return
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	success(w, r, chart)
}

// GetMonthly handles GET /api/series/monthly
func (h *SeriesHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.MonthlySummary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	success(w, r, result)
}

// GetDeviation handles GET /api/series/deviation?threshold=
func (h *SeriesHandler) GetDeviation(w http.ResponseWriter, r *http.Request) {
	var req services.DeviationRequest
	if text := r.URL.Query().Get("threshold"); text != "" {
		threshold, err := strconv.ParseFloat(text, 64)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("threshold",
				fmt.Sprintf("threshold must be a number, got %q", text)))
			return
		}
		req.Threshold = &threshold
	}

	result, err := h.service.Deviation(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	success(w, r, result)
}

// GetStats handles GET /api/series/stats
func (h *SeriesHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	success(w, r, stats)
}

func success(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

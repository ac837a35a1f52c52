package http

import (
	"context"

	"ratelens/internal/presentation"
	"ratelens/internal/services"
)

// SeriesServiceInterface defines the series operations served over HTTP
type SeriesServiceInterface interface {
	PeriodView(ctx context.Context, req services.PeriodRequest) (services.PeriodResult, error)
	MonthView(ctx context.Context, req services.MonthRequest) (presentation.Chart, error)
	MonthlySummary(ctx context.Context) (services.SummaryResult, error)
	Deviation(ctx context.Context, req services.DeviationRequest) (services.DeviationResult, error)
	Stats(ctx context.Context) (services.SeriesStats, error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ratelens/internal/dataprocessing"
	apperrors "ratelens/internal/errors"
	"ratelens/internal/infrastructure"
	"ratelens/internal/presentation"
	"ratelens/pkg/contracts/domain"
)

// RowReader supplies the raw rows of a source
type RowReader interface {
	Read(ctx context.Context, path string) ([]domain.RawRow, error)
}

// PeriodRequest selects a date range. Empty bounds are open.
type PeriodRequest struct {
	Start string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" validate:"omitempty,datetime=2006-01-02"`
}

// MonthRequest selects one calendar month
type MonthRequest struct {
	Month string `json:"month" validate:"required,datetime=2006-01"`
}

// DeviationRequest selects rows by deviation from the mean. A nil
// threshold uses the configured default.
type DeviationRequest struct {
	Threshold *float64 `json:"threshold" validate:"omitempty,finite"`
}

// PeriodResult is the period view
type PeriodResult struct {
	Chart presentation.Chart `json:"chart"`
	Count int                `json:"count"`
}

// SummaryResult is the monthly summary
type SummaryResult struct {
	Aggregates []domain.MonthlyAggregate `json:"aggregates"`
	Table      presentation.Table        `json:"table"`
	Chart      presentation.Chart        `json:"chart"`
}

// DeviationResult is the deviation view
type DeviationResult struct {
	Threshold float64            `json:"threshold"`
	Table     presentation.Table `json:"table"`
	Count     int                `json:"count"`
}

// SeriesStats describes the loaded series
type SeriesStats struct {
	Source    string                     `json:"source"`
	Rows      int                        `json:"rows"`
	FirstDate string                     `json:"first_date,omitempty"`
	LastDate  string                     `json:"last_date,omitempty"`
	Mean      float64                    `json:"mean"`
	Median    float64                    `json:"median"`
	Cleaning  dataprocessing.CleanReport `json:"cleaning"`
}

// Options configures a SeriesService
type Options struct {
	Source           string
	DefaultThreshold float64
	Report           dataprocessing.CleanReport
	Tracer           trace.Tracer
	Metrics          *infrastructure.SeriesMetrics
	Logger           *slog.Logger
}

// SeriesService runs the series operations against one loaded series.
// It holds no mutable state and is safe for concurrent use.
type SeriesService struct {
	base      dataprocessing.Series
	opts      Options
	validator *RequestValidator
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewSeriesService wraps an already loaded series
func NewSeriesService(series dataprocessing.Series, opts Options) *SeriesService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.InstrumentationName)
	}
	return &SeriesService{
		base:      series,
		opts:      opts,
		validator: NewRequestValidator(),
		tracer:    tracer,
		logger:    opts.Logger.With(slog.String("component", "series_service")),
	}
}

// LoadSeriesService reads and cleans the source at path
func LoadSeriesService(ctx context.Context, reader RowReader, path string, opts Options) (*SeriesService, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.InstrumentationName)
	}

	ctx, span := tracer.Start(ctx, "SeriesService.Load",
		trace.WithAttributes(attribute.String("source", path)))
	defer span.End()

	rows, err := reader.Read(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	series, report := dataprocessing.LoadWithReport(rows)
	opts.Source = path
	opts.Report = report
	opts.Metrics.RecordLoad(ctx, path, report.RawRows, report.DroppedDates+report.DroppedValues, report.ImputedValues)

	opts.Logger.InfoContext(ctx, "Series loaded",
		slog.String("source", path),
		slog.Int("raw_rows", report.RawRows),
		slog.Int("kept", report.Kept),
		slog.Int("dropped_dates", report.DroppedDates),
		slog.Int("dropped_values", report.DroppedValues),
		slog.Int("imputed_values", report.ImputedValues),
		slog.Float64("imputation_mean", report.ImputationMean))
	span.SetAttributes(attribute.Int("rows", series.Len()))

	return NewSeriesService(series, opts), nil
}

// Series returns the loaded series
func (s *SeriesService) Series() dataprocessing.Series {
	return s.base
}

// DefaultThreshold returns the threshold used when a request names none
func (s *SeriesService) DefaultThreshold() float64 {
	return s.opts.DefaultThreshold
}

// PeriodView charts the rows within the requested range
func (s *SeriesService) PeriodView(ctx context.Context, req PeriodRequest) (result PeriodResult, err error) {
	ctx, done := s.begin(ctx, "period",
		attribute.String("start", req.Start),
		attribute.String("end", req.End))
	defer func() { done(result.Count, err) }()

	if err = s.validator.Validate(req); err != nil {
		return PeriodResult{}, err
	}

	start, err := optionalDate(req.Start)
	if err != nil {
		return PeriodResult{}, err
	}
	end, err := optionalDate(req.End)
	if err != nil {
		return PeriodResult{}, err
	}

	filtered := dataprocessing.FilterByDateRange(s.base, start, end)
	s.logger.DebugContext(ctx, "Period filtered", slog.Int("rows", filtered.Len()))

	return PeriodResult{
		Chart: presentation.PeriodChart(filtered, req.Start, req.End),
		Count: filtered.Len(),
	}, nil
}

// MonthView charts one month. A month without rows returns an error
// wrapping ErrNoDataForMonth.
func (s *SeriesService) MonthView(ctx context.Context, req MonthRequest) (chart presentation.Chart, err error) {
	ctx, done := s.begin(ctx, "month", attribute.String("month", req.Month))
	defer func() { done(len(chart.Points), err) }()

	if err = s.validator.Validate(req); err != nil {
		return presentation.Chart{}, err
	}
	month, err := domain.ParseMonth(req.Month)
	if err != nil {
		return presentation.Chart{}, apperrors.NewAppValidationError(err.Error(), err)
	}

	filtered, ok := dataprocessing.FilterByMonth(s.base, month)
	if !ok {
		s.logger.InfoContext(ctx, "No data for month", slog.String("month", month.String()))
		return presentation.Chart{}, fmt.Errorf("%w %s", ErrNoDataForMonth, month)
	}

	return presentation.MonthChart(filtered, month), nil
}

// MonthlySummary aggregates the whole series by month
func (s *SeriesService) MonthlySummary(ctx context.Context) (result SummaryResult, err error) {
	ctx, done := s.begin(ctx, "summary")
	defer func() { done(len(result.Aggregates), err) }()

	aggs := dataprocessing.AggregateByMonth(s.base)
	s.logger.DebugContext(ctx, "Monthly aggregates computed", slog.Int("months", len(aggs)))

	return SummaryResult{
		Aggregates: aggs,
		Table:      presentation.MonthlyTable(aggs),
		Chart:      presentation.MonthlyChart(aggs),
	}, nil
}

// Deviation lists the rows whose deviation from the mean reaches the
// threshold
func (s *SeriesService) Deviation(ctx context.Context, req DeviationRequest) (result DeviationResult, err error) {
	threshold := s.opts.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	ctx, done := s.begin(ctx, "deviation", attribute.Float64("threshold", threshold))
	defer func() { done(result.Count, err) }()

	if err = s.validator.Validate(req); err != nil {
		return DeviationResult{}, err
	}

	filtered, err := dataprocessing.FilterByDeviation(s.base, threshold)
	if err != nil {
		s.logger.ErrorContext(ctx, "Deviation filter rejected series", slog.String("error", err.Error()))
		return DeviationResult{}, err
	}

	return DeviationResult{
		Threshold: threshold,
		Table:     presentation.DeviationTable(filtered, threshold),
		Count:     filtered.Len(),
	}, nil
}

// Stats describes the loaded series
func (s *SeriesService) Stats(ctx context.Context) (stats SeriesStats, err error) {
	_, done := s.begin(ctx, "stats")
	defer func() { done(stats.Rows, err) }()

	values := s.base.Values()
	stats = SeriesStats{
		Source:   s.opts.Source,
		Rows:     s.base.Len(),
		Mean:     dataprocessing.Mean(values),
		Median:   dataprocessing.Median(values),
		Cleaning: s.opts.Report,
	}
	if first, last, ok := s.base.DateBounds(); ok {
		stats.FirstDate = first.Format(domain.DateLayout)
		stats.LastDate = last.Format(domain.DateLayout)
	}
	return stats, nil
}

// begin opens a span for command and returns the function that closes it
// and records metrics. ErrNoDataForMonth is recorded as an empty success.
func (s *SeriesService) begin(ctx context.Context, command string, attrs ...attribute.KeyValue) (context.Context, func(rows int, err error)) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, "SeriesService."+command, trace.WithAttributes(attrs...))

	return ctx, func(rows int, err error) {
		if errors.Is(err, ErrNoDataForMonth) {
			span.AddEvent("no data")
			rows, err = 0, nil
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("rows", rows))
		}
		s.opts.Metrics.RecordCommand(ctx, command, time.Since(started), rows, err)
		span.End()
	}
}

func optionalDate(text string) (*time.Time, error) {
	if text == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, text)
	if err != nil {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("invalid date %q", text), err)
	}
	return &t, nil
}

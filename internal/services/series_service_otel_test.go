package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"ratelens/internal/dataprocessing"
	"ratelens/internal/infrastructure"
	"ratelens/internal/shared/testutil"
)

type instrumentedService struct {
	svc    *SeriesService
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func newInstrumentedService(t *testing.T) instrumentedService {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	metrics, err := infrastructure.CreateSeriesMetrics(mp.Meter("test"))
	require.NoError(t, err)

	svc := NewSeriesService(dataprocessing.Load(testutil.ScenarioRows()), Options{
		DefaultThreshold: 5,
		Tracer:           tp.Tracer("test"),
		Metrics:          metrics,
		Logger:           testLogger(),
	})
	return instrumentedService{svc: svc, spans: spans, reader: reader}
}

// commandStatuses sums series_commands_total per status attribute
func commandStatuses(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "series_commands_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				status, _ := dp.Attributes.Value("status")
				out[status.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestMonthView_NoDataRecordedAsSuccess(t *testing.T) {
	is := newInstrumentedService(t)

	_, err := is.svc.MonthView(context.Background(), MonthRequest{Month: "2023-05"})
	require.ErrorIs(t, err, ErrNoDataForMonth)

	ended := is.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "SeriesService.month", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "no data", ended[0].Events()[0].Name)

	assert.Equal(t, map[string]int64{"success": 1}, commandStatuses(t, is.reader))
}

func TestMonthView_ValidationRecordedAsFailure(t *testing.T) {
	is := newInstrumentedService(t)

	_, err := is.svc.MonthView(context.Background(), MonthRequest{Month: "2023-13"})
	require.Error(t, err)

	ended := is.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	assert.Equal(t, map[string]int64{"failure": 1}, commandStatuses(t, is.reader))
}

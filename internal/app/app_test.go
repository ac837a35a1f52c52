package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratelens/internal/config"
	"ratelens/internal/dataprocessing"
	"ratelens/internal/infrastructure"
	customMiddleware "ratelens/internal/middleware"
	"ratelens/internal/services"
	"ratelens/internal/shared/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSeries() *services.SeriesService {
	series := dataprocessing.Load(testutil.ScenarioRows())
	return services.NewSeriesService(series, services.Options{DefaultThreshold: 5, Logger: testLogger()})
}

func newTestApp(t *testing.T, mutate func(cfg *config.Config)) *Application {
	t.Helper()
	cfg := config.Default()
	cfg.Telemetry.Environment = "test"
	if mutate != nil {
		mutate(cfg)
	}
	return NewApplication(cfg, testSeries(), nil, nil, testLogger())
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRouter_Routes(t *testing.T) {
	a := newTestApp(t, nil)

	tests := []struct {
		target     string
		wantStatus int
	}{
		{"/", http.StatusOK},
		{"/api/health", http.StatusOK},
		{"/api/health/ready", http.StatusOK},
		{"/api/version", http.StatusOK},
		{"/api/series/period", http.StatusOK},
		{"/api/series/month/2023-01", http.StatusOK},
		{"/api/series/month/2023-09", http.StatusNotFound},
		{"/api/series/monthly", http.StatusOK},
		{"/api/series/deviation?threshold=1", http.StatusOK},
		{"/api/series/stats", http.StatusOK},
		{"/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, a.Router, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get(customMiddleware.RequestIDHeader))
		})
	}
}

func TestRouter_NotFoundCarriesTraceID(t *testing.T) {
	a := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	req.Header.Set(customMiddleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "req-42", body["trace_id"])
}

func TestRouter_RateLimit(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.RateLimit.RPS = 0.001
		cfg.RateLimit.Burst = 1
	})

	assert.Equal(t, http.StatusOK, get(t, a.Router, "/api/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, a.Router, "/api/health").Code)
}

func TestRouter_Metrics(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.EnableMetrics = true
	cfg.Telemetry.MetricExporter = "prometheus"
	cfg.Telemetry.EnableTracing = false

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, testLogger())
	require.NoError(t, err)
	metrics, err := infrastructure.CreateSeriesMetrics(providers.Meter)
	require.NoError(t, err)

	a := NewApplication(cfg, testSeries(), providers, metrics, testLogger())
	require.Equal(t, http.StatusOK, get(t, a.Router, "/api/series/stats").Code)

	rec := get(t, a.Router, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), `http_route="/api/series/stats"`)
}

func TestServe_GracefulShutdown(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Server.ShutdownTimeout = 2 * time.Second
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

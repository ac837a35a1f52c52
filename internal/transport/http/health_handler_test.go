package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"ratelens/internal/dataprocessing"
	"ratelens/internal/services"
	"ratelens/pkg/contracts"
)

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(services.NewHealthService(realService(), testLogger()), testLogger()).Routes()

	rec, body := doGet(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, contracts.Version, body["version"])

	rec, body = doGet(t, h, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])

	rec, body = doGet(t, h, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", body["status"])
}

func TestHealthHandler_NotReady(t *testing.T) {
	empty := services.NewSeriesService(dataprocessing.Load(nil), services.Options{})
	h := NewHealthHandler(services.NewHealthService(empty, testLogger()), testLogger()).Routes()

	rec, body := doGet(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])
}

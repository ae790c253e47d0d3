package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/infrastructure"
)

func TestMetricsHandler_Prometheus(t *testing.T) {
	h := NewMetricsHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Prometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestMetricsHandler_Runtime(t *testing.T) {
	rt, err := infrastructure.NewRuntimeMetrics(noop.NewMeterProvider().Meter("test"), 0)
	require.NoError(t, err)

	for name, h := range map[string]*MetricsHandler{
		"with runtime":    NewMetricsHandler(nil, rt),
		"without runtime": NewMetricsHandler(nil, nil),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Runtime(rec, httptest.NewRequest(http.MethodGet, "/api/metrics/runtime", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var stats infrastructure.RuntimeStats
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		})
	}
}

package http

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/infrastructure"
)

// MetricsHandler exposes the Prometheus exposition and a JSON runtime snapshot
type MetricsHandler struct {
	exposition http.Handler
	runtime    *infrastructure.RuntimeMetrics
}

// NewMetricsHandler creates a new metrics handler. A nil exposition handler
// serves the default Prometheus registry.
func NewMetricsHandler(exposition http.Handler, runtime *infrastructure.RuntimeMetrics) *MetricsHandler {
	if exposition == nil {
		exposition = promhttp.Handler()
	}
	return &MetricsHandler{exposition: exposition, runtime: runtime}
}

// Prometheus handles GET /metrics
func (h *MetricsHandler) Prometheus(w http.ResponseWriter, r *http.Request) {
	h.exposition.ServeHTTP(w, r)
}

// Runtime handles GET /api/metrics/runtime
func (h *MetricsHandler) Runtime(w http.ResponseWriter, r *http.Request) {
	if h.runtime == nil {
		render.JSON(w, r, infrastructure.RuntimeStats{})
		return
	}
	render.JSON(w, r, h.runtime.Snapshot())
}

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourtrip/intermodal/internal/metrics"
)

// Routes are the handlers mounted by NewRouter.
type Routes struct {
	Intermodal LambdaHandler
	Stations   LambdaHandler
	Health     LambdaHandler
}

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(routes Routes, m *metrics.Metrics, gatherer prometheus.Gatherer, timeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/intermodal", Adapt(routes.Intermodal))
	mux.HandleFunc("GET /api/stations", Adapt(routes.Stations))
	mux.HandleFunc("GET /health", Adapt(routes.Health))

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return Chain(mux,
		Recovery,
		Logging,
		CORS,
		Timeout(timeout),
		Metrics(m),
	)
}

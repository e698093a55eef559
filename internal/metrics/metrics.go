// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for analysis requests.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeInvalid     = "invalid_input"
	OutcomeDownstream  = "downstream_unavailable"
	OutcomeTimeout     = "timeout"
	OutcomeInternal    = "internal"
	OutcomeBadRequest  = "bad_request"
	OutcomeUnavailable = "unavailable"
)

type Metrics struct {
	requests  *prometheus.SummaryVec
	analyses  *prometheus.CounterVec
	busStops  prometheus.Histogram
	stationsQ *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       "intermodal_http_request_duration_seconds",
			Help:       "Duration of HTTP requests by route and status code",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"route", "status"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intermodal_analyses_total",
			Help: "Number of intermodal analyses by outcome",
		}, []string{"outcome"}),
		busStops: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "intermodal_bus_stops_per_analysis",
			Help:    "Number of bus stops returned by successful analyses",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		stationsQ: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intermodal_station_list_requests_total",
			Help: "Number of station list requests by outcome",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.analyses, m.busStops, m.stationsQ)
	}
	return m
}

func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObserveAnalysis counts one analysis. busStops is only recorded for OutcomeOK.
func (m *Metrics) ObserveAnalysis(outcome string, busStops int) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.busStops.Observe(float64(busStops))
	}
}

func (m *Metrics) ObserveStationList(outcome string) {
	if m == nil {
		return
	}
	m.stationsQ.WithLabelValues(outcome).Inc()
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for schedule generation and the query server

var (
	// Generation metrics
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflsched_generations_total",
			Help: "Total number of season generations",
		},
		[]string{"strategy", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nflsched_generation_duration_seconds",
			Help:    "Duration of season generations in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		},
		[]string{"strategy"},
	)

	SessionYear = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nflsched_session_year",
			Help: "Season year of the session currently served",
		},
	)

	// Query metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflsched_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nflsched_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// RecordGeneration records one generation attempt
func RecordGeneration(strategy string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	GenerationsTotal.WithLabelValues(strategy, status).Inc()
	GenerationDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

// RecordRequest records one served HTTP request
func RecordRequest(route string, code int, d time.Duration) {
	RequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

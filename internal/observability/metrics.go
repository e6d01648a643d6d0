// Package observability owns the Prometheus collectors exposed on /metrics.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	logsSubmittedTotal *prometheus.CounterVec
	logsModeratedTotal *prometheus.CounterVec
	signUpsTotal       *prometheus.CounterVec
)

// RegisterMetrics initialises and registers the collectors once per process.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_log_http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skill_log_http_latency_seconds",
			Help:    "Latency distribution of HTTP requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route"})

		logsSubmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_log_practice_logs_submitted_total",
			Help: "Practice logs submitted, by skill.",
		}, []string{"skill"})

		logsModeratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_log_practice_logs_moderated_total",
			Help: "Moderation decisions applied to practice logs.",
		}, []string{"status"})

		signUpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_log_sign_ups_total",
			Help: "Sign-up attempts by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, logsSubmittedTotal, logsModeratedTotal, signUpsTotal)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

func LogsSubmitted() *prometheus.CounterVec {
	RegisterMetrics()
	return logsSubmittedTotal
}

func LogsModerated() *prometheus.CounterVec {
	RegisterMetrics()
	return logsModeratedTotal
}

func SignUps() *prometheus.CounterVec {
	RegisterMetrics()
	return signUpsTotal
}

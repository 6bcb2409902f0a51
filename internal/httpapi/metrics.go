package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests.
	// Labels: method, endpoint, status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sensei",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, endpoint and status code",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sensei",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds by method and endpoint",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// AnswersTotal counts composed answers by provenance.
	// Labels: provenance (remote, local-fallback)
	AnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sensei",
			Subsystem: "tutor",
			Name:      "answers_total",
			Help:      "Total answers composed, by generation provenance",
		},
		[]string{"provenance"},
	)
)

package ertflix

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	outcomeOK        = "ok"
	outcomeTransport = "transport_error"
	outcomeDecode    = "decode_error"
)

var (
	// MetricRequests counts requests to the ERTFLIX API, one per attempt.
	MetricRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ertflix_upstream_requests_total",
		Help: "Total number of requests to the ERTFLIX API per endpoint and outcome. Responses that can't be decoded are additionally counted as decode_error.",
	}, []string{"endpoint", "outcome"})

	// MetricRequestDuration tracks the latency of single request attempts.
	MetricRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ertflix_upstream_request_duration_seconds",
		Help:    "Duration of requests to the ERTFLIX API in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

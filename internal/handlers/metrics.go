package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes used as metric labels.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

var (
	// queryTotal counts served queries.
	// Labels: query (distance, path, vicinity, acquire), outcome (ok, rejected, error)
	queryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfinder",
		Subsystem: "query",
		Name:      "total",
		Help:      "Total engine queries served",
	}, []string{"query", "outcome"})

	// queryDuration measures instantiation plus search time.
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wayfinder",
		Subsystem: "query",
		Name:      "duration_seconds",
		Help:      "Engine query latency in seconds, including scenario instantiation",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}, []string{"query"})

	// scenarioUploads counts stored scenarios.
	// Labels: source (body, file)
	scenarioUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfinder",
		Subsystem: "scenario",
		Name:      "uploads_total",
		Help:      "Total scenarios stored for querying",
	}, []string{"source"})
)

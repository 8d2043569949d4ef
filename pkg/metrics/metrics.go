package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	ExtractionsInProgress prometheus.Gauge
	ExtractionsTotal      *prometheus.CounterVec
	ExtractionDuration    *prometheus.HistogramVec
	OperationDuration     *prometheus.HistogramVec
	StorageErrorsTotal    prometheus.Counter

	initOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ExtractionsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "extractions_in_progress",
			Help: "Current number of running extraction attempts.",
		},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractions_total",
			Help: "Total number of extraction attempts.",
		},
		[]string{"status", "error_type"}, // status: success, failure
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Duration of whole extraction attempts.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"domain"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "operation_duration_seconds",
			Help:    "Duration of timed extraction stages.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"category", "outcome"},
	)

	StorageErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extraction_storage_errors_total",
			Help: "Extracted data that could not be persisted.",
		},
	)
}

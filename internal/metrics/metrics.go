package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for HTTP requests, employee operations and validation
// failures, and histograms for request and store query durations.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	Operations         *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	DBQueryDuration    *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_http_requests_total",
			Help: "Total number of handled API requests.",
		}, []string{"method", "status"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hestia_http_request_duration_seconds",
			Help:    "Duration of API requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		Operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_employee_operations_total",
			Help: "Employee operations by outcome.",
		}, []string{"operation", "outcome"}),
		ValidationFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_validation_failures_total",
			Help: "Rejected employee fields.",
		}, []string{"field"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hestia_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'insert_employee', 'list_employees'
	}

	for _, operation := range []string{"create", "list", "update", "delete"} {
		metrics.Operations.WithLabelValues(operation, "success")
		metrics.Operations.WithLabelValues(operation, "failure")
	}

	return metrics
}

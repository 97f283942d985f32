package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stocktrack_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	StockOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocktrack_stock_operations_total",
			Help: "Total number of stock mutations by action",
		},
		[]string{"action"},
	)

	TransfersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stocktrack_transfers_total",
			Help: "Total number of completed stock transfers",
		},
	)

	ImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stocktrack_import_rows_total",
			Help: "Total number of spreadsheet import rows by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route, status string, start time.Time) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}

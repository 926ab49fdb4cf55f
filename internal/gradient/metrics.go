package gradient

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for gradient runs.
type Metrics struct {
	PipelinesProcessed *prometheus.CounterVec
	Adjustments        *prometheus.CounterVec
	ElevationChange    prometheus.Counter
	Duration           *prometheus.HistogramVec
}

// NewMetrics registers the gradient metrics once per process.
//
// Metrics:
//   - pipegrade_pipelines_processed_total{outcome} - adjusted, unchanged, skipped, invalid
//   - pipegrade_adjustments_total{case} - both_anchors, start_anchor, end_anchor, no_anchor
//   - pipegrade_elevation_change_meters_total - sum of absolute endpoint changes
//   - pipegrade_adjust_duration_seconds{operation} - adjust, cover_heights
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			PipelinesProcessed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "pipegrade_pipelines_processed_total",
					Help: "Total number of pipelines processed by outcome",
				},
				[]string{"outcome"},
			),
			Adjustments: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "pipegrade_adjustments_total",
					Help: "Total number of pipeline adjustments by anchor case",
				},
				[]string{"case"},
			),
			ElevationChange: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "pipegrade_elevation_change_meters_total",
					Help: "Total absolute endpoint elevation change in meters",
				},
			),
			Duration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "pipegrade_adjust_duration_seconds",
					Help:    "Duration of gradient operations in seconds",
					Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
				},
				[]string{"operation"},
			),
		}
	})
	return globalMetrics
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "see"

// Operation results used as the result label
const (
	ResultSuccess     = "success"
	ResultRemoteError = "remote_error"
	ResultConfigError = "config_error"
)

// Collector holds the dispatcher metrics on a private registry
type Collector struct {
	registry *prometheus.Registry

	submitted *prometheus.CounterVec
	completed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// New creates a collector with its own registry
func New() *Collector {
	registry := prometheus.NewRegistry()

	submitted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_submitted_total",
			Help:      "Total number of remote operations submitted",
		},
		[]string{"kind"},
	)

	completed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_completed_total",
			Help:      "Total number of remote operations that delivered an outcome",
		},
		[]string{"kind", "result"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Remote operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind", "result"},
	)

	registry.MustRegister(submitted, completed, duration)

	return &Collector{
		registry:  registry,
		submitted: submitted,
		completed: completed,
		duration:  duration,
	}
}

// Registry exposes the registry for gathering
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Submitted counts one submission of kind
func (c *Collector) Submitted(kind string) {
	c.submitted.WithLabelValues(kind).Inc()
}

// Completed records one delivered outcome
func (c *Collector) Completed(kind, result string, elapsed time.Duration) {
	c.completed.WithLabelValues(kind, result).Inc()
	c.duration.WithLabelValues(kind, result).Observe(elapsed.Seconds())
}

// WriteToFile dumps every metric in the text exposition format
func (c *Collector) WriteToFile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

package inventory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectorRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_collector_runs_total",
		Help: "Total number of collection cycles started",
	})
	collectorMeasurementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_collector_measurements_total",
		Help: "Total number of measurements committed by the collector",
	})
	collectorSamplingFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_collector_sampling_failures_total",
		Help: "Total number of sampling calls that failed and were skipped",
	})
	collectorConfigErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_collector_config_errors_total",
		Help: "Total number of metrics whose call identifier resolved to no registered sampler",
	})
	collectorRunDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_collector_run_duration_seconds",
		Help:    "Duration of collection cycles in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

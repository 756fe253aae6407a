// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// The process is a batch job, not a long-lived server, so metrics are pushed
// to a Pushgateway at the end of the run instead of being exposed on a
// scrape endpoint. All Prometheus-specific dependencies live here; the rest
// of the project depends only on metrics.Backend.
package prompush

import (
	"fmt"

	"ecomdw/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec // dw_stage_total
	stageDuration *prometheus.SummaryVec // dw_stage_duration_seconds

	cleanCounter *prometheus.CounterVec // dw_clean_actions_total
	rowCounter   *prometheus.CounterVec // dw_rows_total
	batchCounter *prometheus.CounterVec // dw_batches_total
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName becomes the Pushgateway "job" grouping key; gatewayURL is the base
// URL of the Pushgateway server and is required.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "ecomdw"
	}

	reg := prometheus.NewRegistry()

	stageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dw_stage_total",
			Help: "Total pipeline stage executions, partitioned by stage and status.",
		},
		[]string{"stage", "status"},
	)
	stageDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "dw_stage_duration_seconds",
			Help:       "Duration of pipeline stages in seconds, partitioned by stage and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"stage", "status"},
	)
	cleanCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dw_clean_actions_total",
			Help: "Cleaning actions applied, partitioned by dataset and op.",
		},
		[]string{"dataset", "op"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dw_rows_total",
			Help: "Rows flowing through the pipeline, partitioned by name and kind.",
		},
		[]string{"name", "kind"},
	)
	batchCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dw_batches_total",
			Help: "Insert batches flushed per sink table.",
		},
		[]string{"table"},
	)

	for _, c := range []prometheus.Collector{
		stageCounter, stageDuration, cleanCounter, rowCounter, batchCounter,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stageCounter:  stageCounter,
		stageDuration: stageDuration,
		cleanCounter:  cleanCounter,
		rowCounter:    rowCounter,
		batchCounter:  batchCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "dw_stage_total":
		b.stageCounter.WithLabelValues(labels["stage"], labels["status"]).Add(delta)
	case "dw_clean_actions_total":
		b.cleanCounter.WithLabelValues(labels["dataset"], labels["op"]).Add(delta)
	case "dw_rows_total":
		b.rowCounter.WithLabelValues(labels["name"], labels["kind"]).Add(delta)
	case "dw_batches_total":
		b.batchCounter.WithLabelValues(labels["table"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveDuration(name string, seconds float64, labels metrics.Labels) {
	if name != "dw_stage_duration_seconds" {
		return
	}
	b.stageDuration.WithLabelValues(labels["stage"], labels["status"]).Observe(seconds)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}

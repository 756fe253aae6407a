// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the cleaning and load stages.
//
// It exposes a narrow Backend interface (counters plus duration-style
// observations) behind a global, pluggable backend that defaults to a no-op
// implementation, so instrumentation is always safe to call even when no
// real backend is configured. The pattern mirrors the storage abstraction:
// the rest of the codebase depends only on this package while concrete
// metric systems live in subpackages.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style observation in seconds.
	ObserveDuration(name string, seconds float64, labels Labels)
	// Flush pushes buffered metrics, if the backend needs it.
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)        {}
func (nopBackend) ObserveDuration(name string, seconds float64, labels Labels) {}
func (nopBackend) Flush() error                                                { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage records one pipeline stage execution: a count partitioned by
// outcome plus its wall-clock duration.
func RecordStage(stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"stage": stage, "status": status}
	backend.IncCounter("dw_stage_total", 1, lbls)
	backend.ObserveDuration("dw_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordCleanAction counts one cleaning action applied to a dataset.
//
// Typical ops mirror the cleaning report, e.g. "rows_dropped",
// "filled_median", "duplicates_removed", "outliers_flagged".
func RecordCleanAction(dataset, op string, count int) {
	if count <= 0 {
		return
	}
	backend.IncCounter("dw_clean_actions_total", float64(count), Labels{
		"dataset": dataset,
		"op":      op,
	})
}

// RecordRows counts rows flowing through a named table or dataset.
//
// Typical kinds: "read", "cleaned", "loaded", "dropped".
func RecordRows(name, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("dw_rows_total", float64(delta), Labels{
		"name": name,
		"kind": kind,
	})
}

// RecordBatches counts insert batches flushed to a sink table.
func RecordBatches(table string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("dw_batches_total", float64(delta), Labels{
		"table": table,
	})
}

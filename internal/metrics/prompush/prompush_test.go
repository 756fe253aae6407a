package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecomdw/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// readCounterValue reads the current value of a counter child for assertions.
func readCounterValue(t *testing.T, v *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := v.WithLabelValues(labels...).Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain Counter value")
	}
	return m.GetCounter().GetValue()
}

// readSummaryCountSum reads sample count and sum from a SummaryVec child.
func readSummaryCountSum(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()

	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatalf("SummaryVec.WithLabelValues(...) does not implement prometheus.Metric")
	}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Summary.Write() error = %v", err)
	}
	if m.GetSummary() == nil {
		t.Fatalf("metric did not contain Summary value")
	}
	sum := m.GetSummary()
	return sum.GetSampleCount(), sum.GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{
			name:       "missing gateway URL returns error",
			jobName:    "nightly",
			gatewayURL: "",
			wantErr:    true,
		},
		{
			name:        "empty job name uses default",
			jobName:     "",
			gatewayURL:  "http://pushgateway:9091",
			wantJobName: "ecomdw",
		},
		{
			name:        "explicit job name is preserved",
			jobName:     "nightly",
			gatewayURL:  "http://pushgateway:9091",
			wantJobName: "nightly",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewBackend() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend() error = %v", err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
		})
	}
}

func TestIncCounterRouting(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("nightly", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.IncCounter("dw_stage_total", 1, metrics.Labels{"stage": "clean", "status": "success"})
	b.IncCounter("dw_clean_actions_total", 3, metrics.Labels{"dataset": "orders", "op": "rows_dropped"})
	b.IncCounter("dw_rows_total", 5, metrics.Labels{"name": "fact_orders", "kind": "loaded"})
	b.IncCounter("dw_batches_total", 2, metrics.Labels{"table": "fact_orders"})
	b.IncCounter("unknown_metric", 9, nil) // silently ignored

	if got := readCounterValue(t, b.stageCounter, "clean", "success"); got != 1 {
		t.Fatalf("dw_stage_total = %v, want 1", got)
	}
	if got := readCounterValue(t, b.cleanCounter, "orders", "rows_dropped"); got != 3 {
		t.Fatalf("dw_clean_actions_total = %v, want 3", got)
	}
	if got := readCounterValue(t, b.rowCounter, "fact_orders", "loaded"); got != 5 {
		t.Fatalf("dw_rows_total = %v, want 5", got)
	}
	if got := readCounterValue(t, b.batchCounter, "fact_orders"); got != 2 {
		t.Fatalf("dw_batches_total = %v, want 2", got)
	}
}

func TestObserveDuration(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("nightly", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.ObserveDuration("dw_stage_duration_seconds", 1.5, metrics.Labels{"stage": "load", "status": "success"})
	b.ObserveDuration("dw_stage_duration_seconds", 0.5, metrics.Labels{"stage": "load", "status": "success"})
	b.ObserveDuration("other_metric", 9.9, metrics.Labels{"stage": "load", "status": "success"})

	count, sum := readSummaryCountSum(t, b.stageDuration, "load", "success")
	if count != 2 {
		t.Fatalf("sample count = %d, want 2", count)
	}
	if sum < 1.999 || sum > 2.001 {
		t.Fatalf("sample sum = %v, want ~2.0", sum)
	}
}

func TestFlushPushesToGateway(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("nightly", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter("dw_batches_total", 1, metrics.Labels{"table": "dim_date"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if gotPath != "/metrics/job/nightly" {
		t.Fatalf("push path = %q, want /metrics/job/nightly", gotPath)
	}
}

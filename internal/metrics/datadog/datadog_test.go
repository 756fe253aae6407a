package datadog

import (
	"sort"
	"testing"

	"ecomdw/internal/metrics"
)

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "addr required",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "addr only",
			cfg:  Config{Addr: "127.0.0.1:8125"},
		},
		{
			// Namespace and tags are construction-time options on the
			// statsd client, not assignable fields.
			name: "namespace and tags",
			cfg: Config{
				Addr:       "127.0.0.1:8125",
				Namespace:  "dw.",
				GlobalTags: []string{"job:olist_dw"},
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewBackend(%+v) = nil error, want error", tt.cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend: %v", err)
			}
			if b.client == nil {
				t.Fatal("NewBackend returned backend with nil client")
			}
			// Emit and flush so the configured client path runs end to end.
			b.IncCounter("dw_rows_total", 1, metrics.Labels{"name": "orders"})
			b.ObserveDuration("dw_stage_duration_seconds", 0.5, nil)
			if err := b.Flush(); err != nil {
				t.Fatalf("Flush: %v", err)
			}
		})
	}
}

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	got := labelsToTags(metrics.Labels{"stage": "clean", "status": "success"})
	sort.Strings(got)
	want := []string{"stage:clean", "status:success"}
	if len(got) != len(want) {
		t.Fatalf("tags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tags = %v, want %v", got, want)
		}
	}

	if tags := labelsToTags(nil); tags != nil {
		t.Fatalf("tags for nil labels = %v, want nil", tags)
	}
}

package csv

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"ecomdw/pkg/records"
)

func TestRead_HeaderAndMissing(t *testing.T) {
	t.Parallel()

	in := "\uFEFForder_id,order_status,order_approved_at\n" +
		"o1,delivered,2017-05-10 10:00:00\n" +
		"o2,shipped,\n"
	ds, err := Read(strings.NewReader(in), "orders", DefaultOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	wantCols := []string{"order_id", "order_status", "order_approved_at"}
	for i, c := range wantCols {
		if ds.Columns[i] != c {
			t.Fatalf("columns = %v, want %v", ds.Columns, wantCols)
		}
	}
	if ds.Len() != 2 {
		t.Fatalf("rows = %d, want 2", ds.Len())
	}
	if ds.Rows[1]["order_approved_at"] != nil {
		t.Fatalf("empty cell should decode to nil, got %v", ds.Rows[1]["order_approved_at"])
	}
	if ds.Rows[0]["order_status"] != "delivered" {
		t.Fatalf("row 0 status = %v", ds.Rows[0]["order_status"])
	}
}

func TestRead_EmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := Read(strings.NewReader(""), "orders", DefaultOptions()); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestWrite_RoundTripsMeasures(t *testing.T) {
	t.Parallel()

	ds := &records.Dataset{
		Name:    "order_items",
		Columns: []string{"order_id", "price", "freight_value", "shipping_limit_date"},
		Rows: []records.Record{
			{
				"order_id":            "o1",
				"price":               "129.90",
				"freight_value":       "13.29",
				"shipping_limit_date": time.Date(2017, 5, 10, 10, 0, 0, 0, time.UTC),
			},
			{"order_id": "o2", "price": nil, "freight_value": "0.0", "shipping_limit_date": nil},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, ds, DefaultOptions()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back, err := Read(&buf, "order_items", DefaultOptions())
	if err != nil {
		t.Fatalf("Read back: %v", err)
	}
	if got := back.Rows[0]["price"]; got != "129.90" {
		t.Fatalf("price round-trip = %v, want 129.90 unmodified", got)
	}
	if got := back.Rows[0]["shipping_limit_date"]; got != "2017-05-10 10:00:00" {
		t.Fatalf("timestamp = %v", got)
	}
	if back.Rows[1]["price"] != nil {
		t.Fatalf("nil cell did not survive round-trip: %v", back.Rows[1]["price"])
	}
}

func TestFormatCell_Float(t *testing.T) {
	t.Parallel()

	if got := formatCell(104.5); got != "104.5" {
		t.Fatalf("formatCell(104.5) = %q", got)
	}
	if got := formatCell(3); got != "3" {
		t.Fatalf("formatCell(3) = %q", got)
	}
}

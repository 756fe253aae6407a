// Package csv reads the raw and cleaned delimited extracts into datasets and
// writes cleaned datasets back out. The reader is configured leniently for
// real-world data (BOM stripping, space trimming); empty cells decode to nil,
// the pipeline's explicit missing marker.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ecomdw/pkg/records"
)

// Options configures the CSV reader. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	// Defaults to true via DefaultOptions.
	TrimSpace bool

	// LazyQuotes configures encoding/csv quote leniency.
	LazyQuotes bool
}

// DefaultOptions returns the options used for the warehouse extracts.
func DefaultOptions() Options {
	return Options{Comma: ',', TrimSpace: true}
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// stripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func stripHeaderBOM(headers []string) []string {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return headers
}

// Read parses a delimited file into a Dataset named name. The first row is
// the header and defines column identity; subsequent rows must have the same
// width. Empty cells decode to nil.
func Read(r io.Reader, name string, opt Options) (*records.Dataset, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.TrimLeadingSpace = opt.TrimSpace
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv %s: empty input", name)
	}
	if err != nil {
		return nil, fmt.Errorf("csv %s: read header: %w", name, err)
	}
	columns := stripHeaderBOM(append([]string(nil), header...))
	for i, c := range columns {
		columns[i] = strings.TrimSpace(c)
	}

	ds := &records.Dataset{Name: name, Columns: columns}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv %s: line %d: %w", name, line, err)
		}
		rec := make(records.Record, len(columns))
		for i, col := range columns {
			v := row[i]
			if opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			if v == "" {
				rec[col] = nil
				continue
			}
			rec[col] = v
		}
		ds.Rows = append(ds.Rows, rec)
	}
	return ds, nil
}

// Write emits ds as a delimited file: header row first, then rows in order.
// nil cells become empty fields; coerced timestamps use the canonical
// timestamp layout; floats use the shortest exact representation so that
// measures survive a round-trip unmodified.
func Write(w io.Writer, ds *records.Dataset, opt Options) error {
	cw := csv.NewWriter(w)
	if opt.Comma != 0 {
		cw.Comma = opt.Comma
	}
	if err := cw.Write(ds.Columns); err != nil {
		return fmt.Errorf("csv %s: write header: %w", ds.Name, err)
	}
	row := make([]string, len(ds.Columns))
	for _, rec := range ds.Rows {
		for i, col := range ds.Columns {
			row[i] = formatCell(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv %s: write row: %w", ds.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv %s: flush: %w", ds.Name, err)
	}
	return nil
}

// formatCell renders a record value for the cleaned-file contract.
func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

// Package records defines the tabular record model shared by the cleaning
// pipeline and the warehouse load stages.
//
// A Record is an untyped row keyed by column name. The explicit missing
// marker is nil: empty source cells decode to nil, and failed coercions
// degrade values back to nil rather than erroring.
package records

import "slices"

// Record is a single row. Values are strings as parsed from the source;
// cleaning may replace them with time.Time (coerced dates) or float64
// (median fills). A nil value means "missing".
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is an ordered set of rows for one entity. Columns preserves the
// source column order; row iteration order is the source row order, which
// is significant for keep-first deduplication.
type Dataset struct {
	Name    string
	Columns []string
	Rows    []Record
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// HasColumn reports whether the dataset declares the named column.
func (d *Dataset) HasColumn(name string) bool {
	return slices.Contains(d.Columns, name)
}

// Clone returns a deep copy of the dataset (rows cloned, column slice copied).
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Name:    d.Name,
		Columns: slices.Clone(d.Columns),
		Rows:    make([]Record, len(d.Rows)),
	}
	for i, r := range d.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Missing counts nil values in the named column.
func (d *Dataset) Missing(col string) int {
	n := 0
	for _, r := range d.Rows {
		if r[col] == nil {
			n++
		}
	}
	return n
}

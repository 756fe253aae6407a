package clean

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"ecomdw/internal/config"
	"ecomdw/pkg/records"
)

// ErrAllMissing marks the degenerate case where a numeric column has no
// usable values to compute a fill statistic from. This is a data error the
// run must not paper over.
var ErrAllMissing = errors.New("column has no non-missing numeric values")

// dropThreshold is the missing fraction below which affected rows are
// dropped instead of filled.
const dropThreshold = 0.05

// unknownSentinel fills missing textual cells.
const unknownSentinel = "Unknown"

// ResolveMissing resolves missing values column by column, in declared
// column order. Columns with a missing fraction below 5% have their affected
// rows dropped; above that, textual columns are filled with "Unknown" and
// numeric columns with the median of the column's own current non-missing
// values. Medians are per-column independent: each is computed at fill time
// from that column alone.
//
// A numeric column with zero parseable non-missing values cannot produce a
// median and yields an error wrapping ErrAllMissing.
func ResolveMissing(ds *records.Dataset, spec config.DatasetSpec) (*records.Dataset, Report, error) {
	rep := Report{Dataset: ds.Name}
	for _, col := range ds.Columns {
		if len(ds.Rows) == 0 {
			break
		}
		missing := ds.Missing(col)
		if missing == 0 {
			continue
		}
		frac := float64(missing) / float64(len(ds.Rows))

		switch {
		case frac < dropThreshold:
			kept := ds.Rows[:0]
			for _, rec := range ds.Rows {
				if rec[col] != nil {
					kept = append(kept, rec)
				}
			}
			ds.Rows = kept
			rep.add("missing", col, OpRowsDropped, missing, "")

		case slices.Contains(spec.NumericColumns, col):
			var vals []float64
			for _, rec := range ds.Rows {
				if v, ok := asFloat(rec[col]); ok {
					vals = append(vals, v)
				}
			}
			if len(vals) == 0 {
				return nil, rep, fmt.Errorf("dataset %s column %s: %w", ds.Name, col, ErrAllMissing)
			}
			m := median(vals)
			for _, rec := range ds.Rows {
				if rec[col] == nil {
					rec[col] = m
				}
			}
			rep.add("missing", col, OpFilledMedian, missing, strconv.FormatFloat(m, 'g', -1, 64))

		default:
			for _, rec := range ds.Rows {
				if rec[col] == nil {
					rec[col] = unknownSentinel
				}
			}
			rep.add("missing", col, OpFilledUnknown, missing, "")
		}
	}
	return ds, rep, nil
}

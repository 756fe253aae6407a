package clean

import (
	"slices"
	"strconv"
	"strings"

	"ecomdw/internal/config"
	"ecomdw/pkg/records"
)

// quantitySignals mark column names that denote non-negative business
// quantities even when the dataset spec does not list them explicitly.
var quantitySignals = []string{"price", "amount", "qty", "quantity", "freight", "weight"}

func signalsQuantity(col string) bool {
	lower := strings.ToLower(col)
	for _, sig := range quantitySignals {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// Validate applies the range and outlier policy:
//
//   - rows with negative values in non-negative business-quantity columns
//     (declared, or signalled by name) are dropped and counted per column;
//   - for every declared numeric column, values beyond mean+3σ are flagged
//     and counted but never removed, since outliers may be legitimate.
//
// The outlier statistics are recomputed from the current row population on
// every pass, independent of removals by earlier stages; each validation
// should reflect the rows it actually sees. Columns absent from the dataset
// are skipped.
func Validate(ds *records.Dataset, spec config.DatasetSpec) (*records.Dataset, Report) {
	rep := Report{Dataset: ds.Name}

	for _, col := range ds.Columns {
		if !slices.Contains(spec.NonNegativeColumns, col) && !signalsQuantity(col) {
			continue
		}
		kept := ds.Rows[:0]
		dropped := 0
		for _, rec := range ds.Rows {
			if v, ok := asFloat(rec[col]); ok && v < 0 {
				dropped++
				continue
			}
			kept = append(kept, rec)
		}
		ds.Rows = kept
		rep.add("validate", col, OpNegativeDropped, dropped, "")
	}

	for _, col := range spec.NumericColumns {
		if !ds.HasColumn(col) {
			continue
		}
		var vals []float64
		for _, rec := range ds.Rows {
			if v, ok := asFloat(rec[col]); ok {
				vals = append(vals, v)
			}
		}
		mean, sd := meanStddev(vals)
		if sd == 0 {
			continue
		}
		limit := mean + 3*sd
		flagged := 0
		for _, v := range vals {
			if v > limit {
				flagged++
			}
		}
		rep.add("validate", col, OpOutliersFlagged, flagged, "limit="+strconv.FormatFloat(limit, 'g', -1, 64))
	}
	return ds, rep
}

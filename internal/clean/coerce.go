package clean

import (
	"time"

	"ecomdw/pkg/records"
)

// CoerceDates parses the listed columns' textual values into timestamps,
// trying each layout in order. A value that fails every layout degrades to
// the missing marker; the operation itself never fails. Values already
// coerced are left untouched, so repeated runs parse identically. Columns
// absent from the dataset are skipped.
func CoerceDates(ds *records.Dataset, columns, layouts []string) (*records.Dataset, Report) {
	rep := Report{Dataset: ds.Name}
	for _, col := range columns {
		if !ds.HasColumn(col) {
			continue
		}
		degraded := 0
		for _, rec := range ds.Rows {
			v := rec[col]
			if v == nil {
				continue
			}
			if _, ok := v.(time.Time); ok {
				continue
			}
			s, ok := v.(string)
			if !ok {
				rec[col] = nil
				degraded++
				continue
			}
			if ts, ok := parseAny(s, layouts); ok {
				rec[col] = ts
			} else {
				rec[col] = nil
				degraded++
			}
		}
		rep.add("coerce", col, OpDateDegraded, degraded, "")
	}
	return ds, rep
}

func parseAny(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

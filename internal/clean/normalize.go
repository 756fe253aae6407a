package clean

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"ecomdw/pkg/records"
)

// NormalizeText lower-cases, trims, and NFC-normalizes the listed text
// columns in place. Non-string cells and columns absent from the dataset are
// skipped silently. The report counts values actually changed.
func NormalizeText(ds *records.Dataset, columns []string) (*records.Dataset, Report) {
	rep := Report{Dataset: ds.Name}
	for _, col := range columns {
		if !ds.HasColumn(col) {
			continue
		}
		changed := 0
		for _, rec := range ds.Rows {
			s, ok := rec[col].(string)
			if !ok {
				continue
			}
			n := strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
			if n != s {
				rec[col] = n
				changed++
			}
		}
		rep.add("normalize", col, OpTextNormalized, changed, "")
	}
	return ds, rep
}

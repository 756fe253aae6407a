// Package inspect profiles raw extracts before they are wired into a run
// config: per-column missing fractions, inferred kinds, and distinct counts.
// It can synthesize a starter dataset spec from a profile, which is a
// starting point for a human, not a substitute for one.
package inspect

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"ecomdw/internal/config"
	"ecomdw/pkg/records"
)

// Column kinds inferred from cell contents.
const (
	KindText    = "text"
	KindNumeric = "numeric"
	KindDate    = "date"
)

// kindThreshold is the fraction of non-missing cells that must parse as a
// kind before the column is classified as that kind. Short of it, the column
// stays textual.
const kindThreshold = 0.9

const maxExamples = 3

// ColumnProfile summarizes one column of a sampled dataset.
type ColumnProfile struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Missing    int      `json:"missing"`
	MissingPct float64  `json:"missing_pct"`
	Distinct   int      `json:"distinct"`
	Examples   []string `json:"examples,omitempty"`
}

// Profile summarizes a sampled dataset.
type Profile struct {
	Dataset string          `json:"dataset"`
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// Dataset profiles ds column by column. Kinds are inferred by attempting to
// parse every non-missing cell as a date (using layouts) and as a number;
// the column order of the input is preserved.
func Dataset(ds *records.Dataset, layouts []string) Profile {
	if len(layouts) == 0 {
		layouts = config.DefaultDateLayouts
	}
	p := Profile{Dataset: ds.Name, Rows: ds.Len()}
	for _, col := range ds.Columns {
		p.Columns = append(p.Columns, profileColumn(ds, col, layouts))
	}
	return p
}

func profileColumn(ds *records.Dataset, col string, layouts []string) ColumnProfile {
	cp := ColumnProfile{Name: col, Kind: KindText}

	distinct := map[string]struct{}{}
	var numeric, dates, nonMissing int
	for _, rec := range ds.Rows {
		v := rec[col]
		if v == nil {
			cp.Missing++
			continue
		}
		nonMissing++
		s, ok := v.(string)
		if !ok {
			continue
		}
		distinct[s] = struct{}{}
		if parsesAsDate(s, layouts) {
			dates++
		} else if _, err := strconv.ParseFloat(s, 64); err == nil {
			numeric++
		}
		if len(cp.Examples) < maxExamples && !contains(cp.Examples, s) {
			cp.Examples = append(cp.Examples, s)
		}
	}
	cp.Distinct = len(distinct)
	if ds.Len() > 0 {
		cp.MissingPct = float64(cp.Missing) / float64(ds.Len())
	}
	if nonMissing > 0 {
		switch {
		case float64(dates)/float64(nonMissing) >= kindThreshold:
			cp.Kind = KindDate
		case float64(numeric)/float64(nonMissing) >= kindThreshold:
			cp.Kind = KindNumeric
		}
	}
	return cp
}

// SuggestSpec converts a profile into a starter dataset spec: inferred date,
// numeric, and text column lists, quantity-named numeric columns as
// non-negative candidates, and an all-distinct *_id column as the dedupe
// key when one exists.
func SuggestSpec(p Profile, rawFile string) config.DatasetSpec {
	spec := config.DatasetSpec{
		Name:      p.Dataset,
		RawFile:   rawFile,
		CleanFile: p.Dataset + "_clean.csv",
	}
	for _, c := range p.Columns {
		switch c.Kind {
		case KindDate:
			spec.DateColumns = append(spec.DateColumns, c.Name)
		case KindNumeric:
			spec.NumericColumns = append(spec.NumericColumns, c.Name)
			if signalsQuantity(c.Name) {
				spec.NonNegativeColumns = append(spec.NonNegativeColumns, c.Name)
			}
		default:
			if !strings.HasSuffix(c.Name, "_id") {
				spec.TextColumns = append(spec.TextColumns, c.Name)
			}
		}
		if strings.HasSuffix(c.Name, "_id") &&
			len(spec.DedupeKeys) == 0 &&
			c.Missing == 0 && c.Distinct == p.Rows && p.Rows > 0 {
			spec.DedupeKeys = append(spec.DedupeKeys, c.Name)
		}
	}
	return spec
}

// SortedByMissing returns the column profiles ordered by descending missing
// fraction, for rendering the worst offenders first.
func SortedByMissing(p Profile) []ColumnProfile {
	out := make([]ColumnProfile, len(p.Columns))
	copy(out, p.Columns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MissingPct > out[j].MissingPct
	})
	return out
}

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

func parsesAsDate(s string, layouts []string) bool {
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func contains(arr []string, s string) bool {
	for _, x := range arr {
		if x == s {
			return true
		}
	}
	return false
}

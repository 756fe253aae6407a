package clean

import (
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"ecomdw/pkg/records"
)

// Dedupe removes rows that duplicate an earlier row across the key columns.
// Nil or empty keys mean full-row equality over the dataset's declared
// columns. The first occurrence in input order always wins, so input
// ordering is significant and must be preserved upstream.
//
// Keys are built from a canonical rendering of each cell (nil distinct from
// empty string) and indexed by xxh3 hash; keys sharing a hash are compared
// directly, so a collision never drops a distinct row.
func Dedupe(ds *records.Dataset, keys []string) (*records.Dataset, Report) {
	rep := Report{Dataset: ds.Name}
	if len(ds.Rows) == 0 {
		return ds, rep
	}
	if len(keys) == 0 {
		keys = ds.Columns
	}

	seen := newKeySet(len(ds.Rows))
	kept := ds.Rows[:0]
	removed := 0
	var b strings.Builder
	for _, rec := range ds.Rows {
		b.Reset()
		for i, k := range keys {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			writeCell(&b, rec[k])
		}
		if seen.add(b.String()) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	ds.Rows = kept
	rep.add("dedupe", strings.Join(keys, ","), OpDuplicatesRemoved, removed, "")
	return ds, rep
}

// keySet tracks rendered keys indexed by their xxh3 hash. Keys sharing a
// hash are compared as strings, so a hash collision never drops a row.
type keySet struct {
	m map[uint64][]string
}

func newKeySet(n int) keySet {
	return keySet{m: make(map[uint64][]string, n)}
}

// add records key and reports whether it was already present.
func (s keySet) add(key string) bool {
	h := xxh3.HashString(key)
	for _, prev := range s.m[h] {
		if prev == key {
			return true
		}
	}
	s.m[h] = append(s.m[h], key)
	return false
}

// writeCell renders a cell canonically for key construction. nil maps to a
// byte no source value can contain so it never collides with "".
func writeCell(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteByte('\x00')
	case string:
		b.WriteString(t)
	case time.Time:
		b.WriteString(t.Format(time.RFC3339Nano))
	default:
		fmt.Fprint(b, t)
	}
}

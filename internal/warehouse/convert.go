// Package warehouse projects conformed datasets into the star schema:
// dimension building, calendar synthesis, surrogate-key resolution, fact
// assembly, and the dependency-ordered loader.
package warehouse

import (
	"strconv"
	"time"

	"ecomdw/internal/schema"
)

// convertValue renders a conformed cell for a sink column of the given
// logical type. Unconvertible values degrade to nil (the sink NULL); the
// caller decides whether a nil is acceptable for that column.
func convertValue(colType string, v any) any {
	if v == nil {
		return nil
	}
	switch colType {
	case schema.TypeFloat:
		return toFloat(v)
	case schema.TypeInt:
		if f, ok := toFloat(v).(float64); ok {
			return int64(f)
		}
		return nil
	case schema.TypeBool:
		if b, ok := v.(bool); ok {
			return b
		}
		return nil
	case schema.TypeDate, schema.TypeTimestamp:
		if ts, ok := v.(time.Time); ok {
			return ts
		}
		return nil
	default:
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'g', -1, 64)
		default:
			return nil
		}
	}
}

func toFloat(v any) any {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil
		}
		return f
	default:
		return nil
	}
}

// keyToInt64 normalizes a surrogate key read back from the sink. Drivers
// return different integer widths (pgx INTEGER scans as int32, SQLite as
// int64).
func keyToInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	default:
		return 0, false
	}
}

// dateKeyString normalizes a dim_date date cell to its "2006-01-02" join
// form, whatever the driver returned it as.
func dateKeyString(v any) (string, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02"), true
	case string:
		if len(t) >= 10 {
			return t[:10], true
		}
		return t, t != ""
	case []byte:
		return dateKeyString(string(t))
	default:
		return "", false
	}
}

// naturalKeyString normalizes a natural-key cell read back from the sink.
// Some drivers return TEXT columns as byte slices.
func naturalKeyString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case []byte:
		return string(t), len(t) > 0
	default:
		return "", false
	}
}

package warehouse

import (
	"fmt"
	"time"
)

// Weekday numbering convention for dim_date: Monday=1 through Sunday=7, and
// a day is a weekend day iff it is Saturday or Sunday (day_of_week >= 6).
// The numbering used for display and the numbering used for the weekend
// flag are deliberately the same convention.

// isoWeekday returns the zero-based Monday-start weekday index (Mon=0..Sun=6).
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// BuildCalendar synthesizes the calendar dimension over [start, end]
// inclusive: exactly one row per day, contiguous, no gaps, aligned to
// dim_date's insertable column order. The output depends only on the range,
// so identical ranges always produce identical rows.
func BuildCalendar(start, end time.Time) ([][]any, error) {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return nil, fmt.Errorf("warehouse: calendar end %s precedes start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	days := int(end.Sub(start).Hours()/24) + 1
	rows := make([][]any, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		_, week := d.ISOWeek()
		iso := isoWeekday(d)
		rows = append(rows, []any{
			d,                        // date
			int64(d.Year()),          // year
			int64((int(d.Month())-1)/3 + 1), // quarter
			int64(d.Month()),         // month
			d.Month().String(),       // month_name
			int64(d.Day()),           // day
			int64(iso + 1),           // day_of_week, Monday=1
			d.Weekday().String(),     // day_name
			int64(week),              // week_of_year (ISO)
			iso >= 5,                 // is_weekend
		})
	}
	return rows, nil
}

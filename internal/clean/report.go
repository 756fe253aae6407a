// Package clean implements the cleaning-and-conformance pipeline: date and
// text coercion, missing-value resolution, deduplication, and range/outlier
// validation. Every stage is a pure transformation over a dataset that
// returns the transformed dataset plus a structured report of the actions it
// took; rendering or logging the report is the caller's concern.
package clean

// Op identifies a cleaning action taken on a dataset.
type Op string

const (
	// OpRowsDropped counts rows removed because a cheap (<5% missing) column
	// had missing values.
	OpRowsDropped Op = "rows_dropped"
	// OpFilledUnknown counts textual cells filled with the "Unknown" sentinel.
	OpFilledUnknown Op = "filled_unknown"
	// OpFilledMedian counts numeric cells filled with the column median.
	OpFilledMedian Op = "filled_median"
	// OpDateDegraded counts date values that failed parsing and degraded to
	// the missing marker.
	OpDateDegraded Op = "date_degraded"
	// OpTextNormalized counts text cells changed by normalization.
	OpTextNormalized Op = "text_normalized"
	// OpDuplicatesRemoved counts rows dropped by deduplication.
	OpDuplicatesRemoved Op = "duplicates_removed"
	// OpNegativeDropped counts rows dropped for negative business quantities.
	OpNegativeDropped Op = "negative_dropped"
	// OpOutliersFlagged counts values beyond mean+3σ; flagged, never removed.
	OpOutliersFlagged Op = "outliers_flagged"
)

// Action is one counted cleaning action, scoped to a stage and column.
// Column is empty for whole-dataset actions (full-row dedupe).
type Action struct {
	Stage  string
	Column string
	Op     Op
	Count  int
	Detail string
}

// Report aggregates the actions taken while cleaning one dataset.
type Report struct {
	Dataset string
	Actions []Action
}

func (r *Report) add(stage, column string, op Op, count int, detail string) {
	if count == 0 {
		return
	}
	r.Actions = append(r.Actions, Action{Stage: stage, Column: column, Op: op, Count: count, Detail: detail})
}

// Merge appends the actions of other into r.
func (r *Report) Merge(other Report) {
	r.Actions = append(r.Actions, other.Actions...)
}

// Count sums the counts of all actions with the given op.
func (r *Report) Count(op Op) int {
	n := 0
	for _, a := range r.Actions {
		if a.Op == op {
			n += a.Count
		}
	}
	return n
}

// ColumnCount sums the counts of op for a specific column.
func (r *Report) ColumnCount(op Op, column string) int {
	n := 0
	for _, a := range r.Actions {
		if a.Op == op && a.Column == column {
			n += a.Count
		}
	}
	return n
}

package clean

import (
	"ecomdw/internal/config"
	"ecomdw/pkg/records"
)

// Pipeline runs the fixed per-dataset cleaning stage order:
//
//	missing-value resolution → date coercion → deduplication →
//	text normalization → validation
//
// The order matters: deduplication must run after missing-value handling so
// fill values participate in duplicate detection, and before validation so
// outlier and negative-value statistics reflect the deduplicated population.
// Which columns each stage touches comes from the dataset spec, not from
// pipeline logic.
type Pipeline struct {
	// Layouts are the date layouts tried in order by the coercion stage.
	Layouts []string
}

// New returns a Pipeline using the run's date layouts.
func New(layouts []string) Pipeline {
	if len(layouts) == 0 {
		layouts = config.DefaultDateLayouts
	}
	return Pipeline{Layouts: layouts}
}

// Clean conforms one raw dataset. The input dataset is treated as immutable:
// all stages operate on a clone. The returned report aggregates every action
// taken across the stages. Only the degenerate-statistic case (a numeric
// column with nothing to compute a median from) is an error.
func (p Pipeline) Clean(ds *records.Dataset, spec config.DatasetSpec) (*records.Dataset, *Report, error) {
	out := ds.Clone()
	rep := &Report{Dataset: ds.Name}

	out, r, err := ResolveMissing(out, spec)
	if err != nil {
		return nil, rep, err
	}
	rep.Merge(r)

	out, r = CoerceDates(out, spec.DateColumns, p.Layouts)
	rep.Merge(r)

	out, r = Dedupe(out, spec.DedupeKeys)
	rep.Merge(r)

	out, r = NormalizeText(out, spec.TextColumns)
	rep.Merge(r)

	out, r = Validate(out, spec)
	rep.Merge(r)

	return out, rep, nil
}

// Package config defines the canonical, JSON-serializable configuration model
// for a warehouse run. It is intentionally small and explicit so that run
// specs can be loaded from disk and passed through the program without
// additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in run files
//     under configs/*.json.
//  3. Explicitness: a Run value is passed to the pipeline entry points; there
//     is no process-global configuration state.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Run describes one full warehouse run: where the raw extracts live, how each
// dataset is cleaned, the calendar range to synthesize, and the sink.
type Run struct {
	// Job names the run for logging and metrics labeling.
	Job string `json:"job"`

	// Source locates the raw extracts and the cleaned intermediate files.
	Source Source `json:"source"`

	// DateLayouts are the layouts tried, in order, when coercing date
	// columns. Defaults to timestamp-then-date when empty.
	DateLayouts []string `json:"date_layouts"`

	// Datasets declares the per-entity cleaning configuration. Column lists
	// are configuration, not pipeline logic.
	Datasets []DatasetSpec `json:"datasets"`

	// Calendar bounds the synthesized date dimension (inclusive).
	Calendar Calendar `json:"calendar"`

	// Storage selects and configures the warehouse sink.
	Storage Storage `json:"storage"`

	// Runtime controls insert batching.
	Runtime Runtime `json:"runtime"`
}

// Source holds the input and intermediate-output directories.
type Source struct {
	// RawDir contains the four raw delimited extracts.
	RawDir string `json:"raw_dir"`

	// CleanDir receives the cleaned delimited files; the load stage reads
	// them back as its load contract.
	CleanDir string `json:"clean_dir"`
}

// DatasetSpec declares how one entity's extract is cleaned. The uniqueness
// key, date columns, and text columns drive the fixed pipeline stages.
type DatasetSpec struct {
	Name      string `json:"name"`
	RawFile   string `json:"raw_file"`
	CleanFile string `json:"clean_file"`

	// DateColumns are coerced to timestamps; failures degrade per value.
	DateColumns []string `json:"date_columns"`

	// TextColumns are lower-cased, trimmed, and unicode-normalized.
	TextColumns []string `json:"text_columns"`

	// NumericColumns receive median fills and outlier checks. Columns not
	// listed here (and not date columns) are treated as textual.
	NumericColumns []string `json:"numeric_columns"`

	// NonNegativeColumns lists business quantities whose negative rows are
	// dropped. Columns whose names signal a quantity (price, amount, qty,
	// quantity, freight, weight) are checked even when not listed.
	NonNegativeColumns []string `json:"non_negative_columns"`

	// DedupeKeys is the uniqueness key; empty means full-row equality.
	DedupeKeys []string `json:"dedupe_keys"`
}

// Calendar bounds the synthesized date dimension, as "2006-01-02" strings.
type Calendar struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Storage selects the sink used to persist the warehouse tables.
type Storage struct {
	// Kind selects the storage implementation, e.g. "postgres" or "sqlite".
	Kind string `json:"kind"`

	// DB configures the selected sink.
	DB DBConfig `json:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is the connection string (pgxpool or database/sql form).
	DSN string `json:"dsn"`

	// AutoCreateTables creates the star-schema tables before loading.
	AutoCreateTables bool `json:"auto_create_tables"`
}

// Runtime controls insert batching for the loader.
type Runtime struct {
	// BatchSize is the number of rows per bulk insert; defaults to 5000.
	BatchSize int `json:"batch_size"`
}

// DefaultDateLayouts are tried in order when a run declares none.
var DefaultDateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// DefaultBatchSize is used when runtime.batch_size is unset.
const DefaultBatchSize = 5000

// Load reads and decodes a run spec from path.
func Load(path string) (Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return Run{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a run spec from r and applies defaults.
func Decode(r io.Reader) (Run, error) {
	var run Run
	if err := json.NewDecoder(r).Decode(&run); err != nil {
		return Run{}, fmt.Errorf("decode config: %w", err)
	}
	run.ApplyDefaults()
	return run, nil
}

// ApplyDefaults fills unset optional fields in place.
func (r *Run) ApplyDefaults() {
	if len(r.DateLayouts) == 0 {
		r.DateLayouts = DefaultDateLayouts
	}
	if r.Runtime.BatchSize <= 0 {
		r.Runtime.BatchSize = DefaultBatchSize
	}
}

// Dataset returns the spec for the named dataset, or false when absent.
func (r *Run) Dataset(name string) (DatasetSpec, bool) {
	for _, d := range r.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return DatasetSpec{}, false
}

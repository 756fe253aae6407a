// Package config provides configuration models and helpers for warehouse runs.
//
// This file adds a lightweight linter/validator for Run values. It performs
// static checks over a decoded Run and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
	"time"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Run.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "datasets[1].raw_file"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidateRun performs static validation / linting of a Run.
//
// It does not mutate the run. Instead it returns a slice of Issue values;
// callers may decide whether to treat warnings as fatal or not.
func ValidateRun(r Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(r.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	if strings.TrimSpace(r.Source.RawDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.raw_dir",
			Message:  "raw_dir must point at the directory holding the raw extracts",
		})
	}
	if strings.TrimSpace(r.Source.CleanDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.clean_dir",
			Message:  "clean_dir must point at the directory for cleaned files",
		})
	}

	issues = append(issues, validateDatasets(r.Datasets)...)
	issues = append(issues, validateCalendar(r.Calendar)...)
	issues = append(issues, validateStorage(r.Storage)...)

	if r.Runtime.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "runtime.batch_size",
			Message:  "negative batch_size; the default will be used",
		})
	}
	return issues
}

func validateDatasets(specs []DatasetSpec) []Issue {
	var issues []Issue
	if len(specs) == 0 {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "datasets",
			Message:  "at least one dataset must be declared",
		})
	}
	seen := map[string]bool{}
	for i, d := range specs {
		path := fmt.Sprintf("datasets[%d]", i)
		if strings.TrimSpace(d.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".name",
				Message:  "dataset name must not be empty",
			})
		} else if seen[d.Name] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".name",
				Message:  fmt.Sprintf("duplicate dataset name %q", d.Name),
			})
		}
		seen[d.Name] = true

		if strings.TrimSpace(d.RawFile) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".raw_file",
				Message:  "raw_file must not be empty",
			})
		}
		if strings.TrimSpace(d.CleanFile) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".clean_file",
				Message:  "clean_file must not be empty",
			})
		}
		if len(d.DedupeKeys) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".dedupe_keys",
				Message:  "no dedupe keys declared; full-row equality will be used",
			})
		}

		// A column declared both date and numeric would be median-filled as
		// text and then coerced; almost certainly a mistake.
		numeric := map[string]bool{}
		for _, c := range d.NumericColumns {
			numeric[c] = true
		}
		for _, c := range d.DateColumns {
			if numeric[c] {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     path + ".date_columns",
					Message:  fmt.Sprintf("column %q is declared both date and numeric", c),
				})
			}
		}
	}
	return issues
}

func validateCalendar(c Calendar) []Issue {
	var issues []Issue
	start, errStart := time.Parse("2006-01-02", c.Start)
	if errStart != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "calendar.start",
			Message:  fmt.Sprintf("start %q is not a 2006-01-02 date", c.Start),
		})
	}
	end, errEnd := time.Parse("2006-01-02", c.End)
	if errEnd != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "calendar.end",
			Message:  fmt.Sprintf("end %q is not a 2006-01-02 date", c.End),
		})
	}
	if errStart == nil && errEnd == nil && end.Before(start) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "calendar",
			Message:  "end must not precede start",
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage kind must be set (e.g. postgres, sqlite)",
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "dsn must not be empty",
		})
	}
	return issues
}

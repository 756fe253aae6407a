// Package main wires the warehouse run end-to-end: cleaning the raw
// extracts into conformed files, loading dimensions and facts into the
// configured sink, and running the read-only analysis queries. This file
// keeps the CLI layer thin: it depends only on storage-agnostic interfaces
// and never imports database drivers directly.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"ecomdw/internal/clean"
	"ecomdw/internal/config"
	"ecomdw/internal/metrics"
	csvparser "ecomdw/internal/parser/csv"
	"ecomdw/internal/report"
	"ecomdw/internal/schema"
	"ecomdw/internal/storage"
	"ecomdw/internal/warehouse"
	"ecomdw/pkg/records"
)

// The load stage addresses datasets by these fixed names; the config linter
// warns when one is missing.
const (
	datasetCustomers = "customers"
	datasetOrders    = "orders"
	datasetItems     = "order_items"
	datasetProducts  = "products"
)

// Function variables used to introduce test seams. In production these point
// to real implementations; tests can override them.
var (
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}

	ensureWarehouseFn = storage.EnsureWarehouse

	reportOut io.Writer = os.Stdout
)

// execute dispatches the requested stage. "all" runs clean, load, and report
// in order; a stage failure stops the run.
func execute(ctx context.Context, run config.Run, stage string) error {
	if stage == "clean" || stage == "all" {
		if err := runClean(run); err != nil {
			return err
		}
	}
	if stage == "load" || stage == "all" {
		if err := runLoad(ctx, run); err != nil {
			return err
		}
	}
	if stage == "report" || stage == "all" {
		if err := runReport(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

// runClean conforms every configured dataset: read the raw extract, run the
// cleaning pipeline, and write the cleaned file that the load stage reads
// back. Datasets are processed in declared order, one at a time.
func runClean(run config.Run) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStage("clean", err, time.Since(start)) }()

	if err = os.MkdirAll(run.Source.CleanDir, 0o755); err != nil {
		return fmt.Errorf("create clean dir: %w", err)
	}

	pipeline := clean.New(run.DateLayouts)
	for _, spec := range run.Datasets {
		raw, rerr := readDataset(filepath.Join(run.Source.RawDir, spec.RawFile), spec.Name)
		if rerr != nil {
			return rerr
		}
		metrics.RecordRows(spec.Name, "read", int64(raw.Len()))

		cleaned, rep, cerr := pipeline.Clean(raw, spec)
		if cerr != nil {
			return fmt.Errorf("clean %s: %w", spec.Name, cerr)
		}
		logReport(rep)
		for _, a := range rep.Actions {
			metrics.RecordCleanAction(rep.Dataset, string(a.Op), a.Count)
		}

		if werr := writeDataset(filepath.Join(run.Source.CleanDir, spec.CleanFile), cleaned); werr != nil {
			return werr
		}
		metrics.RecordRows(spec.Name, "cleaned", int64(cleaned.Len()))
		log.Printf("clean: %s: rows_in=%d rows_out=%d actions=%d",
			spec.Name, raw.Len(), cleaned.Len(), len(rep.Actions))
	}
	return nil
}

// runLoad loads the warehouse from the cleaned files: dimensions first (the
// sink assigns their surrogate keys), then the calendar, then the fact rows
// assembled against the persisted dimensions.
func runLoad(ctx context.Context, run config.Run) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStage("load", err, time.Since(start)) }()

	repo, err := newRepositoryFn(ctx, storage.Config{Kind: run.Storage.Kind, DSN: run.Storage.DB.DSN})
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	defer repo.Close()

	if run.Storage.DB.AutoCreateTables {
		if err = ensureWarehouseFn(ctx, run.Storage.Kind, repo); err != nil {
			return fmt.Errorf("apply DDL: %w", err)
		}
	}

	loader := warehouse.NewLoader(repo, run.Runtime.BatchSize)

	customers, err := readCleanDataset(run, datasetCustomers)
	if err != nil {
		return err
	}
	if err = loadDimension(ctx, loader, customers, warehouse.DimCustomersProjection); err != nil {
		return err
	}

	products, err := readCleanDataset(run, datasetProducts)
	if err != nil {
		return err
	}
	if err = loadDimension(ctx, loader, products, warehouse.DimProductsProjection); err != nil {
		return err
	}

	if err = loadCalendar(ctx, loader, run.Calendar); err != nil {
		return err
	}

	orders, err := readCleanDataset(run, datasetOrders)
	if err != nil {
		return err
	}
	items, err := readCleanDataset(run, datasetItems)
	if err != nil {
		return err
	}
	facts, stats, err := warehouse.AssembleFacts(ctx, repo, orders, items, run.DateLayouts)
	if err != nil {
		return err
	}
	metrics.RecordRows(schema.FactOrders.Name, "dropped", int64(stats.Resolution.Dropped()))

	n, err := loader.Load(ctx, schema.FactOrders, facts)
	if err != nil {
		return err
	}
	log.Printf("load: %s: line_items=%d resolved=%d dropped=%d inserted=%d",
		schema.FactOrders.Name, stats.LineItems, stats.Resolution.Resolved, stats.Resolution.Dropped(), n)
	return nil
}

// runReport runs the analysis queries against the loaded warehouse and
// renders them to stdout.
func runReport(ctx context.Context, run config.Run) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStage("report", err, time.Since(start)) }()

	repo, err := newRepositoryFn(ctx, storage.Config{Kind: run.Storage.Kind, DSN: run.Storage.DB.DSN})
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	defer repo.Close()

	tables, err := report.Run(ctx, repo)
	if err != nil {
		return err
	}
	return report.RenderAll(reportOut, tables)
}

// loadDimension projects a conformed dataset onto its dimension table and
// bulk-loads the rows.
func loadDimension(ctx context.Context, loader *warehouse.Loader, ds *records.Dataset, p warehouse.Projection) error {
	rows, err := warehouse.BuildDimension(ds, p)
	if err != nil {
		return err
	}
	n, err := loader.Load(ctx, p.Table, rows)
	if err != nil {
		return err
	}
	log.Printf("load: %s: inserted=%d", p.Table.Name, n)
	return nil
}

// loadCalendar synthesizes and loads the date dimension from the configured
// inclusive range.
func loadCalendar(ctx context.Context, loader *warehouse.Loader, cal config.Calendar) error {
	start, err := time.Parse("2006-01-02", cal.Start)
	if err != nil {
		return fmt.Errorf("calendar start: %w", err)
	}
	end, err := time.Parse("2006-01-02", cal.End)
	if err != nil {
		return fmt.Errorf("calendar end: %w", err)
	}
	rows, err := warehouse.BuildCalendar(start, end)
	if err != nil {
		return err
	}
	n, err := loader.Load(ctx, schema.DimDate, rows)
	if err != nil {
		return err
	}
	log.Printf("load: %s: inserted=%d (%s..%s)", schema.DimDate.Name, n, cal.Start, cal.End)
	return nil
}

// readCleanDataset reads one cleaned file back under the load contract.
func readCleanDataset(run config.Run, name string) (*records.Dataset, error) {
	spec, ok := run.Dataset(name)
	if !ok {
		return nil, fmt.Errorf("load: config declares no %q dataset", name)
	}
	return readDataset(filepath.Join(run.Source.CleanDir, spec.CleanFile), name)
}

func readDataset(path, name string) (*records.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	ds, err := csvparser.Read(f, name, csvparser.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return ds, nil
}

func writeDataset(path string, ds *records.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", ds.Name, err)
	}
	defer f.Close()

	if err := csvparser.Write(f, ds, csvparser.DefaultOptions()); err != nil {
		return fmt.Errorf("write %s: %w", ds.Name, err)
	}
	return f.Close()
}

// logReport emits one line per cleaning action for operator visibility.
func logReport(rep *clean.Report) {
	for _, a := range rep.Actions {
		if a.Column == "" {
			log.Printf("clean: %s: %s %s count=%d", rep.Dataset, a.Stage, a.Op, a.Count)
			continue
		}
		log.Printf("clean: %s: %s %s column=%s count=%d", rep.Dataset, a.Stage, a.Op, a.Column, a.Count)
	}
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecomdw/internal/config"
	"ecomdw/internal/schema"
	"ecomdw/internal/storage"
)

// writeRawExtracts lays down a small, deliberately messy set of raw files:
// a duplicated customer, a missing city, and an unparseable timestamp.
func writeRawExtracts(tb testing.TB, rawDir string) {
	tb.Helper()

	files := map[string]string{
		"customers.csv": "customer_id,customer_city,customer_state,customer_zip_code_prefix\n" +
			"c1,São Paulo,SP,01310\n" +
			"c2,,RJ,20040\n" +
			"c2,,RJ,20040\n",
		"products.csv": "product_id,product_category_name,product_name_lenght,product_description_lenght," +
			"product_photos_qty,product_weight_g,product_length_cm,product_height_cm,product_width_cm\n" +
			"p1,beleza_saude,40,287,1,225,16,10,14\n",
		"orders.csv": "order_id,customer_id,order_status,order_purchase_timestamp,order_approved_at," +
			"order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date\n" +
			"o1,c1,delivered,2017-05-10 10:56:33,2017-05-10 11:05:00,2017-05-11 08:00:00,2017-05-15 17:30:00,2017-05-25\n" +
			"o2,c2,delivered,2017-05-12 08:00:00,2017-05-12 08:30:00,not-a-date,2017-05-18 12:00:00,2017-05-28\n",
		"order_items.csv": "order_id,order_item_id,product_id,seller_id,shipping_limit_date,price,freight_value\n" +
			"o1,1,p1,s1,2017-05-14 10:56:33,100.0,9.34\n" +
			"o2,1,p1,s1,2017-05-16 10:56:33,45.9,12.79\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(rawDir, name), []byte(body), 0o644); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}
}

// buildRun is a minimal working run config covering all four datasets.
func buildRun(rawDir, cleanDir, kind, dsn string, autoCreate bool) config.Run {
	run := config.Run{
		Job:    "container-test",
		Source: config.Source{RawDir: rawDir, CleanDir: cleanDir},
		Datasets: []config.DatasetSpec{
			{
				Name: "customers", RawFile: "customers.csv", CleanFile: "customers_clean.csv",
				TextColumns: []string{"customer_city", "customer_state"},
				DedupeKeys:  []string{"customer_id"},
			},
			{
				Name: "orders", RawFile: "orders.csv", CleanFile: "orders_clean.csv",
				DateColumns: []string{
					"order_purchase_timestamp", "order_approved_at",
					"order_delivered_carrier_date", "order_delivered_customer_date",
					"order_estimated_delivery_date",
				},
				TextColumns: []string{"order_status"},
				DedupeKeys:  []string{"order_id"},
			},
			{
				Name: "order_items", RawFile: "order_items.csv", CleanFile: "order_items_clean.csv",
				NumericColumns:     []string{"price", "freight_value"},
				NonNegativeColumns: []string{"price", "freight_value"},
				DedupeKeys:         []string{"order_id", "order_item_id"},
			},
			{
				Name: "products", RawFile: "products.csv", CleanFile: "products_clean.csv",
				TextColumns: []string{"product_category_name"},
				NumericColumns: []string{
					"product_name_lenght", "product_description_lenght",
					"product_photos_qty", "product_weight_g",
					"product_length_cm", "product_height_cm", "product_width_cm",
				},
				DedupeKeys: []string{"product_id"},
			},
		},
		Calendar: config.Calendar{Start: "2017-05-01", End: "2017-05-31"},
		Storage: config.Storage{
			Kind: kind,
			DB:   config.DBConfig{DSN: dsn, AutoCreateTables: autoCreate},
		},
	}
	run.ApplyDefaults()
	return run
}

// openSQL opens a raw *sql.DB to the same DSN so we can verify loaded rows.
func openSQL(tb testing.TB, dsn string) *sql.DB {
	tb.Helper()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		tb.Fatalf("sql open: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })
	return db
}

// End-to-end: clean the raw extracts, load into a real SQLite file with
// auto-created tables, and run the analysis queries.
func TestExecute_AllStages_SQLite(t *testing.T) {
	rawDir, cleanDir := t.TempDir(), t.TempDir()
	writeRawExtracts(t, rawDir)

	dbPath := filepath.Join(t.TempDir(), "e2e.sqlite")
	dsn := "file:" + url.PathEscape(dbPath) + "?mode=rwc"
	run := buildRun(rawDir, cleanDir, "sqlite", dsn, true)

	var sb strings.Builder
	origOut := reportOut
	reportOut = &sb
	defer func() { reportOut = origOut }()

	if err := execute(context.Background(), run, "all"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// Cleaning produced the four conformed files.
	for _, spec := range run.Datasets {
		if _, err := os.Stat(filepath.Join(cleanDir, spec.CleanFile)); err != nil {
			t.Fatalf("cleaned file missing for %s: %v", spec.Name, err)
		}
	}

	db := openSQL(t, dsn)
	counts := map[string]int{
		"dim_customers": 2,  // duplicate c2 removed
		"dim_products":  1,
		"dim_date":      31, // May 2017
		"fact_orders":   2,
	}
	for table, want := range counts {
		var got int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Fatalf("%s: %d rows, want %d", table, got, want)
		}
	}

	// Every fact row carries resolved surrogate keys.
	var nulls int
	if err := db.QueryRow(`SELECT COUNT(*) FROM fact_orders
WHERE customer_key IS NULL OR product_key IS NULL OR order_date_key IS NULL`).Scan(&nulls); err != nil {
		t.Fatalf("null keys: %v", err)
	}
	if nulls != 0 {
		t.Fatalf("%d fact rows with null surrogate keys", nulls)
	}

	// Measures survived cleaning and loading unmodified.
	var revenue float64
	if err := db.QueryRow("SELECT SUM(price) FROM fact_orders").Scan(&revenue); err != nil {
		t.Fatalf("sum price: %v", err)
	}
	if revenue < 145.89 || revenue > 145.91 {
		t.Fatalf("revenue = %v, want 145.9", revenue)
	}

	out := sb.String()
	for _, want := range []string{"Customer distribution by state", "sp", "Order fact summary"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report output missing %q:\n%s", want, out)
		}
	}
}

func TestExecute_CleanStageNormalizesText(t *testing.T) {
	rawDir, cleanDir := t.TempDir(), t.TempDir()
	writeRawExtracts(t, rawDir)
	run := buildRun(rawDir, cleanDir, "sqlite", "unused", false)

	if err := execute(context.Background(), run, "clean"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	body, err := os.ReadFile(filepath.Join(cleanDir, "customers_clean.csv"))
	if err != nil {
		t.Fatalf("read cleaned customers: %v", err)
	}
	got := string(body)
	if !strings.Contains(got, "são paulo") {
		t.Fatalf("city not lower-cased:\n%s", got)
	}
	// The fill sentinel is lower-cased by the later normalization stage.
	if !strings.Contains(got, "unknown") {
		t.Fatalf("missing city not filled:\n%s", got)
	}
	if strings.Count(got, "c2,") != 1 {
		t.Fatalf("duplicate customer not removed:\n%s", got)
	}
}

// seamRepo lets the load stage run without any database.
type seamRepo struct {
	copied map[string]int
	nextID map[string]int64
	rows   map[string][][]any
}

func newSeamRepo() *seamRepo {
	return &seamRepo{copied: map[string]int{}, nextID: map[string]int64{}, rows: map[string][][]any{}}
}

func (s *seamRepo) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	s.copied[table] += len(rows)
	for _, row := range rows {
		s.nextID[table]++
		stored := append([]any{s.nextID[table]}, row...)
		s.rows[table] = append(s.rows[table], stored)
	}
	return int64(len(rows)), nil
}

func (s *seamRepo) Select(ctx context.Context, table string, columns []string) ([][]any, error) {
	def := schema.Table{}
	for _, t := range schema.Warehouse {
		if t.Name == table {
			def = t
		}
	}
	if def.Name == "" {
		return nil, errors.New("unknown table " + table)
	}
	var out [][]any
	for _, stored := range s.rows[table] {
		row := make([]any, len(columns))
		for i, want := range columns {
			if want == def.Key {
				row[i] = stored[0]
				continue
			}
			for j, c := range def.Columns {
				if c.Name == want {
					row[i] = stored[j+1]
				}
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *seamRepo) Query(ctx context.Context, sql string) ([][]any, error) { return nil, nil }
func (s *seamRepo) Exec(ctx context.Context, sql string) error             { return nil }
func (s *seamRepo) Close()                                                 {}

func TestRunLoad_SeamOverrides(t *testing.T) {
	rawDir, cleanDir := t.TempDir(), t.TempDir()
	writeRawExtracts(t, rawDir)
	run := buildRun(rawDir, cleanDir, "sqlite", "unused", true)

	if err := runClean(run); err != nil {
		t.Fatalf("runClean: %v", err)
	}

	repo := newSeamRepo()
	ddlCalls := 0
	origNew, origEnsure := newRepositoryFn, ensureWarehouseFn
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return repo, nil
	}
	ensureWarehouseFn = func(ctx context.Context, kind string, r storage.Repository) error {
		ddlCalls++
		return nil
	}
	defer func() { newRepositoryFn, ensureWarehouseFn = origNew, origEnsure }()

	if err := runLoad(context.Background(), run); err != nil {
		t.Fatalf("runLoad: %v", err)
	}

	if ddlCalls != 1 {
		t.Fatalf("ddl bootstrap calls = %d, want 1", ddlCalls)
	}
	if repo.copied["dim_customers"] != 2 || repo.copied["dim_products"] != 1 {
		t.Fatalf("dimension rows = %v", repo.copied)
	}
	if repo.copied["dim_date"] != 31 {
		t.Fatalf("dim_date rows = %d, want 31", repo.copied["dim_date"])
	}
	if repo.copied["fact_orders"] != 2 {
		t.Fatalf("fact rows = %d, want 2", repo.copied["fact_orders"])
	}
}

// Package report runs read-only aggregate queries against the loaded
// warehouse and renders the results as plain-text tables. It lives entirely
// downstream of the sink: nothing here feeds back into cleaning or loading.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"ecomdw/internal/storage"
)

// Table is one rendered analysis result.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]any
}

type query struct {
	title   string
	columns []string
	sql     string
}

// The queries run against the star schema in both backends: ANSI aggregates,
// window functions, and CASE only.
var queries = []query{
	{
		title:   "Customer distribution by state",
		columns: []string{"state", "customers", "pct"},
		sql: `SELECT customer_state,
       COUNT(*) AS customer_count,
       ROUND(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (), 2) AS percentage
FROM dim_customers
GROUP BY customer_state
ORDER BY customer_count DESC
LIMIT 10`,
	},
	{
		title:   "Product categories overview",
		columns: []string{"category", "products", "avg_name_len", "avg_weight_g"},
		sql: `SELECT product_category_name,
       COUNT(*) AS product_count,
       ROUND(AVG(product_name_length), 1) AS avg_name_length,
       ROUND(AVG(product_weight_g), 0) AS avg_weight_grams
FROM dim_products
WHERE product_category_name IS NOT NULL
GROUP BY product_category_name
ORDER BY product_count DESC
LIMIT 10`,
	},
	{
		title:   "Top cities by customer count",
		columns: []string{"city", "state", "customers", "pct_of_total"},
		sql: `SELECT customer_city,
       customer_state,
       COUNT(*) AS customer_count,
       ROUND(COUNT(*) * 100.0 / (SELECT COUNT(*) FROM dim_customers), 2) AS pct_of_total
FROM dim_customers
GROUP BY customer_city, customer_state
ORDER BY customer_count DESC
LIMIT 15`,
	},
	{
		title:   "Calendar coverage",
		columns: []string{"first_day", "last_day", "days"},
		sql: `SELECT MIN(date) AS first_day,
       MAX(date) AS last_day,
       COUNT(*) AS day_count
FROM dim_date`,
	},
	{
		title:   "Weekend vs weekday days",
		columns: []string{"day_type", "days", "pct"},
		sql: `SELECT CASE WHEN is_weekend THEN 'Weekend' ELSE 'Weekday' END AS day_type,
       COUNT(*) AS day_count,
       ROUND(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (), 2) AS percentage
FROM dim_date
GROUP BY is_weekend
ORDER BY day_count DESC`,
	},
	{
		title:   "Order fact summary",
		columns: []string{"line_items", "orders", "gross_revenue", "total_freight"},
		sql: `SELECT COUNT(*) AS line_items,
       COUNT(DISTINCT order_id) AS order_count,
       ROUND(SUM(price), 2) AS gross_revenue,
       ROUND(SUM(freight_value), 2) AS total_freight
FROM fact_orders`,
	},
}

// Run executes every analysis query through repo and returns the result
// tables in a fixed order. The first failing query aborts the run.
func Run(ctx context.Context, repo storage.Repository) ([]Table, error) {
	out := make([]Table, 0, len(queries))
	for _, q := range queries {
		rows, err := repo.Query(ctx, q.sql)
		if err != nil {
			return nil, fmt.Errorf("report: %s: %w", q.title, err)
		}
		out = append(out, Table{Title: q.title, Columns: q.columns, Rows: rows})
	}
	return out, nil
}

// Render writes a table in aligned plain text.
func Render(w io.Writer, t Table) error {
	fmt.Fprintf(w, "%s\n", t.Title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, c := range t.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c)
	}
	fmt.Fprintln(tw)
	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, formatCell(cell))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// RenderAll renders every table in order.
func RenderAll(w io.Writer, tables []Table) error {
	for _, t := range tables {
		if err := Render(w, t); err != nil {
			return err
		}
	}
	return nil
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	default:
		return fmt.Sprint(t)
	}
}

package sqlite

import (
	"context"
	"fmt"
	"strings"

	"ecomdw/internal/schema"
	"ecomdw/internal/storage"
)

// sqlType maps a schema column type onto the SQLite dialect. Dates and
// timestamps are stored as TEXT in their canonical layouts.
func sqlType(t string) string {
	switch t {
	case schema.TypeInt, schema.TypeBool:
		return "INTEGER"
	case schema.TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// createTableSQL renders the CREATE TABLE statement for one warehouse table.
// AUTOINCREMENT keeps surrogate keys monotonic and never reused, even after
// deletes.
func createTableSQL(t schema.Table) string {
	var defs []string
	if t.Key != "" {
		defs = append(defs, fmt.Sprintf("%s INTEGER PRIMARY KEY AUTOINCREMENT", t.Key))
	}
	for _, c := range t.Columns {
		defs = append(defs, fmt.Sprintf("%s %s", c.Name, sqlType(c.Type)))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(defs, ", "))
}

// ensureWarehouse creates the four star-schema tables.
func ensureWarehouse(ctx context.Context, repo storage.Repository) error {
	for _, t := range schema.Warehouse {
		if err := repo.Exec(ctx, createTableSQL(t)); err != nil {
			return fmt.Errorf("sqlite: create %s: %w", t.Name, err)
		}
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"ecomdw/internal/schema"
	"ecomdw/internal/storage"
)

// sqlType maps a schema column type onto the Postgres dialect.
func sqlType(t string) string {
	switch t {
	case schema.TypeInt:
		return "INTEGER"
	case schema.TypeFloat:
		return "DOUBLE PRECISION"
	case schema.TypeBool:
		return "BOOLEAN"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// createTableSQL renders the CREATE TABLE statement for one warehouse table.
// Surrogate keys are SERIAL so the database assigns them at insert time.
func createTableSQL(t schema.Table) string {
	var defs []string
	if t.Key != "" {
		defs = append(defs, fmt.Sprintf("%s SERIAL PRIMARY KEY", pgIdent(t.Key)))
	}
	for _, c := range t.Columns {
		defs = append(defs, fmt.Sprintf("%s %s", pgIdent(c.Name), sqlType(c.Type)))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pgFQN(t.Name), strings.Join(defs, ", "))
}

// ensureWarehouse creates the four star-schema tables.
func ensureWarehouse(ctx context.Context, repo storage.Repository) error {
	for _, t := range schema.Warehouse {
		if err := repo.Exec(ctx, createTableSQL(t)); err != nil {
			return fmt.Errorf("postgres: create %s: %w", t.Name, err)
		}
	}
	return nil
}

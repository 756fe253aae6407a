package warehouse

import (
	"context"
	"fmt"

	"ecomdw/internal/schema"
	"ecomdw/internal/storage"
)

// Loader bulk-appends record sets to the sink tables. It enforces the hard
// dependency that all three dimensions are loaded before the fact table:
// fact rows embed surrogate keys the sink assigns at dimension-insert time.
type Loader struct {
	repo      storage.Repository
	batchSize int
	loaded    map[string]bool
}

// NewLoader returns a Loader inserting through repo in batches of batchSize.
func NewLoader(repo storage.Repository, batchSize int) *Loader {
	return &Loader{repo: repo, batchSize: batchSize, loaded: map[string]bool{}}
}

// Load appends rows to the given warehouse table and returns the number of
// rows inserted. Loading the fact table before every dimension has been
// loaded through this Loader is an error.
func (l *Loader) Load(ctx context.Context, table schema.Table, rows [][]any) (int64, error) {
	if table.Name == schema.FactOrders.Name {
		for _, dim := range []schema.Table{schema.DimCustomers, schema.DimProducts, schema.DimDate} {
			if !l.loaded[dim.Name] {
				return 0, fmt.Errorf("warehouse: %s must be loaded before %s", dim.Name, table.Name)
			}
		}
	}
	n, err := storage.Append(ctx, l.repo, table.Name, table.ColumnNames(), rows, l.batchSize)
	if err != nil {
		return n, err
	}
	l.loaded[table.Name] = true
	return n, nil
}

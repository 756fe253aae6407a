package warehouse

import (
	"context"
	"fmt"

	"ecomdw/internal/schema"
)

// fakeRepo emulates the sink in memory, including surrogate-key assignment
// at insert time, so key resolution can be tested end to end.
type fakeRepo struct {
	tables map[string][]map[string]any
	nextID map[string]int64
	failOn string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tables: map[string][]map[string]any{},
		nextID: map[string]int64{},
	}
}

func tableDef(name string) (schema.Table, bool) {
	for _, t := range schema.Warehouse {
		if t.Name == name {
			return t, true
		}
	}
	return schema.Table{}, false
}

func (f *fakeRepo) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if table == f.failOn {
		return 0, fmt.Errorf("fake: %s unreachable", table)
	}
	def, ok := tableDef(table)
	if !ok {
		return 0, fmt.Errorf("fake: unknown table %s", table)
	}
	for _, row := range rows {
		rec := make(map[string]any, len(columns)+1)
		for i, c := range columns {
			rec[c] = row[i]
		}
		if def.Key != "" {
			f.nextID[table]++
			rec[def.Key] = f.nextID[table]
		}
		f.tables[table] = append(f.tables[table], rec)
	}
	return int64(len(rows)), nil
}

func (f *fakeRepo) Select(ctx context.Context, table string, columns []string) ([][]any, error) {
	if table == f.failOn {
		return nil, fmt.Errorf("fake: %s unreachable", table)
	}
	var out [][]any
	for _, rec := range f.tables[table] {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = rec[c]
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeRepo) Query(ctx context.Context, sql string) ([][]any, error) { return nil, nil }
func (f *fakeRepo) Exec(ctx context.Context, sql string) error             { return nil }
func (f *fakeRepo) Close()                                                 {}

package warehouse

import (
	"fmt"

	"ecomdw/internal/schema"
	"ecomdw/pkg/records"
)

// Projection maps a conformed entity dataset onto a dimension table. Source
// maps sink column names to source column names where they differ; sink
// columns not present in the map read from the same-named source column.
type Projection struct {
	Table  schema.Table
	Source map[string]string
}

// DimCustomersProjection projects the conformed customers dataset.
var DimCustomersProjection = Projection{Table: schema.DimCustomers}

// DimProductsProjection projects the conformed products dataset. The source
// data carries the category's original misspelled length column names.
var DimProductsProjection = Projection{
	Table: schema.DimProducts,
	Source: map[string]string{
		"product_name_length":        "product_name_lenght",
		"product_description_length": "product_description_lenght",
	},
}

// sourceColumn resolves the source column feeding a sink column.
func (p Projection) sourceColumn(sink string) string {
	if src, ok := p.Source[sink]; ok {
		return src
	}
	return sink
}

// BuildDimension projects ds onto the projection's dimension table,
// returning rows aligned to the table's insertable column order. It is a
// pure, order-preserving column selection: no joins, no row filtering.
// A sink column whose source column is absent from the dataset violates the
// entity's column contract and is an error.
func BuildDimension(ds *records.Dataset, p Projection) ([][]any, error) {
	for _, c := range p.Table.Columns {
		if src := p.sourceColumn(c.Name); !ds.HasColumn(src) {
			return nil, fmt.Errorf("warehouse: %s: dataset %s lacks column %q", p.Table.Name, ds.Name, src)
		}
	}
	rows := make([][]any, 0, ds.Len())
	for _, rec := range ds.Rows {
		row := make([]any, len(p.Table.Columns))
		for i, c := range p.Table.Columns {
			row[i] = convertValue(c.Type, rec[p.sourceColumn(c.Name)])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

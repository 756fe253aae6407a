package warehouse

import (
	"context"

	"ecomdw/internal/clean"
	"ecomdw/internal/schema"
	"ecomdw/internal/storage"
	"ecomdw/pkg/records"
)

// orderJoinColumns are the header columns merged onto each line item.
var orderJoinColumns = []string{
	"customer_id",
	"order_status",
	"order_purchase_timestamp",
	"order_approved_at",
	"order_delivered_carrier_date",
	"order_delivered_customer_date",
	"order_estimated_delivery_date",
}

// orderTimestampColumns are re-coerced when the headers arrive from the
// cleaned-file contract, where timestamps are text again.
var orderTimestampColumns = []string{
	"order_purchase_timestamp",
	"order_approved_at",
	"order_delivered_carrier_date",
	"order_delivered_customer_date",
	"order_estimated_delivery_date",
}

// Join left-joins line items to their parent order header by order_id,
// merging in the status, customer id, and lifecycle timestamps. A line item
// whose order is absent yields nil in the joined fields; such rows cannot
// resolve a customer or date key later and are dropped there. Line-item
// fields are never overwritten by header fields.
func Join(orders, items *records.Dataset) []records.Record {
	headers := make(map[string]records.Record, orders.Len())
	for _, rec := range orders.Rows {
		if id, ok := rec["order_id"].(string); ok {
			headers[id] = rec
		}
	}

	out := make([]records.Record, 0, items.Len())
	for _, item := range items.Rows {
		merged := item.Clone()
		id, _ := item["order_id"].(string)
		header := headers[id]
		for _, col := range orderJoinColumns {
			if header == nil {
				merged[col] = nil
				continue
			}
			merged[col] = header[col]
		}
		out = append(out, merged)
	}
	return out
}

// FactStats summarizes one fact assembly.
type FactStats struct {
	LineItems  int
	Resolution Resolution
}

// AssembleFacts builds the final fact row set: coerce the order headers'
// lifecycle timestamps, left-join line items to headers, resolve surrogate
// keys against the persisted dimensions, and project the surviving rows
// onto the fact table's column order. Measures pass through unmodified.
func AssembleFacts(
	ctx context.Context,
	repo storage.Repository,
	orders, items *records.Dataset,
	layouts []string,
) ([][]any, FactStats, error) {
	stats := FactStats{LineItems: items.Len()}

	coerced := orders.Clone()
	coerced, _ = clean.CoerceDates(coerced, orderTimestampColumns, layouts)

	candidates := Join(coerced, items)
	resolved, res, err := NewKeyResolver(repo).Resolve(ctx, candidates)
	if err != nil {
		return nil, stats, err
	}
	stats.Resolution = res

	rows := make([][]any, 0, len(resolved))
	for _, rec := range resolved {
		row := make([]any, len(schema.FactOrders.Columns))
		for i, c := range schema.FactOrders.Columns {
			switch c.Name {
			case "customer_key", "product_key", "order_date_key":
				row[i] = rec[c.Name]
			default:
				row[i] = convertValue(c.Type, rec[c.Name])
			}
		}
		rows = append(rows, row)
	}
	return rows, stats, nil
}

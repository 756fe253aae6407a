package warehouse

import (
	"context"
	"fmt"
	"log"
	"time"

	"ecomdw/internal/schema"
	"ecomdw/internal/storage"
	"ecomdw/pkg/records"
)

// KeyResolver substitutes natural keys in fact-candidate rows with the
// surrogate keys of the persisted dimensions. The date join uses the
// calendar-date portion of the purchase timestamp, not the full timestamp.
type KeyResolver struct {
	repo storage.Repository
}

// NewKeyResolver returns a resolver reading dimensions through repo.
func NewKeyResolver(repo storage.Repository) *KeyResolver {
	return &KeyResolver{repo: repo}
}

// Resolution counts candidate rows dropped per missing-key category. A row
// missing more than one key is counted in every category it misses.
type Resolution struct {
	Candidates      int
	Resolved        int
	MissingCustomer int
	MissingProduct  int
	MissingDate     int
}

// Dropped is the number of candidate rows excluded from the fact set.
func (r Resolution) Dropped() int { return r.Candidates - r.Resolved }

// keyMap loads a natural-key → surrogate-key map from one dimension.
func (kr *KeyResolver) keyMap(ctx context.Context, table, keyCol, naturalCol string) (map[string]int64, error) {
	rows, err := kr.repo.Select(ctx, table, []string{keyCol, naturalCol})
	if err != nil {
		return nil, fmt.Errorf("warehouse: read %s: %w", table, err)
	}
	m := make(map[string]int64, len(rows))
	for _, row := range rows {
		key, ok := keyToInt64(row[0])
		if !ok {
			continue
		}
		var natural string
		if naturalCol == "date" {
			natural, ok = dateKeyString(row[1])
		} else {
			natural, ok = naturalKeyString(row[1])
		}
		if !ok {
			continue
		}
		m[natural] = key
	}
	return m, nil
}

// Resolve joins the candidate rows against the three persisted dimensions
// and sets customer_key, product_key, and order_date_key on rows where all
// three resolve. Rows failing any join are excluded — surrogate-key nulls
// never reach the sink — and counted per missing category. A non-zero drop
// count is logged loudly: it means the fact source references entities
// absent from the dimensions.
func (kr *KeyResolver) Resolve(ctx context.Context, candidates []records.Record) ([]records.Record, Resolution, error) {
	res := Resolution{Candidates: len(candidates)}

	customers, err := kr.keyMap(ctx, schema.DimCustomers.Name, "customer_key", "customer_id")
	if err != nil {
		return nil, res, err
	}
	products, err := kr.keyMap(ctx, schema.DimProducts.Name, "product_key", "product_id")
	if err != nil {
		return nil, res, err
	}
	dates, err := kr.keyMap(ctx, schema.DimDate.Name, "date_key", "date")
	if err != nil {
		return nil, res, err
	}

	resolved := make([]records.Record, 0, len(candidates))
	for _, rec := range candidates {
		ok := true

		ckey, found := lookupString(customers, rec["customer_id"])
		if !found {
			res.MissingCustomer++
			ok = false
		}
		pkey, found := lookupString(products, rec["product_id"])
		if !found {
			res.MissingProduct++
			ok = false
		}
		var dkey int64
		if ts, isTime := rec["order_purchase_timestamp"].(time.Time); isTime {
			dkey, found = dates[ts.Format("2006-01-02")]
		} else {
			found = false
		}
		if !found {
			res.MissingDate++
			ok = false
		}

		if !ok {
			continue
		}
		rec["customer_key"] = ckey
		rec["product_key"] = pkey
		rec["order_date_key"] = dkey
		resolved = append(resolved, rec)
		res.Resolved++
	}

	if n := res.Dropped(); n > 0 {
		log.Printf(
			"warning: key resolution dropped %d fact rows (missing customer_key=%d product_key=%d order_date_key=%d); fact source and dimensions are inconsistent",
			n, res.MissingCustomer, res.MissingProduct, res.MissingDate,
		)
	}
	return resolved, res, nil
}

func lookupString(m map[string]int64, v any) (int64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	key, ok := m[s]
	return key, ok
}

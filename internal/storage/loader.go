// This file implements a generic, batched append helper that slices a
// fully-materialized row set into batches and invokes the repository's bulk
// insert for each. Backends implement CopyFrom with their most efficient
// primitive (Postgres COPY, transactional prepared INSERTs for SQLite).
//
// Logging: on every flushed batch a concise progress line is emitted with
// running totals and instantaneous rows/sec since the previous flush.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"ecomdw/internal/metrics"
)

// Append bulk-inserts rows into table in batches of batchSize. It returns
// the total number of rows the backend reported as inserted and the first
// error encountered; on error the already-flushed batches stay inserted,
// there is no cross-batch undo.
func Append(
	ctx context.Context,
	repo Repository,
	table string,
	columns []string,
	rows [][]any,
	batchSize int,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("storage: batchSize must be > 0")
	}

	var (
		total       int64
		batches     int64
		start       = time.Now()
		lastFlushTS = start
	)

	for off := 0; off < len(rows); off += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		end := off + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := repo.CopyFrom(ctx, table, columns, rows[off:end])
		total += n
		if err != nil {
			log.Printf("loader: %s: insert failed after=%d total=%d err=%v", table, n, total, err)
			return total, fmt.Errorf("storage: append %s: %w", table, err)
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(n) / sinceLast.Seconds()
		}
		log.Printf(
			"loader: %s batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s",
			table, batches, rps, n, total, now.Sub(start).Truncate(time.Millisecond),
		)
		lastFlushTS = now
	}
	metrics.RecordBatches(table, batches)
	metrics.RecordRows(table, "loaded", total)
	return total, nil
}

// Package storage contains the storage-agnostic sink contracts: the
// Repository interface, the backend factory registry, and the batched
// append helper used by the warehouse loader. Concrete backends live in
// subpackages and register themselves at init time; importing
// ecomdw/internal/storage/all enables every built-in backend.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Repository is the minimal sink surface the pipeline needs: bulk insert,
// query-by-columns (key resolution and reporting), raw statement execution
// (DDL bootstrap), and cleanup.
type Repository interface {
	// CopyFrom bulk-inserts rows into table. Row values are aligned to the
	// columns order. It returns the number of rows inserted.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Select reads the listed columns for every row of table, aligned to the
	// columns order.
	Select(ctx context.Context, table string, columns []string) ([][]any, error)

	// Query runs an arbitrary read-only statement and returns the result rows.
	Query(ctx context.Context, sql string) ([][]any, error)

	// Exec runs a statement with no result (typically DDL).
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connections.
	Close()
}

// Config selects and configures a backend.
type Config struct {
	// Kind names a registered backend, e.g. "postgres" or "sqlite".
	Kind string

	// DSN is the backend connection string.
	DSN string
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) a backend factory for the given kind.
// It is typically called from backend packages' init() functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. An unreachable sink or unknown kind
// is an error; the caller treats it as fatal for the run.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}

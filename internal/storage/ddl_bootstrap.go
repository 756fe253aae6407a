package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper creates the star-schema tables for one backend dialect via
// repo.Exec. Backends register their implementation for a given storage kind
// at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given
// storage kind. It is typically called from backend packages' init()
// functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureWarehouse locates the DDLBootstrapper for kind and invokes it.
// Callers do not need to know which backend they are using; the statements
// are idempotent (CREATE TABLE IF NOT EXISTS) bootstrap, not migration.
func EnsureWarehouse(ctx context.Context, kind string, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("storage: no DDL bootstrapper registered for kind %q", kind)
	}
	return fn(ctx, repo)
}

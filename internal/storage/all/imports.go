// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// In other words, importing this package makes the following storage kinds
// available at runtime:
//
//   - "postgres" (ecomdw/internal/storage/postgres)
//   - "sqlite"   (ecomdw/internal/storage/sqlite)
package all

import (
	_ "ecomdw/internal/storage/postgres"
	_ "ecomdw/internal/storage/sqlite"
)

// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the storage package. Importing it makes the following
// kinds available at runtime:
//
//   - "sqlite"   (atopetl/internal/storage/sqlite)
//   - "postgres" (atopetl/internal/storage/postgres)
//   - "mssql"    (atopetl/internal/storage/mssql)
//   - "mysql"    (atopetl/internal/storage/mysql)
//
// Typical usage:
//
//	import _ "atopetl/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: "atop.db"})
package all

import (
	_ "atopetl/internal/storage/mssql"
	_ "atopetl/internal/storage/mysql"
	_ "atopetl/internal/storage/postgres"
	_ "atopetl/internal/storage/sqlite"
)

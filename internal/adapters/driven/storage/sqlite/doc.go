// Package sqlite provides a SQLite-based implementation of the record store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// The database is stored at <storage path>/paperhelper.db, or
// ~/.paperhelper/data/paperhelper.db when no directory is given.
//
// # Thread Safety
//
// All operations are thread-safe. Each save is a single upsert statement,
// so concurrent saves of different records never overwrite each other.
package sqlite

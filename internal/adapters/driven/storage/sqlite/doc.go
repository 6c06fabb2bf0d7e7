// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements three stores
// through a single database connection:
//
//   - VectorStore: chunks with embeddings encoded as BLOBs
//   - DocumentStore: ingested document metadata
//   - TranslationStore: the persistent translation cache
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.polyglot/data/polyglot.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite

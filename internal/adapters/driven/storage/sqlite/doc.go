// Package sqlite provides SQLite-based implementations of the storage
// port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Unlike a single
// shared database, the metadata and the vectors live in two separate
// database files with independent transactional scopes:
//
//   - ChunkStore: chunk text and metadata, plus the query history audit
//     table (metadata.db)
//   - VectorIndex: embedding vectors with linear-scan cosine search
//     (vectors.db)
//
// The ingest orchestrator sequences the two commits and compensates
// when the second write fails; the stores themselves only guarantee
// per-batch atomicity.
//
// # Schema
//
// Each database's schema is managed through versioned migrations
// embedded from the migrations/ directory.
//
// # Data Location
//
// By default, the databases are stored under ~/.docsage/data/.
//
// # Thread Safety
//
// All operations are thread-safe. The stores use database-level locking
// provided by SQLite in WAL mode.
package sqlite

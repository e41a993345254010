// Package database provides SQLite-based storage for collection history.
//
// This package implements the CollectDB, which stores one row per
// collection run: queryable metadata columns plus the full result as
// JSON for later retrieval.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database

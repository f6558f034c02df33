// Package database provides SQLite-based storage for valaw run history.
//
// This package implements the HistoryDB, which stores:
//   - One row per harvest run (start, finish, API root, cancellation)
//   - One row per domain output (file, SHA3-256 checksum, request counts)
//
// The fetch command looks up the previous checksum of each domain to report
// whether its content changed, and the history command lists past runs.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode provides good concurrent read performance
package database

// Package store provides a SQLite-backed archive for calculation histories.
//
// The archive is an alternative on-disk format to the canonical CSV file:
// histories saved to a path ending in .db or .sqlite land here through
// Persister, which implements history.Persister.
//
// # Tables
//
//   - sessions: one row per engine session that wrote to the archive
//   - history: the saved records, keyed by seq (position in the history)
//
// Saving replaces the archived history in a single transaction. Reads are
// ordered by seq ASC so a load returns records exactly as they were saved.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

// Package history records executed calculations and answers queries over them.
//
// The Store is an append-only, time-ordered log of Records. Appends are
// stamped with the store's clock, so under a single writer the log is always
// sorted by timestamp. Clear and Load replace the log wholesale.
//
// # Queries
//
// Query filters by an inclusive time range and an operation name, then keeps
// the last Limit matches. Results are copies; the store is never mutated by
// reads.
//
// # Persistence
//
// Save and Load pick a Persister by file extension. CSV is canonical:
//
//	timestamp,operation,operands,result
//	2025-01-01 12:00:00.000000,add,"(2.0, 3.0)",5.0
//
// A path without a known extension gets ".csv" appended. YAML is built in;
// other formats (the SQLite archive in internal/store) are plugged in with
// WithPersister.
//
// The Store is not synchronised. See internal/engine for the locked wrapper.
package history

// Package store provides SQLite-backed storage for simulation results.
//
// Each run is stored once under its run ID with the merged recorder
// snapshot split across child tables (procs, gains, uptimes, actions).
// Writes are idempotent: storing a run ID that already exists is a no-op.
//
// # Ordering
//
// Runs carry a seq column assigned at insertion. Listings order by seq,
// never by wall-clock time, so the same sequence of writes always lists
// the same way.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - foreign_keys=ON: Child rows cascade with their run
//   - user_version: Incremental migrations
package store

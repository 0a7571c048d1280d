// Package store provides SQLite-backed durable storage for a Swiss tournament.
//
// The store keeps four tables:
//   - players: registered entrants (the only place names are stored)
//   - standings: one win/match tally per player
//   - matches: append-only ledger of reported results
//   - pairings: generated rounds keyed by (round, table_no)
//
// # Atomicity
//
// Every compound mutation runs in one transaction. Transactions are opened
// with _txlock=immediate so the write lock is taken at BEGIN, and the pool
// is limited to a single connection, which serializes writers.
//
// # Deterministic Ordering
//
//   - Standings: ORDER BY wins DESC, player_id ASC
//   - Pairings: ORDER BY table_no ASC
//   - Matches: ORDER BY id ASC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

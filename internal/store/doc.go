// Package store provides SQLite-backed history of valve gear calculations.
//
// Each completed calculation is appended as a run:
//   - Runs: ID, logical seq, inputs hash, sanity flag
//   - Run values: the 7 inputs and 9 outputs of the run, by kind and index
//
// The parameter files themselves stay plain text (see package codec); the
// store is an optional audit log enabled with --db.
//
// # Critical Patterns
//
// Logical ordering:
//   - Runs are ordered by seq INTEGER (max+1 per database), never timestamps
//   - All list queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// Values as text:
//   - Values are stored with codec.FormatValue so NaN and Inf survive
//     (SQLite turns a NaN REAL into NULL)
//
// Content identity:
//   - inputs_hash is SHA-256 with domain separation over the canonical
//     text encoding of the inputs, so identical inputs share a hash
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store

// Package store provides the durable media that back a MoodFlicks profile.
//
// A Medium is a flat key/value facility holding opaque byte values. It is the
// server-side stand-in for browser storage: values are written whole, one key
// at a time, and the medium never interprets them. Callers treat every medium
// as best-effort; the kv package absorbs its failures.
//
// # Media
//
//   - SQLite: single-file database, one row per key (the default)
//   - Badger: LSM key/value store, on disk or in memory
//   - Memory: process-local map, used for tests and throwaway profiles
//
// # SQLite Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Each key carries a revision counter that increases on every save, so a
// profile can be inspected for write activity without decoding values.
package store

// Package progress implements the MoodFlicks gamification rules.
//
// The Engine owns the viewer's ledger: a point balance, the watched and
// rated movie sets, and the unlocked achievements. Each lives under its own
// key in a kv.Store and is written through on every change. The level is
// derived from the balance and never stored.
//
// TRANSACTIONS:
//
// Every operation runs under the engine lock. Guards are checked against the
// current ledger before anything is mutated, and a point award is always
// made under the same lock as the set mutation that earned it, so the
// in-memory balance never drifts from the sets it rewards. The medium is
// written key by key and may lag if a save fails. A guarded duplicate is not
// an error: it is reported as Outcome.Applied == false, usually with an
// informational notice.
//
// NOTICES:
//
// Operations queue user-visible notices in causal order after their
// mutation is applied; a bonus notice (Movie Buff, Movie Critic) is queued
// right after the base notice. Notices are stamped with a logical sequence
// from the Clock, never wall-clock time. Callers deliver them with Drain or
// by running the single dispatcher goroutine Run.
//
// MOOD VISITS:
//
// Each mood moves through unseen, processing, recorded. The unseen to
// processing transition is a check-and-set, so re-entrant visits while an
// award is in flight are no-ops, and a mood whose achievement is already in
// the persisted set goes straight to recorded without a notice.
//
// LEVELS:
//
// The engine does not announce level-ups. A caller keeps a LevelWatch
// across operations and queues LevelUpNotice through Announce when the
// observed level rises.
package progress

// Package activity keeps an append-only, human-readable audit trail of note
// file changes.
//
// A Watcher subscribes to a core.Watchable source and appends one line per
// event to a Sink (normally a FileLog):
//
//	2024-03-01 09:30:15: Created - Groceries.json
//	2024-03-01 09:31:02: Renamed - From Groceries.json to Shopping.json
//
// Logging is best-effort. Failures to append are counted and reported to an
// optional handler but never reach the code that changed the notes, and the
// watcher never blocks it: events are consumed on a separate goroutine.
package activity

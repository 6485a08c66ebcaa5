// Package state provides thread-safe state shared by the poller and the UI.
//
// # Overview
//
// The poller writes measurement groups and user info into a Store; the UI
// reads copies through Snapshot on its own tick.
//
//	Poller:                         UI:
//	GetUserInfo / GetMeasurements   store.Snapshot()
//	        ↓                              ↓
//	store.Update()  ── (RWMutex) ──→  render
//
// # Update Semantics
//
//	store.Update(user, body, nil)
//	→ user replaced when non-nil
//	→ body groups merged by group id, sorted newest first
//	→ LastError cleared, ConsecutiveFailures reset
//
//	store.Update(nil, nil, err)
//	→ previous data kept
//	→ LastError = err, ConsecutiveFailures++
//
// Merging lets the poller ask only for groups changed since LastSync and
// still show the full history.
//
// # Copies
//
// Snapshot copies the group slice and each group's measures, and wraps the
// last error, so readers never share memory with the writer.
//
// The zero Store is ready to use.
package state

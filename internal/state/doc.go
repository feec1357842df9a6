// Package state provides the thread-safe snapshot the UI renders from.
//
// The coordinator reports every poll, phase transition and grid resize to a
// Store through the wall.Observer interface. The UI reads with Snapshot on
// each frame:
//
//	Producer (coordinator):        Consumer (UI):
//	  store.Observe(event)  ──────→  store.Snapshot()
//	         (RWMutex)                    ↓
//	                                  render
//
// Snapshot returns a copy, so the UI never holds a reference into the
// store. A poll error keeps the previous poll counts and bumps
// ConsecutiveFailures; IsOffline reports two or more failures in a row. The
// event history is capped at DefaultEventLimit entries.
package state

// Package state provides thread-safe state management for the pixfeed
// application.
//
// # Overview
//
// This package implements a simple but thread-safe store for sharing
// inbox data between the background poller and the UI. It acts as the
// coordination point where polling updates meet UI rendering.
//
// # Architecture
//
// The package follows a producer-consumer pattern:
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ project.Inbox()│            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│  repeat...     │            │  render UI      │
//	└────────────────┘            └─────────────────┘
//
// The Store mediates between these two independent goroutines, ensuring:
//   - Atomic updates (no partial/torn reads)
//   - No data races (mutex-protected access)
//   - Immutable snapshots (defensive copying)
//
// The UI additionally writes through MarkViewed and Remove after a
// successful mark-as-read or delete, so the rendered list reflects the
// action immediately instead of waiting for the next poll.
//
// # Offline Detection
//
// Poll failures increment ConsecutiveFailures; two or more in a row mark
// the snapshot offline so the UI can surface connectivity problems
// without discarding the last good inbox.
package state

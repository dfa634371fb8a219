package state

import (
	"fmt"
	"sync"
	"time"
)

// Entry is the UI-facing view of one inbox share.
type Entry struct {
	ID          string
	Sender      string
	Message     string
	Viewed      bool
	Attachments int
}

// Snapshot represents the latest inbox data available to the UI.
type Snapshot struct {
	Project             string
	Entries             []Entry
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// Unread counts the entries not yet marked viewed.
func (s Snapshot) Unread() int {
	n := 0
	for _, e := range s.Entries {
		if !e.Viewed {
			n++
		}
	}
	return n
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(project string, entries []Entry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Project = project
	s.snapshot.Entries = cloneEntries(entries)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// MarkViewed flags one entry as read locally so the UI reflects the
// change before the next poll confirms it.
func (s *Store) MarkViewed(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snapshot.Entries {
		if s.snapshot.Entries[i].ID == id {
			s.snapshot.Entries[i].Viewed = true
			return
		}
	}
}

// Remove drops one entry locally after a server-side delete.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snapshot.Entries {
		if s.snapshot.Entries[i].ID == id {
			s.snapshot.Entries = append(s.snapshot.Entries[:i], s.snapshot.Entries[i+1:]...)
			return
		}
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Entries = cloneEntries(s.snapshot.Entries)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]Entry, len(entries))
	copy(dup, entries)
	return dup
}

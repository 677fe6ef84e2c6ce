package conversation

import (
	"sync"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

const (
	// DefaultRetention is the maximum history length kept per user after Trim.
	DefaultRetention = 20
	// DefaultWindow is how many trailing entries callers read to build a prompt.
	DefaultWindow = 10
)

// Store keeps a bounded in-memory conversation history per user. Histories
// live for the process lifetime only; a restart loses them by design.
type Store struct {
	mu        sync.Mutex
	retention int
	histories map[string][]contractx.Entry
}

var _ contractx.ConversationStore = (*Store)(nil)

// NewStore returns a Store with the given retention cap. A non-positive cap
// falls back to DefaultRetention.
func NewStore(retention int) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store{
		retention: retention,
		histories: make(map[string][]contractx.Entry),
	}
}

// Append adds one entry to the user's history, creating it lazily.
func (s *Store) Append(userID string, e contractx.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[userID] = append(s.histories[userID], e)
}

// Trim drops the oldest entries until the history is within the retention cap.
func (s *Store) Trim(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.histories[userID]
	if len(h) <= s.retention {
		return
	}
	trimmed := make([]contractx.Entry, s.retention)
	copy(trimmed, h[len(h)-s.retention:])
	s.histories[userID] = trimmed
}

// Window returns the last size entries in chronological order. The returned
// slice is a copy; mutating it does not affect the store.
func (s *Store) Window(userID string, size int) []contractx.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.histories[userID]
	if size <= 0 || len(h) == 0 {
		return nil
	}
	if size > len(h) {
		size = len(h)
	}
	out := make([]contractx.Entry, size)
	copy(out, h[len(h)-size:])
	return out
}

// Clear resets the user's history. Idempotent.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, userID)
}

// Len reports the current history length for a user.
func (s *Store) Len(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories[userID])
}

package task

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a process-local Store used for tests and DSN-less dev runs.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]map[string]Task // userID -> taskID -> task
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]map[string]Task)}
}

func (s *MemoryStore) Insert(_ context.Context, t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks[t.UserID] == nil {
		s.tasks[t.UserID] = make(map[string]Task)
	}
	s.tasks[t.UserID][t.ID] = *t
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID, id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[userID][id]
	if !ok {
		return nil, ErrNotFound
	}
	out := t
	return &out, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, 0, len(s.tasks[userID]))
	for _, t := range s.tasks[userID] {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.UserID][t.ID]; !ok {
		return ErrNotFound
	}
	s.tasks[t.UserID][t.ID] = *t
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[userID][id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks[userID], id)
	return nil
}

package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	upcomingHorizon   = 24 * time.Hour
)

var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong     = fmt.Errorf("title exceeds %d characters", maxTitleLen)
	ErrDescriptionLong  = fmt.Errorf("description exceeds %d characters", maxDescriptionLen)
	ErrUnknownFilter    = errors.New("unknown filter")
	ErrUnknownSortOrder = errors.New("unknown sort order")
)

// Service implements task CRUD with ownership scoping and the deterministic
// filter/sort/search shaping used by both the HTTP routes and the agent tools.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, userID string, p CreateParams) (*Task, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > maxTitleLen {
		return nil, ErrTitleTooLong
	}
	description := strings.TrimSpace(p.Description)
	if len(description) > maxDescriptionLen {
		return nil, ErrDescriptionLong
	}

	now := s.now().UTC()
	t := &Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Deadline:    p.Deadline,
		Recurrence:  strings.TrimSpace(p.Recurrence),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Task, error) {
	return s.store.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string, q ListQuery) ([]Task, error) {
	tasks, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks, err = filterTasks(tasks, q.Filter, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		tasks = searchTasks(tasks, search)
	}
	if err := sortTasks(tasks, q.Sort); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, p UpdateParams) (*Task, error) {
	t, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		if len(title) > maxTitleLen {
			return nil, ErrTitleTooLong
		}
		t.Title = title
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		if len(description) > maxDescriptionLen {
			return nil, ErrDescriptionLong
		}
		t.Description = description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Deadline != nil {
		t.Deadline = p.Deadline
	}
	if p.Recurrence != nil {
		t.Recurrence = strings.TrimSpace(*p.Recurrence)
	}
	t.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.store.Delete(ctx, userID, id)
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	tasks, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		} else {
			st.Incomplete++
		}
		if t.Deadline == nil {
			st.NoDeadline++
			continue
		}
		d := *t.Deadline
		if d.Before(now) && !t.Completed {
			st.Overdue++
		}
		if !d.Before(dayStart) && d.Before(dayEnd) {
			st.DueToday++
		}
		if !d.Before(now) && !d.After(now.Add(upcomingHorizon)) {
			st.Upcoming++
		}
	}
	return st, nil
}

func filterTasks(tasks []Task, filter string, now time.Time) ([]Task, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" || filter == "all" {
		return tasks, nil
	}

	keep := func(t Task) bool { return true }
	switch filter {
	case "complete":
		keep = func(t Task) bool { return t.Completed }
	case "incomplete":
		keep = func(t Task) bool { return !t.Completed }
	case "overdue":
		keep = func(t Task) bool {
			return t.Deadline != nil && t.Deadline.Before(now) && !t.Completed
		}
	case "upcoming":
		horizon := now.Add(upcomingHorizon)
		keep = func(t Task) bool {
			return t.Deadline != nil && !t.Deadline.Before(now) && !t.Deadline.After(horizon)
		}
	case "no-deadline":
		keep = func(t Task) bool { return t.Deadline == nil }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}

	out := tasks[:0]
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func searchTasks(tasks []Task, search string) []Task {
	needle := strings.ToLower(search)
	out := tasks[:0]
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out
}

func sortTasks(tasks []Task, order string) error {
	order = strings.TrimSpace(order)
	if order == "" {
		order = "created_desc"
	}

	var less func(a, b Task) bool
	switch order {
	case "created_asc":
		less = func(a, b Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "created_desc":
		less = func(a, b Task) bool { return b.CreatedAt.Before(a.CreatedAt) }
	case "title_asc":
		less = func(a, b Task) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case "title_desc":
		less = func(a, b Task) bool {
			return strings.ToLower(b.Title) < strings.ToLower(a.Title)
		}
	case "status":
		less = func(a, b Task) bool {
			if a.Completed != b.Completed {
				return !a.Completed
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case "deadline_asc":
		less = func(a, b Task) bool { return deadlineLess(a, b) }
	case "deadline_desc":
		less = func(a, b Task) bool { return deadlineLess(b, a) }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSortOrder, order)
	}

	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
	return nil
}

// deadlineLess orders tasks with deadlines before tasks without.
func deadlineLess(a, b Task) bool {
	switch {
	case a.Deadline == nil && b.Deadline == nil:
		return false
	case a.Deadline == nil:
		return false
	case b.Deadline == nil:
		return true
	default:
		return a.Deadline.Before(*b.Deadline)
	}
}

package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewMemoryStore())
	svc.now = fixedNow
	return svc
}

func mustCreate(t *testing.T, svc *Service, userID string, p CreateParams) *Task {
	t.Helper()
	created, err := svc.Create(context.Background(), userID, p)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return created
}

func deadline(offset time.Duration) *time.Time {
	d := fixedNow().Add(offset)
	return &d
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", CreateParams{Title: "   "}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := svc.Create(ctx, "u1", CreateParams{Title: strings.Repeat("a", 201)}); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
	if _, err := svc.Create(ctx, "u1", CreateParams{
		Title:       "ok",
		Description: strings.Repeat("d", 1001),
	}); !errors.Is(err, ErrDescriptionLong) {
		t.Fatalf("expected ErrDescriptionLong, got %v", err)
	}

	created := mustCreate(t, svc, "u1", CreateParams{Title: "  Buy milk  "})
	if created.Title != "Buy milk" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
	if created.ID == "" {
		t.Fatal("task id must be assigned")
	}
	if created.Completed {
		t.Fatal("new task must not be completed")
	}
}

func TestUpdatePartialFields(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, "u1", CreateParams{Title: "Buy milk", Description: "2 liters"})

	done := true
	updated, err := svc.Update(ctx, "u1", created.ID, UpdateParams{Completed: &done})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed {
		t.Fatal("completed flag not applied")
	}
	if updated.Title != "Buy milk" || updated.Description != "2 liters" {
		t.Fatal("untouched fields must be preserved")
	}
}

func TestUpdateOwnershipScoped(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	created := mustCreate(t, svc, "u1", CreateParams{Title: "Private"})

	title := "hijacked"
	if _, err := svc.Update(ctx, "u2", created.ID, UpdateParams{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user update must be ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "u2", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user delete must be ErrNotFound, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, "u1", CreateParams{Title: "no deadline"})
	overdue := mustCreate(t, svc, "u1", CreateParams{Title: "overdue", Deadline: deadline(-time.Hour)})
	mustCreate(t, svc, "u1", CreateParams{Title: "soon", Deadline: deadline(2 * time.Hour)})
	doneTask := mustCreate(t, svc, "u1", CreateParams{Title: "done", Deadline: deadline(-2 * time.Hour)})
	completed := true
	if _, err := svc.Update(ctx, "u1", doneTask.ID, UpdateParams{Completed: &completed}); err != nil {
		t.Fatalf("mark done: %v", err)
	}

	cases := []struct {
		filter string
		want   int
	}{
		{"all", 4},
		{"", 4},
		{"complete", 1},
		{"incomplete", 3},
		{"overdue", 1},
		{"upcoming", 1},
		{"no-deadline", 1},
	}
	for _, tc := range cases {
		got, err := svc.List(ctx, "u1", ListQuery{Filter: tc.filter})
		if err != nil {
			t.Fatalf("filter %q: %v", tc.filter, err)
		}
		if len(got) != tc.want {
			t.Fatalf("filter %q: expected %d tasks, got %d", tc.filter, tc.want, len(got))
		}
	}

	overdueOnly, err := svc.List(ctx, "u1", ListQuery{Filter: "overdue"})
	if err != nil {
		t.Fatalf("overdue list: %v", err)
	}
	if overdueOnly[0].ID != overdue.ID {
		t.Fatal("completed tasks must not count as overdue")
	}

	if _, err := svc.List(ctx, "u1", ListQuery{Filter: "bogus"}); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("expected ErrUnknownFilter, got %v", err)
	}
}

func TestListSortAndSearch(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	base := fixedNow()
	times := []time.Time{base, base.Add(time.Minute), base.Add(2 * time.Minute)}
	i := 0
	svc.now = func() time.Time {
		n := times[i%len(times)]
		i++
		return n
	}

	mustCreate(t, svc, "u1", CreateParams{Title: "banana", Description: "yellow fruit"})
	mustCreate(t, svc, "u1", CreateParams{Title: "Apple"})
	mustCreate(t, svc, "u1", CreateParams{Title: "cherry", Description: "red fruit"})
	svc.now = fixedNow

	byTitle, err := svc.List(ctx, "u1", ListQuery{Sort: "title_asc"})
	if err != nil {
		t.Fatalf("sort title_asc: %v", err)
	}
	if byTitle[0].Title != "Apple" || byTitle[2].Title != "cherry" {
		t.Fatalf("title sort is case-insensitive ascending, got %q..%q", byTitle[0].Title, byTitle[2].Title)
	}

	newestFirst, err := svc.List(ctx, "u1", ListQuery{})
	if err != nil {
		t.Fatalf("default sort: %v", err)
	}
	if newestFirst[0].Title != "cherry" {
		t.Fatalf("default sort should be created_desc, got %q first", newestFirst[0].Title)
	}

	fruit, err := svc.List(ctx, "u1", ListQuery{Search: "FRUIT"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(fruit) != 2 {
		t.Fatalf("search should match title or description, got %d", len(fruit))
	}

	if _, err := svc.List(ctx, "u1", ListQuery{Sort: "bogus"}); !errors.Is(err, ErrUnknownSortOrder) {
		t.Fatalf("expected ErrUnknownSortOrder, got %v", err)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, "u1", CreateParams{Title: "plain"})
	mustCreate(t, svc, "u1", CreateParams{Title: "late", Deadline: deadline(-time.Hour)})
	mustCreate(t, svc, "u1", CreateParams{Title: "today", Deadline: deadline(3 * time.Hour)})
	doneTask := mustCreate(t, svc, "u1", CreateParams{Title: "done"})
	completed := true
	if _, err := svc.Update(ctx, "u1", doneTask.ID, UpdateParams{Completed: &completed}); err != nil {
		t.Fatalf("mark done: %v", err)
	}

	st, err := svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Total != 4 || st.Completed != 1 || st.Incomplete != 3 {
		t.Fatalf("unexpected counts: %+v", st)
	}
	if st.Overdue != 1 || st.Upcoming != 1 || st.NoDeadline != 2 {
		t.Fatalf("unexpected deadline stats: %+v", st)
	}
}

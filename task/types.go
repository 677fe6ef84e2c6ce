package task

import (
	"time"

	"github.com/uptrace/bun"
)

// Task is a todo item owned by exactly one user.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID          string     `bun:"id,pk" json:"id"`
	UserID      string     `bun:"user_id,notnull" json:"user_id"`
	Title       string     `bun:"title,notnull" json:"title"`
	Description string     `bun:"description,notnull,default:''" json:"description"`
	Completed   bool       `bun:"completed,notnull,default:false" json:"completed"`
	Deadline    *time.Time `bun:"deadline,nullzero" json:"deadline,omitempty"`
	Recurrence  string     `bun:"recurrence,nullzero" json:"recurrence,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull" json:"updated_at"`
}

// CreateParams carries validated input for a new task.
type CreateParams struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Recurrence  string     `json:"recurrence,omitempty"`
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Recurrence  *string    `json:"recurrence,omitempty"`
}

// ListQuery shapes a task listing.
type ListQuery struct {
	Filter string
	Sort   string
	Search string
}

// Stats summarizes a user's tasks.
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
	Overdue    int `json:"overdue"`
	DueToday   int `json:"due_today"`
	Upcoming   int `json:"upcoming_24h"`
	NoDeadline int `json:"no_deadline"`
}

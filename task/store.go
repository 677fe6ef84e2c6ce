package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var ErrNotFound = errors.New("task not found")

// Store is the persistence contract for tasks. All operations are scoped to
// the owning user; an id that exists under another user behaves as missing.
type Store interface {
	Insert(ctx context.Context, t *Task) error
	Get(ctx context.Context, userID, id string) (*Task, error)
	ListByUser(ctx context.Context, userID string) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, userID, id string) error
}

// PostgresStore persists tasks in Postgres through bun.
type PostgresStore struct {
	db *bun.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to Postgres and ensures the tasks schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*Task)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init tasks schema: %w", err)
	}
	if _, err := db.NewCreateIndex().
		Model((*Task)(nil)).
		Index("idx_tasks_user_created").
		IfNotExists().
		Column("user_id", "created_at").
		Exec(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init tasks index: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Insert(ctx context.Context, t *Task) error {
	if _, err := s.db.NewInsert().Model(t).Exec(ctx); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID, id string) (*Task, error) {
	t := new(Task)
	err := s.db.NewSelect().
		Model(t).
		Where("t.id = ?", id).
		Where("t.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Task, error) {
	var tasks []Task
	err := s.db.NewSelect().
		Model(&tasks).
		Where("t.user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *PostgresStore) Update(ctx context.Context, t *Task) error {
	res, err := s.db.NewUpdate().
		Model(t).
		WherePK().
		Where("user_id = ?", t.UserID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.NewDelete().
		Model((*Task)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

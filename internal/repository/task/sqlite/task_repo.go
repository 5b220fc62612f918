// Package sqlite persists tasks in a local embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"planner/internal/logger"
	"planner/internal/models/task"
	"planner/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	date         TEXT,
	completed    BOOLEAN NOT NULL DEFAULT FALSE,
	time_hours   REAL NOT NULL DEFAULT 0,
	priority     TEXT NOT NULL DEFAULT 'medium',
	category     TEXT NOT NULL DEFAULT '#5B8DEE',
	position     INTEGER NOT NULL DEFAULT 0,
	deadline     DATETIME,
	created_at   DATETIME NOT NULL,
	completed_at DATETIME
);
`

// canonical listing order; SQLite sorts NULL dates first on ASC, which
// places the unscheduled pool ahead of any calendar day.
const orderBy = " ORDER BY date ASC, position ASC, created_at ASC"

type Storage struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and ensures the schema
// is current. The caller is responsible for calling Close.
func New(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	// Additive migration: databases created before the deadline feature
	// lack the column. The error for an already existing column is
	// deliberately ignored.
	if _, err := db.Exec(`ALTER TABLE tasks ADD COLUMN deadline DATETIME`); err == nil {
		logger.Info("Repository: added deadline column to existing tasks table")
	}

	// The events table predates the single-entity model.
	if _, err := db.Exec(`DROP TABLE IF EXISTS events`); err != nil {
		db.Close()
		return nil, fmt.Errorf("drop legacy events table: %w", err)
	}

	logger.Info("Repository: opened SQLite database", zap.String("path", dbPath))
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error { return s.db.Close() }

func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Create(ctx context.Context, t *task.Task) error {
	t.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks
			(title, description, date, completed, time_hours, priority, category, position, deadline, created_at, completed_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.Title, t.Description, nullString(t.Date), t.Completed,
		t.TimeHours, string(t.Priority), t.Category, t.Position,
		nullTime(t.Deadline), t.CreatedAt, nullTime(t.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	return s.query(ctx, `SELECT `+columns+` FROM tasks`+orderBy)
}

// ListRange returns tasks scheduled inside [startDate, endDate]
// inclusive. NULL dates never match BETWEEN, so pool tasks are excluded.
func (s *Storage) ListRange(ctx context.Context, startDate, endDate string) ([]*task.Task, error) {
	return s.query(ctx,
		`SELECT `+columns+` FROM tasks WHERE date BETWEEN ? AND ?`+orderBy,
		startDate, endDate)
}

// Update applies only the columns present in the patch, in a single
// statement. Setting completed stamps or clears completed_at in the same
// statement so the transition is atomic.
func (s *Storage) Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	start := time.Now()

	sets := []string{}
	args := []any{}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?", "completed_at = ?")
		if *patch.Completed {
			args = append(args, true, time.Now().UTC())
		} else {
			args = append(args, false, nil)
		}
	}
	if patch.TimeHours != nil {
		sets = append(sets, "time_hours = ?")
		args = append(args, *patch.TimeHours)
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*patch.Priority))
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *patch.Position)
	}
	if patch.DateSet {
		sets = append(sets, "date = ?")
		args = append(args, nullString(patch.Date))
	}
	if patch.DeadlineSet {
		sets = append(sets, "deadline = ?")
		args = append(args, nullTime(patch.Deadline))
	}

	if len(sets) == 0 {
		// Nothing to change; still report ErrNotFound for missing ids.
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, repository.ErrNotFound
	}

	if time.Since(start) > 100*time.Millisecond {
		logger.Warn("Repository: slow update",
			zap.Int64("task_id", id),
			zap.Duration("ms", time.Since(start)))
	}
	return s.GetByID(ctx, id)
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Storage) query(ctx context.Context, q string, args ...any) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

const columns = `id, title, description, date, completed, time_hours, priority, category, position, deadline, created_at, completed_at`

// scanner abstracts sql.Row and sql.Rows for scanTask.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*task.Task, error) {
	var t task.Task
	var priority string
	var date sql.NullString
	var deadline, completedAt sql.NullTime

	err := s.Scan(
		&t.ID, &t.Title, &t.Description, &date, &t.Completed,
		&t.TimeHours, &priority, &t.Category, &t.Position,
		&deadline, &t.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Priority = task.Priority(priority)
	if date.Valid {
		t.Date = &date.String
	}
	if deadline.Valid {
		t.Deadline = &deadline.Time
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}

func nullString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// Package repository declares the storage contract for tasks and the
// sentinel errors implementations report through.
package repository

import (
	"context"
	"errors"

	"planner/internal/models/task"
)

var ErrNotFound = errors.New("task not found")

// TaskRepository is the durable store behind the service layer. Every
// listing respects the canonical order: date ascending with unscheduled
// tasks first, then position, then created_at.
type TaskRepository interface {
	List(ctx context.Context) ([]*task.Task, error)
	ListRange(ctx context.Context, startDate, endDate string) ([]*task.Task, error)
	GetByID(ctx context.Context, id int64) (*task.Task, error)
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error)
	Delete(ctx context.Context, id int64) error
}

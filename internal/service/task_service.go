// Package service enforces the task business rules: required fields,
// creation defaults, and the completion lifecycle. It translates
// repository sentinels into structured errors for the boundary layer.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"planner/internal/calendar"
	"planner/internal/logger"
	"planner/internal/models/task"
	"planner/internal/report"
	"planner/internal/repository"
)

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// CreateTaskInput holds the client-supplied fields for task creation.
// Everything except Title is optional.
type CreateTaskInput struct {
	Title       string
	Description string
	Date        *string
	TimeHours   *float64
	Priority    *task.Priority
	Category    *string
	Deadline    *time.Time
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, NewStorageError("list", err)
	}
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*task.Task, error) {
	if input.Title == "" {
		return nil, NewValidationError("title", "must not be empty")
	}
	if input.Date != nil {
		if err := validateDate(*input.Date); err != nil {
			return nil, err
		}
	}
	if input.TimeHours != nil && *input.TimeHours < 0 {
		return nil, NewValidationError("time_hours", "must not be negative")
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, NewValidationError("priority", "must be one of high, medium, low")
	}

	t := &task.Task{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Priority:    task.PriorityMedium,
		Category:    task.DefaultCategory,
		Deadline:    input.Deadline,
	}
	if input.TimeHours != nil {
		t.TimeHours = *input.TimeHours
	}
	if input.Priority != nil {
		t.Priority = *input.Priority
	}
	if input.Category != nil && *input.Category != "" {
		t.Category = *input.Category
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, NewStorageError("create", err)
	}

	logger.Info("Service: task created",
		zap.Int64("task_id", t.ID),
		zap.Bool("scheduled", t.Scheduled()))
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	if patch.Title != nil && *patch.Title == "" {
		return nil, NewValidationError("title", "must not be empty")
	}
	if patch.DateSet && patch.Date != nil {
		if err := validateDate(*patch.Date); err != nil {
			return nil, err
		}
	}
	if patch.TimeHours != nil && *patch.TimeHours < 0 {
		return nil, NewValidationError("time_hours", "must not be negative")
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, NewValidationError("priority", "must be one of high, medium, low")
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: task not found", zap.Int64("target_id", id))
			return nil, NewNotFound(id)
		}
		return nil, NewStorageError("update", err)
	}
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: task not found", zap.Int64("target_id", id))
			return NewNotFound(id)
		}
		return NewStorageError("delete", err)
	}
	return nil
}

// GenerateReport aggregates completion statistics over the inclusive
// date range. Pool tasks carry no date and never enter the range.
func (s *TaskService) GenerateReport(ctx context.Context, startDate, endDate string) (*report.Report, error) {
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListRange(ctx, startDate, endDate)
	if err != nil {
		return nil, NewStorageError("report", err)
	}

	rep := report.Generate(tasks)
	logger.Info("Service: report generated",
		zap.String("start", startDate),
		zap.String("end", endDate),
		zap.Int("tasks", rep.Stats.TotalTasks))
	return rep, nil
}

// ClassifyCalendar returns the cell state for every day in the inclusive
// range so the presentation layer can color the grid.
func (s *TaskService) ClassifyCalendar(ctx context.Context, startDate, endDate string) ([]calendar.Day, error) {
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListRange(ctx, startDate, endDate)
	if err != nil {
		return nil, NewStorageError("calendar", err)
	}

	return calendar.ClassifyRange(startDate, endDate, tasks, time.Now()), nil
}

func validateDate(date string) *BusinessError {
	if _, err := time.Parse(task.DateLayout, date); err != nil {
		return NewValidationError("date", "must be formatted as YYYY-MM-DD")
	}
	return nil
}

func validateRange(startDate, endDate string) *BusinessError {
	start, err := time.Parse(task.DateLayout, startDate)
	if err != nil {
		return NewValidationError("startDate", "must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse(task.DateLayout, endDate)
	if err != nil {
		return NewValidationError("endDate", "must be formatted as YYYY-MM-DD")
	}
	if end.Before(start) {
		return NewValidationError("endDate", "must not precede startDate")
	}
	return nil
}

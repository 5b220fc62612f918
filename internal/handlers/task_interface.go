package handlers

import (
	"context"

	"planner/internal/calendar"
	"planner/internal/models/task"
	"planner/internal/report"
	"planner/internal/service"
)

type TaskService interface {
	ListTasks(ctx context.Context) ([]*task.Task, error)
	CreateTask(ctx context.Context, input service.CreateTaskInput) (*task.Task, error)
	UpdateTask(ctx context.Context, id int64, patch task.Patch) (*task.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	GenerateReport(ctx context.Context, startDate, endDate string) (*report.Report, error)
	ClassifyCalendar(ctx context.Context, startDate, endDate string) ([]calendar.Day, error)
}

// Package worker runs the deadline watcher: a periodic read-only scan
// that reports tasks whose deadline expired while incomplete. Expiry is
// a derived property, so the watcher only observes and logs; it never
// writes back to the store.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"planner/internal/calendar"
	"planner/internal/logger"
	"planner/internal/models/task"
	"planner/internal/repository"
)

const defaultInterval = 5 * time.Minute

type DeadlineWatcher struct {
	repo     repository.TaskRepository
	interval time.Duration
}

func NewDeadlineWatcher(repo repository.TaskRepository, interval time.Duration) *DeadlineWatcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &DeadlineWatcher{repo: repo, interval: interval}
}

func (w *DeadlineWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: deadline watcher stopping")
			return
		}
	}
}

// Check scans the store once and logs every newly observable expired
// deadline.
func (w *DeadlineWatcher) Check(ctx context.Context) {
	start := time.Now()

	tasks, err := w.repo.List(ctx)
	if err != nil {
		logger.Warn("Worker: listing tasks failed", zap.Error(err))
		return
	}

	now := time.Now()
	expired := calendar.CountExpired(tasks, now)
	for _, t := range tasks {
		if t.DeadlineExpired(now) {
			w.logExpired(t, now)
		}
	}

	logger.Info("Worker: deadline check finished",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", len(tasks)),
		zap.Int("expired", expired))
}

func (w *DeadlineWatcher) logExpired(t *task.Task, now time.Time) {
	logger.Warn("Worker: task deadline expired",
		zap.Int64("task_id", t.ID),
		zap.String("title", t.Title),
		zap.Time("deadline", *t.Deadline),
		zap.Duration("overdue_for", now.Sub(*t.Deadline)))
}

// Package inmemory is a map-backed TaskRepository used by tests and the
// repository.type=inmemory configuration.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"planner/internal/models/task"
	"planner/internal/repository"
)

type TaskStorage struct {
	mtx     sync.RWMutex
	storage map[int64]*task.Task
	nextID  int64
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		nextID:  1,
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error { return nil }

func (s *TaskStorage) Create(ctx context.Context, t *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t.ID = s.nextID
	s.nextID++
	t.CreatedAt = time.Now().UTC()

	clone := *t
	s.storage[t.ID] = &clone
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *TaskStorage) Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	patch.Apply(t, time.Now().UTC())
	clone := *t
	return &clone, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.storage, id)
	return nil
}

func (s *TaskStorage) List(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.collect(func(*task.Task) bool { return true }), nil
}

func (s *TaskStorage) ListRange(ctx context.Context, startDate, endDate string) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.collect(func(t *task.Task) bool {
		return t.Scheduled() && *t.Date >= startDate && *t.Date <= endDate
	}), nil
}

// collect snapshots matching tasks in canonical order: date ascending
// with unscheduled tasks first, then position, then created_at.
func (s *TaskStorage) collect(match func(*task.Task) bool) []*task.Task {
	res := []*task.Task{}
	for _, t := range s.storage {
		if match(t) {
			clone := *t
			res = append(res, &clone)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		di, dj := dateKey(res[i]), dateKey(res[j])
		if di != dj {
			return di < dj
		}
		if res[i].Position != res[j].Position {
			return res[i].Position < res[j].Position
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

// dateKey sorts unscheduled tasks before any calendar date, matching
// SQLite's NULLs-first ordering.
func dateKey(t *task.Task) string {
	if !t.Scheduled() {
		return ""
	}
	return *t.Date
}

// Package report turns a date-range slice of tasks into completion and
// time statistics. It is a pure read-side transformation: the task store
// stays the single source of truth.
package report

import (
	"math"

	"planner/internal/models/task"
)

// UnscheduledKey groups tasks without a date. The range query excludes
// pool tasks, so this only appears when a caller aggregates an
// unfiltered slice.
const UnscheduledKey = "unscheduled"

type Report struct {
	Stats       Stats       `json:"stats"`
	TasksByDate []DateGroup `json:"tasksByDate"`
}

type Stats struct {
	TotalTasks     int            `json:"totalTasks"`
	CompletedTasks int            `json:"completedTasks"`
	CompletionRate int            `json:"completionRate"`
	TotalHours     float64        `json:"totalHours"`
	ByPriority     map[string]int `json:"byPriority"`
	ByCategory     map[string]int `json:"byCategory"`
}

type DateGroup struct {
	Date           string    `json:"date"`
	Tasks          []Summary `json:"tasks"`
	TotalHours     float64   `json:"totalHours"`
	CompletedCount int       `json:"completedCount"`
}

// Summary is the per-task slice of fields shown in the report view.
type Summary struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
	TimeHours   float64       `json:"time_hours"`
	Priority    task.Priority `json:"priority"`
	Category    string        `json:"category"`
}

// Generate accumulates statistics in a single pass. The input is assumed
// to be in canonical storage order, so per-date task lists come out
// ordered by position and creation time.
func Generate(tasks []*task.Task) *Report {
	stats := Stats{
		ByPriority: map[string]int{"high": 0, "medium": 0, "low": 0},
		ByCategory: map[string]int{"blue": 0, "purple": 0, "green": 0, "orange": 0},
	}

	groups := map[string]*DateGroup{}
	order := []string{}

	for _, t := range tasks {
		stats.TotalTasks++
		if t.Completed {
			stats.CompletedTasks++
		}
		stats.TotalHours += t.TimeHours
		stats.ByPriority[priorityBucket(t.Priority)]++
		if bucket, ok := task.LegacyCategoryName(t.Category); ok {
			stats.ByCategory[bucket]++
		}

		key := UnscheduledKey
		if t.Scheduled() {
			key = *t.Date
		}
		group, ok := groups[key]
		if !ok {
			group = &DateGroup{Date: key, Tasks: []Summary{}}
			groups[key] = group
			order = append(order, key)
		}

		group.Tasks = append(group.Tasks, Summary{
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			TimeHours:   t.TimeHours,
			Priority:    t.Priority,
			Category:    t.Category,
		})
		group.TotalHours += t.TimeHours
		if t.Completed {
			group.CompletedCount++
		}
	}

	if stats.TotalTasks > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100))
	}

	byDate := make([]DateGroup, 0, len(order))
	for _, key := range order {
		byDate = append(byDate, *groups[key])
	}

	return &Report{Stats: stats, TasksByDate: byDate}
}

// priorityBucket folds unknown priorities into the default bucket so a
// row written by an older client never vanishes from the tally.
func priorityBucket(p task.Priority) string {
	if p.Valid() {
		return string(p)
	}
	return string(task.PriorityMedium)
}

// Package calendar classifies calendar cells for the presentation
// layer. Classification is a pure function of a day's tasks and the
// current time; it never touches storage.
package calendar

import (
	"time"

	"planner/internal/models/task"
)

// State is the visual classification of a single calendar day.
type State string

const (
	StateNoTasks       State = "no-tasks"
	StateFuture        State = "future"
	StateToday         State = "today"
	StateAllCompleted  State = "all-completed"
	StateHasIncomplete State = "has-incomplete"
)

// Day pairs a date with its classification.
type Day struct {
	Date  string `json:"date"`
	State State  `json:"state"`
}

// Classify determines the cell state for one date. An incomplete task
// with an expired deadline forces has-incomplete regardless of whether
// the day is past, today, or future; that check short-circuits the rest.
func Classify(date string, tasks []*task.Task, now time.Time) State {
	for _, t := range tasks {
		if t.DeadlineExpired(now) {
			return StateHasIncomplete
		}
	}

	if len(tasks) == 0 {
		return StateNoTasks
	}

	// YYYY-MM-DD compares correctly as a string, which sidesteps any
	// timezone mismatch between stored dates and the wall clock.
	today := now.Format(task.DateLayout)
	switch {
	case date > today:
		return StateFuture
	case date == today:
		return StateToday
	}

	for _, t := range tasks {
		if !t.Completed {
			return StateHasIncomplete
		}
	}
	return StateAllCompleted
}

// ClassifyRange classifies every day in the inclusive range. Tasks must
// be scheduled within the range; anything else is ignored.
func ClassifyRange(startDate, endDate string, tasks []*task.Task, now time.Time) []Day {
	byDate := map[string][]*task.Task{}
	for _, t := range tasks {
		if t.Scheduled() {
			byDate[*t.Date] = append(byDate[*t.Date], t)
		}
	}

	start, err := time.Parse(task.DateLayout, startDate)
	if err != nil {
		return nil
	}
	end, err := time.Parse(task.DateLayout, endDate)
	if err != nil {
		return nil
	}

	days := []Day{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(task.DateLayout)
		days = append(days, Day{
			Date:  date,
			State: Classify(date, byDate[date], now),
		})
	}
	return days
}

// CountExpired reports how many tasks have a passed deadline while still
// incomplete. Used by the deadline watcher.
func CountExpired(tasks []*task.Task, now time.Time) int {
	expired := 0
	for _, t := range tasks {
		if t.DeadlineExpired(now) {
			expired++
		}
	}
	return expired
}

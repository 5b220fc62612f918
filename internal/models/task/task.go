// Package task defines the planner's single entity: a task that may sit
// in the unscheduled pool or on a calendar day.
package task

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultCategory is the color assigned when the client sends none.
const DefaultCategory = "#5B8DEE"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *string    `json:"date"`
	Completed   bool       `json:"completed"`
	TimeHours   float64    `json:"time_hours"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	Position    int        `json:"position"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Scheduled reports whether the task sits on a calendar day rather than
// in the task pool.
func (t *Task) Scheduled() bool {
	return t.Date != nil && *t.Date != ""
}

// DeadlineExpired reports whether the task's deadline has passed while
// the task is still incomplete.
func (t *Task) DeadlineExpired(now time.Time) bool {
	return t.Deadline != nil && !t.Completed && t.Deadline.Before(now)
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// legacyColors maps the original named categories to the hex tokens the
// UI switched to. Old rows may still carry the names.
var legacyColors = map[string]string{
	"blue":   "#5B8DEE",
	"purple": "#9B84EE",
	"green":  "#52D0A4",
	"orange": "#FFB454",
}

// CategoryColor resolves a category token to its display color. Hex
// tokens pass through, legacy names resolve to their hex equivalents,
// anything else falls back to the default.
func CategoryColor(category string) string {
	if len(category) > 0 && category[0] == '#' {
		return category
	}
	if hex, ok := legacyColors[category]; ok {
		return hex
	}
	return DefaultCategory
}

// LegacyCategoryName maps a category token back to one of the four
// legacy report buckets. The second return is false for colors that have
// no legacy equivalent.
func LegacyCategoryName(category string) (string, bool) {
	if _, ok := legacyColors[category]; ok {
		return category, true
	}
	for name, hex := range legacyColors {
		if hex == category {
			return name, true
		}
	}
	return "", false
}

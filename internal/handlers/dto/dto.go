// Package dto defines the JSON request and response shapes of the API.
package dto

import (
	"encoding/json"
	"time"

	"planner/internal/models/task"
)

type CreateTaskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Date        *string        `json:"date"`
	TimeHours   *float64       `json:"time_hours"`
	Priority    *task.Priority `json:"priority"`
	Category    *string        `json:"category"`
	Deadline    *time.Time     `json:"deadline"`
}

// UpdateTaskRequest is a partial update. Absent fields leave the task
// untouched. For date and deadline an explicit JSON null clears the
// value (the UI sends {"date": null} when dragging a task back to the
// pool), so presence is tracked separately from the pointers.
type UpdateTaskRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Completed   *bool          `json:"completed"`
	TimeHours   *float64       `json:"time_hours"`
	Priority    *task.Priority `json:"priority"`
	Category    *string        `json:"category"`
	Position    *int           `json:"position"`
	Date        *string        `json:"date"`
	Deadline    *time.Time     `json:"deadline"`

	dateSet     bool
	deadlineSet bool
}

func (r *UpdateTaskRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateTaskRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	*r = UpdateTaskRequest(a)
	_, r.dateSet = keys["date"]
	_, r.deadlineSet = keys["deadline"]
	return nil
}

func (r *UpdateTaskRequest) ToPatch() task.Patch {
	return task.Patch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		TimeHours:   r.TimeHours,
		Priority:    r.Priority,
		Category:    r.Category,
		Position:    r.Position,
		Date:        r.Date,
		DateSet:     r.dateSet,
		Deadline:    r.Deadline,
		DeadlineSet: r.deadlineSet,
	}
}

package task

import "time"

// Patch carries a partial update. Nil pointer fields are left untouched.
// Date and Deadline additionally distinguish "absent" from "set to null":
// the UI clears them when a task is dragged back to the pool, so each has
// an explicit presence flag.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
	TimeHours   *float64
	Priority    *Priority
	Category    *string
	Position    *int

	Date    *string
	DateSet bool

	Deadline    *time.Time
	DeadlineSet bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.TimeHours == nil && p.Priority == nil && p.Category == nil &&
		p.Position == nil && !p.DateSet && !p.DeadlineSet
}

// Apply copies the patched fields onto t. When Completed transitions to
// true, CompletedAt is stamped with now; transitioning to false clears
// it, so CompletedAt always reflects the current completion.
func (p Patch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
		if *p.Completed {
			stamp := now
			t.CompletedAt = &stamp
		} else {
			t.CompletedAt = nil
		}
	}
	if p.TimeHours != nil {
		t.TimeHours = *p.TimeHours
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
	if p.DateSet {
		t.Date = p.Date
	}
	if p.DeadlineSet {
		t.Deadline = p.Deadline
	}
}

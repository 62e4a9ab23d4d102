// Package deadline derives time-based urgency for tasks. All derivation is
// pure: the stored task is never mutated on a read path, and escalation is
// a separate repository mutation driven by callers.
package deadline

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Assessment is the derived urgency of a single deadline. TimeLeft is in
// fractional hours and may be negative. A nil TimeLeft means no deadline
// was set, in which case Priority passes through unchanged.
type Assessment struct {
	TimeLeft *float64       `json:"timeLeft,omitempty"`
	Priority types.Priority `json:"priority"`
}

// Overdue reports whether the deadline has passed.
func (a Assessment) Overdue() bool {
	return a.TimeLeft != nil && *a.TimeLeft < 0
}

// Assess computes time left until dueBy and the effective priority.
// Escalation to Overdue is one-way: a passed deadline forces Overdue, a
// future deadline leaves the given priority untouched. Reassessing an
// already-overdue deadline only yields a more negative TimeLeft.
func Assess(dueBy *time.Time, prio types.Priority, now time.Time) Assessment {
	if dueBy == nil || dueBy.IsZero() {
		return Assessment{Priority: prio}
	}

	hours := dueBy.Sub(now).Hours()
	result := Assessment{TimeLeft: &hours, Priority: prio}
	if hours < 0 {
		result.Priority = types.PriorityOverdue
	}
	return result
}

// TaskView pairs a task with its assessment. View.Priority is the
// effective priority, which may differ from Task.Priority until an
// escalation mutation catches the stored record up.
type TaskView struct {
	Task       *model.Task `json:"task"`
	Assessment Assessment  `json:"assessment"`
}

// AssessTask builds the derived view for a task.
func AssessTask(task *model.Task, now time.Time) TaskView {
	return TaskView{
		Task:       task,
		Assessment: Assess(task.DueBy, task.Priority, now),
	}
}

// AssessTasks builds views for a list of tasks, preserving input order.
func AssessTasks(tasks []*model.Task, now time.Time) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, AssessTask(task, now))
	}
	return views
}

// internal/models/task.go
package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

// AllTaskStatuses is the display order used for status distributions.
var AllTaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusBlocked,
	TaskStatusCompleted,
}

type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	AssigneeName string     `json:"assigneeName,omitempty"`
	Status       TaskStatus `json:"status"`
	Priority     string     `json:"priority,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ProjectID    string     `json:"projectId,omitempty"`
}

// IsOverdue reports whether the task is past its due date and still open.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == TaskStatusCompleted {
		return false
	}
	return t.DueDate.Before(now)
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// ProjectSummary is the slice of a project the entity cache keeps.
type ProjectSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (p Project) Summary() ProjectSummary {
	return ProjectSummary{ID: p.ID, Name: p.Name, Status: p.Status}
}

// TaskFilters narrows a directory task listing. Zero values mean "no filter".
type TaskFilters struct {
	AssigneeName string     `json:"assigneeName,omitempty"`
	Status       TaskStatus `json:"status,omitempty"`
	Overdue      *bool      `json:"overdue,omitempty"`
	ProjectID    string     `json:"projectId,omitempty"`
	Limit        int        `json:"limit,omitempty"`
}

package model

import "time"

// TaskStatus is the workflow state of a task. Any status may follow any other.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a unit of work inside a project.
// UserID is the assignee, LinkedTo references another task of the same project.
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           TaskStatus `json:"status"`
	IsCreatedByAdmin bool       `json:"isCreatedByAdmin"`
	ProjectID        string     `json:"projectId"`
	UserID           *string    `json:"userId,omitempty"`
	LinkedTo         *string    `json:"linkedTo,omitempty"`
	CreatedBy        string     `json:"createdBy"`
	UpdatedBy        string     `json:"updatedBy"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

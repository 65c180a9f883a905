package repository

import (
	"context"
	"time"

	"taskapi/internal/model"
)

// TaskPatch lists the columns to change; nil fields are left untouched.
// UpdatedBy and UpdatedAt are always written.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	UserID      *string
	LinkedTo    *string
	UpdatedBy   string
	UpdatedAt   time.Time
}

// TaskRepository persists tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) (*model.Task, error)

	FindByID(ctx context.Context, id string) (*model.Task, error)

	// FindInProject returns the task only if it belongs to projectID.
	FindInProject(ctx context.Context, projectID, id string) (*model.Task, error)

	List(ctx context.Context, f TaskFilter, pq PageQuery) (*PageResult[model.Task], error)

	// Update applies the patch to the task in projectID.
	// Returns sql.ErrNoRows when no such task exists.
	Update(ctx context.Context, projectID, id string, p TaskPatch) error

	// Delete removes every matching task and returns the affected count.
	Delete(ctx context.Context, f TaskFilter) (int64, error)
}

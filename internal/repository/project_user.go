package repository

import (
	"context"

	"taskapi/internal/model"
)

// ProjectUserRepository persists project memberships.
type ProjectUserRepository interface {
	// Create inserts a membership. Returns ErrDuplicate when the
	// (user, project) pair already exists.
	Create(ctx context.Context, pu *model.ProjectUser) (*model.ProjectUser, error)

	// FindOne returns the membership of userID in projectID.
	FindOne(ctx context.Context, userID, projectID string) (*model.ProjectUser, error)

	List(ctx context.Context, f ProjectUserFilter) ([]model.ProjectUser, error)

	// UpdateRole sets role on every matching row and returns the affected count.
	UpdateRole(ctx context.Context, f ProjectUserFilter, role model.Role) (int64, error)

	// Delete removes every matching row and returns the affected count.
	Delete(ctx context.Context, f ProjectUserFilter) (int64, error)
}

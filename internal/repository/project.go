package repository

import (
	"context"

	"taskapi/internal/model"
)

// ProjectRepository persists projects.
type ProjectRepository interface {
	// CreateWithOwner inserts the project and its first membership in one transaction.
	CreateWithOwner(ctx context.Context, p *model.Project, owner *model.ProjectUser) (*model.Project, error)

	FindByID(ctx context.Context, id string) (*model.Project, error)

	// ListByMember returns the projects the user belongs to, newest first.
	ListByMember(ctx context.Context, userID string) ([]model.Project, error)
}

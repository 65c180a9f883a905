package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskapi/internal/model"
	"taskapi/internal/repository"
)

// ProjectService defines the use cases for projects.
type ProjectService interface {
	// Create stores a project and makes the caller its first admin.
	Create(ctx context.Context, callerID, name string) (*model.Project, error)

	// List returns the projects the caller belongs to.
	List(ctx context.Context, callerID string) ([]model.Project, error)

	// Get returns a project the caller belongs to.
	Get(ctx context.Context, callerID, projectID string) (*model.Project, error)

	// ProjectOfTask returns the project owning taskID. The caller must be a member.
	ProjectOfTask(ctx context.Context, callerID, taskID string) (*model.Project, error)
}

type projectService struct {
	projects repository.ProjectRepository
	members  repository.ProjectUserRepository
	tasks    repository.TaskRepository
}

// NewProjectService constructs a new ProjectService.
func NewProjectService(projects repository.ProjectRepository, members repository.ProjectUserRepository, tasks repository.TaskRepository) ProjectService {
	return &projectService{projects: projects, members: members, tasks: tasks}
}

func (s *projectService) Create(ctx context.Context, callerID, name string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	now := time.Now().UTC()
	p := &model.Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: callerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := &model.ProjectUser{
		ID:        uuid.NewString(),
		Role:      model.RoleAdmin,
		ProjectID: p.ID,
		UserID:    callerID,
		CreatedAt: now,
	}

	stored, err := s.projects.CreateWithOwner(ctx, p, owner)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return stored, nil
}

func (s *projectService) List(ctx context.Context, callerID string) ([]model.Project, error) {
	return s.projects.ListByMember(ctx, callerID)
}

func (s *projectService) Get(ctx context.Context, callerID, projectID string) (*model.Project, error) {
	if _, err := ValidateProjectUser(ctx, s.members, callerID, projectID); err != nil {
		return nil, err
	}
	return s.find(ctx, projectID)
}

func (s *projectService) ProjectOfTask(ctx context.Context, callerID, taskID string) (*model.Project, error) {
	t, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if _, err := ValidateProjectUser(ctx, s.members, callerID, t.ProjectID); err != nil {
		return nil, err
	}
	return s.find(ctx, t.ProjectID)
}

func (s *projectService) find(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

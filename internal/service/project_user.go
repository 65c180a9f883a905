package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskapi/internal/model"
	"taskapi/internal/repository"
)

// ProjectUserInput is the payload for adding a member to a project.
type ProjectUserInput struct {
	UserID string     `json:"userId"`
	Role   model.Role `json:"role"`
}

// ProjectUserService manages project memberships. Every operation first checks
// that the caller is a member of the target project.
type ProjectUserService interface {
	List(ctx context.Context, callerID string, f repository.ProjectUserFilter) ([]model.ProjectUser, error)

	// Create adds a member. Callers with the user role are refused.
	Create(ctx context.Context, callerID, projectID string, in ProjectUserInput) (*model.ProjectUser, error)

	// UpdateRole changes the role of every matching membership and returns the count.
	UpdateRole(ctx context.Context, callerID string, f repository.ProjectUserFilter, role model.Role) (int64, error)

	// Delete removes every matching membership and returns the count.
	Delete(ctx context.Context, callerID string, f repository.ProjectUserFilter) (int64, error)
}

type projectUserService struct {
	members repository.ProjectUserRepository
	users   repository.UserRepository
	log     *zap.Logger
}

// NewProjectUserService constructs a new ProjectUserService.
func NewProjectUserService(members repository.ProjectUserRepository, users repository.UserRepository, log *zap.Logger) ProjectUserService {
	return &projectUserService{
		members: members,
		users:   users,
		log:     log.With(zap.String("component", "project_users")),
	}
}

func (s *projectUserService) List(ctx context.Context, callerID string, f repository.ProjectUserFilter) ([]model.ProjectUser, error) {
	if _, err := ValidateProjectUser(ctx, s.members, callerID, f.ProjectID); err != nil {
		return nil, err
	}
	return s.members.List(ctx, f)
}

func (s *projectUserService) Create(ctx context.Context, callerID, projectID string, in ProjectUserInput) (*model.ProjectUser, error) {
	if err := s.requireAdmin(ctx, callerID, projectID); err != nil {
		return nil, err
	}

	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	_, err := s.members.FindOne(ctx, in.UserID, projectID)
	switch {
	case err == nil:
		return nil, ErrMembershipExists
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("find project user: %w", err)
	}

	pu, err := s.members.Create(ctx, &model.ProjectUser{
		ID:        uuid.NewString(),
		Role:      in.Role,
		ProjectID: projectID,
		UserID:    in.UserID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrMembershipExists
		}
		return nil, fmt.Errorf("create project user: %w", err)
	}
	return pu, nil
}

func (s *projectUserService) UpdateRole(ctx context.Context, callerID string, f repository.ProjectUserFilter, role model.Role) (int64, error) {
	if err := s.requireAdmin(ctx, callerID, f.ProjectID); err != nil {
		return 0, err
	}
	if !role.Valid() {
		return 0, ErrInvalidRole
	}
	return s.members.UpdateRole(ctx, f, role)
}

func (s *projectUserService) Delete(ctx context.Context, callerID string, f repository.ProjectUserFilter) (int64, error) {
	if err := s.requireAdmin(ctx, callerID, f.ProjectID); err != nil {
		return 0, err
	}
	return s.members.Delete(ctx, f)
}

func (s *projectUserService) requireAdmin(ctx context.Context, callerID, projectID string) error {
	pu, err := ValidateProjectUser(ctx, s.members, callerID, projectID)
	if err != nil {
		return err
	}
	if pu.Role.IsUser() {
		s.log.Debug("membership_change_denied",
			zap.String("user_id", callerID),
			zap.String("project_id", projectID),
		)
		return ErrCannotAssignMember
	}
	return nil
}

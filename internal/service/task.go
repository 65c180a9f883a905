package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskapi/internal/model"
	"taskapi/internal/repository"
)

const (
	defaultTaskLimit = 10
	maxTaskLimit     = 100
)

// TaskListResult is the service-level DTO for paginated tasks.
type TaskListResult struct {
	Items []model.Task `json:"data"`
	Total int          `json:"total"`
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskUpdate lists the fields a patch may change; nil fields are left untouched.
// An empty UserID or LinkedTo clears the reference.
type TaskUpdate struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Status      *model.TaskStatus `json:"status"`
	UserID      *string           `json:"userId"`
	LinkedTo    *string           `json:"linkedTo"`
}

// TaskService defines the use cases for tasks inside a project.
type TaskService interface {
	// List returns tasks matching f. Members with the user role only see
	// tasks that were not created by an admin.
	List(ctx context.Context, callerID string, f repository.TaskFilter, limit, offset int) (*TaskListResult, error)

	// Create stores a task, flagging it as admin-created when the caller is not a plain user.
	Create(ctx context.Context, callerID, projectID string, in TaskInput) (*model.Task, error)

	// Update patches a task. Only admins may change the assignee, and members
	// with the user role cannot reach tasks created by an admin.
	Update(ctx context.Context, callerID, projectID, taskID string, in TaskUpdate) error

	// Delete removes matching tasks and returns the count. Members with the
	// user role can only delete tasks that were not created by an admin.
	Delete(ctx context.Context, callerID string, f repository.TaskFilter) (int64, error)
}

type taskService struct {
	tasks   repository.TaskRepository
	members repository.ProjectUserRepository
	users   repository.UserRepository
	log     *zap.Logger
}

// NewTaskService constructs a new TaskService.
func NewTaskService(tasks repository.TaskRepository, members repository.ProjectUserRepository, users repository.UserRepository, log *zap.Logger) TaskService {
	return &taskService{
		tasks:   tasks,
		members: members,
		users:   users,
		log:     log.With(zap.String("component", "tasks")),
	}
}

func (s *taskService) List(ctx context.Context, callerID string, f repository.TaskFilter, limit, offset int) (*TaskListResult, error) {
	pu, err := ValidateProjectUser(ctx, s.members, callerID, f.ProjectID)
	if err != nil {
		return nil, err
	}
	if pu.Role.IsUser() {
		f.IsCreatedByAdmin = boolPtr(false)
	}

	if limit <= 0 {
		limit = defaultTaskLimit
	}
	if limit > maxTaskLimit {
		limit = maxTaskLimit
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.tasks.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &TaskListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *taskService) Create(ctx context.Context, callerID, projectID string, in TaskInput) (*model.Task, error) {
	pu, err := ValidateProjectUser(ctx, s.members, callerID, projectID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now().UTC()
	t, err := s.tasks.Create(ctx, &model.Task{
		ID:               uuid.NewString(),
		Title:            title,
		Description:      in.Description,
		Status:           model.TaskStatusTodo,
		IsCreatedByAdmin: !pu.Role.IsUser(),
		ProjectID:        projectID,
		CreatedBy:        callerID,
		UpdatedBy:        callerID,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *taskService) Update(ctx context.Context, callerID, projectID, taskID string, in TaskUpdate) error {
	pu, err := ValidateProjectUser(ctx, s.members, callerID, projectID)
	if err != nil {
		return err
	}
	if in.UserID != nil && pu.Role.IsUser() {
		s.log.Debug("task_assign_denied",
			zap.String("user_id", callerID),
			zap.String("project_id", projectID),
			zap.String("task_id", taskID),
		)
		return ErrCannotAssignTask
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return ErrTitleRequired
		}
		in.Title = &title
	}
	if in.Status != nil && !in.Status.Valid() {
		return ErrInvalidStatus
	}

	task, err := s.tasks.FindInProject(ctx, projectID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("find task: %w", err)
	}
	// Admin-created tasks are invisible to the user role, as in List.
	if pu.Role.IsUser() && task.IsCreatedByAdmin {
		return ErrTaskNotFound
	}

	if in.UserID != nil && *in.UserID != "" {
		if _, err := s.users.FindByID(ctx, *in.UserID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAssigneeNotFound
			}
			return fmt.Errorf("find assignee: %w", err)
		}
	}

	if in.LinkedTo != nil && *in.LinkedTo != "" {
		if *in.LinkedTo == taskID {
			return ErrLinkedTaskNotFound
		}
		if _, err := s.tasks.FindInProject(ctx, projectID, *in.LinkedTo); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrLinkedTaskNotFound
			}
			return fmt.Errorf("find linked task: %w", err)
		}
	}

	err = s.tasks.Update(ctx, projectID, taskID, repository.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		UserID:      in.UserID,
		LinkedTo:    in.LinkedTo,
		UpdatedBy:   callerID,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		// Deleted between the lookup and the update.
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *taskService) Delete(ctx context.Context, callerID string, f repository.TaskFilter) (int64, error) {
	pu, err := ValidateProjectUser(ctx, s.members, callerID, f.ProjectID)
	if err != nil {
		return 0, err
	}
	if pu.Role.IsUser() {
		f.IsCreatedByAdmin = boolPtr(false)
	}
	return s.tasks.Delete(ctx, f)
}

func boolPtr(b bool) *bool { return &b }

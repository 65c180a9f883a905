package mocks

import (
	"context"

	"taskapi/internal/model"
	"taskapi/internal/repository"
	"taskapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, callerID string, f repository.TaskFilter, limit, offset int) (*service.TaskListResult, error) {
	args := m.Called(ctx, callerID, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskListResult), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, callerID, projectID string, in service.TaskInput) (*model.Task, error) {
	args := m.Called(ctx, callerID, projectID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, callerID, projectID, taskID string, in service.TaskUpdate) error {
	args := m.Called(ctx, callerID, projectID, taskID, in)
	return args.Error(0)
}

func (m *MockTaskService) Delete(ctx context.Context, callerID string, f repository.TaskFilter) (int64, error) {
	args := m.Called(ctx, callerID, f)
	return args.Get(0).(int64), args.Error(1)
}

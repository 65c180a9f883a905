package mocks

import (
	"context"

	"taskapi/internal/model"
	"taskapi/internal/repository"
	"taskapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockProjectUserService struct {
	mock.Mock
}

func (m *MockProjectUserService) List(ctx context.Context, callerID string, f repository.ProjectUserFilter) ([]model.ProjectUser, error) {
	args := m.Called(ctx, callerID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectUser), args.Error(1)
}

func (m *MockProjectUserService) Create(ctx context.Context, callerID, projectID string, in service.ProjectUserInput) (*model.ProjectUser, error) {
	args := m.Called(ctx, callerID, projectID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectUser), args.Error(1)
}

func (m *MockProjectUserService) UpdateRole(ctx context.Context, callerID string, f repository.ProjectUserFilter, role model.Role) (int64, error) {
	args := m.Called(ctx, callerID, f, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectUserService) Delete(ctx context.Context, callerID string, f repository.ProjectUserFilter) (int64, error) {
	args := m.Called(ctx, callerID, f)
	return args.Get(0).(int64), args.Error(1)
}

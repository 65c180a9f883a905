package mocks

import (
	"context"

	"taskapi/internal/model"
	"taskapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockProjectUserRepository struct {
	mock.Mock
}

func (m *MockProjectUserRepository) Create(ctx context.Context, pu *model.ProjectUser) (*model.ProjectUser, error) {
	args := m.Called(ctx, pu)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectUser), args.Error(1)
}

func (m *MockProjectUserRepository) FindOne(ctx context.Context, userID, projectID string) (*model.ProjectUser, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectUser), args.Error(1)
}

func (m *MockProjectUserRepository) List(ctx context.Context, f repository.ProjectUserFilter) ([]model.ProjectUser, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectUser), args.Error(1)
}

func (m *MockProjectUserRepository) UpdateRole(ctx context.Context, f repository.ProjectUserFilter, role model.Role) (int64, error) {
	args := m.Called(ctx, f, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectUserRepository) Delete(ctx context.Context, f repository.ProjectUserFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

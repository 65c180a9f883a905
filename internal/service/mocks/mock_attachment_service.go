package mocks

import (
	"context"
	"io"

	"taskapi/internal/model"
	"taskapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Upload(ctx context.Context, callerID, projectID, taskID string, in service.UploadInput) (*model.Attachment, error) {
	args := m.Called(ctx, callerID, projectID, taskID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) List(ctx context.Context, callerID, projectID, taskID string) ([]model.Attachment, error) {
	args := m.Called(ctx, callerID, projectID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Get(ctx context.Context, callerID, projectID, taskID, id string) (*service.AttachmentDownload, error) {
	args := m.Called(ctx, callerID, projectID, taskID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AttachmentDownload), args.Error(1)
}

func (m *MockAttachmentService) Open(ctx context.Context, callerID, projectID, taskID, id string) (io.ReadCloser, *model.Attachment, error) {
	args := m.Called(ctx, callerID, projectID, taskID, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Attachment), args.Error(2)
}

func (m *MockAttachmentService) Delete(ctx context.Context, callerID, projectID, taskID, id string) error {
	args := m.Called(ctx, callerID, projectID, taskID, id)
	return args.Error(0)
}

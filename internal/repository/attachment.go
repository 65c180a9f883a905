package repository

import (
	"context"

	"taskapi/internal/model"
)

// AttachmentRepository persists attachment metadata. File bytes live in object storage.
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)

	// FindByID returns the attachment only if it belongs to taskID.
	FindByID(ctx context.Context, taskID, id string) (*model.Attachment, error)

	ListByTask(ctx context.Context, taskID string) ([]model.Attachment, error)

	Delete(ctx context.Context, id string) error
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskapi/internal/model"
	"taskapi/internal/repository"
	"taskapi/internal/storage"
)

// AttachmentOptions bounds uploads and download links.
type AttachmentOptions struct {
	MaxBytes  int64
	URLExpiry time.Duration
}

// AttachmentDownload is an attachment with a time-limited download link.
type AttachmentDownload struct {
	model.Attachment
	URL string `json:"url"`
}

// UploadInput describes a file being attached to a task.
// Size is the exact byte count, or -1 when unknown.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// AttachmentService defines the use cases for task attachments.
// Members with the user role can only reach attachments of tasks that were not created by an admin.
type AttachmentService interface {
	// Upload streams the content to object storage, saves metadata to the DB, and
	// removes the object again if the DB save fails.
	Upload(ctx context.Context, callerID, projectID, taskID string, in UploadInput) (*model.Attachment, error)

	List(ctx context.Context, callerID, projectID, taskID string) ([]model.Attachment, error)

	// Get returns the attachment with a presigned download URL.
	Get(ctx context.Context, callerID, projectID, taskID, id string) (*AttachmentDownload, error)

	// Open streams the attachment content. Callers close the reader.
	Open(ctx context.Context, callerID, projectID, taskID, id string) (io.ReadCloser, *model.Attachment, error)

	// Delete removes the object from storage, then deletes its record.
	Delete(ctx context.Context, callerID, projectID, taskID, id string) error
}

type attachmentService struct {
	store       storage.Storage
	attachments repository.AttachmentRepository
	tasks       repository.TaskRepository
	members     repository.ProjectUserRepository
	opts        AttachmentOptions
	log         *zap.Logger
}

// NewAttachmentService constructs a new AttachmentService.
func NewAttachmentService(
	store storage.Storage,
	attachments repository.AttachmentRepository,
	tasks repository.TaskRepository,
	members repository.ProjectUserRepository,
	opts AttachmentOptions,
	log *zap.Logger,
) AttachmentService {
	return &attachmentService{
		store:       store,
		attachments: attachments,
		tasks:       tasks,
		members:     members,
		opts:        opts,
		log:         log.With(zap.String("component", "attachments")),
	}
}

// visibleTask resolves a task the caller may see in projectID.
func (s *attachmentService) visibleTask(ctx context.Context, callerID, projectID, taskID string) (*model.Task, error) {
	pu, err := ValidateProjectUser(ctx, s.members, callerID, projectID)
	if err != nil {
		return nil, err
	}
	t, err := s.tasks.FindInProject(ctx, projectID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	if pu.Role.IsUser() && t.IsCreatedByAdmin {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (s *attachmentService) find(ctx context.Context, callerID, projectID, taskID, id string) (*model.Attachment, error) {
	if _, err := s.visibleTask(ctx, callerID, projectID, taskID); err != nil {
		return nil, err
	}
	a, err := s.attachments.FindByID(ctx, taskID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *attachmentService) Upload(ctx context.Context, callerID, projectID, taskID string, in UploadInput) (*model.Attachment, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if s.opts.MaxBytes > 0 && in.Size > s.opts.MaxBytes {
		return nil, ErrAttachmentTooLarge
	}

	t, err := s.visibleTask(ctx, callerID, projectID, taskID)
	if err != nil {
		return nil, err
	}

	key := path.Join("attachments", t.ID, uuid.NewString()+filepath.Ext(in.Filename))
	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	stored, err := s.attachments.Create(ctx, &model.Attachment{
		ID:          uuid.NewString(),
		TaskID:      t.ID,
		ProjectID:   t.ProjectID,
		Filename:    in.Filename,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		UploadedBy:  callerID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Error("attachment_rollback_failed", zap.String("key", key), zap.Error(delErr))
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *attachmentService) List(ctx context.Context, callerID, projectID, taskID string) ([]model.Attachment, error) {
	if _, err := s.visibleTask(ctx, callerID, projectID, taskID); err != nil {
		return nil, err
	}
	return s.attachments.ListByTask(ctx, taskID)
}

func (s *attachmentService) Get(ctx context.Context, callerID, projectID, taskID, id string) (*AttachmentDownload, error) {
	a, err := s.find(ctx, callerID, projectID, taskID, id)
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, a.StoragePath, s.opts.URLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}
	return &AttachmentDownload{Attachment: *a, URL: url}, nil
}

func (s *attachmentService) Open(ctx context.Context, callerID, projectID, taskID, id string) (io.ReadCloser, *model.Attachment, error) {
	a, err := s.find(ctx, callerID, projectID, taskID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, a.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrAttachmentNotFound
		}
		return nil, nil, fmt.Errorf("open object: %w", err)
	}
	return rc, a, nil
}

func (s *attachmentService) Delete(ctx context.Context, callerID, projectID, taskID, id string) error {
	a, err := s.find(ctx, callerID, projectID, taskID, id)
	if err != nil {
		return err
	}
	// Storage first; on failure the row still points at the object.
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.attachments.Delete(ctx, a.ID)
}

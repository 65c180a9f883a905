package postgres

import (
	"context"
	"database/sql"

	"taskapi/internal/model"
	"taskapi/internal/repository"
)

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

const attachmentColumns = `id, task_id, project_id, filename, storage_path, size, content_type, uploaded_by, created_at`

func scanAttachment(row interface{ Scan(...any) error }) (*model.Attachment, error) {
	var (
		a          model.Attachment
		uploadedBy sql.NullString
	)
	if err := row.Scan(
		&a.ID,
		&a.TaskID,
		&a.ProjectID,
		&a.Filename,
		&a.StoragePath,
		&a.Size,
		&a.ContentType,
		&uploadedBy,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.UploadedBy = uploadedBy.String
	return &a, nil
}

// Create inserts an attachment row and returns the stored record.
func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO task_attachments (id, task_id, project_id, filename, storage_path, size, content_type, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + attachmentColumns
	return scanAttachment(r.db.QueryRowContext(ctx, q,
		a.ID,
		a.TaskID,
		a.ProjectID,
		a.Filename,
		a.StoragePath,
		a.Size,
		a.ContentType,
		nullString(&a.UploadedBy),
		a.CreatedAt,
	))
}

// FindByID fetches an attachment scoped to its task.
func (r *AttachmentPostgres) FindByID(ctx context.Context, taskID, id string) (*model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM task_attachments WHERE id = $1 AND task_id = $2`
	return scanAttachment(r.db.QueryRowContext(ctx, q, id, taskID))
}

// ListByTask returns a task's attachments, newest first.
func (r *AttachmentPostgres) ListByTask(ctx context.Context, taskID string) ([]model.Attachment, error) {
	const q = `
		SELECT ` + attachmentColumns + `
		FROM task_attachments
		WHERE task_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes an attachment row. A missing row is not an error.
func (r *AttachmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM task_attachments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskapi/internal/model"
	"taskapi/internal/repository"
)

// TaskPostgres is a PostgreSQL implementation of repository.TaskRepository.
type TaskPostgres struct {
	db *sql.DB
}

// NewTaskPostgres creates a new TaskPostgres repository.
func NewTaskPostgres(db *sql.DB) *TaskPostgres {
	return &TaskPostgres{db: db}
}

var _ repository.TaskRepository = (*TaskPostgres)(nil)

const taskColumns = `id, title, description, status, is_created_by_admin, project_id,
	user_id, linked_to, created_by, updated_by, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*model.Task, error) {
	var (
		t                    model.Task
		status               string
		userID, linkedTo     sql.NullString
		createdBy, updatedBy sql.NullString
	)
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&status,
		&t.IsCreatedByAdmin,
		&t.ProjectID,
		&userID,
		&linkedTo,
		&createdBy,
		&updatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Status = model.TaskStatus(status)
	t.UserID = stringPtr(userID)
	t.LinkedTo = stringPtr(linkedTo)
	t.CreatedBy = createdBy.String
	t.UpdatedBy = updatedBy.String
	return &t, nil
}

func taskWhere(w *whereClause, f repository.TaskFilter) *whereClause {
	w.add("project_id = $%d", f.ProjectID)
	if f.Status != nil {
		w.add("status = $%d", string(*f.Status))
	}
	if f.UserID != nil {
		w.add("user_id = $%d", *f.UserID)
	}
	if f.IsCreatedByAdmin != nil {
		w.add("is_created_by_admin = $%d", *f.IsCreatedByAdmin)
	}
	return w
}

// Create inserts a new task row and returns the stored record.
func (r *TaskPostgres) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	const q = `
		INSERT INTO tasks (id, title, description, status, is_created_by_admin, project_id,
			user_id, linked_to, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, q,
		t.ID,
		t.Title,
		t.Description,
		string(t.Status),
		t.IsCreatedByAdmin,
		t.ProjectID,
		nullString(t.UserID),
		nullString(t.LinkedTo),
		nullString(&t.CreatedBy),
		nullString(&t.UpdatedBy),
		t.CreatedAt,
		t.UpdatedAt,
	))
}

// FindByID fetches a single task by ID.
func (r *TaskPostgres) FindByID(ctx context.Context, id string) (*model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRowContext(ctx, q, id))
}

// FindInProject fetches a task scoped to its project.
func (r *TaskPostgres) FindInProject(ctx context.Context, projectID, id string) (*model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND project_id = $2`
	return scanTask(r.db.QueryRowContext(ctx, q, id, projectID))
}

// List returns tasks using LIMIT/OFFSET pagination and a total count.
func (r *TaskPostgres) List(ctx context.Context, f repository.TaskFilter, pq repository.PageQuery) (*repository.PageResult[model.Task], error) {
	w := taskWhere(&whereClause{}, f)

	var total int
	qCount := `SELECT COUNT(*) FROM tasks ` + w.String()
	if err := r.db.QueryRowContext(ctx, qCount, w.args...).Scan(&total); err != nil {
		return nil, err
	}

	n := len(w.args)
	qList := fmt.Sprintf(`SELECT %s FROM tasks %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		taskColumns, w.String(), n+1, n+2)
	args := append(w.args, pq.Limit, pq.Offset)

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Task]{
		Items: items,
		Total: total,
	}, nil
}

// Update writes the non-nil patch fields plus updated_by/updated_at.
func (r *TaskPostgres) Update(ctx context.Context, projectID, id string, p repository.TaskPatch) error {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.UserID != nil {
		set("user_id", nullString(p.UserID))
	}
	if p.LinkedTo != nil {
		set("linked_to", nullString(p.LinkedTo))
	}
	set("updated_by", nullString(&p.UpdatedBy))
	set("updated_at", p.UpdatedAt)

	w := &whereClause{args: args}
	w.add("id = $%d", id)
	w.add("project_id = $%d", projectID)

	q := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` ` + w.String()
	res, err := r.db.ExecContext(ctx, q, w.args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes matching tasks.
func (r *TaskPostgres) Delete(ctx context.Context, f repository.TaskFilter) (int64, error) {
	w := taskWhere(&whereClause{}, f)
	q := `DELETE FROM tasks ` + w.String()

	res, err := r.db.ExecContext(ctx, q, w.args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

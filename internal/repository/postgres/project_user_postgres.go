package postgres

import (
	"context"
	"database/sql"

	"taskapi/internal/model"
	"taskapi/internal/repository"
)

// ProjectUserPostgres is a PostgreSQL implementation of repository.ProjectUserRepository.
type ProjectUserPostgres struct {
	db *sql.DB
}

// NewProjectUserPostgres creates a new ProjectUserPostgres repository.
func NewProjectUserPostgres(db *sql.DB) *ProjectUserPostgres {
	return &ProjectUserPostgres{db: db}
}

var _ repository.ProjectUserRepository = (*ProjectUserPostgres)(nil)

const projectUserColumns = `id, role, project_id, user_id, created_at`

func scanProjectUser(row interface{ Scan(...any) error }) (*model.ProjectUser, error) {
	var (
		pu   model.ProjectUser
		role string
	)
	if err := row.Scan(&pu.ID, &role, &pu.ProjectID, &pu.UserID, &pu.CreatedAt); err != nil {
		return nil, err
	}
	pu.Role = model.Role(role)
	return &pu, nil
}

func projectUserWhere(w *whereClause, f repository.ProjectUserFilter) *whereClause {
	w.add("project_id = $%d", f.ProjectID)
	if f.UserID != nil {
		w.add("user_id = $%d", *f.UserID)
	}
	if f.Role != nil {
		w.add("role = $%d", string(*f.Role))
	}
	return w
}

// Create inserts a membership row and returns the stored record.
func (r *ProjectUserPostgres) Create(ctx context.Context, pu *model.ProjectUser) (*model.ProjectUser, error) {
	const q = `
		INSERT INTO project_users (id, role, project_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + projectUserColumns
	out, err := scanProjectUser(r.db.QueryRowContext(ctx, q,
		pu.ID, string(pu.Role), pu.ProjectID, pu.UserID, pu.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return out, nil
}

// FindOne fetches the membership for a (user, project) pair.
func (r *ProjectUserPostgres) FindOne(ctx context.Context, userID, projectID string) (*model.ProjectUser, error) {
	const q = `
		SELECT ` + projectUserColumns + `
		FROM project_users
		WHERE user_id = $1 AND project_id = $2
		LIMIT 1
	`
	return scanProjectUser(r.db.QueryRowContext(ctx, q, userID, projectID))
}

// List returns memberships matching the filter, oldest first.
func (r *ProjectUserPostgres) List(ctx context.Context, f repository.ProjectUserFilter) ([]model.ProjectUser, error) {
	w := projectUserWhere(&whereClause{}, f)
	q := `SELECT ` + projectUserColumns + ` FROM project_users ` + w.String() + ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ProjectUser, 0)
	for rows.Next() {
		pu, err := scanProjectUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *pu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateRole sets the role on matching rows.
func (r *ProjectUserPostgres) UpdateRole(ctx context.Context, f repository.ProjectUserFilter, role model.Role) (int64, error) {
	w := projectUserWhere(&whereClause{args: []any{string(role)}}, f)
	q := `UPDATE project_users SET role = $1 ` + w.String()

	res, err := r.db.ExecContext(ctx, q, w.args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes matching rows.
func (r *ProjectUserPostgres) Delete(ctx context.Context, f repository.ProjectUserFilter) (int64, error) {
	w := projectUserWhere(&whereClause{}, f)
	q := `DELETE FROM project_users ` + w.String()

	res, err := r.db.ExecContext(ctx, q, w.args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

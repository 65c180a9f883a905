package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"taskapi/internal/model"
	"taskapi/internal/repository"
)

// ProjectPostgres is a PostgreSQL implementation of repository.ProjectRepository.
type ProjectPostgres struct {
	db *sql.DB
}

// NewProjectPostgres creates a new ProjectPostgres repository.
func NewProjectPostgres(db *sql.DB) *ProjectPostgres {
	return &ProjectPostgres{db: db}
}

var _ repository.ProjectRepository = (*ProjectPostgres)(nil)

const projectColumns = `id, name, created_by, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*model.Project, error) {
	var (
		p         model.Project
		createdBy sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &createdBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CreatedBy = createdBy.String
	return &p, nil
}

// CreateWithOwner inserts the project and the owner's membership atomically.
func (r *ProjectPostgres) CreateWithOwner(ctx context.Context, p *model.Project, owner *model.ProjectUser) (*model.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const qProject = `
		INSERT INTO projects (id, name, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + projectColumns
	out, err := scanProject(tx.QueryRowContext(ctx, qProject,
		p.ID, p.Name, nullString(&p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}

	const qMember = `
		INSERT INTO project_users (id, role, project_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, qMember,
		owner.ID, string(owner.Role), out.ID, owner.UserID, owner.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

// FindByID fetches a single project by ID.
func (r *ProjectPostgres) FindByID(ctx context.Context, id string) (*model.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRowContext(ctx, q, id))
}

// ListByMember returns every project with a membership row for userID.
func (r *ProjectPostgres) ListByMember(ctx context.Context, userID string) ([]model.Project, error) {
	const q = `
		SELECT p.id, p.name, p.created_by, p.created_at, p.updated_at
		FROM projects p
		JOIN project_users pu ON pu.project_id = p.id
		WHERE pu.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

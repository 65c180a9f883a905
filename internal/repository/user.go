package repository

import (
	"context"

	"taskapi/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user and returns the stored row.
	// Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"taskapi/internal/model"
	"taskapi/internal/repository"
)

const (
	minEmailLength    = 8
	minPasswordLength = 8
)

var validate = validator.New()

// Credentials is the signup payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ValidateCredentials checks a signup payload. Checks run in a fixed order and
// the first failure wins: email format, email uniqueness, email length, password length.
func ValidateCredentials(ctx context.Context, users repository.UserRepository, c Credentials) error {
	if err := validate.Var(c.Email, "required,email"); err != nil {
		return ErrInvalidEmail
	}

	_, err := users.FindByEmail(ctx, c.Email)
	switch {
	case err == nil:
		return ErrEmailExists
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("find user by email: %w", err)
	}

	if len(c.Email) < minEmailLength {
		return ErrEmailTooShort
	}
	if len(c.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateProjectUser returns the membership of userID in projectID,
// or ErrNotProjectMember when there is none.
func ValidateProjectUser(ctx context.Context, members repository.ProjectUserRepository, userID, projectID string) (*model.ProjectUser, error) {
	pu, err := members.FindOne(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotProjectMember
		}
		return nil, fmt.Errorf("find project user: %w", err)
	}
	return pu, nil
}

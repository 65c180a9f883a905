package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskapi/internal/auth"
	"taskapi/internal/model"
	"taskapi/internal/repository"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer signs access tokens for a user profile.
type TokenIssuer interface {
	Issue(p model.Profile) (string, *auth.Claims, error)
}

// AuthService defines account and session use cases.
type AuthService interface {
	// Signup validates the credentials, hashes the password and stores the user.
	Signup(ctx context.Context, c Credentials) (*model.User, error)

	// Login verifies email and password and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, error)

	// Logout revokes the token described by claims until it expires.
	Logout(ctx context.Context, claims *auth.Claims) error

	// Me returns the account of the authenticated user.
	Me(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	users   repository.UserRepository
	hasher  PasswordHasher
	tokens  TokenIssuer
	revoker auth.Revoker
	log     *zap.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, revoker auth.Revoker, log *zap.Logger) AuthService {
	return &authService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		log:     log.With(zap.String("component", "auth")),
	}
}

func (s *authService) Signup(ctx context.Context, c Credentials) (*model.User, error) {
	c.Email = strings.TrimSpace(c.Email)
	if err := ValidateCredentials(ctx, s.users, c); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(c.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u, err := s.users.Create(ctx, &model.User{
		ID:        uuid.NewString(),
		Email:     c.Email,
		Password:  hash,
		Name:      strings.TrimSpace(c.Name),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user by email: %w", err)
	}
	if !s.hasher.Compare(u.Password, password) {
		s.log.Debug("login_rejected", zap.String("user_id", u.ID))
		return "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(u.Profile())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	s.log.Debug("token_revoked", zap.String("user_id", claims.Subject), zap.String("jti", claims.ID))
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskapi/internal/auth"
	authMocks "taskapi/internal/auth/mocks"
	"taskapi/internal/model"
)

func TestJWT(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "taskapi", time.Hour)
	token, claims, err := tokens.Issue(model.Profile{ID: "u1", Email: "alice@example.com"})
	require.NoError(t, err)

	otherIssuer := auth.NewTokenManager("secret", "elsewhere", time.Hour)
	foreign, _, err := otherIssuer.Issue(model.Profile{ID: "u1"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		setupMocks func(m *authMocks.MockRevoker)
		wantStatus int
	}{
		{
			name:   "valid token",
			header: "Bearer " + token,
			setupMocks: func(m *authMocks.MockRevoker) {
				m.On("IsRevoked", mock.Anything, claims.ID).Return(false, nil)
			},
			wantStatus: fiber.StatusOK,
		},
		{
			name:   "scheme is case insensitive",
			header: "bearer " + token,
			setupMocks: func(m *authMocks.MockRevoker) {
				m.On("IsRevoked", mock.Anything, claims.ID).Return(false, nil)
			},
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "missing header",
			setupMocks: func(m *authMocks.MockRevoker) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic dXNlcjpwYXNz",
			setupMocks: func(m *authMocks.MockRevoker) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "empty token",
			header:     "Bearer ",
			setupMocks: func(m *authMocks.MockRevoker) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer not.a.jwt",
			setupMocks: func(m *authMocks.MockRevoker) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "token from another issuer",
			header:     "Bearer " + foreign,
			setupMocks: func(m *authMocks.MockRevoker) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "revoked token",
			header: "Bearer " + token,
			setupMocks: func(m *authMocks.MockRevoker) {
				m.On("IsRevoked", mock.Anything, claims.ID).Return(true, nil)
			},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:   "revocation store down",
			header: "Bearer " + token,
			setupMocks: func(m *authMocks.MockRevoker) {
				m.On("IsRevoked", mock.Anything, claims.ID).Return(false, errors.New("redis down"))
			},
			wantStatus: fiber.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revoker := new(authMocks.MockRevoker)
			tt.setupMocks(revoker)

			app := fiber.New()
			app.Use(JWT(tokens, revoker))
			app.Get("/me", func(c *fiber.Ctx) error {
				return c.SendString(ClaimsFrom(c).Subject)
			})

			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			revoker.AssertExpectations(t)
		})
	}
}

func TestClaimsFrom_Unauthenticated(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Nil(t, ClaimsFrom(c))
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

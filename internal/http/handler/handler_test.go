package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"taskapi/docs"
	"taskapi/internal/auth"
	authMocks "taskapi/internal/auth/mocks"
	"taskapi/internal/http/middleware"
	serviceMocks "taskapi/internal/service/mocks"
)

const testCaller = "0b6c1f8e-5a4e-4f43-9d8f-3f1c2a7e9b10"

// asCaller stands in for middleware.JWT.
func asCaller(id string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.ClaimsLocalKey, &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-test",
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})
		return c.Next()
	}
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Use(middleware.RequestID())
	app.Use(asCaller(testCaller))
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorHandler_UnknownErrorIsLoggedAndHidden(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
	app.Use(middleware.RequestID())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: password authentication failed")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(middleware.RequestIDHeader, "rid-42")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	res := decodeError(t, resp)
	assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
	assert.Equal(t, "rid-42", res.RequestID)
	assert.NotContains(t, res.Error.Message, "password")

	entries := logs.FilterMessage("unhandled_error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rid-42", entries[0].ContextMap()["request_id"])
}

func TestRouting(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "taskapi", time.Hour)
	revoker := new(authMocks.MockRevoker)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, nil, Services{
		Auth:         new(serviceMocks.MockAuthService),
		Projects:     new(serviceMocks.MockProjectService),
		ProjectUsers: new(serviceMocks.MockProjectUserService),
		Tasks:        new(serviceMocks.MockTaskService),
		Attachments:  new(serviceMocks.MockAttachmentService),
	}, middleware.JWT(tokens, revoker), prometheus.NewRegistry())

	t.Run("not found route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("protected route without token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/projects", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "UNAUTHORIZED", res.Error.Code)
		assert.NotEmpty(t, res.RequestID)
	})

	t.Run("swagger document keeps host unset", func(t *testing.T) {
		for _, host := range []string{"api.example.com", "localhost:8080"} {
			req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
			req.Host = host
			req.Header.Set("X-Forwarded-Proto", "https")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var doc map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
			assert.Equal(t, "", doc["host"])
			assert.Empty(t, doc["schemes"])
		}
		assert.Empty(t, docs.SwaggerInfo.Host)
		assert.Empty(t, docs.SwaggerInfo.Schemes)
	})

	t.Run("task project route without token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tasks/"+testCaller+"/project", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, middleware.MetricsPath, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

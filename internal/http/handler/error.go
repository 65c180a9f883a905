package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskapi/internal/http/middleware"
	"taskapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// serviceErrors maps domain errors to HTTP responses. The sentinel's own
// message is safe to show to clients.
var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrInvalidEmail, fiber.StatusUnprocessableEntity, "INVALID_CREDENTIALS_INPUT"},
	{service.ErrEmailExists, fiber.StatusUnprocessableEntity, "INVALID_CREDENTIALS_INPUT"},
	{service.ErrEmailTooShort, fiber.StatusUnprocessableEntity, "INVALID_CREDENTIALS_INPUT"},
	{service.ErrPasswordTooShort, fiber.StatusUnprocessableEntity, "INVALID_CREDENTIALS_INPUT"},
	{service.ErrCannotAssignTask, fiber.StatusUnprocessableEntity, "CANNOT_ASSIGN_TASK"},
	{service.ErrInvalidRole, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	{service.ErrInvalidStatus, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	{service.ErrTitleRequired, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	{service.ErrNameRequired, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	{service.ErrMembershipExists, fiber.StatusUnprocessableEntity, "MEMBERSHIP_EXISTS"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrCannotAssignMember, fiber.StatusUnauthorized, "CANNOT_ASSIGN"},
	{service.ErrNotProjectMember, fiber.StatusNotFound, "NOT_PROJECT_MEMBER"},
	{service.ErrAssigneeNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{service.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{service.ErrTaskNotFound, fiber.StatusNotFound, "TASK_NOT_FOUND"},
	{service.ErrLinkedTaskNotFound, fiber.StatusNotFound, "TASK_NOT_FOUND"},
	{service.ErrProjectNotFound, fiber.StatusNotFound, "PROJECT_NOT_FOUND"},
	{service.ErrAttachmentNotFound, fiber.StatusNotFound, "ATTACHMENT_NOT_FOUND"},
	{service.ErrAttachmentTooLarge, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "TASK_NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError answers known service errors directly. Anything else is
// returned so the global ErrorHandler logs it and answers 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			return writeError(c, e.status, e.code, e.err.Error())
		}
	}
	return err
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Errors that are neither request errors nor *fiber.Error are logged with their cause and hidden from the client.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			return writeError(c, reqErr.status, reqErr.code, reqErr.message)
		}

		var fiberErr *fiber.Error
		if !errors.As(err, &fiberErr) {
			log.Error("unhandled_error",
				zap.String("request_id", middleware.RequestIDFrom(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		switch fiberErr.Code {
		case fiber.StatusBadRequest:
			return writeError(c, fiberErr.Code, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, fiberErr.Code, "UNAUTHORIZED", fiberErr.Message)
		case fiber.StatusNotFound:
			return writeError(c, fiberErr.Code, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, fiberErr.Code, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, fiberErr.Code, "FILE_TOO_LARGE", "request body too large")
		default:
			return writeError(c, fiberErr.Code, "INTERNAL_ERROR", "internal server error")
		}
	}
}

package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// statusOf resolves the status a request will be answered with. When a handler
// returned an error the global ErrorHandler has not written the response yet.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

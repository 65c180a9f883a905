package handler

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskapi/internal/http/middleware"
	"taskapi/internal/model"
	"taskapi/internal/repository"
	"taskapi/internal/service"
)

// requestError is a client mistake detected before reaching a service.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &requestError{status: fiber.StatusBadRequest, code: code, message: message}
}

func invalidID() error { return badRequest("INVALID_ID", "invalid id format") }

var validate = newValidator()

// newValidator reports fields by their JSON name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes the JSON body into dst and runs its validate tags.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("BAD_REQUEST", "malformed request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &requestError{
				status:  fiber.StatusUnprocessableEntity,
				code:    "VALIDATION_ERROR",
				message: fe.Field() + " failed on " + fe.Tag(),
			}
		}
		return badRequest("BAD_REQUEST", "invalid request body")
	}
	return nil
}

// optionalUUID accepts a missing value, an empty string or a UUID.
func optionalUUID(field string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if _, err := uuid.Parse(*v); err != nil {
		return &requestError{
			status:  fiber.StatusUnprocessableEntity,
			code:    "VALIDATION_ERROR",
			message: field + " failed on uuid",
		}
	}
	return nil
}

// callerID is the authenticated user id set by middleware.JWT.
func callerID(c *fiber.Ctx) string {
	if claims := middleware.ClaimsFrom(c); claims != nil {
		return claims.Subject
	}
	return ""
}

// uuidParam returns the named path parameter if it is a UUID.
func uuidParam(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", invalidID()
	}
	return id, nil
}

func uuidQuery(c *fiber.Ctx, name string) (*string, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(v); err != nil {
		return nil, invalidID()
	}
	return &v, nil
}

func boolQuery(c *fiber.Ctx, name string) (*bool, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, badRequest("BAD_REQUEST", "invalid "+name)
	}
	return &b, nil
}

func intQuery(c *fiber.Ctx, name string, def int, code string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest(code, "invalid "+name)
	}
	return n, nil
}

// projectUserFilter reads ?userId=&role= for the project in the path.
func projectUserFilter(c *fiber.Ctx, projectID string) (repository.ProjectUserFilter, error) {
	f := repository.ProjectUserFilter{ProjectID: projectID}

	userID, err := uuidQuery(c, "userId")
	if err != nil {
		return f, err
	}
	f.UserID = userID

	if v := c.Query("role"); v != "" {
		role := model.Role(v)
		if !role.Valid() {
			return f, service.ErrInvalidRole
		}
		f.Role = &role
	}
	return f, nil
}

// taskFilter reads ?status=&userId=&isCreatedByAdmin= for the project in the path.
func taskFilter(c *fiber.Ctx, projectID string) (repository.TaskFilter, error) {
	f := repository.TaskFilter{ProjectID: projectID}

	if v := c.Query("status"); v != "" {
		status := model.TaskStatus(v)
		if !status.Valid() {
			return f, service.ErrInvalidStatus
		}
		f.Status = &status
	}

	userID, err := uuidQuery(c, "userId")
	if err != nil {
		return f, err
	}
	f.UserID = userID

	byAdmin, err := boolQuery(c, "isCreatedByAdmin")
	if err != nil {
		return f, err
	}
	f.IsCreatedByAdmin = byAdmin
	return f, nil
}

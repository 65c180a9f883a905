package handler

import (
	"github.com/gofiber/fiber/v2"

	"taskapi/internal/model"
	"taskapi/internal/service"
)

type createProjectUserRequest struct {
	UserID string     `json:"userId" validate:"required,uuid"`
	Role   model.Role `json:"role"`
}

type updateProjectUsersRequest struct {
	Role model.Role `json:"role" validate:"required"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

// ListProjectUsers lists memberships of a project.
//
// @Summary List project users
// @Tags project-users
// @Security BearerAuth
// @Produce json
// @Param id path string true "Project ID"
// @Param userId query string false "Filter by user"
// @Param role query string false "Filter by role" Enums(admin, user)
// @Success 200 {array} model.ProjectUser
// @Failure 404 {object} errorPayload
// @Router /projects/{id}/project-users [get]
func ListProjectUsers(svc service.ProjectUserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		f, err := projectUserFilter(c, projectID)
		if err != nil {
			return writeServiceError(c, err)
		}
		rows, err := svc.List(c.UserContext(), callerID(c), f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rows)
	}
}

// CreateProjectUser adds a member to the project in the path.
//
// @Summary Add project user
// @Tags project-users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param body body createProjectUserRequest true "Membership"
// @Success 200 {object} model.ProjectUser
// @Failure 401 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /projects/{id}/project-users [post]
func CreateProjectUser(svc service.ProjectUserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		var req createProjectUserRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		pu, err := svc.Create(c.UserContext(), callerID(c), projectID, service.ProjectUserInput{
			UserID: req.UserID,
			Role:   req.Role,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(pu)
	}
}

// UpdateProjectUsers changes the role of every matching membership.
//
// @Summary Update project users
// @Tags project-users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param userId query string false "Filter by user"
// @Param role query string false "Filter by role" Enums(admin, user)
// @Param body body updateProjectUsersRequest true "New role"
// @Success 200 {object} countResponse
// @Failure 401 {object} errorPayload
// @Router /projects/{id}/project-users [patch]
func UpdateProjectUsers(svc service.ProjectUserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		f, err := projectUserFilter(c, projectID)
		if err != nil {
			return writeServiceError(c, err)
		}
		var req updateProjectUsersRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		n, err := svc.UpdateRole(c.UserContext(), callerID(c), f, req.Role)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(countResponse{Count: n})
	}
}

// DeleteProjectUsers removes every matching membership.
//
// @Summary Delete project users
// @Tags project-users
// @Security BearerAuth
// @Produce json
// @Param id path string true "Project ID"
// @Param userId query string false "Filter by user"
// @Param role query string false "Filter by role" Enums(admin, user)
// @Success 200 {object} countResponse
// @Failure 401 {object} errorPayload
// @Router /projects/{id}/project-users [delete]
func DeleteProjectUsers(svc service.ProjectUserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		f, err := projectUserFilter(c, projectID)
		if err != nil {
			return writeServiceError(c, err)
		}
		n, err := svc.Delete(c.UserContext(), callerID(c), f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(countResponse{Count: n})
	}
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"taskapi/internal/service"
)

type createProjectRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateProject creates a project owned by the caller.
//
// @Summary Create project
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createProjectRequest true "Project"
// @Success 201 {object} model.Project
// @Failure 422 {object} errorPayload
// @Router /projects [post]
func CreateProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createProjectRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		p, err := svc.Create(c.UserContext(), callerID(c), req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// ListProjects returns the caller's projects.
//
// @Summary List my projects
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Success 200 {array} model.Project
// @Router /projects [get]
func ListProjects(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ps, err := svc.List(c.UserContext(), callerID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(ps)
	}
}

// GetProject returns a project the caller belongs to.
//
// @Summary Get project
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} model.Project
// @Failure 404 {object} errorPayload
// @Router /projects/{id} [get]
func GetProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		p, err := svc.Get(c.UserContext(), callerID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

// GetTaskProject returns the project a task belongs to.
//
// @Summary Project of a task
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} model.Project
// @Failure 404 {object} errorPayload
// @Router /tasks/{id}/project [get]
func GetTaskProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		p, err := svc.ProjectOfTask(c.UserContext(), callerID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(p)
	}
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"taskapi/internal/model"
	"taskapi/internal/service"
)

type createTaskRequest struct {
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description"`
}

// updateTaskRequest is a partial update. An empty userId or linkedTo clears
// the reference, so both are checked by optionalUUID instead of a tag.
type updateTaskRequest struct {
	Title       *string           `json:"title" validate:"omitempty,max=500"`
	Description *string           `json:"description"`
	Status      *model.TaskStatus `json:"status"`
	UserID      *string           `json:"userId"`
	LinkedTo    *string           `json:"linkedTo"`
}

// ListTasks lists tasks of a project with limit/offset pagination.
//
// @Summary List tasks
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "Project ID"
// @Param status query string false "Filter by status" Enums(todo, in_progress, done)
// @Param userId query string false "Filter by assignee"
// @Param isCreatedByAdmin query bool false "Filter by creator role"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.TaskListResult
// @Failure 404 {object} errorPayload
// @Router /projects/{id}/tasks [get]
func ListTasks(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		f, err := taskFilter(c, projectID)
		if err != nil {
			return writeServiceError(c, err)
		}
		limit, err := intQuery(c, "limit", 10, "INVALID_LIMIT")
		if err != nil {
			return err
		}
		offset, err := intQuery(c, "offset", 0, "INVALID_OFFSET")
		if err != nil {
			return err
		}

		res, err := svc.List(c.UserContext(), callerID(c), f, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateTask creates a task in the project.
//
// @Summary Create task
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param body body createTaskRequest true "Task"
// @Success 200 {object} model.Task
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /projects/{id}/tasks [post]
func CreateTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		var req createTaskRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		t, err := svc.Create(c.UserContext(), callerID(c), projectID, service.TaskInput{
			Title:       req.Title,
			Description: req.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(t)
	}
}

// UpdateTask patches a single task.
//
// @Summary Update task
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param body body updateTaskRequest true "Fields to change"
// @Success 204
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /projects/{projectId}/tasks/{taskId} [patch]
func UpdateTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuidParam(c, "projectId")
		if err != nil {
			return err
		}
		taskID, err := uuidParam(c, "taskId")
		if err != nil {
			return err
		}
		var req updateTaskRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := optionalUUID("userId", req.UserID); err != nil {
			return err
		}
		if err := optionalUUID("linkedTo", req.LinkedTo); err != nil {
			return err
		}
		err = svc.Update(c.UserContext(), callerID(c), projectID, taskID, service.TaskUpdate{
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			UserID:      req.UserID,
			LinkedTo:    req.LinkedTo,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteTasks removes every matching task of the project.
//
// @Summary Delete tasks
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "Project ID"
// @Param status query string false "Filter by status" Enums(todo, in_progress, done)
// @Param userId query string false "Filter by assignee"
// @Param isCreatedByAdmin query bool false "Filter by creator role"
// @Success 200 {object} countResponse
// @Failure 404 {object} errorPayload
// @Router /projects/{id}/tasks [delete]
func DeleteTasks(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		f, err := taskFilter(c, projectID)
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

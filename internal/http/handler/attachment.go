package handler

import (
	"mime"

	"github.com/gofiber/fiber/v2"

	"taskapi/internal/service"
)

// attachmentPath resolves projectId, taskId and, when withID is set, attachmentId.
func attachmentPath(c *fiber.Ctx, withID bool) (projectID, taskID, id string, err error) {
	if projectID, err = uuidParam(c, "projectId"); err != nil {
		return
	}
	if taskID, err = uuidParam(c, "taskId"); err != nil {
		return
	}
	if withID {
		id, err = uuidParam(c, "attachmentId")
	}
	return
}

// UploadAttachment stores a file for a task (multipart/form-data, field name: file).
//
// @Summary Upload attachment
// @Tags attachments
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param file formData file true "File"
// @Success 201 {object} model.Attachment
// @Failure 413 {object} errorPayload
// @Router /projects/{projectId}/tasks/{taskId}/attachments [post]
func UploadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, taskID, _, err := attachmentPath(c, false)
		if err != nil {
			return err
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		a, err := svc.Upload(c.UserContext(), callerID(c), projectID, taskID, service.UploadInput{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// ListAttachments lists the attachments of a task.
//
// @Summary List attachments
// @Tags attachments
// @Security BearerAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {array} model.Attachment
// @Router /projects/{projectId}/tasks/{taskId}/attachments [get]
func ListAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, taskID, _, err := attachmentPath(c, false)
		if err != nil {
			return err
		}
		items, err := svc.List(c.UserContext(), callerID(c), projectID, taskID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// GetAttachment returns attachment metadata with a presigned download URL.
//
// @Summary Get attachment
// @Tags attachments
// @Security BearerAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {object} service.AttachmentDownload
// @Failure 404 {object} errorPayload
// @Router /projects/{projectId}/tasks/{taskId}/attachments/{attachmentId} [get]
func GetAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, taskID, id, err := attachmentPath(c, true)
		if err != nil {
			return err
		}
		d, err := svc.Get(c.UserContext(), callerID(c), projectID, taskID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}

// DownloadAttachment streams the attachment content.
//
// @Summary Download attachment
// @Tags attachments
// @Security BearerAuth
// @Produce octet-stream
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /projects/{projectId}/tasks/{taskId}/attachments/{attachmentId}/content [get]
func DownloadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, taskID, id, err := attachmentPath(c, true)
		if err != nil {
			return err
		}
		rc, a, err := svc.Open(c.UserContext(), callerID(c), projectID, taskID, id)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, a.ContentType)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, int(a.Size))
	}
}

// DeleteAttachment removes an attachment and its stored object.
//
// @Summary Delete attachment
// @Tags attachments
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /projects/{projectId}/tasks/{taskId}/attachments/{attachmentId} [delete]
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, taskID, id, err := attachmentPath(c, true)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), callerID(c), projectID, taskID, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

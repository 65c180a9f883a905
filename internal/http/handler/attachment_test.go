package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskapi/internal/model"
	"taskapi/internal/service"
	serviceMocks "taskapi/internal/service/mocks"
)

func multipartRequest(t *testing.T, target, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, w.WriteField("note", "no file here"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadAttachment(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := newTestApp()
	app.Post("/projects/:projectId/tasks/:taskId/attachments", UploadAttachment(mockSvc))
	projectID, taskID := uuid.NewString(), uuid.NewString()
	target := "/projects/" + projectID + "/tasks/" + taskID + "/attachments"

	t.Run("created", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, testCaller, projectID, taskID, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.Filename == "notes.txt" && in.Size == 5 && in.ContentType == "application/octet-stream"
		})).Return(&model.Attachment{ID: "a1", Filename: "notes.txt", Size: 5}, nil).Once()

		resp, err := app.Test(multipartRequest(t, target, "file", "notes.txt", []byte("hello")))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var a model.Attachment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
		assert.Equal(t, "a1", a.ID)
	})

	t.Run("file missing", func(t *testing.T) {
		resp, err := app.Test(multipartRequest(t, target, "", "", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("too large", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, testCaller, projectID, taskID, mock.Anything).
			Return(nil, service.ErrAttachmentTooLarge).Once()

		resp, err := app.Test(multipartRequest(t, target, "file", "big.bin", []byte("0123456789")))
		require.NoError(t, err)
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Equal(t, "FILE_TOO_LARGE", decodeError(t, resp).Error.Code)
	})

	t.Run("task hidden from caller", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, testCaller, projectID, taskID, mock.Anything).
			Return(nil, service.ErrTaskNotFound).Once()

		resp, err := app.Test(multipartRequest(t, target, "file", "x.txt", []byte("x")))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "TASK_NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestAttachmentReads(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := newTestApp()
	app.Get("/projects/:projectId/tasks/:taskId/attachments", ListAttachments(mockSvc))
	app.Get("/projects/:projectId/tasks/:taskId/attachments/:attachmentId", GetAttachment(mockSvc))
	app.Get("/projects/:projectId/tasks/:taskId/attachments/:attachmentId/content", DownloadAttachment(mockSvc))
	projectID, taskID, id := uuid.NewString(), uuid.NewString(), uuid.NewString()
	base := "/projects/" + projectID + "/tasks/" + taskID + "/attachments"

	t.Run("list", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testCaller, projectID, taskID).
			Return([]model.Attachment{{ID: "a1"}, {ID: "a2"}}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodGet, base, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var items []model.Attachment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		assert.Len(t, items, 2)
	})

	t.Run("get with url", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, testCaller, projectID, taskID, id).
			Return(&service.AttachmentDownload{
				Attachment: model.Attachment{ID: id, Filename: "notes.txt"},
				URL:        "http://minio.local/presigned",
			}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodGet, base+"/"+id, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "http://minio.local/presigned", body["url"])
		assert.Equal(t, "notes.txt", body["filename"])
	})

	t.Run("get missing", func(t *testing.T) {
		other := uuid.NewString()
		mockSvc.On("Get", mock.Anything, testCaller, projectID, taskID, other).
			Return(nil, service.ErrAttachmentNotFound).Once()

		resp, err := app.Test(jsonRequest(http.MethodGet, base+"/"+other, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "ATTACHMENT_NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("download streams content", func(t *testing.T) {
		mockSvc.On("Open", mock.Anything, testCaller, projectID, taskID, id).
			Return(io.NopCloser(strings.NewReader("hello")),
				&model.Attachment{ID: id, Filename: "notes.txt", ContentType: "text/plain", Size: 5}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodGet, base+"/"+id+"/content", ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/plain", resp.Header.Get(fiber.HeaderContentType))
		assert.Equal(t, "attachment; filename=notes.txt", resp.Header.Get(fiber.HeaderContentDisposition))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))
	})

	t.Run("invalid attachment id", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, base+"/abc", ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestDeleteAttachment(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := newTestApp()
	app.Delete("/projects/:projectId/tasks/:taskId/attachments/:attachmentId", DeleteAttachment(mockSvc))
	projectID, taskID, id := uuid.NewString(), uuid.NewString(), uuid.NewString()
	target := "/projects/" + projectID + "/tasks/" + taskID + "/attachments/" + id

	mockSvc.On("Delete", mock.Anything, testCaller, projectID, taskID, id).Return(nil).Once()
	resp, err := app.Test(jsonRequest(http.MethodDelete, target, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	mockSvc.On("Delete", mock.Anything, testCaller, projectID, taskID, id).Return(service.ErrNotProjectMember).Once()
	resp, err = app.Test(jsonRequest(http.MethodDelete, target, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	mockSvc.AssertExpectations(t)
}

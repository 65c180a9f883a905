package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskapi/internal/model"
	"taskapi/internal/repository"
	"taskapi/internal/service"
	serviceMocks "taskapi/internal/service/mocks"
)

func TestListTasks(t *testing.T) {
	mockSvc := new(serviceMocks.MockTaskService)
	app := newTestApp()
	app.Get("/projects/:id/tasks", ListTasks(mockSvc))
	projectID := uuid.NewString()

	t.Run("filters and pagination", func(t *testing.T) {
		status := model.TaskStatusDone
		byAdmin := false
		f := repository.TaskFilter{ProjectID: projectID, Status: &status, IsCreatedByAdmin: &byAdmin}
		mockSvc.On("List", mock.Anything, testCaller, f, 5, 10).
			Return(&service.TaskListResult{Items: []model.Task{{ID: "t1"}}, Total: 11}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodGet,
			"/projects/"+projectID+"/tasks?status=done&isCreatedByAdmin=false&limit=5&offset=10", ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body, "data")
		assert.JSONEq(t, "11", string(body["total"]))
	})

	t.Run("defaults", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testCaller, repository.TaskFilter{ProjectID: projectID}, 10, 0).
			Return(&service.TaskListResult{Items: []model.Task{}}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodGet, "/projects/"+projectID+"/tasks", ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/projects/"+projectID+"/tasks?limit=abc", ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid status", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/projects/"+projectID+"/tasks?status=blocked", ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("invalid flag", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/projects/"+projectID+"/tasks?isCreatedByAdmin=maybe", ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "BAD_REQUEST", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestCreateTask(t *testing.T) {
	mockSvc := new(serviceMocks.MockTaskService)
	app := newTestApp()
	app.Post("/projects/:id/tasks", CreateTask(mockSvc))
	projectID := uuid.NewString()

	t.Run("created", func(t *testing.T) {
		in := service.TaskInput{Title: "Write docs", Description: "all of them"}
		mockSvc.On("Create", mock.Anything, testCaller, projectID, in).
			Return(&model.Task{ID: "t1", Title: "Write docs", IsCreatedByAdmin: true}, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/projects/"+projectID+"/tasks",
			`{"title":"Write docs","description":"all of them"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var task model.Task
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
		assert.True(t, task.IsCreatedByAdmin)
	})

	t.Run("missing title", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/projects/"+projectID+"/tasks", `{"description":"x"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("not a member", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, testCaller, projectID, mock.Anything).Return(nil, service.ErrNotProjectMember).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/projects/"+projectID+"/tasks", `{"title":"x"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestUpdateTask(t *testing.T) {
	mockSvc := new(serviceMocks.MockTaskService)
	app := newTestApp()
	app.Patch("/projects/:projectId/tasks/:taskId", UpdateTask(mockSvc))
	projectID, taskID := uuid.NewString(), uuid.NewString()
	target := "/projects/" + projectID + "/tasks/" + taskID

	t.Run("no content", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testCaller, projectID, taskID, mock.MatchedBy(func(in service.TaskUpdate) bool {
			return in.Status != nil && *in.Status == model.TaskStatusDone && in.UserID == nil && in.Title == nil
		})).Return(nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, target, `{"status":"done"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("user role assigning", func(t *testing.T) {
		assignee := uuid.NewString()
		mockSvc.On("Update", mock.Anything, testCaller, projectID, taskID, mock.MatchedBy(func(in service.TaskUpdate) bool {
			return in.UserID != nil && *in.UserID == assignee
		})).Return(service.ErrCannotAssignTask).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, target, `{"userId":"`+assignee+`"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "CANNOT_ASSIGN_TASK", res.Error.Code)
		assert.Equal(t, "you cannot assign task", res.Error.Message)
	})

	t.Run("missing assignee", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testCaller, projectID, taskID, mock.Anything).Return(service.ErrAssigneeNotFound).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, target, `{"userId":"`+uuid.NewString()+`"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "USER_NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("empty userId unassigns", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testCaller, projectID, taskID, mock.MatchedBy(func(in service.TaskUpdate) bool {
			return in.UserID != nil && *in.UserID == "" && in.LinkedTo == nil
		})).Return(nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, target, `{"userId":""}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("empty linkedTo clears the link", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testCaller, projectID, taskID, mock.MatchedBy(func(in service.TaskUpdate) bool {
			return in.LinkedTo != nil && *in.LinkedTo == "" && in.UserID == nil
		})).Return(nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, target, `{"linkedTo":""}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("user role unassigning", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testCaller, projectID, taskID, mock.MatchedBy(func(in service.TaskUpdate) bool {
			return in.UserID != nil && *in.UserID == ""
		})).Return(service.ErrCannotAssignTask).Once()

		resp, err := app.Test(jsonRequest(http.MethodPatch, target, `{"userId":""}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "CANNOT_ASSIGN_TASK", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed references", func(t *testing.T) {
		for field, body := range map[string]string{
			"userId":   `{"userId":"not-a-uuid"}`,
			"linkedTo": `{"linkedTo":"not-a-uuid"}`,
		} {
			resp, err := app.Test(jsonRequest(http.MethodPatch, target, body))
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			res := decodeError(t, resp)
			assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
			assert.Equal(t, field+" failed on uuid", res.Error.Message)
		}
	})

	t.Run("invalid task id", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPatch, "/projects/"+projectID+"/tasks/nope", `{}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestDeleteTasks(t *testing.T) {
	mockSvc := new(serviceMocks.MockTaskService)
	app := newTestApp()
	app.Delete("/projects/:id/tasks", DeleteTasks(mockSvc))
	projectID, assignee := uuid.NewString(), uuid.NewString()

	f := repository.TaskFilter{ProjectID: projectID, UserID: &assignee}
	mockSvc.On("Delete", mock.Anything, testCaller, f).Return(int64(4), nil).Once()

	resp, err := app.Test(jsonRequest(http.MethodDelete, "/projects/"+projectID+"/tasks?userId="+assignee, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body countResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(4), body.Count)
	mockSvc.AssertExpectations(t)
}

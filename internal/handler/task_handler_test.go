package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/auth"
	apperrors "github.com/FabioRibeiro1904/Task-Manager-Api/internal/errors"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/model"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/repository"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/service"
)

// MockTaskService is a mock implementation of TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) ListTasks(ctx context.Context, userID uint, filter repository.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) ListByStatus(ctx context.Context, userID uint, status model.TaskStatus) ([]model.Task, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	args := m.Called(ctx, taskID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) CreateTask(ctx context.Context, userID uint, input service.CreateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, taskID, userID uint, patch service.UpdateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, taskID, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, taskID, userID uint) (bool, error) {
	args := m.Called(ctx, taskID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskService) CompleteTask(ctx context.Context, taskID, userID uint) (*model.Task, error) {
	args := m.Called(ctx, taskID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Statistics(ctx context.Context, userID uint) (*service.TaskStatistics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskStatistics), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(t *testing.T, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &auth.Claims{UserID: 5})
	return c, rec
}

func TestTaskHandler_GetTasks_ParsesFilter(t *testing.T) {
	mockSvc := new(MockTaskService)
	mockSvc.On("ListTasks", mock.Anything, uint(5), mock.MatchedBy(func(f repository.TaskFilter) bool {
		return f.Status != nil && *f.Status == model.StatusPending &&
			f.Priority != nil && *f.Priority == model.PriorityHigh &&
			f.Search == "jwt" && f.Page == 2 && f.PageSize == 5
	})).Return([]model.Task{}, nil)

	h := NewTaskHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodGet, "/api/tasks?status=0&priority=High&search=jwt&page=2&pageSize=5", "")

	require.NoError(t, h.GetTasks(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestTaskHandler_GetTasks_RejectsBadStatus(t *testing.T) {
	h := NewTaskHandler(new(MockTaskService))
	c, _ := newTestContext(t, http.MethodGet, "/api/tasks?status=nope", "")

	err := h.GetTasks(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestTaskHandler_CreateTask(t *testing.T) {
	mockSvc := new(MockTaskService)
	mockSvc.On("CreateTask", mock.Anything, uint(5), mock.MatchedBy(func(in service.CreateTaskInput) bool {
		return in.Title == "New task" && in.Priority != nil && *in.Priority == model.PriorityHigh
	})).Return(&model.Task{ID: 1, Title: "New task", Status: model.StatusPending, Priority: model.PriorityHigh, UserID: 5}, nil)

	h := NewTaskHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodPost, "/api/tasks", `{"title":"New task","priority":2}`)

	require.NoError(t, h.CreateTask(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, uint(5), got.UserID)
	mockSvc.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_RequiresTitle(t *testing.T) {
	h := NewTaskHandler(new(MockTaskService))
	c, _ := newTestContext(t, http.MethodPost, "/api/tasks", `{"description":"no title"}`)

	err := h.CreateTask(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestTaskHandler_DeleteTask_NotFound(t *testing.T) {
	mockSvc := new(MockTaskService)
	mockSvc.On("DeleteTask", mock.Anything, uint(9), uint(5)).Return(false, nil)

	h := NewTaskHandler(mockSvc)
	c, _ := newTestContext(t, http.MethodDelete, "/api/tasks/9", "")
	c.SetParamNames("id")
	c.SetParamValues("9")

	err := h.DeleteTask(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestTaskHandler_DeleteTask_NoContent(t *testing.T) {
	mockSvc := new(MockTaskService)
	mockSvc.On("DeleteTask", mock.Anything, uint(9), uint(5)).Return(true, nil)

	h := NewTaskHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodDelete, "/api/tasks/9", "")
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.DeleteTask(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTaskHandler_CompleteTask_MapsNotFound(t *testing.T) {
	mockSvc := new(MockTaskService)
	mockSvc.On("CompleteTask", mock.Anything, uint(3), uint(5)).Return(nil, apperrors.ErrTaskNotFound)

	h := NewTaskHandler(mockSvc)
	c, _ := newTestContext(t, http.MethodPatch, "/api/tasks/3/complete", "")
	c.SetParamNames("id")
	c.SetParamValues("3")

	err := h.CompleteTask(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestTaskHandler_GetTasksByStatus_AcceptsName(t *testing.T) {
	mockSvc := new(MockTaskService)
	mockSvc.On("ListByStatus", mock.Anything, uint(5), model.StatusCompleted).Return([]model.Task{}, nil)

	h := NewTaskHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodGet, "/api/tasks/status/Completed", "")
	c.SetParamNames("status")
	c.SetParamValues("Completed")

	require.NoError(t, h.GetTasksByStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestTaskHandler_GetStatistics(t *testing.T) {
	mockSvc := new(MockTaskService)
	mockSvc.On("Statistics", mock.Anything, uint(5)).Return(&service.TaskStatistics{
		TotalTasks:     2,
		CompletedTasks: 1,
		CompletionRate: 50,
	}, nil)

	h := NewTaskHandler(mockSvc)
	c, rec := newTestContext(t, http.MethodGet, "/api/tasks/statistics", "")

	require.NoError(t, h.GetStatistics(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got service.TaskStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(2), got.TotalTasks)
	assert.InDelta(t, 50.0, got.CompletionRate, 0.0001)
}

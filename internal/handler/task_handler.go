package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/auth"
	apperrors "github.com/FabioRibeiro1904/Task-Manager-Api/internal/errors"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/model"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/repository"
	"github.com/FabioRibeiro1904/Task-Manager-Api/internal/service"
)

// TaskHandler handles task endpoints. Every operation is scoped to the
// user identity carried by the verified token.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// TaskCreateRequest represents a task creation request. Any status sent by
// the client is ignored: new tasks always start Pending.
type TaskCreateRequest struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Description *string             `json:"description" validate:"omitempty,max=1000"`
	Priority    *model.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
}

// TaskUpdateRequest represents a partial task update. Absent fields leave
// the stored value untouched.
type TaskUpdateRequest struct {
	Title       *string             `json:"title" validate:"omitempty,max=200"`
	Description *string             `json:"description" validate:"omitempty,max=1000"`
	Status      *model.TaskStatus   `json:"status"`
	Priority    *model.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
}

// TaskFilterRequest represents the optional, conjunctive list filters.
type TaskFilterRequest struct {
	Status      string `query:"status"`
	Priority    string `query:"priority"`
	DueDateFrom string `query:"dueDateFrom"`
	DueDateTo   string `query:"dueDateTo"`
	Search      string `query:"search"`
	Page        int    `query:"page"`
	PageSize    int    `query:"pageSize"`
}

func currentUserID(c echo.Context) (uint, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok || claims == nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims.UserID, nil
}

func (r *TaskFilterRequest) toFilter() (repository.TaskFilter, error) {
	filter := repository.TaskFilter{
		Search:   r.Search,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	if r.Status != "" {
		status, err := model.ParseTaskStatus(r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if r.Priority != "" {
		priority, err := model.ParseTaskPriority(r.Priority)
		if err != nil {
			return filter, err
		}
		filter.Priority = &priority
	}
	if r.DueDateFrom != "" {
		from, err := time.Parse(time.RFC3339, r.DueDateFrom)
		if err != nil {
			return filter, err
		}
		filter.DueDateFrom = &from
	}
	if r.DueDateTo != "" {
		to, err := time.Parse(time.RFC3339, r.DueDateTo)
		if err != nil {
			return filter, err
		}
		filter.DueDateTo = &to
	}
	return filter, nil
}

// GetTasks godoc
// @Summary List tasks matching the given filters
// @Tags tasks
// @Produce json
// @Param status query string false "Status (number or name)"
// @Param priority query string false "Priority (number or name)"
// @Param dueDateFrom query string false "Due date lower bound (RFC3339)"
// @Param dueDateTo query string false "Due date upper bound (RFC3339)"
// @Param search query string false "Substring match on title or description"
// @Param page query int false "Page (1-based, default 1)"
// @Param pageSize query int false "Page size (default 10)"
// @Success 200 {array} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) GetTasks(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req TaskFilterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	filter, err := req.toFilter()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), userID, filter)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, tasks)
}

// GetTask godoc
// @Summary Get a single task by id
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} model.Task
// @Failure 404 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	task, err := h.taskService.GetTask(c.Request().Context(), taskID, userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, task)
}

// CreateTask godoc
// @Summary Create a new task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body TaskCreateRequest true "Task data"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req TaskCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task priority")
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary Partially update an owned task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body TaskUpdateRequest true "Fields to update"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	var req TaskUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Status != nil && !req.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task status")
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task priority")
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), taskID, userID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete an owned task
// @Tags tasks
// @Param id path int true "Task ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	deleted, err := h.taskService.DeleteTask(c.Request().Context(), taskID, userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if !deleted {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrTaskNotFound)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// GetTasksByStatus godoc
// @Summary List all owned tasks in a given status
// @Tags tasks
// @Produce json
// @Param status path string true "Status (number or name)"
// @Success 200 {array} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tasks/status/{status} [get]
func (h *TaskHandler) GetTasksByStatus(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	status, err := model.ParseTaskStatus(c.Param("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tasks, err := h.taskService.ListByStatus(c.Request().Context(), userID, status)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, tasks)
}

// GetStatistics godoc
// @Summary Aggregate statistics over the user's tasks
// @Tags tasks
// @Produce json
// @Success 200 {object} service.TaskStatistics
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tasks/statistics [get]
func (h *TaskHandler) GetStatistics(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.taskService.Statistics(c.Request().Context(), userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, stats)
}

// CompleteTask godoc
// @Summary Mark an owned task as completed
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} model.Task
// @Failure 404 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/complete [patch]
func (h *TaskHandler) CompleteTask(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	task, err := h.taskService.CompleteTask(c.Request().Context(), taskID, userID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, task)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

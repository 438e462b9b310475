package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"taskflow/internal/model"
	"taskflow/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title        string             `json:"title" validate:"required,max=200"`
	Description  string             `json:"description"`
	AssignedToID *uint              `json:"assigned_to_id"`
	Priority     model.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate      time.Time          `json:"due_date" validate:"required"`
}

// UpdateTaskRequest represents a partial task update. Employees may only
// supply status.
type UpdateTaskRequest struct {
	Title        *string             `json:"title" validate:"omitempty,max=200"`
	Description  *string             `json:"description"`
	AssignedToID *uint               `json:"assigned_to_id"`
	Status       *model.TaskStatus   `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority     *model.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate      *time.Time          `json:"due_date"`
}

// List godoc
// @Summary List tasks visible to the caller
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param created_by query int false "Filter by creator (admin only)"
// @Success 200 {array} TaskResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	_, actor := actorFromContext(c)

	in := service.ListTasksInput{
		Status:   model.TaskStatus(c.QueryParam("status")),
		Priority: model.TaskPriority(c.QueryParam("priority")),
	}
	if v := c.QueryParam("created_by"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid created_by")
		}
		creatorID := uint(id)
		in.CreatedByID = &creatorID
	}

	tasks, err := h.taskService.List(c.Request().Context(), actor, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newTaskResponses(tasks))
}

// Create godoc
// @Summary Create a task (admin only)
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, actor := actorFromContext(c)
	task, err := h.taskService.Create(c.Request().Context(), actor, service.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, newTaskResponse(task))
}

// Get godoc
// @Summary Get a task by id
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	_, actor := actorFromContext(c)
	task, err := h.taskService.Get(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}

// Update godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, actor := actorFromContext(c)
	task, err := h.taskService.Update(c.Request().Context(), actor, id, service.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}

// Delete godoc
// @Summary Delete a task (creator admin only)
// @Tags tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	_, actor := actorFromContext(c)
	if err := h.taskService.Delete(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Statistics godoc
// @Summary Task counts scoped to the caller
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TaskStatistics
// @Router /tasks/statistics [get]
func (h *TaskHandler) Statistics(c echo.Context) error {
	_, actor := actorFromContext(c)
	stats, err := h.taskService.Statistics(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

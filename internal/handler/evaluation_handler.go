package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/service"
)

// EvaluationHandler handles task evaluation endpoints.
type EvaluationHandler struct {
	evaluationService service.EvaluationService
}

// NewEvaluationHandler creates a new evaluation handler.
func NewEvaluationHandler(evaluationService service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// CreateEvaluationRequest represents an evaluation creation request.
type CreateEvaluationRequest struct {
	TaskID   uint   `json:"task_id" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// List godoc
// @Summary List evaluations visible to the caller
// @Tags evaluations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} EvaluationResponse
// @Router /tasks/evaluations [get]
func (h *EvaluationHandler) List(c echo.Context) error {
	_, actor := actorFromContext(c)
	evaluations, err := h.evaluationService.List(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}

	out := make([]EvaluationResponse, 0, len(evaluations))
	for i := range evaluations {
		out = append(out, newEvaluationResponse(&evaluations[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary Evaluate a completed task (admin only)
// @Tags evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEvaluationRequest true "Evaluation data"
// @Success 201 {object} EvaluationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/evaluations [post]
func (h *EvaluationHandler) Create(c echo.Context) error {
	var req CreateEvaluationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, actor := actorFromContext(c)
	evaluation, err := h.evaluationService.Create(c.Request().Context(), actor, service.CreateEvaluationInput{
		TaskID:   req.TaskID,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, newEvaluationResponse(evaluation))
}

package handlers

import (
	"errors"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/core/services"
	"transportconnect/internal/pkg/pagination"
	"transportconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EvaluationHandler handles evaluation endpoints
type EvaluationHandler struct {
	evaluationService *services.EvaluationService
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluationService *services.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// Create handles evaluation creation
// @Summary Create evaluation
// @Description Evaluate the counterparty of a delivered request
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateEvaluationInput true "Evaluation data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /evaluations [post]
func (h *EvaluationHandler) Create(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateEvaluationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.RequestID == 0 {
		return response.BadRequest(c, "Request ID is required")
	}
	if input.EvaluatedID == 0 {
		return response.BadRequest(c, "Evaluated user ID is required")
	}

	eval, err := h.evaluationService.Create(c.Context(), user, &input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRating) {
			return response.BadRequest(c, "Rating must be between 1 and 5")
		}
		return domainError(c, err)
	}

	return response.Created(c, "Evaluation created successfully", eval.ToResponse())
}

// Get handles fetching one evaluation
// @Summary Get evaluation
// @Description Get an evaluation by ID
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param id path int true "Evaluation ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /evaluations/{id} [get]
func (h *EvaluationHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid evaluation ID")
	}

	eval, err := h.evaluationService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrEvalNotFound) {
			return response.NotFound(c, "Evaluation not found")
		}
		return domainError(c, err)
	}

	return response.Success(c, "Evaluation retrieved successfully", eval.ToResponse())
}

// ForUser handles listing evaluations received by a user
// @Summary Evaluations of a user
// @Description List evaluations received by a user with their average rating
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /users/{id}/evaluations [get]
func (h *EvaluationHandler) ForUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	params := pagination.GetParams(c)

	out, err := h.evaluationService.ListForUser(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Evaluations retrieved successfully", fiber.Map{
		"evaluations":    evaluationResponses(out.Evaluations),
		"average_rating": out.AverageRating,
		"meta":           pagination.GetMeta(params, out.Total),
	})
}

// Sent handles listing evaluations written by the acting user
// @Summary My sent evaluations
// @Description List evaluations written by the authenticated user
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /evaluations/sent [get]
func (h *EvaluationHandler) Sent(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	evals, total, err := h.evaluationService.ListSent(c.Context(), user, params.Offset, params.Limit)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Evaluations retrieved successfully",
		pagination.NewResponse(evaluationResponses(evals), params, total))
}

// Update handles evaluation edits
// @Summary Update evaluation
// @Description Amend an evaluation within 24 hours (evaluator only)
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Evaluation ID"
// @Param body body services.UpdateEvaluationInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /evaluations/{id} [put]
func (h *EvaluationHandler) Update(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid evaluation ID")
	}

	var input services.UpdateEvaluationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	eval, err := h.evaluationService.Update(c.Context(), user, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEvalNotFound):
			return response.NotFound(c, "Evaluation not found")
		case errors.Is(err, services.ErrInvalidRating):
			return response.BadRequest(c, "Rating must be between 1 and 5")
		case errors.Is(err, services.ErrEvalWindowExpired):
			return response.Conflict(c, "Evaluations can only be edited within 24 hours")
		default:
			return domainError(c, err)
		}
	}

	return response.Success(c, "Evaluation updated successfully", eval.ToResponse())
}

// Delete handles evaluation deletion
// @Summary Delete evaluation
// @Description Delete an evaluation (evaluator or admin)
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Evaluation ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /evaluations/{id} [delete]
func (h *EvaluationHandler) Delete(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid evaluation ID")
	}

	if err := h.evaluationService.Delete(c.Context(), user, id); err != nil {
		if errors.Is(err, services.ErrEvalNotFound) {
			return response.NotFound(c, "Evaluation not found")
		}
		return domainError(c, err)
	}

	return response.Success(c, "Evaluation deleted successfully", nil)
}

func evaluationResponses(evals []*models.Evaluation) []*models.EvaluationResponse {
	out := make([]*models.EvaluationResponse, len(evals))
	for i, e := range evals {
		out[i] = e.ToResponse()
	}
	return out
}

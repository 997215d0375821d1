package handlers

import (
	"errors"
	"strconv"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/core/domain"
	"transportconnect/internal/core/services"
	"transportconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the authenticated user set by the auth middleware.
func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok
}

// parseID parses a numeric path parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// domainError maps shared taxonomy errors to HTTP responses. Handlers fall
// back to it after their own service-specific cases.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrListingNotFound):
		return response.NotFound(c, "Listing not found")
	case errors.Is(err, domain.ErrListingNotActive):
		return response.Conflict(c, "Listing is no longer active")
	case errors.Is(err, domain.ErrRequestNotFound):
		return response.NotFound(c, "Transport request not found")
	case errors.Is(err, domain.ErrDuplicateRequest):
		return response.Conflict(c, "You already have a live request for this listing")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.Conflict(c, "Request is not in a state that allows this action")
	case errors.Is(err, domain.ErrRequestNotDelivered):
		return response.Conflict(c, "Request is not delivered yet")
	case errors.Is(err, domain.ErrNotAParty):
		return response.Forbidden(c, "You are not a party of this request")
	case errors.Is(err, domain.ErrWrongCounterparty):
		return response.BadRequest(c, "Evaluated user is not the other party of this request")
	case errors.Is(err, domain.ErrDuplicateEvaluation):
		return response.Conflict(c, "You already evaluated this request")
	case errors.Is(err, domain.ErrNotificationNotFound):
		return response.NotFound(c, "Notification not found")
	case errors.Is(err, services.ErrUserNotFoundSvc):
		return response.NotFound(c, "User not found")
	default:
		return response.InternalServerError(c, "Something went wrong")
	}
}

package handlers

import (
	"errors"

	"transportconnect/internal/core/services"
	"transportconnect/internal/pkg/pagination"
	"transportconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles platform administration endpoints
type AdminHandler struct {
	userService    *services.UserService
	listingService *services.ListingService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userService *services.UserService, listingService *services.ListingService) *AdminHandler {
	return &AdminHandler{
		userService:    userService,
		listingService: listingService,
	}
}

// ListUsers handles the admin user listing
// @Summary List users
// @Description List all users with pagination (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	out, err := h.userService.ListUsers(c.Context(), &services.ListUsersInput{
		Page:  params.Page,
		Limit: params.Limit,
	})
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Users retrieved successfully", out)
}

// VerifyRequest represents the verify toggle body
type VerifyRequest struct {
	Verified bool `json:"verified"`
}

// VerifyUser handles verifying or unverifying a user
// @Summary Verify user
// @Description Mark a user account verified or unverified (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body VerifyRequest true "Verified flag"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/verify [patch]
func (h *AdminHandler) VerifyUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetVerified(c.Context(), id, req.Verified)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "User verification updated", user)
}

// SuspendRequest represents the suspend toggle body
type SuspendRequest struct {
	Suspended bool `json:"suspended"`
}

// SuspendUser handles suspending or reinstating a user
// @Summary Suspend user
// @Description Suspend or reinstate a user account (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SuspendRequest true "Suspended flag"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/suspend [patch]
func (h *AdminHandler) SuspendUser(c *fiber.Ctx) error {
	admin, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SuspendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetSuspended(c.Context(), id, admin.ID, req.Suspended)
	if err != nil {
		if errors.Is(err, services.ErrCannotSuspendSelf) {
			return response.BadRequest(c, "Cannot suspend your own account")
		}
		return domainError(c, err)
	}

	return response.Success(c, "User suspension updated", user)
}

// DeleteUser handles user deletion
// @Summary Delete user
// @Description Soft delete a user account (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	admin, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(c.Context(), id, admin.ID); err != nil {
		if errors.Is(err, services.ErrCannotDeleteSelf) {
			return response.BadRequest(c, "Cannot delete your own account")
		}
		return domainError(c, err)
	}

	return response.Success(c, "User deleted successfully", nil)
}

// ListListings handles the admin listing overview
// @Summary List all listings
// @Description List listings of any status with pagination (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Listing status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /admin/listings [get]
func (h *AdminHandler) ListListings(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	// Admins see every status unless they filter explicitly
	input := &services.SearchListingsInput{
		DepartureCity:   c.Query("departure_city"),
		DestinationCity: c.Query("destination_city"),
		Status:          c.Query("status"),
		AllStatuses:     true,
		Offset:          params.Offset,
		Limit:           params.Limit,
	}

	listings, total, err := h.listingService.Search(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidListingStatus) {
			return response.BadRequest(c, "Invalid listing status")
		}
		return domainError(c, err)
	}

	return response.Success(c, "Listings retrieved successfully",
		pagination.NewResponse(listingResponses(listings), params, total))
}

// DeleteListing handles admin listing deletion
// @Summary Delete listing (admin)
// @Description Delete any listing (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/listings/{id} [delete]
func (h *AdminHandler) DeleteListing(c *fiber.Ctx) error {
	admin, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID")
	}

	if err := h.listingService.Delete(c.Context(), admin, id); err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Listing deleted successfully", nil)
}

package handlers

import (
	"errors"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/core/domain"
	"transportconnect/internal/core/services"
	"transportconnect/internal/pkg/pagination"
	"transportconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles listing endpoints
type ListingHandler struct {
	listingService *services.ListingService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// Create handles listing creation
// @Summary Create listing
// @Description Create a new trip listing (carrier only)
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateListingInput true "Listing data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /listings [post]
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateListingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.DepartureCity == "" || input.DestinationCity == "" {
		return response.BadRequest(c, "Departure and destination cities are required")
	}
	if input.DepartureDate.IsZero() {
		return response.BadRequest(c, "Departure date is required")
	}
	if input.CapacityKg <= 0 {
		return response.BadRequest(c, "Capacity must be positive")
	}
	if input.Price <= 0 {
		return response.BadRequest(c, "Price must be positive")
	}

	listing, err := h.listingService.Create(c.Context(), user, &input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCargoType) {
			return response.BadRequest(c, "Invalid cargo type")
		}
		return domainError(c, err)
	}

	return response.Created(c, "Listing created successfully", listing.ToResponse())
}

// Search handles the public listing search
// @Summary Search listings
// @Description Search listings by route, cargo type and date
// @Tags Listings
// @Accept json
// @Produce json
// @Param departure_city query string false "Departure city"
// @Param destination_city query string false "Destination city"
// @Param cargo_type query string false "Cargo type"
// @Param departure_date query string false "Departure date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /listings [get]
func (h *ListingHandler) Search(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.SearchListingsInput{
		DepartureCity:   c.Query("departure_city"),
		DestinationCity: c.Query("destination_city"),
		CargoType:       c.Query("cargo_type"),
		DepartureDate:   c.Query("departure_date"),
		Status:          c.Query("status"),
		Offset:          params.Offset,
		Limit:           params.Limit,
	}

	listings, total, err := h.listingService.Search(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCargoType):
			return response.BadRequest(c, "Invalid cargo type")
		case errors.Is(err, services.ErrInvalidListingStatus):
			return response.BadRequest(c, "Invalid listing status")
		default:
			return domainError(c, err)
		}
	}

	return response.Success(c, "Listings retrieved successfully",
		pagination.NewResponse(listingResponses(listings), params, total))
}

// Get handles fetching one listing
// @Summary Get listing
// @Description Get a listing by ID with carrier and waypoints
// @Tags Listings
// @Accept json
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /listings/{id} [get]
func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID")
	}

	listing, err := h.listingService.GetByID(c.Context(), id)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Listing retrieved successfully", listing.ToResponse())
}

// Mine handles listing the carrier's own listings
// @Summary My listings
// @Description List the authenticated carrier's listings
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /listings/mine [get]
func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	listings, err := h.listingService.ListMine(c.Context(), user)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Listings retrieved successfully", listingResponses(listings))
}

// Update handles listing updates
// @Summary Update listing
// @Description Update an active listing's fields (owner only)
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param body body services.UpdateListingInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /listings/{id} [put]
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID")
	}

	var input services.UpdateListingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	listing, err := h.listingService.Update(c.Context(), user, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCargoType):
			return response.BadRequest(c, "Invalid cargo type")
		case errors.Is(err, services.ErrListingNotEditable):
			return response.Conflict(c, "Only active listings can be edited")
		default:
			return domainError(c, err)
		}
	}

	return response.Success(c, "Listing updated successfully", listing.ToResponse())
}

// UpdateStatusRequest represents the status change body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles listing status changes
// @Summary Update listing status
// @Description Set a listing's status (owner only)
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /listings/{id}/status [patch]
func (h *ListingHandler) UpdateStatus(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	listing, err := h.listingService.UpdateStatus(c.Context(), user, id, domain.ListingStatus(req.Status))
	if err != nil {
		if errors.Is(err, services.ErrInvalidListingStatus) {
			return response.BadRequest(c, "Invalid listing status")
		}
		return domainError(c, err)
	}

	return response.Success(c, "Listing status updated", listing.ToResponse())
}

// Delete handles listing deletion
// @Summary Delete listing
// @Description Delete a listing (owner or admin)
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /listings/{id} [delete]
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID")
	}

	if err := h.listingService.Delete(c.Context(), user, id); err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Listing deleted successfully", nil)
}

func listingResponses(listings []*models.Listing) []*models.ListingResponse {
	out := make([]*models.ListingResponse, len(listings))
	for i, l := range listings {
		out[i] = l.ToResponse()
	}
	return out
}

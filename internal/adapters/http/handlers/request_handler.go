package handlers

import (
	"errors"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/core/services"
	"transportconnect/internal/pkg/pagination"
	"transportconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles transport request endpoints
type RequestHandler struct {
	requestService *services.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// Create handles request creation
// @Summary Create transport request
// @Description Create a request against an active listing (shipper only)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateRequestInput true "Request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.ListingID == 0 {
		return response.BadRequest(c, "Listing ID is required")
	}
	if input.PickupAddress == "" || input.DeliveryAddress == "" {
		return response.BadRequest(c, "Pickup and delivery addresses are required")
	}
	if input.Parcel.WeightKg <= 0 {
		return response.BadRequest(c, "Parcel weight must be positive")
	}

	req, err := h.requestService.Create(c.Context(), user, &input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCargoType) {
			return response.BadRequest(c, "Invalid cargo type")
		}
		return domainError(c, err)
	}

	return response.Created(c, "Transport request created successfully", req.ToResponse())
}

// Get handles fetching one request
// @Summary Get transport request
// @Description Get a request by ID (parties or admin)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	req, err := h.requestService.GetByID(c.Context(), user, id)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Request retrieved successfully", req.ToResponse())
}

// Sent handles listing the shipper's own requests
// @Summary My sent requests
// @Description List the authenticated shipper's requests
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /requests/sent [get]
func (h *RequestHandler) Sent(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	requests, err := h.requestService.ListSent(c.Context(), user)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Requests retrieved successfully", requestResponses(requests))
}

// Received handles listing requests against the carrier's listings
// @Summary My received requests
// @Description List requests received on the authenticated carrier's listings
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /requests/received [get]
func (h *RequestHandler) Received(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	requests, err := h.requestService.ListReceived(c.Context(), user)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Requests retrieved successfully", requestResponses(requests))
}

// Update handles request updates
// @Summary Update transport request
// @Description Update a pending request's parcel and addresses (shipper only)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body services.UpdateRequestInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /requests/{id} [put]
func (h *RequestHandler) Update(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	var input services.UpdateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req, err := h.requestService.Update(c.Context(), user, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotEditable):
			return response.Conflict(c, "Only pending requests can be edited")
		case errors.Is(err, services.ErrInvalidCargoType):
			return response.BadRequest(c, "Invalid cargo type")
		default:
			return domainError(c, err)
		}
	}

	return response.Success(c, "Request updated successfully", req.ToResponse())
}

// RespondRequest represents the accept/refuse body
type RespondRequest struct {
	Action string `json:"action"` // accept | refuse
	Reason string `json:"reason"`
}

// Respond handles accepting or refusing a pending request
// @Summary Respond to request
// @Description Accept or refuse a pending request (listing's carrier only)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body RespondRequest true "Response action"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /requests/{id}/respond [post]
func (h *RequestHandler) Respond(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	var body RespondRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var req *models.TransportRequest
	var msg string
	switch body.Action {
	case "accept":
		req, err = h.requestService.Accept(c.Context(), user, id)
		msg = "Request accepted"
	case "refuse":
		req, err = h.requestService.Refuse(c.Context(), user, id, body.Reason)
		msg = "Request refused"
	default:
		return response.BadRequest(c, "Action must be accept or refuse")
	}

	if err != nil {
		if errors.Is(err, services.ErrRefusalReasonRequired) {
			return response.BadRequest(c, "Refusal reason is required")
		}
		return domainError(c, err)
	}

	return response.Success(c, msg, req.ToResponse())
}

// StartTransit handles moving an accepted request to in_transit
// @Summary Start transit
// @Description Mark an accepted request as in transit (carrier only)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /requests/{id}/transit [post]
func (h *RequestHandler) StartTransit(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	req, err := h.requestService.StartTransit(c.Context(), user, id)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Request is now in transit", req.ToResponse())
}

// MarkDelivered handles confirming delivery
// @Summary Mark delivered
// @Description Mark an accepted or in-transit request as delivered (carrier only)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /requests/{id}/deliver [post]
func (h *RequestHandler) MarkDelivered(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	req, err := h.requestService.MarkDelivered(c.Context(), user, id)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Delivery confirmed", req.ToResponse())
}

// ListAll handles the admin request listing
// @Summary List all requests
// @Description List all transport requests with pagination (admin only)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /admin/requests [get]
func (h *RequestHandler) ListAll(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	requests, total, err := h.requestService.ListAll(c.Context(), user, params.Offset, params.Limit)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Requests retrieved successfully",
		pagination.NewResponse(requestResponses(requests), params, total))
}

func requestResponses(requests []*models.TransportRequest) []*models.TransportRequestResponse {
	out := make([]*models.TransportRequestResponse, len(requests))
	for i, r := range requests {
		out[i] = r.ToResponse()
	}
	return out
}

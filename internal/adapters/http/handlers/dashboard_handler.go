package handlers

import (
	"transportconnect/internal/core/domain"
	"transportconnect/internal/core/services"
	"transportconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetAdminDashboard returns admin dashboard data
// @Summary Admin Dashboard
// @Description Get admin dashboard with platform overview (Admin only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get admin dashboard")
	}

	return response.Success(c, "Admin dashboard retrieved successfully", data)
}

// GetCarrierDashboard returns carrier dashboard data
// @Summary Carrier Dashboard
// @Description Get carrier dashboard with listing and request activity (Carrier only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/carrier [get]
func (h *DashboardHandler) GetCarrierDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetCarrierDashboard(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get carrier dashboard")
	}

	return response.Success(c, "Carrier dashboard retrieved successfully", data)
}

// GetShipperDashboard returns shipper dashboard data
// @Summary Shipper Dashboard
// @Description Get shipper dashboard with request status breakdown (Shipper only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/shipper [get]
func (h *DashboardHandler) GetShipperDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.dashboardService.GetShipperDashboard(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get shipper dashboard")
	}

	return response.Success(c, "Shipper dashboard retrieved successfully", data)
}

// GetMyDashboard returns dashboard based on user role
// @Summary My Dashboard
// @Description Get dashboard based on current user's role (auto-detect)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetMyDashboard(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var data interface{}
	var err error

	switch domain.Role(role) {
	case domain.RoleAdmin:
		data, err = h.dashboardService.GetAdminDashboard(c.Context())
	case domain.RoleCarrier:
		data, err = h.dashboardService.GetCarrierDashboard(c.Context(), userID)
	default:
		data, err = h.dashboardService.GetShipperDashboard(c.Context(), userID)
	}

	if err != nil {
		return response.InternalServerError(c, "Failed to get dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", fiber.Map{
		"role": role,
		"data": data,
	})
}

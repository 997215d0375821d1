package middleware

import (
	"strings"

	"transportconnect/internal/core/domain"
	"transportconnect/internal/core/services"
	"transportconnect/internal/pkg/jwt"
	"transportconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware. The user is loaded
// from the database on every request so suspensions and deletions take
// effect immediately, not at token expiry.
func AuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := authService.ValidateAccessToken(accessToken)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		user, err := authService.GetUserByID(c.UserContext(), claims.UserID)
		if err != nil {
			return response.Unauthorized(c, "Invalid access token")
		}
		if user.IsSuspended {
			return response.Forbidden(c, "Account suspended")
		}

		c.Locals("user", user)
		c.Locals("userID", user.ID)
		c.Locals("role", string(user.Role))

		return c.Next()
	}
}

// extractToken reads the access token from the cookie or the
// Authorization header.
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals("user").(domain.Actor)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if err := domain.RequireRole(actor, allowedRoles...); err != nil {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// CarrierOnly middleware allows only the carrier role
func CarrierOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleCarrier)
}

// ShipperOnly middleware allows only the shipper role
func ShipperOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleShipper)
}

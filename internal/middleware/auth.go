package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sopworks/sopdb/internal/config"
	"github.com/sopworks/sopdb/internal/services"
	"github.com/sopworks/sopdb/internal/types"
)

// AuthAdmin validates that the request has admin role authorization
func AuthAdmin(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, []string{"admin"}, "sop.authorization.admin")
	}
}

// AuthUser validates that the request has user role authorization
func AuthUser(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, []string{"user"}, "sop.authorization.user")
	}
}

// authorize resolves the request credential (session cookie or bearer
// token) into an identity and stores it on the context.
func authorize(c *fiber.Ctx, cfg *config.Config, roles []string, errorType string) error {
	if !services.IsAuthInitialized() {
		if err := services.InitAuth(cfg, c.Protocol(), c.Hostname()); err != nil {
			return &types.CustomError{
				Code:    fiber.StatusServiceUnavailable,
				Message: fmt.Sprintf("Auth initialization failed: %v", err),
				Type:    errorType,
			}
		}
	}

	cookie := c.Cookies("cookie_session")
	bearer := bearerToken(c)
	if cookie == "" && bearer == "" {
		return &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "No session cookie or bearer token on request",
			Type:    errorType,
		}
	}

	ident, err := services.ResolveIdentity(cookie, bearer, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid credential: %v", err),
			Type:    errorType,
		}
	}

	c.Locals("identity", ident)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

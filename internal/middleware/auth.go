package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/types"
)

// userKey is the Locals key holding the verified *services.Claims
const userKey = "user"

var (
	errMissingToken = &types.AppError{Kind: types.KindUnauthorized, Message: "missing bearer token"}
	errInvalidToken = &types.AppError{Kind: types.KindUnauthorized, Message: "invalid or expired token"}
	errNotAdmin     = &types.AppError{Kind: types.KindForbidden, Message: "admin role required"}
)

// AuthAdmin validates that the request carries a token with the admin role
func AuthAdmin(issuer *services.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, issuer, []string{models.RoleAdmin})
	}
}

// AuthUser validates that the request carries a valid token of any role
func AuthUser(issuer *services.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, issuer, nil)
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, issuer *services.TokenIssuer, roles []string) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return errMissingToken
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		return errInvalidToken
	}

	if len(roles) > 0 && !hasRole(claims.Role, roles) {
		return errNotAdmin
	}

	// Set user data in context
	c.Locals(userKey, claims)

	return c.Next()
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentUser returns the verified claims of the caller, or nil outside an authorized route
func CurrentUser(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(userKey).(*services.Claims)
	return claims
}

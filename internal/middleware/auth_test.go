package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/utils"
)

const testUserID = "5b0c7c8e-2f1d-4a8e-9d3f-6a1b2c3d4e5f"

func newAuthApp(issuer *services.TokenIssuer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	whoami := func(c *fiber.Ctx) error {
		claims := CurrentUser(c)
		if claims == nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(claims.ID + " " + claims.Role)
	}
	app.Get("/user", AuthUser(issuer), whoami)
	app.Get("/admin", AuthAdmin(issuer), whoami)
	return app
}

func TestAuthorize(t *testing.T) {
	issuer := services.NewTokenIssuer("middleware-secret", time.Hour)
	app := newAuthApp(issuer)

	sign := func(role string) string {
		token, _, err := issuer.Issue(&models.Credential{UserID: testUserID, Email: "a@example.com", Role: role})
		if err != nil {
			t.Fatalf("Failed to issue token: %v", err)
		}
		return "Bearer " + token
	}
	expired, _, _ := services.NewTokenIssuer("middleware-secret", -time.Minute).
		Issue(&models.Credential{UserID: testUserID, Role: models.RoleAdmin})

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"user token on user route", "/user", sign(models.RoleUser), fiber.StatusOK},
		{"admin token on user route", "/user", sign(models.RoleAdmin), fiber.StatusOK},
		{"admin token on admin route", "/admin", sign(models.RoleAdmin), fiber.StatusOK},
		{"user token on admin route", "/admin", sign(models.RoleUser), fiber.StatusForbidden},
		{"no header", "/user", "", fiber.StatusUnauthorized},
		{"wrong scheme", "/user", "Basic abc", fiber.StatusUnauthorized},
		{"empty bearer", "/user", "Bearer ", fiber.StatusUnauthorized},
		{"expired token", "/admin", "Bearer " + expired, fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Failed to execute request: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/barrio/internal/config"
	"github.com/localnerve/barrio/internal/mail"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/utils"
	"github.com/localnerve/barrio/tests/helpers"
	"github.com/prometheus/client_golang/prometheus"
)

func setupServer(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		DBType:              "sqlite",
		DBDatabase:          ":memory:",
		JWTSecret:           "routes-test-secret",
		JWTTTL:              time.Hour,
		VerificationCodeTTL: time.Hour,
		TransportTimeout:    time.Second,
	}
	return newApp(cfg, helpers.OpenTestDB(t), nil, mail.LogSender{}, prometheus.NewRegistry())
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute %s %s: %v", method, path, err)
	}
	return resp
}

func TestNotFoundEnvelope(t *testing.T) {
	app := setupServer(t)
	env := helpers.AssertEnvelope(t, call(t, app, "GET", "/api/nothing-here", "", nil), fiber.StatusNotFound, utils.CodeError)
	if env.Info != "[404] Resource Not Found: /api/nothing-here" {
		t.Errorf("Unexpected info %q", env.Info)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupServer(t)
	protected := []struct{ method, path string }{
		{"POST", "/api/posts"},
		{"POST", "/api/follow"},
		{"POST", "/api/create_likes"},
		{"POST", "/api/notifications"},
		{"POST", "/api/admin/reconcile"},
		{"DELETE", "/api/categories/00000000-0000-0000-0000-000000000000"},
	}
	for _, r := range protected {
		helpers.AssertEnvelope(t, call(t, app, r.method, r.path, "", nil), fiber.StatusUnauthorized, utils.CodeError)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupServer(t)

	env := helpers.AssertEnvelope(t, call(t, app, "GET", "/api/health", "", nil), fiber.StatusOK, utils.CodeOK)
	var health services.HealthCheckResult
	helpers.DecodeResult(t, env, &health)
	if health.Status != "healthy" || health.Mailer != "disabled" {
		t.Errorf("Unexpected health %+v", health)
	}

	resp := call(t, app, "GET", "/metrics", "", nil)
	helpers.AssertStatus(t, resp, fiber.StatusOK)
}

func TestRegisterLoginFollow(t *testing.T) {
	app := setupServer(t)

	var ids []string
	var tokens []string
	for _, name := range []string{"ana", "beto"} {
		env := helpers.AssertEnvelope(t, call(t, app, "POST", "/api/create_users", "", map[string]string{
			"email": name + "@example.com", "password": "correct-horse", "username": name,
		}), fiber.StatusCreated, utils.CodeOK)
		var user struct {
			ID string `json:"id"`
		}
		helpers.DecodeResult(t, env, &user)

		env = helpers.AssertEnvelope(t, call(t, app, "POST", "/api/login", "", map[string]string{
			"email": name + "@example.com", "password": "correct-horse",
		}), fiber.StatusOK, utils.CodeOK)
		var login services.LoginResult
		helpers.DecodeResult(t, env, &login)

		ids = append(ids, user.ID)
		tokens = append(tokens, login.Token)
	}

	helpers.AssertEnvelope(t, call(t, app, "POST", "/api/follow", tokens[0], map[string]string{"userId": ids[1]}),
		fiber.StatusCreated, utils.CodeOK)

	env := helpers.AssertEnvelope(t, call(t, app, "POST", "/api/following", tokens[0], nil), fiber.StatusOK, utils.CodeOK)
	var following []struct {
		ID string `json:"id"`
	}
	helpers.DecodeResult(t, env, &following)
	if len(following) != 1 || following[0].ID != ids[1] {
		t.Errorf("Expected ana to follow beto, got %+v", following)
	}

	// Reconcile is admin only
	helpers.AssertEnvelope(t, call(t, app, "POST", "/api/admin/reconcile", tokens[0], nil), fiber.StatusForbidden, utils.CodeError)
}

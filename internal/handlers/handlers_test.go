package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/barrio/internal/handlers"
	"github.com/localnerve/barrio/internal/middleware"
	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/utils"
	"github.com/localnerve/barrio/tests/helpers"
	"gorm.io/gorm"
)

type testApp struct {
	app    *fiber.App
	db     *gorm.DB
	issuer *services.TokenIssuer
}

// setupApp wires a subset of the routes against an in-memory database
func setupApp(t *testing.T) *testApp {
	t.Helper()
	db := helpers.OpenTestDB(t)
	issuer := services.NewTokenIssuer("handler-test-secret", time.Hour)
	notifier := services.NewDispatcher(db, nil, time.Second)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	api := app.Group("/api", middleware.VersionMiddleware())
	authUser := middleware.AuthUser(issuer)
	authAdmin := middleware.AuthAdmin(issuer)

	authHandler := &handlers.AuthHandler{DB: db, Issuer: issuer, Codes: &services.CodeMailer{TTL: time.Hour}}
	graphHandler := &handlers.GraphHandler{DB: db, Notifier: notifier}
	likeHandler := &handlers.LikeHandler{DB: db, Notifier: notifier}
	postHandler := &handlers.PostHandler{DB: db, Notifier: notifier}
	categoryHandler := &handlers.CategoryHandler{DB: db}

	api.Post("/create_users", authHandler.CreateUser)
	api.Post("/login", authHandler.Login)
	api.Get("/categories/:id", categoryHandler.GetCategory)
	api.Post("/categories/create", authAdmin, categoryHandler.CreateCategory)
	api.Post("/follow", authUser, graphHandler.Follow)
	api.Post("/unfollow", authUser, graphHandler.Unfollow)
	api.Post("/followers", authUser, graphHandler.Followers)
	api.Post("/create_likes", authUser, likeHandler.CreateLike)
	api.Post("/likes/delete", authUser, likeHandler.DeleteLike)
	api.Post("/posts", authUser, postHandler.Feed)

	return &testApp{app: app, db: db, issuer: issuer}
}

// tokenFor issues a bearer token for user with the given role
func (ta *testApp) tokenFor(t *testing.T, user *models.User, role string) string {
	t.Helper()
	token, _, err := ta.issuer.Issue(&models.Credential{UserID: user.ID, Email: user.Username + "@example.com", Role: role})
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

func (ta *testApp) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	return resp
}

func TestFollowEnvelope(t *testing.T) {
	ta := setupApp(t)
	a := helpers.CreateTestUser(t, ta.db, "ana", nil)
	b := helpers.CreateTestUser(t, ta.db, "beto", nil)
	token := ta.tokenFor(t, a, models.RoleUser)

	env := helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/follow", token, map[string]string{"userId": b.ID}),
		fiber.StatusCreated, utils.CodeOK)
	var result handlers.FollowResult
	helpers.DecodeResult(t, env, &result)
	if result.Follow == nil || result.Follow.FollowedID != b.ID {
		t.Errorf("Unexpected follow result %+v", result)
	}
	if result.Notification == nil || result.Notification.Recipients != 1 {
		t.Errorf("Expected a notification report for the followed user, got %+v", result.Notification)
	}

	env = helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/follow", token, map[string]string{"fk_followed": b.ID}),
		fiber.StatusBadRequest, utils.CodeError)
	if env.Info != "already following this user" {
		t.Errorf("Unexpected info %q", env.Info)
	}

	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/follow", token, map[string]string{"userId": a.ID}),
		fiber.StatusBadRequest, utils.CodeError)
	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/follow", token, map[string]string{"userId": "nope"}),
		fiber.StatusBadRequest, utils.CodeError)

	env = helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/followers", token, map[string]string{"userId": b.ID}),
		fiber.StatusOK, utils.CodeOK)
	var followers []models.UserSummary
	helpers.DecodeResult(t, env, &followers)
	if len(followers) != 1 || followers[0].ID != a.ID {
		t.Errorf("Expected ana as the only follower, got %+v", followers)
	}

	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/unfollow", token, map[string]string{"userId": b.ID}),
		fiber.StatusOK, utils.CodeOK)
	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/unfollow", token, map[string]string{"userId": b.ID}),
		fiber.StatusNotFound, utils.CodeError)
}

func TestLikeEnvelope(t *testing.T) {
	ta := setupApp(t)
	place := helpers.CreateTestPlace(t, ta.db, "Pichincha", "Quito")
	author := helpers.CreateTestUser(t, ta.db, "author", &place)
	liker := helpers.CreateTestUser(t, ta.db, "liker", nil)
	post := helpers.CreateTestPost(t, ta.db, author, "minga", models.PostTypeRecommendation, place)
	token := ta.tokenFor(t, liker, models.RoleUser)

	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/create_likes", token, map[string]string{"fk_post": post.ID}),
		fiber.StatusCreated, utils.CodeOK)
	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/create_likes", token, map[string]string{"postId": post.ID}),
		fiber.StatusBadRequest, utils.CodeError)
	if n := helpers.ReloadPost(t, ta.db, post.ID).LikesCount; n != 1 {
		t.Errorf("Expected likesCount 1, got %d", n)
	}

	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/likes/delete", token, map[string]string{"postId": post.ID}),
		fiber.StatusOK, utils.CodeOK)
	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/likes/delete", token, map[string]string{"postId": post.ID}),
		fiber.StatusNotFound, utils.CodeError)
}

func TestFeedEnvelope(t *testing.T) {
	ta := setupApp(t)
	place := helpers.CreateTestPlace(t, ta.db, "Pichincha", "Quito")
	reader := helpers.CreateTestUser(t, ta.db, "reader", &place)
	homeless := helpers.CreateTestUser(t, ta.db, "homeless", nil)
	helpers.CreateTestPost(t, ta.db, reader, "uno", models.PostTypeIncident, place)
	helpers.CreateTestPost(t, ta.db, reader, "dos", models.PostTypeCommerce, place)

	env := helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/posts?limit=1", ta.tokenFor(t, reader, models.RoleUser), nil),
		fiber.StatusOK, utils.CodeOK)
	var posts []models.Post
	helpers.DecodeResult(t, env, &posts)
	if len(posts) != 1 || posts[0].Name != "dos" {
		t.Errorf("Expected the newest post only, got %+v", posts)
	}

	env = helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/posts", ta.tokenFor(t, homeless, models.RoleUser), nil),
		fiber.StatusBadRequest, utils.CodeError)
	if env.Info != "user has no associated location" {
		t.Errorf("Unexpected info %q", env.Info)
	}
}

func TestAuthorization(t *testing.T) {
	ta := setupApp(t)
	user := helpers.CreateTestUser(t, ta.db, "user", nil)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"missing token", "/api/posts", "", fiber.StatusUnauthorized},
		{"garbage token", "/api/posts", "not-a-jwt", fiber.StatusUnauthorized},
		{"foreign token", "/api/posts", func() string {
			tok, _, _ := services.NewTokenIssuer("other", time.Hour).Issue(&models.Credential{UserID: user.ID, Role: models.RoleUser})
			return tok
		}(), fiber.StatusUnauthorized},
		{"user on admin route", "/api/categories/create", ta.tokenFor(t, user, models.RoleUser), fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			helpers.AssertEnvelope(t, ta.do(t, "POST", tt.path, tt.token, map[string]string{"name": "x"}),
				tt.status, utils.CodeError)
		})
	}

	env := helpers.AssertEnvelope(t,
		ta.do(t, "POST", "/api/categories/create", ta.tokenFor(t, user, models.RoleAdmin), map[string]string{"name": "Pichincha"}),
		fiber.StatusCreated, utils.CodeOK)
	var category models.Category
	helpers.DecodeResult(t, env, &category)

	helpers.AssertEnvelope(t, ta.do(t, "GET", "/api/categories/"+category.ID, "", nil), fiber.StatusOK, utils.CodeOK)
	helpers.AssertEnvelope(t, ta.do(t, "GET", "/api/categories/00000000-0000-0000-0000-000000000000", "", nil),
		fiber.StatusNotFound, utils.CodeError)
}

func TestRegisterAndLoginEnvelope(t *testing.T) {
	ta := setupApp(t)

	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/create_users", "", map[string]string{
		"email": "ana@example.com", "password": "correct-horse", "username": "ana",
	}), fiber.StatusCreated, utils.CodeOK)
	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/create_users", "", map[string]string{
		"email": "ana@example.com", "password": "correct-horse", "username": "ana2",
	}), fiber.StatusBadRequest, utils.CodeError)

	env := helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/login", "", handlers.LoginRequest{
		Email: "ana@example.com", Password: "correct-horse",
	}), fiber.StatusOK, utils.CodeOK)
	var login services.LoginResult
	helpers.DecodeResult(t, env, &login)
	if login.Token == "" || login.User == nil || login.User.Username != "ana" {
		t.Fatalf("Unexpected login result %+v", login)
	}
	if _, err := ta.issuer.Parse(login.Token); err != nil {
		t.Errorf("Expected a valid token, got %v", err)
	}

	helpers.AssertEnvelope(t, ta.do(t, "POST", "/api/login", "", handlers.LoginRequest{
		Email: "ana@example.com", Password: "wrong-horse",
	}), fiber.StatusUnauthorized, utils.CodeError)
}

func TestMalformedBody(t *testing.T) {
	ta := setupApp(t)
	user := helpers.CreateTestUser(t, ta.db, "user", nil)

	req := httptest.NewRequest("POST", "/api/follow", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ta.tokenFor(t, user, models.RoleUser))
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	env := helpers.AssertEnvelope(t, resp, fiber.StatusBadRequest, utils.CodeError)
	if env.Info != "malformed request body" {
		t.Errorf("Unexpected info %q", env.Info)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	ta := setupApp(t)
	req := httptest.NewRequest("GET", "/api/categories/00000000-0000-0000-0000-000000000000", nil)
	req.Header.Set("X-Api-Version", "2.0")
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertEnvelope(t, resp, fiber.StatusBadRequest, utils.CodeError)
}

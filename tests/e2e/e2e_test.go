// e2e_test.go
//
// A neighborhood social network data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of barrio.
// barrio is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// barrio is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with barrio.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/localnerve/barrio/internal/config"
	"github.com/localnerve/barrio/internal/database"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/utils"
	"github.com/localnerve/barrio/tests/helpers"
	"gorm.io/gorm"
)

// TestE2EWithFullStack tests the entire service stack
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	ctx := context.Background()

	tc, err := helpers.CreateAllTestContainers(t)
	if err != nil {
		t.Fatalf("Failed to start test containers: %v", err)
	}
	defer tc.Terminate(t)

	barrioHost, _ := tc.BarrioContainer.Host(ctx)
	barrioPort, _ := tc.BarrioContainer.MappedPort(ctx, "3000")
	baseURL := fmt.Sprintf("http://%s:%s", barrioHost, barrioPort.Port())

	// Wait a bit for everything to stabilize
	time.Sleep(5 * time.Second)

	db := connect(t, tc)
	defer database.Close(db)

	// Run E2E tests
	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, tc, db)
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		testPrometheusMetrics(t, baseURL)
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		testSwaggerUI(t, baseURL)
	})

	// Public API Access
	t.Run("PublicAPIAccess", func(t *testing.T) {
		testPublicAPIAccess(t, baseURL)
	})

	t.Run("FollowAndFeed", func(t *testing.T) {
		testFollowAndFeed(t, baseURL, db)
	})
}

// connect opens the test process's own connection to the container database
func connect(t *testing.T, tc *helpers.TestContainers) *gorm.DB {
	// We need to point to the mapped ports on localhost, not internal container names
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	cfg.DBHost = tc.DBHost
	cfg.DBPort = tc.DBPort

	gormDB, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return gormDB
}

func testHealthCheck(t *testing.T, tc *helpers.TestContainers, db *gorm.DB) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	cfg.DBHost = tc.DBHost
	cfg.DBPort = tc.DBPort

	result := services.HealthCheck(cfg, db)

	if result.Status == "unhealthy" {
		t.Errorf("Health check failed: %+v", result)
	}

	t.Logf("Health check passed: status=%s, database=%s, mailer=%s",
		result.Status, result.Database, result.Mailer)
}

func testPrometheusMetrics(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for metrics, got %d. Body: %s", resp.StatusCode, bodyStr)
	}

	if !strings.Contains(bodyStr, "go_goroutines") {
		t.Errorf("Expected go_goroutines metric")
	}

	t.Logf("Metrics endpoint working, found %d bytes of metrics", len(bodyStr))
}

func testSwaggerUI(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/swagger/index.html")
	if err != nil {
		t.Fatalf("Failed to get Swagger UI: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for Swagger UI, got %d", resp.StatusCode)
	}
}

func testPublicAPIAccess(t *testing.T, baseURL string) {
	// Public category listing works without a token
	resp, err := http.Get(baseURL + "/api/categories")
	if err != nil {
		t.Fatalf("Failed to access public API: %v", err)
	}
	helpers.AssertEnvelope(t, resp, http.StatusOK, utils.CodeOK)

	// Unknown routes answer with an error envelope
	resp, err = http.Get(baseURL + "/api/nothing/here")
	if err != nil {
		t.Fatalf("Failed to access public API: %v", err)
	}
	helpers.AssertEnvelope(t, resp, http.StatusNotFound, utils.CodeError)

	// Protected routes need a token
	resp, err = http.Post(baseURL+"/api/posts", "application/json", nil)
	if err != nil {
		t.Fatalf("Failed to access protected API: %v", err)
	}
	helpers.AssertEnvelope(t, resp, http.StatusUnauthorized, utils.CodeError)
}

func call(t *testing.T, baseURL, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

// testFollowAndFeed registers two users, makes one follow the other and reads the feed
func testFollowAndFeed(t *testing.T, baseURL string, db *gorm.DB) {
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	adminEmail := "admin-" + suffix + "@example.com"
	adminPassword := helpers.GeneratePassword()
	helpers.AcquireAccount(t, baseURL, "admin"+suffix, adminEmail, adminPassword)
	helpers.PromoteToAdmin(t, db, adminEmail)
	admin := helpers.AcquireAccount(t, baseURL, "admin"+suffix, adminEmail, adminPassword)

	// Province and city
	resp := call(t, baseURL, "POST", "/api/categories/create", admin.Token, map[string]string{"name": "Pichincha"})
	env := helpers.AssertEnvelope(t, resp, http.StatusCreated, utils.CodeOK)
	var province struct{ ID string }
	helpers.DecodeResult(t, env, &province)

	resp = call(t, baseURL, "POST", "/api/categories/create", admin.Token, map[string]string{"name": "Quito", "parentId": province.ID})
	env = helpers.AssertEnvelope(t, resp, http.StatusCreated, utils.CodeOK)
	var city struct{ ID string }
	helpers.DecodeResult(t, env, &city)

	location := map[string]string{
		"mainStreet":      "Av. 10 de Agosto",
		"secondaryStreet": "Riofrio",
		"cityId":          city.ID,
		"provinceId":      province.ID,
	}

	author := helpers.AcquireAccount(t, baseURL, "author"+suffix, "author-"+suffix+"@example.com", helpers.GeneratePassword())
	reader := helpers.AcquireAccount(t, baseURL, "reader"+suffix, "reader-"+suffix+"@example.com", helpers.GeneratePassword())

	resp = call(t, baseURL, "POST", "/api/users/update", reader.Token, map[string]interface{}{"location": location})
	helpers.AssertEnvelope(t, resp, http.StatusOK, utils.CodeOK)

	resp = call(t, baseURL, "POST", "/api/follow", reader.Token, map[string]string{"userId": author.UserID})
	helpers.AssertEnvelope(t, resp, http.StatusCreated, utils.CodeOK)

	// A second follow of the same pair is refused
	resp = call(t, baseURL, "POST", "/api/follow", reader.Token, map[string]string{"userId": author.UserID})
	helpers.AssertEnvelope(t, resp, http.StatusBadRequest, utils.CodeError)

	resp = call(t, baseURL, "POST", "/api/postscreate", author.Token, map[string]interface{}{
		"name":        "Corte de agua",
		"description": "Sin agua hasta las 18h00",
		"postType":    "water_outage",
		"location":    location,
	})
	env = helpers.AssertEnvelope(t, resp, http.StatusCreated, utils.CodeOK)
	var created struct {
		Post         struct{ ID string } `json:"post"`
		Notification struct {
			Recipients int `json:"recipients"`
		} `json:"notification"`
	}
	helpers.DecodeResult(t, env, &created)
	if created.Notification.Recipients != 1 {
		t.Errorf("Expected the post to notify 1 follower, got %d", created.Notification.Recipients)
	}

	resp = call(t, baseURL, "POST", "/api/posts", reader.Token, nil)
	env = helpers.AssertEnvelope(t, resp, http.StatusOK, utils.CodeOK)
	var feed []struct{ ID string }
	helpers.DecodeResult(t, env, &feed)
	if len(feed) != 1 || feed[0].ID != created.Post.ID {
		t.Errorf("Expected the new post in the feed, got %+v", feed)
	}

	if os.Getenv("DEBUG_CONTAINER") == "true" {
		t.Logf("author=%s reader=%s post=%s", author.UserID, reader.UserID, created.Post.ID)
	}
}

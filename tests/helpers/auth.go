package helpers

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/localnerve/barrio/internal/models"
	"gorm.io/gorm"
)

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GeneratePassword generates a 10 character password with a capital and special char
func GeneratePassword() string {
	const (
		lower   = "abcdefghijklmnopqrstuvwxyz"
		upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		special = "!@#$%^&*"
		numbers = "0123456789"
		all     = lower + upper + special + numbers
	)

	password := make([]byte, 10)
	password[0] = upper[randInt(len(upper))]
	password[1] = special[randInt(len(special))]
	password[2] = numbers[randInt(len(numbers))]

	for i := 3; i < 10; i++ {
		password[i] = all[randInt(len(all))]
	}

	for i := range password {
		j := randInt(len(password))
		password[i], password[j] = password[j], password[i]
	}

	return string(password)
}

// Account is a registered user with a bearer token
type Account struct {
	UserID string
	Email  string
	Token  string
}

func postJSON(t *testing.T, client *http.Client, url string, body interface{}, target interface{}) int {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to encode request: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	ParseJSON(t, resp, target)
	return resp.StatusCode
}

// AcquireAccount registers a user against a running service and logs in to get a token.
// A registration conflict is ignored so the account can be reused across runs.
func AcquireAccount(t *testing.T, baseURL, username, email, password string) Account {
	t.Helper()
	client := &http.Client{Timeout: 10 * time.Second}

	var created EnvelopeOf
	status := postJSON(t, client, baseURL+"/api/create_users", map[string]string{
		"email":    email,
		"password": password,
		"username": username,
	}, &created)
	if status != http.StatusCreated {
		t.Logf("Signup failed (might already exist): %d %s", status, created.Info)
	}

	var login EnvelopeOf
	status = postJSON(t, client, baseURL+"/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &login)
	if status != http.StatusOK {
		t.Fatalf("Login failed: %d %s", status, login.Info)
	}

	var result struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	DecodeResult(t, login, &result)
	if result.Token == "" {
		t.Fatal("Access token is empty")
	}

	return Account{UserID: result.User.ID, Email: email, Token: result.Token}
}

// PromoteToAdmin grants the admin role to the credential of email. Tokens issued before the
// promotion keep the old role.
func PromoteToAdmin(t *testing.T, db *gorm.DB, email string) {
	t.Helper()
	res := db.Model(&models.Credential{}).Where("email = ?", email).Update("role", models.RoleAdmin)
	if res.Error != nil {
		t.Fatalf("Failed to promote %s: %v", email, res.Error)
	}
	if res.RowsAffected == 0 {
		t.Fatalf("No credential for %s", email)
	}
}

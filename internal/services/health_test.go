package services

import (
	"errors"
	"testing"

	"github.com/localnerve/barrio/internal/config"
	"github.com/localnerve/barrio/tests/helpers"
)

func TestHealthCheck(t *testing.T) {
	db := helpers.OpenTestDB(t)
	original := pingMailer
	t.Cleanup(func() { pingMailer = original })

	tests := []struct {
		name       string
		cfg        config.Config
		ping       error
		wantStatus string
		wantMailer string
	}{
		{"mail disabled", config.Config{DBType: "sqlite"}, nil, "healthy", "disabled"},
		{"mail ok", config.Config{DBType: "sqlite", MailjetPublicKey: "pub", MailjetPrivateKey: "priv"}, nil, "healthy", "ok"},
		{"mail down", config.Config{DBType: "sqlite", MailjetPublicKey: "pub", MailjetPrivateKey: "priv"}, errors.New("refused"), "degraded", "unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pingMailer = func(string) error { return tt.ping }
			result := HealthCheck(&tt.cfg, db)
			if result.Status != tt.wantStatus || result.Mailer != tt.wantMailer {
				t.Errorf("Expected %s/%s, got %s/%s", tt.wantStatus, tt.wantMailer, result.Status, result.Mailer)
			}
			if result.Database != "ok" || result.Push != "disabled" {
				t.Errorf("Unexpected result %+v", result)
			}
		})
	}
}

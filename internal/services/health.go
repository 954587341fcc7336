package services

import (
	"fmt"
	"log"

	"github.com/localnerve/barrio/internal/config"
	"github.com/localnerve/barrio/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Mailer       string            `json:"mailer"`
	Push         string            `json:"push"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// pingMailer is replaced in tests
var pingMailer = utils.PingMailer

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
	} else {
		if err := sqlDB.Ping(); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			log.Printf("Health check failed - database ping: %v", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Mail delivery is best effort, so an unreachable API degrades rather than fails
	if !cfg.MailEnabled() {
		result.Mailer = "disabled"
	} else if err := pingMailer(cfg.MailjetAPIURL); err != nil {
		if result.Status == "healthy" {
			result.Status = "degraded"
		}
		result.Mailer = "unreachable"
		result.Details["mailer_error"] = err.Error()
		log.Printf("Health check degraded - mailer ping: %v", err)
	} else {
		result.Mailer = "ok"
		result.Details["mailer_url"] = cfg.MailjetAPIURL
	}

	if cfg.PushEnabled() {
		result.Push = "configured"
	} else {
		result.Push = "disabled"
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}

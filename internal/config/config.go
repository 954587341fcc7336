package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DBType            string // mysql, mariadb, postgres, sqlite, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string // silent, error, warn, info

	// Token configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Verification codes (password reset, email verification)
	VerificationCodeTTL time.Duration

	// Outbound transports (push, mail) share one bounded timeout
	TransportTimeout time.Duration

	// Firebase Cloud Messaging
	FirebaseCredentialsFile string
	FirebaseProjectID       string

	// Mailjet
	MailjetAPIURL     string
	MailjetPublicKey  string
	MailjetPrivateKey string
	MailFromEmail     string
	MailFromName      string
}

// Load loads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "3000"),
		DBType:                  getEnv("DB_TYPE", "mysql"),
		DBHost:                  getEnv("DB_HOST", "localhost"),
		DBPort:                  getEnv("DB_PORT", "3306"),
		DBDatabase:              getEnv("DB_DATABASE", ""),
		DBUser:                  getEnv("DB_USER", ""),
		DBPassword:              getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:       getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		DBLogLevel:              getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		JWTTTL:                  getEnvAsDuration("JWT_TTL", 24*time.Hour),
		VerificationCodeTTL:     getEnvAsDuration("VERIFICATION_CODE_TTL", time.Hour),
		TransportTimeout:        getEnvAsDuration("TRANSPORT_TIMEOUT", 5*time.Second),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		MailjetAPIURL:           getEnv("MAILJET_API_URL", "https://api.mailjet.com"),
		MailjetPublicKey:        getEnv("MAILJET_PUBLIC_KEY", ""),
		MailjetPrivateKey:       getEnv("MAILJET_PRIVATE_KEY", ""),
		MailFromEmail:           getEnv("MAIL_FROM_EMAIL", ""),
		MailFromName:            getEnv("MAIL_FROM_NAME", "Barrio"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the required fields
func (cfg *Config) Validate() error {
	if cfg.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MailjetPublicKey != "" && cfg.MailFromEmail == "" {
		return fmt.Errorf("MAIL_FROM_EMAIL is required when Mailjet is configured")
	}
	return nil
}

// PushEnabled reports whether Firebase credentials are configured
func (cfg *Config) PushEnabled() bool {
	return cfg.FirebaseCredentialsFile != ""
}

// MailEnabled reports whether Mailjet credentials are configured
func (cfg *Config) MailEnabled() bool {
	return cfg.MailjetPublicKey != "" && cfg.MailjetPrivateKey != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a time.Duration ("90s", "24h")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

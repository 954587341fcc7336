package database

import (
	"testing"

	"github.com/localnerve/barrio/internal/config"
	"github.com/localnerve/barrio/internal/models"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		dbType string
		name   string
	}{
		{"mysql", "mysql"},
		{"mariadb", "mysql"},
		{"postgres", "postgres"},
		{"sqlite", "sqlite"},
		{"sqlserver", "sqlserver"},
	}
	for _, tt := range tests {
		d, err := Dialector(&config.Config{DBType: tt.dbType, DBDatabase: "barrio", DBUser: "barrio"})
		if err != nil {
			t.Errorf("Dialector(%s) failed: %v", tt.dbType, err)
			continue
		}
		if d.Name() != tt.name {
			t.Errorf("Dialector(%s) name = %s, want %s", tt.dbType, d.Name(), tt.name)
		}
	}

	if _, err := Dialector(&config.Config{DBType: "oracle"}); err == nil {
		t.Error("Expected an unsupported type to fail")
	}
}

func TestLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"silent": logger.Silent,
		"ERROR":  logger.Error,
		"info":   logger.Info,
		"warn":   logger.Warn,
		"":       logger.Warn,
	}
	for name, want := range tests {
		if got := LogLevel(name); got != want {
			t.Errorf("LogLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	db, err := Connect(&config.Config{DBType: "sqlite", DBDatabase: ":memory:", DBLogLevel: "silent"})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer Close(db)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	for _, model := range models.All() {
		if !db.Migrator().HasTable(model) {
			t.Errorf("Expected table for %T", model)
		}
	}
	if !db.Migrator().HasIndex(&models.Follow{}, "idx_follow_pair") {
		t.Error("Expected the unique follow index")
	}
}

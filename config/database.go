package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

// ConnectDatabase opens the mock backend database. When DATABASE_URL is set
// it connects to PostgreSQL; otherwise it falls back to a local SQLite file.
func ConnectDatabase(cfg *Config) error {
	var (
		dialector gorm.Dialector
		kind      string
	)
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
		kind = "postgres"
	} else {
		dialector = sqlite.Open("salesdash.db")
		kind = "sqlite"
	}

	var err error
	db, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.WithField("driver", kind).Info("Database connection established")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// SetDB sets the database instance (primarily for testing)
func SetDB(instance *gorm.DB) {
	db = instance
}

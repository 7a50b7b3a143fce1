// Package database opens the optional analytics store.
package database

import (
	"fmt"
	"log"

	"github.com/Conceptual-Machines/groove-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens a postgres connection. An empty url disables the store
// and returns a nil *gorm.DB.
func Connect(url string) (*gorm.DB, error) {
	if url == "" {
		log.Println("⚠️  Analytics store disabled (DATABASE_URL not set)")
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log.Println("✅ Analytics store connected")
	return db, nil
}

// Migrate creates or updates the analytics tables. A nil db is a no-op.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(&models.RecommendationLog{}, &models.ValidationLog{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

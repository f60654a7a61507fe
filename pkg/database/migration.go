package database

import (
	"github.com/pawhaven/platform/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Shelter{},
		&model.Pet{},
		&model.NewsletterSubscriber{},
	)
}

package database

import (
	"fmt"

	"lms-resource-center/internal/config"
	"lms-resource-center/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Initialize opens the database connection and migrates the schema.
func Initialize(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := DB.AutoMigrate(
		&models.Resource{},
		&models.Tag{},
		&models.User{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	return nil
}

func GetDB() *gorm.DB {
	return DB
}

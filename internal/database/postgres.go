package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/moveright/assessadmin-api/internal/models"
)

// ConnectPostgres establishes a connection to the PostgreSQL database using the provided DSN.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}

// Migrate applies the schema for the organizational hierarchy, accounts and
// permissions, the assessment catalogue, and the training workflow tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.Country{},
		&models.Region{},
		&models.School{},
		&models.User{},
		&models.Class{},
		&models.Student{},
		&models.Phase{},
		&models.MovementType{},
		&models.Task{},
		&models.Assessment{},
		&models.TrainingTask{},
		&models.TrainingTaskQuestion{},
		&models.TrainingResult{},
		&models.UserTraining{},
		&models.TrainingQuestionResult{},
	)
}

package database

import (
	"fmt"

	"timebridge_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectGorm открывает пул соединений. TranslateError обязателен: на нем
// держится повтор выдачи идентификатора при конфликте первичного ключа.
func ConnectGorm(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate прогоняет автомиграции и наполняет справочник пола.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Gender{},
		&models.MissingPost{},
		&models.FamilyPost{},
		&models.SyncAudit{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	genders := []models.Gender{
		{GenderID: 1, GenderName: "male"},
		{GenderID: 2, GenderName: "female"},
	}
	for _, gender := range genders {
		if err := db.FirstOrCreate(&models.Gender{}, gender).Error; err != nil {
			return fmt.Errorf("failed to seed gender table: %w", err)
		}
	}
	return nil
}

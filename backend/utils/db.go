package utils

import (
	"fmt"
	"log"

	"korsify/backend/config"
	"korsify/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает соединение с PostgreSQL и прогоняет миграции
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate выполняет автомиграцию всех моделей
func Migrate(db *gorm.DB) error {
	log.Println("Running Migrations...")
	return db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.Course{},
		&models.CourseTemplate{},
		&models.CourseDocument{},
		&models.Module{},
		&models.Lesson{},
		&models.Quiz{},
		&models.Enrollment{},
		&models.Progress{},
		&models.QuizAttempt{},
		&models.AIGenerationJob{},
		&models.LearningMetrics{},
		&models.DailyActivity{},
	)
}

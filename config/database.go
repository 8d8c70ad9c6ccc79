package config

import (
	"fmt"

	"github.com/prepal/ambassador-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// defaultSettings are seeded on first boot; existing rows are left untouched
// so operator changes survive restarts.
var defaultSettings = map[string]string{
	models.SettingPointsPerReferral:      "1000",
	models.SettingMaxAmbassadors:         "50",
	models.SettingSystemActive:           "true",
	models.SettingGeneralTargetReferrals: "0",
	models.SettingGeneralTargetPoints:    "0",
}

// InitDB initializes the database connection and migrates the schema
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	if err := MigrateSchema(DB); err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}
}

// MigrateSchema migrates the schema and seeds default settings. Exposed
// separately so tests can run it against their own database handle.
func MigrateSchema(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Ambassador{},
		&models.Referral{},
		&models.Payout{},
		&models.Setting{},
	)
	if err != nil {
		return err
	}

	return SeedDefaultSettings(db)
}

// SeedDefaultSettings inserts any missing settings rows with their defaults
func SeedDefaultSettings(db *gorm.DB) error {
	for key, value := range defaultSettings {
		var count int64
		if err := db.Model(&models.Setting{}).Where("key = ?", key).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

package controllers

import (
	"fmt"
	"testing"

	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database, migrates the schema and
// seeds default settings. The DSN is keyed by test name so parallel tests
// never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := config.MigrateSchema(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createTestAmbassador(t *testing.T, db *gorm.DB, code string, balance int) *models.Ambassador {
	t.Helper()

	ambassador := &models.Ambassador{
		Name:              "John Doe",
		Email:             fmt.Sprintf("%s@example.com", code),
		Phone:             "+237670000000",
		ReferralCode:      code,
		Status:            models.AmbassadorStatusActive,
		PointsBalance:     balance,
		TotalPointsEarned: balance,
	}
	if err := db.Create(ambassador).Error; err != nil {
		t.Fatalf("failed to create test ambassador: %v", err)
	}
	return ambassador
}

func setTestSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	if err := utils.SetSetting(db, key, value); err != nil {
		t.Fatalf("failed to set setting %s: %v", key, err)
	}
}

func reloadAmbassador(t *testing.T, db *gorm.DB, id string) *models.Ambassador {
	t.Helper()
	var ambassador models.Ambassador
	if err := db.First(&ambassador, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload ambassador: %v", err)
	}
	return &ambassador
}

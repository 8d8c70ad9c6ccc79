package utils

import (
	"errors"
	"strconv"

	"github.com/prepal/ambassador-backend/models"
	"gorm.io/gorm"
)

// GetSetting reads a settings row. Returns "" without error when the key does
// not exist. Reads always hit the store so operator changes apply immediately.
func GetSetting(db *gorm.DB, key string) (string, error) {
	var setting models.Setting
	if err := db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

// GetSettingInt reads a settings row as an integer, falling back to def when
// the key is missing or unparseable.
func GetSettingInt(db *gorm.DB, key string, def int) (int, error) {
	value, err := GetSetting(db, key)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(value)
	if value == "" || convErr != nil {
		return def, nil
	}
	return n, nil
}

// SetSetting upserts a settings row
func SetSetting(db *gorm.DB, key, value string) error {
	res := db.Model(&models.Setting{}).Where("key = ?", key).Update("value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.Create(&models.Setting{Key: key, Value: value}).Error
	}
	return nil
}

// SystemActive reports whether the operator kill switch allows ingestion.
// Anything other than the literal "true" counts as inactive.
func SystemActive(db *gorm.DB) (bool, error) {
	value, err := GetSetting(db, models.SettingSystemActive)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

package utils

import (
	"fmt"
	"testing"

	"github.com/prepal/ambassador-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func settingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Setting{}))
	return db
}

func TestGetSettingMissingKey(t *testing.T) {
	db := settingsTestDB(t)

	value, err := GetSetting(db, "nope")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestSetSettingUpsert(t *testing.T) {
	db := settingsTestDB(t)

	require.NoError(t, SetSetting(db, models.SettingPointsPerReferral, "1000"))
	require.NoError(t, SetSetting(db, models.SettingPointsPerReferral, "1500"))

	value, err := GetSetting(db, models.SettingPointsPerReferral)
	require.NoError(t, err)
	assert.Equal(t, "1500", value)

	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetSettingInt(t *testing.T) {
	db := settingsTestDB(t)

	n, err := GetSettingInt(db, models.SettingPointsPerReferral, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1000, n, "missing key falls back to default")

	require.NoError(t, SetSetting(db, models.SettingPointsPerReferral, "250"))
	n, err = GetSettingInt(db, models.SettingPointsPerReferral, 1000)
	require.NoError(t, err)
	assert.Equal(t, 250, n)

	require.NoError(t, SetSetting(db, models.SettingPointsPerReferral, "not-a-number"))
	n, err = GetSettingInt(db, models.SettingPointsPerReferral, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1000, n, "unparseable value falls back to default")
}

func TestSystemActive(t *testing.T) {
	db := settingsTestDB(t)

	active, err := SystemActive(db)
	require.NoError(t, err)
	assert.False(t, active, "unset flag defaults closed")

	require.NoError(t, SetSetting(db, models.SettingSystemActive, "true"))
	active, err = SystemActive(db)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, SetSetting(db, models.SettingSystemActive, "false"))
	active, err = SystemActive(db)
	require.NoError(t, err)
	assert.False(t, active)
}

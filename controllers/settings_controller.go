package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
	"gorm.io/gorm"
)

type updateSettingsRequest struct {
	PointsPerReferral      *int  `json:"points_per_referral"`
	MaxAmbassadors         *int  `json:"max_ambassadors"`
	SystemActive           *bool `json:"system_active"`
	GeneralTargetReferrals *int  `json:"general_target_referrals"`
	GeneralTargetPoints    *int  `json:"general_target_points"`
}

// settingsMap reads all settings rows into a key->typed-value map. Stored
// values are strings; booleans and numbers are parsed for the response.
func settingsMap(db *gorm.DB) (gin.H, error) {
	var rows []models.Setting
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}

	settings := gin.H{}
	for _, row := range rows {
		switch row.Value {
		case "true":
			settings[row.Key] = true
		case "false":
			settings[row.Key] = false
		default:
			if n, err := strconv.Atoi(row.Value); err == nil {
				settings[row.Key] = n
			} else {
				settings[row.Key] = row.Value
			}
		}
	}
	return settings, nil
}

// GetSettings returns all settings
func GetSettings(c *gin.Context) {
	settings, err := settingsMap(config.DB)
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch settings")
		return
	}
	utils.OK(c, settings, "")
}

// UpdateSettings applies the provided settings in one transaction. Values
// take effect on the next request since nothing caches them.
func UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if req.PointsPerReferral != nil {
			if err := utils.SetSetting(tx, models.SettingPointsPerReferral, strconv.Itoa(*req.PointsPerReferral)); err != nil {
				return err
			}
		}
		if req.MaxAmbassadors != nil {
			if err := utils.SetSetting(tx, models.SettingMaxAmbassadors, strconv.Itoa(*req.MaxAmbassadors)); err != nil {
				return err
			}
		}
		if req.SystemActive != nil {
			if err := utils.SetSetting(tx, models.SettingSystemActive, strconv.FormatBool(*req.SystemActive)); err != nil {
				return err
			}
		}
		if req.GeneralTargetReferrals != nil {
			if err := utils.SetSetting(tx, models.SettingGeneralTargetReferrals, strconv.Itoa(*req.GeneralTargetReferrals)); err != nil {
				return err
			}
		}
		if req.GeneralTargetPoints != nil {
			if err := utils.SetSetting(tx, models.SettingGeneralTargetPoints, strconv.Itoa(*req.GeneralTargetPoints)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.FailWithError(c, err, "Failed to update settings")
		return
	}

	settings, err := settingsMap(config.DB)
	if err != nil {
		utils.FailWithError(c, err, "Failed to update settings")
		return
	}

	utils.OK(c, settings, "Settings updated successfully")
}

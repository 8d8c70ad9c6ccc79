package controllers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/middleware"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
)

func currentAmbassador(c *gin.Context) (models.Ambassador, bool) {
	value, exists := c.Get(middleware.ContextAmbassador)
	if !exists {
		utils.Forbidden(c, "Ambassador access required")
		return models.Ambassador{}, false
	}
	ambassador, ok := value.(models.Ambassador)
	if !ok {
		utils.InternalServerError(c, "Internal server error")
		return models.Ambassador{}, false
	}
	return ambassador, true
}

// GetPortalDashboard returns the ambassador's own stats, monthly progress and
// targets
func GetPortalDashboard(c *gin.Context) {
	ambassador, ok := currentAmbassador(c)
	if !ok {
		return
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var monthly struct {
		Count  int64
		Points int64
	}
	err := config.DB.Model(&models.Referral{}).
		Select("COUNT(*) AS count, COALESCE(SUM(points_awarded), 0) AS points").
		Where("ambassador_id = ? AND registered_at >= ?", ambassador.ID, monthStart).
		Scan(&monthly).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard")
		return
	}

	generalTargetReferrals, err := utils.GetSettingInt(config.DB, models.SettingGeneralTargetReferrals, 0)
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard")
		return
	}
	generalTargetPoints, err := utils.GetSettingInt(config.DB, models.SettingGeneralTargetPoints, 0)
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard")
		return
	}

	utils.OK(c, gin.H{
		"referral_code":            ambassador.ReferralCode,
		"total_referrals":          ambassador.TotalReferrals,
		"total_points_earned":      ambassador.TotalPointsEarned,
		"points_balance":           ambassador.PointsBalance,
		"referrals_this_month":     monthly.Count,
		"points_this_month":        monthly.Points,
		"target_referrals":         ambassador.TargetReferrals,
		"target_points":            ambassador.TargetPoints,
		"kpi_notes":                ambassador.KpiNotes,
		"general_target_referrals": generalTargetReferrals,
		"general_target_points":    generalTargetPoints,
	}, "")
}

// GetPortalReferrals lists the ambassador's own referrals
func GetPortalReferrals(c *gin.Context) {
	ambassador, ok := currentAmbassador(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Referral{}).Where("ambassador_id = ?", ambassador.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("student_name ILIKE ? OR student_email ILIKE ?", like, like)
	}

	if err := query.Count(&pagination.Total).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch referrals")
		return
	}

	var referrals []models.Referral
	err := query.Order("registered_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&referrals).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch referrals")
		return
	}

	utils.Paginated(c, referrals, pagination)
}

// GetPortalPayments lists the ambassador's own payouts
func GetPortalPayments(c *gin.Context) {
	ambassador, ok := currentAmbassador(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Payout{}).Where("ambassador_id = ?", ambassador.ID)

	if err := query.Count(&pagination.Total).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch payments")
		return
	}

	var payouts []models.Payout
	err := query.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&payouts).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch payments")
		return
	}

	utils.Paginated(c, payouts, pagination)
}

// GetPortalProfile returns the ambassador's own profile
func GetPortalProfile(c *gin.Context) {
	ambassador, ok := currentAmbassador(c)
	if !ok {
		return
	}

	utils.OK(c, gin.H{
		"id":            ambassador.ID,
		"name":          ambassador.Name,
		"email":         ambassador.Email,
		"phone":         ambassador.Phone,
		"referral_code": ambassador.ReferralCode,
		"social_media":  ambassador.SocialMedia,
		"joined_at":     ambassador.JoinedAt,
	}, "")
}

// UpdatePortalProfile lets the ambassador update name, phone and socials
func UpdatePortalProfile(c *gin.Context) {
	ambassador, ok := currentAmbassador(c)
	if !ok {
		return
	}

	var req struct {
		Name        string            `json:"name"`
		Phone       string            `json:"phone"`
		SocialMedia map[string]string `json:"social_media"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.SocialMedia != nil {
		socialMedia, _ := json.Marshal(req.SocialMedia)
		updates["social_media"] = string(socialMedia)
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update")
		return
	}

	if err := config.DB.Model(&ambassador).Updates(updates).Error; err != nil {
		utils.FailWithError(c, err, "Failed to update profile")
		return
	}

	utils.OK(c, nil, "Profile updated successfully")
}

// ChangePortalPassword lets the ambassador change their own password
func ChangePortalPassword(c *gin.Context) {
	ambassador, ok := currentAmbassador(c)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		utils.BadRequest(c, "Current and new passwords are required")
		return
	}

	if len(req.NewPassword) < 8 {
		utils.BadRequest(c, "New password must be at least 8 characters")
		return
	}

	if !utils.CheckPassword(req.CurrentPassword, ambassador.PasswordHash) {
		utils.Unauthorized(c, "Current password is incorrect")
		return
	}

	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.FailWithError(c, err, "Failed to change password")
		return
	}

	if err := config.DB.Model(&ambassador).Update("password_hash", passwordHash).Error; err != nil {
		utils.FailWithError(c, err, "Failed to change password")
		return
	}

	utils.OK(c, nil, "Password changed successfully")
}

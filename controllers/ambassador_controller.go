package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
	"gorm.io/gorm"
)

type createAmbassadorRequest struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	SocialMedia map[string]string `json:"social_media"`
	Notes       string            `json:"notes"`
}

type updateAmbassadorRequest struct {
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	Status          string            `json:"status"`
	SocialMedia     map[string]string `json:"social_media"`
	TargetReferrals *int              `json:"target_referrals"`
	TargetPoints    *int              `json:"target_points"`
	KpiNotes        *string           `json:"kpi_notes"`
	Notes           *string           `json:"notes"`
}

// GetAmbassadors lists ambassadors with search, status filter and pagination
func GetAmbassadors(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Ambassador{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR referral_code ILIKE ?", like, like, like)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&pagination.Total).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch ambassadors")
		return
	}

	var ambassadors []models.Ambassador
	err := query.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&ambassadors).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch ambassadors")
		return
	}

	utils.Paginated(c, ambassadors, pagination)
}

// CreateAmbassador registers a new ambassador with a generated referral code
// and a generated initial password. The password is returned once in the
// response and mailed to the ambassador; only its hash is stored.
func CreateAmbassador(c *gin.Context) {
	var req createAmbassadorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Phone == "" {
		utils.BadRequest(c, "Name, email, and phone are required")
		return
	}
	if !utils.IsValidEmail(req.Email) {
		utils.BadRequest(c, "Invalid email address")
		return
	}

	var existing int64
	if err := config.DB.Model(&models.Ambassador{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
		utils.FailWithError(c, err, "Failed to create ambassador")
		return
	}
	if existing > 0 {
		utils.Conflict(c, "Email already exists")
		return
	}

	maxAmbassadors, err := utils.GetSettingInt(config.DB, models.SettingMaxAmbassadors, 50)
	if err != nil {
		utils.FailWithError(c, err, "Failed to create ambassador")
		return
	}

	var count int64
	if err := config.DB.Model(&models.Ambassador{}).Count(&count).Error; err != nil {
		utils.FailWithError(c, err, "Failed to create ambassador")
		return
	}
	if count >= int64(maxAmbassadors) {
		utils.BadRequest(c, "Maximum number of ambassadors reached")
		return
	}

	referralCode, err := uniqueReferralCode(req.Name)
	if err != nil {
		utils.FailWithError(c, err, "Failed to create ambassador")
		return
	}

	password := utils.GeneratePassword()
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		utils.FailWithError(c, err, "Failed to create ambassador")
		return
	}

	socialMedia, _ := json.Marshal(req.SocialMedia)
	ambassador := models.Ambassador{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		ReferralCode: referralCode,
		Status:       models.AmbassadorStatusActive,
		SocialMedia:  string(socialMedia),
		Notes:        req.Notes,
	}

	if err := config.DB.Create(&ambassador).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Conflict(c, "Email already exists")
			return
		}
		utils.FailWithError(c, err, "Failed to create ambassador")
		return
	}

	if err := utils.SendWelcomeEmail(ambassador.Email, ambassador.Name, referralCode, password); err != nil {
		utils.LogError("Welcome email to %s failed: %v", ambassador.Email, err)
	}

	utils.CreatedResponse(c, gin.H{
		"ambassador": ambassador,
		"password":   password,
	}, "Ambassador created successfully")
}

// uniqueReferralCode regenerates until the code has no collision
func uniqueReferralCode(name string) (string, error) {
	for {
		code := utils.GenerateReferralCode(name)
		var count int64
		if err := config.DB.Model(&models.Ambassador{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}

// GetAmbassador returns a single ambassador
func GetAmbassador(c *gin.Context) {
	var ambassador models.Ambassador
	if err := config.DB.First(&ambassador, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Ambassador not found")
			return
		}
		utils.FailWithError(c, err, "Failed to fetch ambassador")
		return
	}

	utils.OK(c, ambassador, "")
}

// UpdateAmbassador updates profile fields, status, targets and notes
func UpdateAmbassador(c *gin.Context) {
	id := c.Param("id")

	var ambassador models.Ambassador
	if err := config.DB.First(&ambassador, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Ambassador not found")
			return
		}
		utils.FailWithError(c, err, "Failed to update ambassador")
		return
	}

	var req updateAmbassadorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if req.Email != "" && req.Email != ambassador.Email {
		var count int64
		if err := config.DB.Model(&models.Ambassador{}).Where("email = ? AND id != ?", req.Email, id).Count(&count).Error; err != nil {
			utils.FailWithError(c, err, "Failed to update ambassador")
			return
		}
		if count > 0 {
			utils.Conflict(c, "Email already exists")
			return
		}
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Status != "" {
		switch req.Status {
		case models.AmbassadorStatusActive, models.AmbassadorStatusInactive, models.AmbassadorStatusSuspended:
			updates["status"] = req.Status
		default:
			utils.BadRequest(c, "Invalid status")
			return
		}
	}
	if req.SocialMedia != nil {
		socialMedia, _ := json.Marshal(req.SocialMedia)
		updates["social_media"] = string(socialMedia)
	}
	if req.TargetReferrals != nil {
		updates["target_referrals"] = *req.TargetReferrals
	}
	if req.TargetPoints != nil {
		updates["target_points"] = *req.TargetPoints
	}
	if req.KpiNotes != nil {
		updates["kpi_notes"] = *req.KpiNotes
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update")
		return
	}

	if err := config.DB.Model(&ambassador).Updates(updates).Error; err != nil {
		utils.FailWithError(c, err, "Failed to update ambassador")
		return
	}

	if err := config.DB.First(&ambassador, "id = ?", id).Error; err != nil {
		utils.FailWithError(c, err, "Failed to update ambassador")
		return
	}

	utils.OK(c, ambassador, "")
}

// DeleteAmbassador soft-deletes by flipping status to inactive. Rows are
// never removed so referral history keeps its attribution.
func DeleteAmbassador(c *gin.Context) {
	res := config.DB.Model(&models.Ambassador{}).
		Where("id = ?", c.Param("id")).
		Update("status", models.AmbassadorStatusInactive)
	if res.Error != nil {
		utils.FailWithError(c, res.Error, "Failed to delete ambassador")
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Ambassador not found")
		return
	}

	utils.OK(c, nil, "Ambassador deactivated successfully")
}

// ResetAmbassadorPassword generates a new password, stores its hash and
// returns it once
func ResetAmbassadorPassword(c *gin.Context) {
	id := c.Param("id")

	var ambassador models.Ambassador
	if err := config.DB.First(&ambassador, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Ambassador not found")
			return
		}
		utils.FailWithError(c, err, "Failed to reset password")
		return
	}

	password := utils.GeneratePassword()
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		utils.FailWithError(c, err, "Failed to reset password")
		return
	}

	if err := config.DB.Model(&ambassador).Update("password_hash", passwordHash).Error; err != nil {
		utils.FailWithError(c, err, "Failed to reset password")
		return
	}

	if err := utils.SendPasswordResetEmail(ambassador.Email, password); err != nil {
		utils.LogError("Password reset email to %s failed: %v", ambassador.Email, err)
	}

	utils.OK(c, gin.H{"password": password}, "Password reset successfully")
}

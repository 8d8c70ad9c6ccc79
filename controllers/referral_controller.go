package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
	"gorm.io/gorm"
)

type referralRow struct {
	models.Referral
	AmbassadorName string `json:"ambassador_name"`
}

// GetReferrals lists referrals with search, ambassador, status and date filters
func GetReferrals(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Referral{}).
		Select("referrals.*, ambassadors.name AS ambassador_name").
		Joins("LEFT JOIN ambassadors ON referrals.ambassador_id = ambassadors.id")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("referrals.student_name ILIKE ? OR referrals.student_email ILIKE ?", like, like)
	}
	if ambassadorID := c.Query("ambassadorId"); ambassadorID != "" {
		query = query.Where("referrals.ambassador_id = ?", ambassadorID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("referrals.status = ?", status)
	}
	if startDate := c.Query("startDate"); startDate != "" {
		query = query.Where("referrals.registered_at >= ?", startDate)
	}
	if endDate := c.Query("endDate"); endDate != "" {
		query = query.Where("referrals.registered_at <= ?", endDate)
	}

	if err := query.Count(&pagination.Total).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch referrals")
		return
	}

	var referrals []referralRow
	err := query.Order("referrals.registered_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&referrals).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch referrals")
		return
	}

	utils.Paginated(c, referrals, pagination)
}

// GetReferralsByAmbassador lists one ambassador's referrals
func GetReferralsByAmbassador(c *gin.Context) {
	pagination := utils.NewPagination(c)
	ambassadorID := c.Param("ambassadorId")

	query := config.DB.Model(&models.Referral{}).Where("ambassador_id = ?", ambassadorID)
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

// UpdateReferral updates a referral's status (active/cancelled). Referrals
// are otherwise immutable after ingestion.
func UpdateReferral(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if req.Status != models.ReferralStatusActive && req.Status != models.ReferralStatusCancelled {
		utils.BadRequest(c, "Valid status is required")
		return
	}

	var referral models.Referral
	if err := config.DB.First(&referral, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Referral not found")
			return
		}
		utils.FailWithError(c, err, "Failed to update referral")
		return
	}

	if err := config.DB.Model(&referral).Update("status", req.Status).Error; err != nil {
		utils.FailWithError(c, err, "Failed to update referral")
		return
	}

	utils.OK(c, referral, "")
}

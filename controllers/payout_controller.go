package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
)

type payoutRow struct {
	models.Payout
	AmbassadorName string `json:"ambassador_name"`
}

// GetPayouts lists payouts with optional ambassador/status/date filters
func GetPayouts(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Payout{}).
		Select("payouts.*, ambassadors.name AS ambassador_name").
		Joins("LEFT JOIN ambassadors ON payouts.ambassador_id = ambassadors.id")

	if ambassadorID := c.Query("ambassadorId"); ambassadorID != "" {
		query = query.Where("payouts.ambassador_id = ?", ambassadorID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("payouts.status = ?", status)
	}
	if startDate := c.Query("startDate"); startDate != "" {
		query = query.Where("payouts.created_at >= ?", startDate)
	}
	if endDate := c.Query("endDate"); endDate != "" {
		query = query.Where("payouts.created_at <= ?", endDate)
	}

	if err := query.Count(&pagination.Total).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch payouts")
		return
	}

	var payouts []payoutRow
	err := query.Order("payouts.created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&payouts).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch payouts")
		return
	}

	utils.Paginated(c, payouts, pagination)
}

// GetPendingPayouts lists active ambassadors holding a positive balance,
// ordered by how much they are owed
func GetPendingPayouts(c *gin.Context) {
	var ambassadors []models.Ambassador
	err := config.DB.
		Select("id", "name", "email", "phone", "referral_code", "points_balance").
		Where("points_balance > 0 AND status = ?", models.AmbassadorStatusActive).
		Order("points_balance DESC").
		Find(&ambassadors).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch pending payouts")
		return
	}

	utils.OK(c, ambassadors, "")
}

// CreatePayout records a payout and places the points hold
func CreatePayout(c *gin.Context) {
	var req CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	payout, err := RecordPayout(config.DB, &req)
	if err != nil {
		utils.FailWithError(c, err, "Failed to create payout")
		return
	}

	utils.CreatedResponse(c, payout, "Payout recorded successfully. Please mark as completed after manual transfer.")
}

// UpdatePayout transitions a payout's status and/or updates its metadata
func UpdatePayout(c *gin.Context) {
	var req UpdatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	payout, err := ApplyPayoutUpdate(config.DB, c.Param("id"), &req)
	if err != nil {
		utils.FailWithError(c, err, "Failed to update payout")
		return
	}

	utils.OK(c, payout, "")
}

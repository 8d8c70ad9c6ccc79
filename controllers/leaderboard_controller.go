package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
	"gorm.io/gorm"
)

type leaderboardEntry struct {
	AmbassadorID   string `json:"ambassador_id"`
	AmbassadorName string `json:"ambassador_name"`
	ReferralCode   string `json:"referral_code"`
	TotalReferrals int    `json:"total_referrals"`
	TotalPoints    int    `json:"total_points"`
	Rank           int    `json:"rank"`
}

func leaderboardQuery(period string) *gorm.DB {
	join := "LEFT JOIN referrals ON ambassadors.id = referrals.ambassador_id"
	args := []interface{}{}
	if period == "month" {
		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		join += " AND referrals.registered_at >= ?"
		args = append(args, monthStart)
	}

	return config.DB.Model(&models.Ambassador{}).
		Select(`ambassadors.id AS ambassador_id,
			ambassadors.name AS ambassador_name,
			ambassadors.referral_code,
			COUNT(referrals.id) AS total_referrals,
			COALESCE(SUM(referrals.points_awarded), 0) AS total_points`).
		Joins(join, args...).
		Where("ambassadors.status = ?", models.AmbassadorStatusActive).
		Group("ambassadors.id, ambassadors.name, ambassadors.referral_code")
}

// GetLeaderboard ranks active ambassadors by referrals and by points, over
// all time or the current month
func GetLeaderboard(c *gin.Context) {
	pagination := utils.NewPagination(c)
	period := c.DefaultQuery("period", "all")

	if err := config.DB.Model(&models.Ambassador{}).
		Where("status = ?", models.AmbassadorStatusActive).
		Count(&pagination.Total).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch leaderboard")
		return
	}

	var byReferrals []leaderboardEntry
	err := leaderboardQuery(period).
		Order("total_referrals DESC, total_points DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&byReferrals).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch leaderboard")
		return
	}

	var byPoints []leaderboardEntry
	err = leaderboardQuery(period).
		Order("total_points DESC, total_referrals DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&byPoints).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch leaderboard")
		return
	}

	for i := range byReferrals {
		byReferrals[i].Rank = pagination.Offset + i + 1
	}
	for i := range byPoints {
		byPoints[i].Rank = pagination.Offset + i + 1
	}

	utils.OK(c, gin.H{
		"byReferrals": byReferrals,
		"byPoints":    byPoints,
		"pagination": gin.H{
			"page":       pagination.Page,
			"limit":      pagination.Limit,
			"total":      pagination.Total,
			"totalPages": pagination.TotalPages(),
		},
	}, "")
}

package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
)

type monthlyReferrals struct {
	Month     string `json:"month"`
	Referrals int    `json:"referrals"`
}

// GetDashboardStats aggregates program-wide counters for the admin dashboard
func GetDashboardStats(c *gin.Context) {
	db := config.DB
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	var totalAmbassadors, totalReferrals, referralsThisMonth, referralsLastMonth, pendingPayouts int64

	if err := db.Model(&models.Ambassador{}).Count(&totalAmbassadors).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard stats")
		return
	}
	if err := db.Model(&models.Referral{}).Count(&totalReferrals).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard stats")
		return
	}
	if err := db.Model(&models.Referral{}).Where("registered_at >= ?", monthStart).Count(&referralsThisMonth).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard stats")
		return
	}
	if err := db.Model(&models.Referral{}).
		Where("registered_at >= ? AND registered_at < ?", lastMonthStart, monthStart).
		Count(&referralsLastMonth).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard stats")
		return
	}
	if err := db.Model(&models.Payout{}).Where("status = ?", models.PayoutStatusPending).Count(&pendingPayouts).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard stats")
		return
	}

	var totalPointsOwed int64
	err := db.Model(&models.Ambassador{}).
		Select("COALESCE(SUM(points_balance), 0)").
		Scan(&totalPointsOwed).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard stats")
		return
	}

	maxAmbassadors, err := utils.GetSettingInt(db, models.SettingMaxAmbassadors, 50)
	if err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard stats")
		return
	}

	// six-month trend for the chart, bucketed in Go so the query stays portable
	var recent []models.Referral
	sixMonthsAgo := monthStart.AddDate(0, -6, 0)
	if err := db.Select("registered_at").Where("registered_at >= ?", sixMonthsAgo).Find(&recent).Error; err != nil {
		utils.FailWithError(c, err, "Failed to fetch dashboard stats")
		return
	}

	buckets := map[string]int{}
	for _, r := range recent {
		buckets[r.RegisteredAt.Format("2006-01")]++
	}
	referralsOverTime := make([]monthlyReferrals, 0, 7)
	for i := 6; i >= 0; i-- {
		month := monthStart.AddDate(0, -i, 0).Format("2006-01")
		if count, ok := buckets[month]; ok {
			referralsOverTime = append(referralsOverTime, monthlyReferrals{Month: month, Referrals: count})
		}
	}

	utils.OK(c, gin.H{
		"totalAmbassadors":    totalAmbassadors,
		"maxAmbassadors":      maxAmbassadors,
		"totalReferrals":      totalReferrals,
		"referralsThisMonth":  referralsThisMonth,
		"referralsLastMonth":  referralsLastMonth,
		"totalPointsOwed":     totalPointsOwed,
		"pendingPayoutsCount": pendingPayouts,
		"referralsOverTime":   referralsOverTime,
	}, "")
}

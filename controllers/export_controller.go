package controllers

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
)

func writeCSV(c *gin.Context, filename string, headers []string, rows [][]string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(headers); err != nil {
		utils.LogError("CSV write failed: %v", err)
		return
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			utils.LogError("CSV write failed: %v", err)
			return
		}
	}
	w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// ExportAmbassadors downloads all ambassadors as CSV
func ExportAmbassadors(c *gin.Context) {
	var ambassadors []models.Ambassador
	if err := config.DB.Order("created_at DESC").Find(&ambassadors).Error; err != nil {
		utils.FailWithError(c, err, "Failed to export ambassadors")
		return
	}

	headers := []string{"name", "email", "phone", "referral_code", "total_referrals", "total_points_earned", "points_balance", "status", "joined_at"}
	rows := make([][]string, 0, len(ambassadors))
	for _, a := range ambassadors {
		rows = append(rows, []string{
			a.Name, a.Email, a.Phone, a.ReferralCode,
			strconv.Itoa(a.TotalReferrals), strconv.Itoa(a.TotalPointsEarned), strconv.Itoa(a.PointsBalance),
			a.Status, formatTime(a.JoinedAt),
		})
	}

	writeCSV(c, "ambassadors.csv", headers, rows)
}

// ExportReferrals downloads all referrals as CSV
func ExportReferrals(c *gin.Context) {
	var referrals []referralRow
	err := config.DB.Model(&models.Referral{}).
		Select("referrals.*, ambassadors.name AS ambassador_name").
		Joins("LEFT JOIN ambassadors ON referrals.ambassador_id = ambassadors.id").
		Order("referrals.registered_at DESC").
		Find(&referrals).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to export referrals")
		return
	}

	headers := []string{"student_name", "student_email", "student_id", "ambassador_name", "ambassador_code", "subscription_plan", "subscription_price", "points_awarded", "status", "registered_at"}
	rows := make([][]string, 0, len(referrals))
	for _, r := range referrals {
		rows = append(rows, []string{
			r.StudentName, r.StudentEmail, r.StudentID, r.AmbassadorName, r.AmbassadorCode,
			r.SubscriptionPlan, fmt.Sprintf("%.2f", r.SubscriptionPrice),
			strconv.Itoa(r.PointsAwarded), r.Status, formatTime(r.RegisteredAt),
		})
	}

	writeCSV(c, "referrals.csv", headers, rows)
}

// ExportPayouts downloads all payouts as CSV
func ExportPayouts(c *gin.Context) {
	var payouts []payoutRow
	err := config.DB.Model(&models.Payout{}).
		Select("payouts.*, ambassadors.name AS ambassador_name").
		Joins("LEFT JOIN ambassadors ON payouts.ambassador_id = ambassadors.id").
		Order("payouts.created_at DESC").
		Find(&payouts).Error
	if err != nil {
		utils.FailWithError(c, err, "Failed to export payouts")
		return
	}

	headers := []string{"ambassador_name", "amount", "points_deducted", "payment_method", "phone_number", "status", "transaction_reference", "created_at", "processed_at"}
	rows := make([][]string, 0, len(payouts))
	for _, p := range payouts {
		processedAt := ""
		if p.ProcessedAt != nil {
			processedAt = formatTime(*p.ProcessedAt)
		}
		rows = append(rows, []string{
			p.AmbassadorName, strconv.Itoa(p.Amount), strconv.Itoa(p.PointsDeducted),
			p.PaymentMethod, p.PhoneNumber, p.Status, p.TransactionReference,
			formatTime(p.CreatedAt), processedAt,
		})
	}

	writeCSV(c, "payouts.csv", headers, rows)
}

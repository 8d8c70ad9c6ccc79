package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"

	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
)

// DownloadReferralsReportExcel generates an Excel referrals report with a
// summary section, optionally limited to the last 30 days (?period=month)
func DownloadReferralsReportExcel(c *gin.Context) {
	period := c.DefaultQuery("period", "all")

	query := config.DB.Model(&models.Referral{}).
		Select("referrals.*, ambassadors.name AS ambassador_name").
		Joins("LEFT JOIN ambassadors ON referrals.ambassador_id = ambassadors.id")
	if period == "month" {
		query = query.Where("referrals.registered_at >= ?", time.Now().AddDate(0, 0, -30))
	}

	var referrals []referralRow
	if err := query.Order("referrals.registered_at DESC").Find(&referrals).Error; err != nil {
		utils.FailWithError(c, err, "Failed to generate report")
		return
	}

	totalPoints := 0
	ambassadorSet := map[string]bool{}
	for _, r := range referrals {
		totalPoints += r.PointsAwarded
		ambassadorSet[r.AmbassadorCode] = true
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Referrals")
	if err != nil {
		utils.FailWithError(c, err, "Failed to generate report")
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("Ambassador Program - Referrals Report")
	periodRow := sheet.AddRow()
	periodRow.AddCell().SetString("Generated: " + time.Now().Format("2006-01-02 15:04") + " | Period: " + period)
	sheet.AddRow()

	headers := []string{"Student", "Email", "Ambassador", "Code", "Plan", "Points", "Status", "Registered"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, r := range referrals {
		row := sheet.AddRow()
		row.AddCell().SetString(r.StudentName)
		row.AddCell().SetString(r.StudentEmail)
		row.AddCell().SetString(r.AmbassadorName)
		row.AddCell().SetString(r.AmbassadorCode)
		row.AddCell().SetString(r.SubscriptionPlan)
		row.AddCell().SetInt(r.PointsAwarded)
		row.AddCell().SetString(r.Status)
		row.AddCell().SetString(r.RegisteredAt.Format("2006-01-02"))
	}

	sheet.AddRow()
	summaryData := [][]string{
		{"Total Referrals", strconv.Itoa(len(referrals))},
		{"Total Points Awarded", strconv.Itoa(totalPoints)},
		{"Distinct Ambassadors", strconv.Itoa(len(ambassadorSet))},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=referrals_report.xlsx")
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
	}
}

// DownloadPayoutsReportPDF generates a PDF payout statement for reconciling
// manual transfers
func DownloadPayoutsReportPDF(c *gin.Context) {
	query := config.DB.Model(&models.Payout{}).
		Select("payouts.*, ambassadors.name AS ambassador_name").
		Joins("LEFT JOIN ambassadors ON payouts.ambassador_id = ambassadors.id")
	if status := c.Query("status"); status != "" {
		query = query.Where("payouts.status = ?", status)
	}

	var payouts []payoutRow
	if err := query.Order("payouts.created_at DESC").Find(&payouts).Error; err != nil {
		utils.FailWithError(c, err, "Failed to generate report")
		return
	}

	totalAmount := 0
	pending := 0
	for _, p := range payouts {
		totalAmount += p.Amount
		if p.Status == models.PayoutStatusPending {
			pending++
		}
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Ambassador Program - Payout Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, "Generated: "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	headers := []string{"Ambassador", "Amount (FCFA)", "Method", "Phone", "Status", "Reference", "Created", "Processed"}
	colWidths := []float64{50, 30, 22, 35, 25, 45, 32, 32}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(colWidths[i], 9, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	fill := false
	for _, p := range payouts {
		pdf.SetFillColor(245, 245, 245)
		fill = !fill
		processedAt := "-"
		if p.ProcessedAt != nil {
			processedAt = p.ProcessedAt.Format("2006-01-02")
		}
		pdf.CellFormat(colWidths[0], 8, p.AmbassadorName, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[1], 8, strconv.Itoa(p.Amount), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[2], 8, p.PaymentMethod, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[3], 8, p.PhoneNumber, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[4], 8, p.Status, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[5], 8, p.TransactionReference, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[6], 8, p.CreatedAt.Format("2006-01-02"), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[7], 8, processedAt, "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 10, "Summary", "1", 0, "C", true, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(50, 8, "Total Payouts", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, strconv.Itoa(len(payouts)), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.CellFormat(50, 8, "Total Amount", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%d FCFA", totalAmount), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.CellFormat(50, 8, "Pending", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, strconv.Itoa(pending), "1", 0, "R", false, 0, "")

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=payouts_report.pdf")
	if err := pdf.Output(c.Writer); err != nil {
		utils.LogError("Failed to write PDF file: %v", err)
	}
}

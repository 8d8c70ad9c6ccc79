package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
	"gorm.io/gorm"
)

// ReferralRequest is the canonical ingestion input, produced by normalizing
// either webhook payload shape at the boundary.
type ReferralRequest struct {
	StudentName       string
	StudentEmail      string
	StudentID         string
	SubscriptionPlan  string
	SubscriptionPrice float64
	ReferralCode      string
	RegisteredAt      time.Time
}

// ReferralResult reports a successful ingestion
type ReferralResult struct {
	PointsAwarded  int
	AmbassadorName string
}

// webhookPayload accepts both supported body shapes in one struct. The
// compact (Prepal) shape is detected by the presence of all three of its
// keys; any other payload is treated as the legacy shape. The compact fields
// are pointers so a key that was absent can be told apart from one sent empty.
type webhookPayload struct {
	// compact shape
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Referer *string `json:"referer"`
	Date    string  `json:"date"`

	// legacy shape
	StudentName  string  `json:"studentName"`
	StudentEmail string  `json:"studentEmail"`
	StudentID    string  `json:"studentId"`
	Plan         string  `json:"plan"`
	Price        float64 `json:"price"`
	ReferralCode string  `json:"referralCode"`
	RegisteredAt string  `json:"registeredAt"`
}

// NormalizeWebhookPayload resolves the payload shape and maps it onto a
// ReferralRequest. Compact payloads synthesize a student id from the email so
// the dedup key stays stable across redeliveries.
func NormalizeWebhookPayload(p *webhookPayload) (*ReferralRequest, error) {
	if p.Name != nil && p.Email != nil && p.Referer != nil {
		if *p.Name == "" || *p.Email == "" || *p.Referer == "" {
			return nil, utils.ValidationError("Missing required fields: name, email, referer", nil)
		}
		digest := sha256.Sum256([]byte(*p.Email))
		return &ReferralRequest{
			StudentName:       *p.Name,
			StudentEmail:      *p.Email,
			StudentID:         hex.EncodeToString(digest[:])[:32],
			SubscriptionPlan:  "Standard",
			SubscriptionPrice: 0,
			ReferralCode:      *p.Referer,
			RegisteredAt:      parseRegisteredAt(p.Date),
		}, nil
	}

	if p.StudentName == "" || p.StudentEmail == "" || p.StudentID == "" || p.Plan == "" || p.ReferralCode == "" {
		return nil, utils.ValidationError("Missing required fields: studentName, studentEmail, studentId, plan, referralCode", nil)
	}

	return &ReferralRequest{
		StudentName:       p.StudentName,
		StudentEmail:      p.StudentEmail,
		StudentID:         p.StudentID,
		SubscriptionPlan:  p.Plan,
		SubscriptionPrice: p.Price,
		ReferralCode:      p.ReferralCode,
		RegisteredAt:      parseRegisteredAt(p.RegisteredAt),
	}, nil
}

func parseRegisteredAt(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Now()
}

// ProcessReferral runs the ingestion pipeline: kill-switch check, duplicate
// check, ambassador resolution, point award. The referral insert and the
// ambassador counter updates commit in one transaction; any failure rolls
// both back.
//
// The duplicate check here is a fast path for a clean 409. The unique indexes
// on student_id and student_email are the real guard: when two deliveries of
// the same student race, the second insert fails inside the transaction and
// is reported as the same duplicate error.
func ProcessReferral(db *gorm.DB, req *ReferralRequest) (*ReferralResult, error) {
	active, err := utils.SystemActive(db)
	if err != nil {
		return nil, utils.InternalError("Failed to process referral", err)
	}
	if !active {
		return nil, utils.SystemInactiveError("System is currently inactive", nil)
	}

	var duplicates int64
	err = db.Model(&models.Referral{}).
		Where("student_id = ? OR student_email = ?", req.StudentID, req.StudentEmail).
		Count(&duplicates).Error
	if err != nil {
		return nil, utils.InternalError("Failed to process referral", err)
	}
	if duplicates > 0 {
		return nil, utils.ConflictError("Student already registered", nil)
	}

	var ambassador models.Ambassador
	err = db.Where("referral_code = ?", req.ReferralCode).First(&ambassador).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Invalid referral code", nil)
		}
		return nil, utils.InternalError("Failed to process referral", err)
	}

	if ambassador.Status != models.AmbassadorStatusActive {
		return nil, utils.ForbiddenError("Ambassador account is not active", nil)
	}

	points, err := utils.GetSettingInt(db, models.SettingPointsPerReferral, 1000)
	if err != nil {
		return nil, utils.InternalError("Failed to process referral", err)
	}

	referral := models.Referral{
		StudentName:       req.StudentName,
		StudentEmail:      req.StudentEmail,
		StudentID:         req.StudentID,
		AmbassadorID:      &ambassador.ID,
		AmbassadorCode:    req.ReferralCode,
		SubscriptionPlan:  req.SubscriptionPlan,
		SubscriptionPrice: req.SubscriptionPrice,
		PointsAwarded:     points,
		Status:            models.ReferralStatusActive,
		RegisteredAt:      req.RegisteredAt,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&referral).Error; err != nil {
			return err
		}

		return tx.Model(&models.Ambassador{}).
			Where("id = ?", ambassador.ID).
			Updates(map[string]interface{}{
				"total_referrals":     gorm.Expr("total_referrals + ?", 1),
				"total_points_earned": gorm.Expr("total_points_earned + ?", points),
				"points_balance":      gorm.Expr("points_balance + ?", points),
			}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ConflictError("Student already registered", nil)
		}
		return nil, utils.InternalError("Failed to process referral", err)
	}

	utils.LogInfo("Referral recorded: %s (%s) for ambassador %s", req.StudentName, req.StudentEmail, ambassador.Name)

	return &ReferralResult{
		PointsAwarded:  points,
		AmbassadorName: ambassador.Name,
	}, nil
}

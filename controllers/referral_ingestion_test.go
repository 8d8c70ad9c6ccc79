package controllers

import (
	"errors"
	"testing"
	"time"

	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func legacyRequest(code string) *ReferralRequest {
	return &ReferralRequest{
		StudentName:       "Alice Student",
		StudentEmail:      "alice@student.example.com",
		StudentID:         "STU-001",
		SubscriptionPlan:  "Premium",
		SubscriptionPrice: 5000,
		ReferralCode:      code,
		RegisteredAt:      time.Now(),
	}
}

func TestProcessReferralAwardsPoints(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 0)

	result, err := ProcessReferral(db, legacyRequest(ambassador.ReferralCode))
	require.NoError(t, err)
	assert.Equal(t, 1000, result.PointsAwarded)
	assert.Equal(t, ambassador.Name, result.AmbassadorName)

	var referral models.Referral
	require.NoError(t, db.First(&referral, "student_id = ?", "STU-001").Error)
	assert.Equal(t, 1000, referral.PointsAwarded)
	assert.Equal(t, models.ReferralStatusActive, referral.Status)
	require.NotNil(t, referral.AmbassadorID)
	assert.Equal(t, ambassador.ID, *referral.AmbassadorID)

	updated := reloadAmbassador(t, db, ambassador.ID)
	assert.Equal(t, 1, updated.TotalReferrals)
	assert.Equal(t, 1000, updated.TotalPointsEarned)
	assert.Equal(t, 1000, updated.PointsBalance)
}

func TestProcessReferralUsesConfiguredPoints(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 0)
	setTestSetting(t, db, models.SettingPointsPerReferral, "250")

	result, err := ProcessReferral(db, legacyRequest(ambassador.ReferralCode))
	require.NoError(t, err)
	assert.Equal(t, 250, result.PointsAwarded)
	assert.Equal(t, 250, reloadAmbassador(t, db, ambassador.ID).PointsBalance)
}

func TestProcessReferralDuplicateStudent(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 0)

	_, err := ProcessReferral(db, legacyRequest(ambassador.ReferralCode))
	require.NoError(t, err)

	// same student id, different email
	second := legacyRequest(ambassador.ReferralCode)
	second.StudentEmail = "other@student.example.com"
	_, err = ProcessReferral(db, second)
	require.Error(t, err)
	assert.True(t, utils.IsConflictError(err))

	// different student id, same email
	third := legacyRequest(ambassador.ReferralCode)
	third.StudentID = "STU-002"
	_, err = ProcessReferral(db, third)
	require.Error(t, err)
	assert.True(t, utils.IsConflictError(err))

	// counters moved exactly once
	updated := reloadAmbassador(t, db, ambassador.ID)
	assert.Equal(t, 1, updated.TotalReferrals)
	assert.Equal(t, 1000, updated.PointsBalance)

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProcessReferralSystemInactive(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 0)
	setTestSetting(t, db, models.SettingSystemActive, "false")

	_, err := ProcessReferral(db, legacyRequest(ambassador.ReferralCode))
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 503, appErr.Code)

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestProcessReferralUnknownCode(t *testing.T) {
	db := setupTestDB(t)
	createTestAmbassador(t, db, "AMB-JOHN2024001", 0)

	_, err := ProcessReferral(db, legacyRequest("AMB-NOBODY2024999"))
	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestProcessReferralInactiveAmbassador(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 0)
	require.NoError(t, db.Model(ambassador).Update("status", models.AmbassadorStatusSuspended).Error)

	_, err := ProcessReferral(db, legacyRequest(ambassador.ReferralCode))
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 403, appErr.Code)
	assert.Equal(t, 0, reloadAmbassador(t, db, ambassador.ID).TotalReferrals)
}

func TestProcessReferralRollsBackOnCounterFailure(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 0)

	forced := errors.New("forced update failure")
	fail := false
	err := db.Callback().Update().Before("gorm:update").Register("test:fail_ambassador_update", func(tx *gorm.DB) {
		if fail && tx.Statement.Table == "ambassadors" {
			tx.AddError(forced)
		}
	})
	require.NoError(t, err)

	fail = true
	_, err = ProcessReferral(db, legacyRequest(ambassador.ReferralCode))
	fail = false
	require.Error(t, err)

	// neither half of the transaction landed
	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	updated := reloadAmbassador(t, db, ambassador.ID)
	assert.Equal(t, 0, updated.TotalReferrals)
	assert.Equal(t, 0, updated.PointsBalance)

	// the same delivery succeeds once the fault clears
	_, err = ProcessReferral(db, legacyRequest(ambassador.ReferralCode))
	require.NoError(t, err)
}

func TestNormalizeWebhookPayloadCompact(t *testing.T) {
	req, err := NormalizeWebhookPayload(&webhookPayload{
		Name:    strPtr("Bob Student"),
		Email:   strPtr("bob@student.example.com"),
		Referer: strPtr("AMB-JOHN2024001"),
		Date:    "2026-01-15T10:30:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bob Student", req.StudentName)
	assert.Equal(t, "bob@student.example.com", req.StudentEmail)
	assert.Equal(t, "Standard", req.SubscriptionPlan)
	assert.Equal(t, float64(0), req.SubscriptionPrice)
	assert.Equal(t, "AMB-JOHN2024001", req.ReferralCode)
	assert.Equal(t, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC), req.RegisteredAt.UTC())

	// synthesized id is deterministic for the same email
	again, err := NormalizeWebhookPayload(&webhookPayload{
		Name:    strPtr("Bob Student"),
		Email:   strPtr("bob@student.example.com"),
		Referer: strPtr("AMB-JOHN2024001"),
	})
	require.NoError(t, err)
	assert.Len(t, req.StudentID, 32)
	assert.Equal(t, req.StudentID, again.StudentID)
}

func TestNormalizeWebhookPayloadCompactEmptyValue(t *testing.T) {
	// all three keys present marks the payload compact even when one is empty
	_, err := NormalizeWebhookPayload(&webhookPayload{
		Name:    strPtr("Bob Student"),
		Email:   strPtr(""),
		Referer: strPtr("AMB-JOHN2024001"),
	})
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestNormalizeWebhookPayloadLegacyWithStrayCompactKey(t *testing.T) {
	// a legacy payload carrying one compact key is still legacy; only the
	// presence of all three compact keys switches shapes
	req, err := NormalizeWebhookPayload(&webhookPayload{
		Name:         strPtr("Jane Doe"),
		StudentName:  "Jane Doe",
		StudentEmail: "jane@student.example.com",
		StudentID:    "STU-777",
		Plan:         "Premium",
		Price:        5000,
		ReferralCode: "AMB-JOHN2024001",
		RegisteredAt: "2024-05-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "STU-777", req.StudentID)
	assert.Equal(t, "Premium", req.SubscriptionPlan)
	assert.Equal(t, "AMB-JOHN2024001", req.ReferralCode)
}

func TestNormalizeWebhookPayloadPartialCompact(t *testing.T) {
	// two compact keys without the student* fields fail legacy validation
	_, err := NormalizeWebhookPayload(&webhookPayload{
		Name:  strPtr("Bob Student"),
		Email: strPtr("bob@student.example.com"),
	})
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestNormalizeWebhookPayloadLegacy(t *testing.T) {
	req, err := NormalizeWebhookPayload(&webhookPayload{
		StudentName:  "Alice Student",
		StudentEmail: "alice@student.example.com",
		StudentID:    "STU-001",
		Plan:         "Premium",
		Price:        5000,
		ReferralCode: "AMB-JOHN2024001",
		RegisteredAt: "2026-02-01T08:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "STU-001", req.StudentID)
	assert.Equal(t, "Premium", req.SubscriptionPlan)
	assert.Equal(t, float64(5000), req.SubscriptionPrice)
}

func TestNormalizeWebhookPayloadLegacyMissingFields(t *testing.T) {
	_, err := NormalizeWebhookPayload(&webhookPayload{
		StudentName:  "Alice Student",
		StudentEmail: "alice@student.example.com",
		ReferralCode: "AMB-JOHN2024001",
	})
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestParseRegisteredAtFallsBackToNow(t *testing.T) {
	before := time.Now()
	parsed := parseRegisteredAt("not-a-date")
	assert.False(t, parsed.Before(before))
}

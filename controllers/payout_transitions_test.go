package controllers

import (
	"testing"

	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func createTestPayout(t *testing.T, db *gorm.DB, ambassadorID string, amount int) *models.Payout {
	t.Helper()
	payout, err := RecordPayout(db, &CreatePayoutRequest{
		AmbassadorID:  ambassadorID,
		Amount:        amount,
		PaymentMethod: models.PaymentMethodMTN,
		PhoneNumber:   "+237670000000",
	})
	require.NoError(t, err)
	return payout
}

func TestRecordPayoutDeductsBalance(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 500)

	payout := createTestPayout(t, db, ambassador.ID, 300)

	assert.Equal(t, models.PayoutStatusPending, payout.Status)
	assert.Equal(t, 300, payout.Amount)
	assert.Equal(t, 300, payout.PointsDeducted)
	assert.Nil(t, payout.ProcessedAt)
	assert.Equal(t, 200, reloadAmbassador(t, db, ambassador.ID).PointsBalance)
}

func TestRecordPayoutInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 100)

	_, err := RecordPayout(db, &CreatePayoutRequest{
		AmbassadorID:  ambassador.ID,
		Amount:        300,
		PaymentMethod: models.PaymentMethodMTN,
		PhoneNumber:   "+237670000000",
	})
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Insufficient points balance", appErr.Message)

	var count int64
	require.NoError(t, db.Model(&models.Payout{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 100, reloadAmbassador(t, db, ambassador.ID).PointsBalance)
}

func TestRecordPayoutValidation(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 500)

	cases := []struct {
		name string
		req  CreatePayoutRequest
	}{
		{"missing fields", CreatePayoutRequest{AmbassadorID: ambassador.ID, Amount: 100}},
		{"bad method", CreatePayoutRequest{AmbassadorID: ambassador.ID, Amount: 100, PaymentMethod: "WIRE", PhoneNumber: "+237670000000"}},
		{"negative amount", CreatePayoutRequest{AmbassadorID: ambassador.ID, Amount: -50, PaymentMethod: models.PaymentMethodMTN, PhoneNumber: "+237670000000"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RecordPayout(db, &tc.req)
			require.Error(t, err)
			appErr := utils.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, 400, appErr.Code)
		})
	}
}

func TestRecordPayoutUnknownAmbassador(t *testing.T) {
	db := setupTestDB(t)

	_, err := RecordPayout(db, &CreatePayoutRequest{
		AmbassadorID:  "00000000-0000-0000-0000-000000000000",
		Amount:        100,
		PaymentMethod: models.PaymentMethodOrange,
		PhoneNumber:   "+237690000000",
	})
	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestCompletePayoutSetsProcessedAt(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 500)
	payout := createTestPayout(t, db, ambassador.ID, 300)

	updated, err := ApplyPayoutUpdate(db, payout.ID, &UpdatePayoutRequest{
		Status:               strPtr(models.PayoutStatusCompleted),
		TransactionReference: strPtr("MTN-TX-12345"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusCompleted, updated.Status)
	assert.Equal(t, "MTN-TX-12345", updated.TransactionReference)
	require.NotNil(t, updated.ProcessedAt)
	firstProcessed := *updated.ProcessedAt

	// completion never touches the balance, points were held at creation
	assert.Equal(t, 200, reloadAmbassador(t, db, ambassador.ID).PointsBalance)

	// re-marking completed is a no-op and keeps the original timestamp
	again, err := ApplyPayoutUpdate(db, payout.ID, &UpdatePayoutRequest{
		Status: strPtr(models.PayoutStatusCompleted),
		Notes:  strPtr("confirmed by finance"),
	})
	require.NoError(t, err)
	require.NotNil(t, again.ProcessedAt)
	assert.Equal(t, firstProcessed.Unix(), again.ProcessedAt.Unix())
	assert.Equal(t, "confirmed by finance", again.Notes)
}

func TestFailPayoutRestoresBalance(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 500)
	payout := createTestPayout(t, db, ambassador.ID, 300)
	assert.Equal(t, 200, reloadAmbassador(t, db, ambassador.ID).PointsBalance)

	updated, err := ApplyPayoutUpdate(db, payout.ID, &UpdatePayoutRequest{
		Status: strPtr(models.PayoutStatusFailed),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusFailed, updated.Status)
	assert.Nil(t, updated.ProcessedAt)
	assert.Equal(t, 500, reloadAmbassador(t, db, ambassador.ID).PointsBalance)

	// a repeated failed update must not restore twice
	_, err = ApplyPayoutUpdate(db, payout.ID, &UpdatePayoutRequest{
		Status: strPtr(models.PayoutStatusFailed),
		Notes:  strPtr("operator retried"),
	})
	require.NoError(t, err)
	assert.Equal(t, 500, reloadAmbassador(t, db, ambassador.ID).PointsBalance)
}

func TestPayoutTerminalStatesAreFinal(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 500)

	completed := createTestPayout(t, db, ambassador.ID, 100)
	_, err := ApplyPayoutUpdate(db, completed.ID, &UpdatePayoutRequest{Status: strPtr(models.PayoutStatusCompleted)})
	require.NoError(t, err)

	_, err = ApplyPayoutUpdate(db, completed.ID, &UpdatePayoutRequest{Status: strPtr(models.PayoutStatusFailed)})
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Payout is already completed", appErr.Message)

	failed := createTestPayout(t, db, ambassador.ID, 100)
	_, err = ApplyPayoutUpdate(db, failed.ID, &UpdatePayoutRequest{Status: strPtr(models.PayoutStatusFailed)})
	require.NoError(t, err)

	_, err = ApplyPayoutUpdate(db, failed.ID, &UpdatePayoutRequest{Status: strPtr(models.PayoutStatusPending)})
	require.Error(t, err)
	_, err = ApplyPayoutUpdate(db, failed.ID, &UpdatePayoutRequest{Status: strPtr(models.PayoutStatusCompleted)})
	require.Error(t, err)
}

func TestFailPayoutLosesRaceWithoutRestoring(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 500)
	payout := createTestPayout(t, db, ambassador.ID, 300)

	// flip the payout to completed between the status read and the update,
	// the way a second operator request would
	flipped := false
	err := db.Callback().Update().Before("gorm:update").Register("test:flip_payout_status", func(tx *gorm.DB) {
		if !flipped && tx.Statement.Table == "payouts" {
			flipped = true
			tx.Session(&gorm.Session{NewDB: true}).
				Exec("UPDATE payouts SET status = ? WHERE id = ?", models.PayoutStatusCompleted, payout.ID)
		}
	})
	require.NoError(t, err)

	_, err = ApplyPayoutUpdate(db, payout.ID, &UpdatePayoutRequest{Status: strPtr(models.PayoutStatusFailed)})
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Code)

	// the losing request must not have restored the hold
	assert.Equal(t, 200, reloadAmbassador(t, db, ambassador.ID).PointsBalance)
}

func TestBalanceEqualsEarnedMinusHeld(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 0)

	// points_balance must always equal total_points_earned minus the points
	// held by pending and completed payouts
	checkLedger := func(step string) {
		t.Helper()
		current := reloadAmbassador(t, db, ambassador.ID)
		var held int64
		require.NoError(t, db.Model(&models.Payout{}).
			Where("ambassador_id = ? AND status IN ?", ambassador.ID,
				[]string{models.PayoutStatusPending, models.PayoutStatusCompleted}).
			Select("COALESCE(SUM(points_deducted), 0)").
			Scan(&held).Error)
		assert.Equal(t, int64(current.TotalPointsEarned)-held, int64(current.PointsBalance), step)
	}

	refer := func(studentID, email string) {
		t.Helper()
		req := legacyRequest(ambassador.ReferralCode)
		req.StudentID = studentID
		req.StudentEmail = email
		_, err := ProcessReferral(db, req)
		require.NoError(t, err)
	}

	checkLedger("initial")

	refer("STU-100", "stu100@student.example.com")
	checkLedger("after first referral")

	refer("STU-101", "stu101@student.example.com")
	checkLedger("after second referral")

	first := createTestPayout(t, db, ambassador.ID, 600)
	checkLedger("after first payout created")

	_, err := ApplyPayoutUpdate(db, first.ID, &UpdatePayoutRequest{Status: strPtr(models.PayoutStatusCompleted)})
	require.NoError(t, err)
	checkLedger("after first payout completed")

	second := createTestPayout(t, db, ambassador.ID, 500)
	checkLedger("after second payout created")

	_, err = ApplyPayoutUpdate(db, second.ID, &UpdatePayoutRequest{Status: strPtr(models.PayoutStatusFailed)})
	require.NoError(t, err)
	checkLedger("after second payout failed")

	refer("STU-102", "stu102@student.example.com")
	checkLedger("after third referral")

	third := createTestPayout(t, db, ambassador.ID, 900)
	checkLedger("after third payout created")

	_, err = ApplyPayoutUpdate(db, third.ID, &UpdatePayoutRequest{Notes: strPtr("awaiting transfer")})
	require.NoError(t, err)
	checkLedger("after metadata update")

	_, err = ApplyPayoutUpdate(db, third.ID, &UpdatePayoutRequest{Status: strPtr(models.PayoutStatusCompleted)})
	require.NoError(t, err)
	checkLedger("after third payout completed")
}

func TestPayoutMetadataOnlyUpdate(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 500)
	payout := createTestPayout(t, db, ambassador.ID, 300)

	updated, err := ApplyPayoutUpdate(db, payout.ID, &UpdatePayoutRequest{
		Notes: strPtr("awaiting operator confirmation"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPending, updated.Status)
	assert.Equal(t, "awaiting operator confirmation", updated.Notes)
	assert.Equal(t, 200, reloadAmbassador(t, db, ambassador.ID).PointsBalance)
}

func TestPayoutUpdateValidation(t *testing.T) {
	db := setupTestDB(t)
	ambassador := createTestAmbassador(t, db, "AMB-JOHN2024001", 500)
	payout := createTestPayout(t, db, ambassador.ID, 300)

	_, err := ApplyPayoutUpdate(db, payout.ID, &UpdatePayoutRequest{})
	require.Error(t, err)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "No fields to update", appErr.Message)

	_, err = ApplyPayoutUpdate(db, payout.ID, &UpdatePayoutRequest{Status: strPtr("refunded")})
	require.Error(t, err)

	_, err = ApplyPayoutUpdate(db, "missing-id", &UpdatePayoutRequest{Status: strPtr(models.PayoutStatusCompleted)})
	require.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
}

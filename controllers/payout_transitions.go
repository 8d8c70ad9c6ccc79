package controllers

import (
	"errors"
	"time"

	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
	"gorm.io/gorm"
)

// CreatePayoutRequest is the input for recording a new payout
type CreatePayoutRequest struct {
	AmbassadorID         string `json:"ambassadorId"`
	Amount               int    `json:"amount"`
	PaymentMethod        string `json:"payment_method"`
	PhoneNumber          string `json:"phone_number"`
	TransactionReference string `json:"transaction_reference"`
	Notes                string `json:"notes"`
}

// UpdatePayoutRequest carries a requested status transition and/or metadata
// updates. Nil fields are left untouched.
type UpdatePayoutRequest struct {
	Status               *string `json:"status"`
	TransactionReference *string `json:"transaction_reference"`
	Notes                *string `json:"notes"`
}

// RecordPayout creates a pending payout and deducts the points hold in one
// transaction. points_deducted always equals amount (1 point = 1 FCFA).
//
// The balance read before the transaction gives a clean error message; the
// guarded UPDATE inside it is what actually prevents two concurrent payouts
// from overdrawing the balance.
func RecordPayout(db *gorm.DB, req *CreatePayoutRequest) (*models.Payout, error) {
	if req.AmbassadorID == "" || req.Amount == 0 || req.PaymentMethod == "" || req.PhoneNumber == "" {
		return nil, utils.ValidationError("ambassadorId, amount, payment_method, and phone_number are required", nil)
	}
	if req.PaymentMethod != models.PaymentMethodMTN && req.PaymentMethod != models.PaymentMethodOrange {
		return nil, utils.ValidationError("payment_method must be MTN or ORANGE", nil)
	}
	if req.Amount < 0 {
		return nil, utils.ValidationError("amount must be positive", nil)
	}

	var ambassador models.Ambassador
	if err := db.First(&ambassador, "id = ?", req.AmbassadorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Ambassador not found", nil)
		}
		return nil, utils.InternalError("Failed to create payout", err)
	}

	if ambassador.PointsBalance < req.Amount {
		return nil, utils.StateError("Insufficient points balance", nil)
	}

	payout := models.Payout{
		AmbassadorID:         req.AmbassadorID,
		Amount:               req.Amount,
		PointsDeducted:       req.Amount,
		PaymentMethod:        req.PaymentMethod,
		PhoneNumber:          req.PhoneNumber,
		Status:               models.PayoutStatusPending,
		TransactionReference: req.TransactionReference,
		Notes:                req.Notes,
	}

	insufficient := utils.StateError("Insufficient points balance", nil)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payout).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Ambassador{}).
			Where("id = ? AND points_balance >= ?", req.AmbassadorID, req.Amount).
			Update("points_balance", gorm.Expr("points_balance - ?", req.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return insufficient
		}
		return nil
	})
	if err != nil {
		if appErr := utils.GetAppError(err); appErr != nil {
			return nil, appErr
		}
		return nil, utils.InternalError("Failed to create payout", err)
	}

	utils.LogInfo("Payout %s recorded: %d points held for ambassador %s", payout.ID, payout.Amount, ambassador.Name)
	return &payout, nil
}

// ApplyPayoutUpdate applies a status transition and/or metadata change.
// Status moves only out of pending: completed sets processed_at once and
// never touches the balance (points were held at creation); failed restores
// the hold. Restoration keys off the stored status, so re-marking an already
// failed payout is a no-op and the points come back exactly once.
func ApplyPayoutUpdate(db *gorm.DB, id string, req *UpdatePayoutRequest) (*models.Payout, error) {
	var payout models.Payout
	if err := db.First(&payout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Payout not found", nil)
		}
		return nil, utils.InternalError("Failed to update payout", err)
	}

	if req.Status == nil && req.TransactionReference == nil && req.Notes == nil {
		return nil, utils.ValidationError("No fields to update", nil)
	}

	updates := map[string]interface{}{}
	restore := false

	if req.Status != nil {
		status := *req.Status
		switch status {
		case models.PayoutStatusPending, models.PayoutStatusCompleted, models.PayoutStatusFailed:
		default:
			return nil, utils.ValidationError("Invalid status", nil)
		}

		if status != payout.Status {
			if payout.Status != models.PayoutStatusPending {
				return nil, utils.StateError("Payout is already "+payout.Status, nil)
			}
			updates["status"] = status
			if status == models.PayoutStatusCompleted && payout.ProcessedAt == nil {
				updates["processed_at"] = time.Now()
			}
			if status == models.PayoutStatusFailed {
				restore = true
			}
		}
	}

	if req.TransactionReference != nil {
		updates["transaction_reference"] = *req.TransactionReference
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		err := db.Transaction(func(tx *gorm.DB) error {
			query := tx.Model(&models.Payout{}).Where("id = ?", id)
			if _, ok := updates["status"]; ok {
				// transitions leave pending only; the guard keeps a racing
				// second transition from passing the read above and
				// restoring the hold twice
				query = query.Where("status = ?", models.PayoutStatusPending)
			}
			res := query.Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return utils.StateError("Payout was already processed", nil)
			}
			if restore {
				return tx.Model(&models.Ambassador{}).
					Where("id = ?", payout.AmbassadorID).
					Update("points_balance", gorm.Expr("points_balance + ?", payout.PointsDeducted)).Error
			}
			return nil
		})
		if err != nil {
			if appErr := utils.GetAppError(err); appErr != nil {
				return nil, appErr
			}
			return nil, utils.InternalError("Failed to update payout", err)
		}
		if restore {
			utils.LogInfo("Payout %s failed: restored %d points to ambassador %s", payout.ID, payout.PointsDeducted, payout.AmbassadorID)
		}
	}

	var updated models.Payout
	if err := db.First(&updated, "id = ?", id).Error; err != nil {
		return nil, utils.InternalError("Failed to update payout", err)
	}
	return &updated, nil
}

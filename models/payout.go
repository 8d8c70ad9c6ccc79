package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payout statuses. Pending is the only non-terminal state: a payout moves
// pending -> completed or pending -> failed and stays there.
const (
	PayoutStatusPending   = "pending"
	PayoutStatusCompleted = "completed"
	PayoutStatusFailed    = "failed"
)

// Payment methods accepted for manual mobile-money transfers
const (
	PaymentMethodMTN    = "MTN"
	PaymentMethodOrange = "ORANGE"
)

// Payout represents a manually-fulfilled cash disbursement against an
// ambassador's point balance. Points are deducted when the payout is created
// (1 point = 1 FCFA) and restored only if the payout is marked failed.
type Payout struct {
	ID                   string      `gorm:"type:uuid;primaryKey" json:"id"`
	AmbassadorID         string      `gorm:"type:uuid;not null" json:"ambassador_id"`
	Ambassador           *Ambassador `json:"-" gorm:"foreignKey:AmbassadorID"`
	Amount               int         `gorm:"not null" json:"amount"`
	PointsDeducted       int         `gorm:"not null" json:"points_deducted"`
	PaymentMethod        string      `gorm:"not null" json:"payment_method"`
	PhoneNumber          string      `json:"phone_number"`
	Status               string      `gorm:"default:'pending'" json:"status"`
	TransactionReference string      `json:"transaction_reference"`
	Notes                string      `json:"notes"`
	ProcessedAt          *time.Time  `json:"processed_at"`
	CreatedAt            time.Time   `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key
func (p *Payout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

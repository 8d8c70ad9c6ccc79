package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral statuses
const (
	ReferralStatusActive    = "active"
	ReferralStatusCancelled = "cancelled"
)

// Referral represents one student signup attributed to an ambassador.
// A student is recorded exactly once: both student_id and student_email carry
// unique indexes, so a duplicate delivery fails the insert even when two
// requests race past the application-level check.
type Referral struct {
	ID                string      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentName       string      `gorm:"not null" json:"student_name"`
	StudentEmail      string      `gorm:"uniqueIndex;not null" json:"student_email"`
	StudentID         string      `gorm:"uniqueIndex;not null" json:"student_id"`
	AmbassadorID      *string     `gorm:"type:uuid" json:"ambassador_id"`
	Ambassador        *Ambassador `json:"-" gorm:"foreignKey:AmbassadorID"`
	AmbassadorCode    string      `json:"ambassador_code"`
	SubscriptionPlan  string      `json:"subscription_plan"`
	SubscriptionPrice float64     `json:"subscription_price"`
	PointsAwarded     int         `json:"points_awarded"`
	Status            string      `gorm:"default:'active'" json:"status"`
	RegisteredAt      time.Time   `json:"registered_at"`
	CreatedAt         time.Time   `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key
func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

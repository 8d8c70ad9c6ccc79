package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ambassador statuses
const (
	AmbassadorStatusActive    = "active"
	AmbassadorStatusInactive  = "inactive"
	AmbassadorStatusSuspended = "suspended"
)

// Ambassador represents a referrer with a unique code and a tracked point balance.
// Ambassadors are never hard-deleted; status flips to inactive instead.
type Ambassador struct {
	ID                string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string     `gorm:"not null" json:"name"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	Phone             string     `json:"phone"`
	PasswordHash      string     `json:"-"`
	ReferralCode      string     `gorm:"uniqueIndex;not null" json:"referral_code"`
	TotalReferrals    int        `gorm:"default:0" json:"total_referrals"`
	TotalPointsEarned int        `gorm:"default:0" json:"total_points_earned"`
	PointsBalance     int        `gorm:"default:0" json:"points_balance"`
	Status            string     `gorm:"default:'active'" json:"status"`
	SocialMedia       string     `json:"social_media"`
	TargetReferrals   *int       `json:"target_referrals"`
	TargetPoints      *int       `json:"target_points"`
	KpiNotes          string     `json:"kpi_notes"`
	Notes             string     `json:"notes"`
	JoinedAt          time.Time  `gorm:"autoCreateTime" json:"joined_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Referrals         []Referral `json:"-" gorm:"foreignKey:AmbassadorID"`
	Payouts           []Payout   `json:"-" gorm:"foreignKey:AmbassadorID"`
}

// BeforeCreate assigns a UUID primary key
func (a *Ambassador) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

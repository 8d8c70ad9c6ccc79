package models

import "time"

// Setting keys used by the referral pipeline and admin configuration
const (
	SettingPointsPerReferral      = "points_per_referral"
	SettingMaxAmbassadors         = "max_ambassadors"
	SettingSystemActive           = "system_active"
	SettingWebhookSecret          = "webhook_secret"
	SettingGeneralTargetReferrals = "general_target_referrals"
	SettingGeneralTargetPoints    = "general_target_points"
)

// Setting is a flat key/value row. Values are stored as strings and parsed at
// the point of use. Settings are read fresh on every decision, never cached,
// so an update takes effect on the very next request.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

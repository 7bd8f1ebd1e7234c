package models

import "time"

// Budget is a user's single monthly spending limit, in minor units.
// LastAlertSent records when the most recent threshold alert went out.
type Budget struct {
	Base
	UserID        string     `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Amount        int64      `gorm:"type:bigint;not null" json:"amount"`
	LastAlertSent *time.Time `json:"last_alert_sent,omitempty"`
}

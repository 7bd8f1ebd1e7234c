package models

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeCurrent AccountType = "CURRENT"
	AccountTypeSavings AccountType = "SAVINGS"
)

// Account represents a financial account in the system.
// Balance is stored in minor units (cents). At most one account per user is
// the default; the migrations back this with a partial unique index.
type Account struct {
	Base
	UserID    string      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string      `gorm:"not null" json:"name"`
	Type      AccountType `gorm:"not null" json:"type"`
	Balance   int64       `gorm:"type:bigint;not null;default:0" json:"balance"`
	Currency  string      `gorm:"not null;default:'USD'" json:"currency"`
	IsDefault bool        `gorm:"not null;default:false" json:"is_default"`
}

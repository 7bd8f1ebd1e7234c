package models

import (
	"time"

	"gorm.io/gorm"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// RecurringInterval is how often a recurring template fires.
type RecurringInterval string

const (
	RecurringDaily   RecurringInterval = "DAILY"
	RecurringWeekly  RecurringInterval = "WEEKLY"
	RecurringMonthly RecurringInterval = "MONTHLY"
	RecurringYearly  RecurringInterval = "YEARLY"
)

// TransactionStatus tracks settlement. Only COMPLETED recurring templates are processed.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction represents a financial transaction in the system.
// Amount is a non-negative magnitude in minor units; Type carries the sign.
// A recurring transaction is a template: NextRecurringDate is set iff IsRecurring.
type Transaction struct {
	Base
	UserID            string             `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID         string             `gorm:"type:uuid;not null;index" json:"account_id"`
	Type              TransactionType    `gorm:"not null" json:"type"`
	Amount            int64              `gorm:"type:bigint;not null" json:"amount"`
	Description       string             `json:"description"`
	Date              time.Time          `gorm:"not null;index" json:"date"`
	Category          string             `gorm:"not null" json:"category"`
	ReceiptURL        string             `json:"receipt_url,omitempty"`
	IsRecurring       bool               `gorm:"not null;default:false" json:"is_recurring"`
	RecurringInterval *RecurringInterval `json:"recurring_interval,omitempty"`
	NextRecurringDate *time.Time         `json:"next_recurring_date,omitempty"`
	LastProcessed     *time.Time         `json:"last_processed,omitempty"`
	Status            TransactionStatus  `gorm:"not null;default:'COMPLETED'" json:"status"`
}

// BeforeCreate assigns the id and defaults the status to COMPLETED.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = TransactionStatusCompleted
	}
	return t.Base.BeforeCreate(tx)
}

package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"welth/internal/models"
	"welth/internal/pagination"
)

// Identity is the verified profile of the caller as reported by the identity provider.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
	ImageURL   string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	SyncUser(identity Identity) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
}

// CreateAccountInput holds the fields accepted when opening an account.
type CreateAccountInput struct {
	Name      string
	Type      models.AccountType
	Balance   int64
	Currency  string
	IsDefault bool
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID string, in CreateAccountInput) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	GetDefaultAccount(userID string) (*models.Account, error)
	SetDefaultAccount(userID, accountID string) (*models.Account, error)
	ApplyTransactionEffect(tx *gorm.DB, userID, accountID string, delta int64) error
}

// TransactionInput holds the caller-supplied fields of a transaction. It is
// used for both create and full-replacement update.
type TransactionInput struct {
	AccountID         string
	Type              models.TransactionType
	Amount            int64
	Description       string
	Date              time.Time
	Category          string
	ReceiptURL        string
	IsRecurring       bool
	RecurringInterval *models.RecurringInterval
	Status            models.TransactionStatus
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate    *time.Time
	ToDate      *time.Time
	Type        *models.TransactionType
	Category    *string
	IsRecurring *bool
	Search      string
}

// TransactionServicer defines the ledger operations. Every write that changes
// a balance commits the transaction rows and the balance update together.
type TransactionServicer interface {
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, in TransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	BulkDeleteTransactions(userID string, transactionIDs []string) (int64, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// RecurrenceServicer selects and processes due recurring templates.
type RecurrenceServicer interface {
	FindDueRecurring(ctx context.Context, now time.Time) ([]models.Transaction, error)
	ProcessRecurringTransaction(ctx context.Context, userID, transactionID string, now time.Time) (bool, error)
}

// BudgetStatus is a budget together with month-to-date spending on one account.
type BudgetStatus struct {
	Budget         *models.Budget `json:"budget"`
	AccountID      string         `json:"account_id"`
	CurrentExpense int64          `json:"current_expenses"`
	PercentageUsed float64        `json:"percentage_used"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	UpsertBudget(userID string, amount int64) (*models.Budget, error)
	GetCurrentBudget(userID, accountID string, now time.Time) (*BudgetStatus, error)
}

// JobSummary reports the outcome of one scheduled batch.
type JobSummary struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// BudgetAlertServicer evaluates every budget and notifies users nearing their limit.
type BudgetAlertServicer interface {
	CheckBudgetAlerts(ctx context.Context, now time.Time) (*JobSummary, error)
}

// MonthlyStats is the fold of one user's transactions over one calendar month.
// Amounts are minor units.
type MonthlyStats struct {
	Month            time.Time        `json:"month"`
	TotalIncome      int64            `json:"total_income"`
	TotalExpenses    int64            `json:"total_expenses"`
	ByCategory       map[string]int64 `json:"by_category"`
	TransactionCount int              `json:"transaction_count"`
}

// ReportServicer builds monthly summaries and mails them to users.
type ReportServicer interface {
	GetMonthlyStats(userID string, month time.Time) (*MonthlyStats, error)
	GenerateMonthlyReports(ctx context.Context, now time.Time) (*JobSummary, error)
}

// ReceiptScan is the structured content extracted from a receipt image.
// Empty is true when the image was not recognised as a receipt.
type ReceiptScan struct {
	Empty        bool       `json:"empty"`
	Amount       int64      `json:"amount"`
	Date         *time.Time `json:"date,omitempty"`
	Description  string     `json:"description"`
	MerchantName string     `json:"merchant_name"`
	Category     string     `json:"category"`
}

// ReceiptServicer extracts transaction fields from receipt images.
type ReceiptServicer interface {
	ScanReceipt(ctx context.Context, image []byte, mimeType string) (*ReceiptScan, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}

package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"welth/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique external id and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		ExternalID: fmt.Sprintf("ext_%d", nextID()),
		Email:      email,
		Name:       "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates a non-default current account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, 0)
}

// CreateTestAccountWithBalance creates a non-default current account with the given balance (in cents).
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID string, balance int64) *models.Account {
	t.Helper()
	return createAccount(t, db, userID, balance, false)
}

// CreateTestDefaultAccount creates the user's default account with the given balance.
func CreateTestDefaultAccount(t *testing.T, db *gorm.DB, userID string, balance int64) *models.Account {
	t.Helper()
	return createAccount(t, db, userID, balance, true)
}

func createAccount(t *testing.T, db *gorm.DB, userID string, balance int64, isDefault bool) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Account %d", nextID()),
		Type:      models.AccountTypeCurrent,
		Balance:   balance,
		Currency:  "USD",
		IsDefault: isDefault,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTransaction inserts a completed one-off transaction dated now.
// It writes the row directly and leaves the account balance untouched.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, db, userID, accountID, txType, amount, time.Now().UTC())
}

// CreateTestTransactionOn inserts a completed one-off transaction on the given date.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, userID, accountID string, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	category := "groceries"
	if txType == models.TransactionTypeIncome {
		category = "salary"
	}
	txn := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Type:        txType,
		Amount:      amount,
		Description: fmt.Sprintf("Test transaction %d", nextID()),
		Date:        date,
		Category:    category,
		Status:      models.TransactionStatusCompleted,
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}

// CreateTestRecurring inserts a completed recurring expense template.
func CreateTestRecurring(t *testing.T, db *gorm.DB, userID, accountID string, amount int64, interval models.RecurringInterval, date time.Time, next, lastProcessed *time.Time) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		UserID:            userID,
		AccountID:         accountID,
		Type:              models.TransactionTypeExpense,
		Amount:            amount,
		Description:       "Rent",
		Date:              date,
		Category:          "housing",
		IsRecurring:       true,
		RecurringInterval: &interval,
		NextRecurringDate: next,
		LastProcessed:     lastProcessed,
		Status:            models.TransactionStatusCompleted,
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return txn
}

// CreateTestBudget creates a budget of the given amount for the user.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, amount int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID: userID,
		Amount: amount,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// ReloadAccount re-reads an account so tests can assert on its persisted balance.
func ReloadAccount(t *testing.T, db *gorm.DB, accountID string) *models.Account {
	t.Helper()

	var account models.Account
	if err := db.First(&account, "id = ?", accountID).Error; err != nil {
		t.Fatalf("failed to reload account %s: %v", accountID, err)
	}
	return &account
}

package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"welth/internal/categories"
	apperrors "welth/internal/errors"
	"welth/internal/models"
	"welth/internal/money"
	"welth/internal/pagination"
	"welth/internal/recurrence"
)

// maxBulkDelete caps the number of ids accepted by one bulk delete.
const maxBulkDelete = 500

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// CreateTransaction records a transaction and applies its effect to the
// account balance in one commit. A recurring template leaves the balance
// untouched; its occurrences carry the effect.
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	transaction, err := buildTransaction(userID, in)
	if err != nil {
		return nil, err
	}

	if _, err := s.accountService.GetAccountByID(userID, transaction.AccountID); err != nil {
		return nil, err
	}

	delta, err := money.NetChange(money.OpCreate, *transaction, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = runInTx(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrTransactionFailed, err)
		}
		return s.accountService.ApplyTransactionEffect(tx, userID, transaction.AccountID, delta)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// UpdateTransaction replaces the editable fields of a transaction. The balance
// moves by the difference between the new and old ledger effects; when the
// account changes, the old account is reversed and the new one charged in the
// same commit. Turning a one-off into a template reverses it, and the
// opposite flip charges it.
func (s *transactionService) UpdateTransaction(userID, transactionID string, in TransactionInput) (*models.Transaction, error) {
	if _, err := s.GetTransactionByID(userID, transactionID); err != nil {
		return nil, err
	}

	updated, err := buildTransaction(userID, in)
	if err != nil {
		return nil, err
	}

	if _, err := s.accountService.GetAccountByID(userID, updated.AccountID); err != nil {
		return nil, err
	}

	err = runInTx(s.db, func(tx *gorm.DB) error {
		// Old values are captured under the row lock so the net change is
		// computed against what is actually being replaced.
		previous, err := lockTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Transaction{}).
			Where("id = ? AND user_id = ?", transactionID, userID).
			Select("account_id", "type", "amount", "description", "date", "category", "receipt_url",
				"is_recurring", "recurring_interval", "next_recurring_date", "status").
			Updates(updated).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrTransactionFailed, err)
		}

		if updated.AccountID == previous.AccountID {
			delta, err := money.NetChange(money.OpUpdate, *updated, previous)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return s.accountService.ApplyTransactionEffect(tx, userID, updated.AccountID, delta)
		}

		reverse, _ := money.NetChange(money.OpDelete, *previous, nil)
		if err := s.accountService.ApplyTransactionEffect(tx, userID, previous.AccountID, reverse); err != nil {
			return err
		}
		apply, _ := money.NetChange(money.OpCreate, *updated, nil)
		return s.accountService.ApplyTransactionEffect(tx, userID, updated.AccountID, apply)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction deletes a transaction and reverses its balance effect.
// Deleting a template leaves its past occurrences and the balance alone.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	if _, err := s.GetTransactionByID(userID, transactionID); err != nil {
		return err
	}

	return runInTx(s.db, func(tx *gorm.DB) error {
		transaction, err := lockTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}

		res := tx.Where("id = ? AND user_id = ?", transactionID, userID).Delete(&models.Transaction{})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrTransactionFailed, res.Error)
		}
		// A concurrent delete already reversed the balance.
		if res.RowsAffected == 0 {
			return apperrors.ErrTransactionNotFound
		}

		delta, err := money.NetChange(money.OpDelete, *transaction, nil)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.ApplyTransactionEffect(tx, userID, transaction.AccountID, delta)
	})
}

// lockTransaction re-reads a transaction inside tx, taking a row lock where
// the database supports one.
func lockTransaction(tx *gorm.DB, userID, transactionID string) (*models.Transaction, error) {
	var t models.Transaction
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrTransactionFailed, err)
	}
	return &t, nil
}

// BulkDeleteTransactions deletes the user's transactions among ids. Reversals
// are summed per account and applied as one balance update per account.
// Ids that do not exist or belong to someone else are ignored; the number of
// deleted rows is returned.
func (s *transactionService) BulkDeleteTransactions(userID string, transactionIDs []string) (int64, error) {
	ids := dedupe(transactionIDs)
	if len(ids) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one transaction id is required")
	}
	if len(ids) > maxBulkDelete {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "too many transaction ids")
	}

	var deleted int64
	err := runInTx(s.db, func(tx *gorm.DB) error {
		var owned []models.Transaction
		if err := tx.Where("id IN ? AND user_id = ?", ids, userID).Find(&owned).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrTransactionFailed, err)
		}
		if len(owned) == 0 {
			return nil
		}

		ownedIDs := make([]string, len(owned))
		for i := range owned {
			ownedIDs[i] = owned[i].ID
		}

		res := tx.Where("id IN ? AND user_id = ?", ownedIDs, userID).Delete(&models.Transaction{})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrTransactionFailed, res.Error)
		}
		if res.RowsAffected != int64(len(owned)) {
			return apperrors.WithMessage(apperrors.ErrTransactionFailed, "transactions changed during delete, retry")
		}

		reversals := money.GroupReversals(owned)
		accountIDs := make([]string, 0, len(reversals))
		for id := range reversals {
			accountIDs = append(accountIDs, id)
		}
		// Stable order keeps row locks acquired in the same sequence across writers.
		sort.Strings(accountIDs)

		for _, accountID := range accountIDs {
			if err := s.accountService.ApplyTransactionEffect(tx, userID, accountID, reversals[accountID]); err != nil {
				return err
			}
		}

		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions across accounts.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	return s.list(base, page, filter)
}

// GetAccountTransactions retrieves a paginated, filtered list of transactions for a specific account.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	base := s.db.Model(&models.Transaction{}).Where("user_id = ? AND account_id = ?", userID, accountID)
	return s.list(base, page, filter)
}

func (s *transactionService) list(base *gorm.DB, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Order("id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.IsRecurring != nil {
		q = q.Where("is_recurring = ?", *f.IsRecurring)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q = q.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return q
}

// buildTransaction validates in and returns the row to write. Validation
// happens before any database access.
func buildTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	if in.AccountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	if in.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if in.Type != models.TransactionTypeIncome && in.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !categories.Valid(in.Category, in.Type) {
		return nil, apperrors.ErrInvalidCategory
	}

	status := in.Status
	switch status {
	case "":
		status = models.TransactionStatusCompleted
	case models.TransactionStatusPending, models.TransactionStatusCompleted, models.TransactionStatusFailed:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported transaction status")
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	t := &models.Transaction{
		UserID:      userID,
		AccountID:   in.AccountID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Date:        date,
		Category:    in.Category,
		ReceiptURL:  in.ReceiptURL,
		Status:      status,
	}

	if in.IsRecurring {
		if in.RecurringInterval == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInterval, "recurring transactions need an interval")
		}
		next, err := recurrence.NextOccurrence(date, *in.RecurringInterval)
		if err != nil {
			return nil, err
		}
		interval := *in.RecurringInterval
		t.IsRecurring = true
		t.RecurringInterval = &interval
		t.NextRecurringDate = &next
	}

	return t, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "welth/internal/errors"
	"welth/internal/models"
	"welth/internal/money"
	"welth/internal/recurrence"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, accountService AccountServicer) BudgetServicer {
	return &budgetService{db: db, accountService: accountService}
}

// UpsertBudget sets the user's monthly budget, creating it on first use.
// A user never has more than one budget row.
func (s *budgetService) UpsertBudget(userID string, amount int64) (*models.Budget, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be greater than zero")
	}

	var budget models.Budget
	err := runInTx(s.db, func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&budget).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			budget = models.Budget{UserID: userID, Amount: amount}
			if err := tx.Create(&budget).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrTransactionFailed, err)
			}
			return nil
		case err != nil:
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&budget).Update("amount", amount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrTransactionFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// GetCurrentBudget returns the user's budget and the month-to-date expenses
// on accountID as of now.
func (s *budgetService) GetCurrentBudget(userID, accountID string, now time.Time) (*BudgetStatus, error) {
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	var budget models.Budget
	if err := s.db.Where("user_id = ?", userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent, err := monthExpenses(s.db, userID, accountID, now)
	if err != nil {
		return nil, err
	}

	pct, _ := money.Percentage(spent, budget.Amount).Round(2).Float64()
	return &BudgetStatus{
		Budget:         &budget,
		AccountID:      accountID,
		CurrentExpense: spent,
		PercentageUsed: pct,
	}, nil
}

// monthExpenses sums EXPENSE amounts on the account within now's calendar
// month. Recurring templates are schedules, not spending, and are skipped.
func monthExpenses(db *gorm.DB, userID, accountID string, now time.Time) (int64, error) {
	start, end := recurrence.MonthBounds(now)

	var total int64
	err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND account_id = ? AND type = ?", userID, accountID, models.TransactionTypeExpense).
		Where("is_recurring = ?", false).
		Where("date >= ? AND date <= ?", start, end).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

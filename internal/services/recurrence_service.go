package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "welth/internal/errors"
	"welth/internal/logger"
	"welth/internal/models"
	"welth/internal/money"
	"welth/internal/recurrence"
)

// occurrenceSuffix marks transactions generated from a recurring template.
const occurrenceSuffix = " (Recurring)"

// recurrenceService spawns occurrences from due recurring templates.
type recurrenceService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewRecurrenceService creates a new RecurrenceServicer.
func NewRecurrenceService(db *gorm.DB, accountService AccountServicer) RecurrenceServicer {
	return &recurrenceService{db: db, accountService: accountService}
}

// dueScope selects completed recurring templates that are due at now.
func dueScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("is_recurring = ? AND status = ?", true, models.TransactionStatusCompleted).
			Where("(last_processed IS NULL OR next_recurring_date <= ?)", now)
	}
}

// FindDueRecurring returns every template due at now, oldest first.
func (s *recurrenceService) FindDueRecurring(ctx context.Context, now time.Time) ([]models.Transaction, error) {
	var due []models.Transaction
	if err := s.db.WithContext(ctx).
		Scopes(dueScope(now)).
		Order("next_recurring_date ASC").
		Order("id ASC").
		Find(&due).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return due, nil
}

// ProcessRecurringTransaction spawns one occurrence of the template if it is
// still due at now. It returns false without error when the template is gone,
// no longer recurring, or not due, which makes redelivery of the same event
// harmless. The template claim, the occurrence and the balance update commit
// together.
func (s *recurrenceService) ProcessRecurringTransaction(ctx context.Context, userID, transactionID string, now time.Time) (bool, error) {
	if userID == "" || transactionID == "" {
		return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "user and transaction ids are required")
	}

	db := s.db.WithContext(ctx)
	log := logger.Named("recurrence")

	var template models.Transaction
	err := db.Where("id = ? AND user_id = ? AND is_recurring = ? AND status = ?",
		transactionID, userID, true, models.TransactionStatusCompleted).
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debugw("recurring template gone, skipping", "transaction_id", transactionID, "user_id", userID)
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !recurrence.IsDue(template.LastProcessed, template.NextRecurringDate, now) {
		return false, nil
	}
	if template.RecurringInterval == nil {
		return false, apperrors.WithMessage(apperrors.ErrInvalidInterval, "recurring template has no interval")
	}

	next, err := recurrence.NextOccurrence(now, *template.RecurringInterval)
	if err != nil {
		return false, err
	}

	created := false
	err = runInTx(db, func(tx *gorm.DB) error {
		// Only one concurrent worker can move the template out of the due state.
		claim := tx.Model(&models.Transaction{}).
			Where("id = ? AND user_id = ?", template.ID, userID).
			Scopes(dueScope(now)).
			Updates(map[string]any{
				"last_processed":      now,
				"next_recurring_date": next,
			})
		if claim.Error != nil {
			return apperrors.Wrap(apperrors.ErrTransactionFailed, claim.Error)
		}
		if claim.RowsAffected == 0 {
			return nil
		}

		occurrence := &models.Transaction{
			UserID:      template.UserID,
			AccountID:   template.AccountID,
			Type:        template.Type,
			Amount:      template.Amount,
			Description: strings.TrimSpace(template.Description + occurrenceSuffix),
			Date:        now,
			Category:    template.Category,
			Status:      models.TransactionStatusCompleted,
		}
		if err := tx.Create(occurrence).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrTransactionFailed, err)
		}

		delta, err := money.NetChange(money.OpCreate, *occurrence, nil)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.accountService.ApplyTransactionEffect(tx, userID, template.AccountID, delta); err != nil {
			return err
		}

		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		log.Infow("recurring occurrence created",
			"template_id", template.ID,
			"user_id", userID,
			"next_recurring_date", next,
		)
	}
	return created, nil
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"welth/internal/email"
	apperrors "welth/internal/errors"
	"welth/internal/logger"
	"welth/internal/models"
	"welth/internal/money"
	"welth/internal/recurrence"
)

// DefaultAlertThreshold is the percentage of the budget that triggers the first alert of a month.
const DefaultAlertThreshold = 80

// budgetAlertService evaluates budgets against default-account spending.
type budgetAlertService struct {
	db        *gorm.DB
	sender    email.Sender
	threshold decimal.Decimal
	render    func(to string, data email.BudgetAlertData) (email.Message, error)
}

// NewBudgetAlertService creates a new BudgetAlertServicer. A non-positive
// threshold falls back to DefaultAlertThreshold.
func NewBudgetAlertService(db *gorm.DB, sender email.Sender, threshold float64) BudgetAlertServicer {
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}
	return &budgetAlertService{
		db:        db,
		sender:    sender,
		threshold: decimal.NewFromFloat(threshold),
		render:    email.BudgetAlert,
	}
}

// ShouldAlert decides whether a budget alert fires at now. At most one alert
// goes out per calendar month: the first when usage reaches threshold, and
// after that one whenever the month has rolled over since lastAlertSent.
func ShouldAlert(percentageUsed, threshold decimal.Decimal, lastAlertSent *time.Time, now time.Time) bool {
	if lastAlertSent == nil {
		return percentageUsed.GreaterThanOrEqual(threshold)
	}
	return !recurrence.SameMonth(now, *lastAlertSent)
}

// CheckBudgetAlerts evaluates every budget. Users without a default account
// are skipped. One failing budget does not stop the batch.
func (s *budgetAlertService) CheckBudgetAlerts(ctx context.Context, now time.Time) (*JobSummary, error) {
	log := logger.Named("budget-alerts")

	var budgets []models.Budget
	if err := s.db.WithContext(ctx).Order("id").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &JobSummary{}
	for i := range budgets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Processed++

		sent, err := s.evaluate(ctx, &budgets[i], now)
		switch {
		case err != nil:
			summary.Failed++
			log.Errorw("budget alert check failed", "budget_id", budgets[i].ID, "user_id", budgets[i].UserID, "error", err)
		case sent:
			summary.Sent++
		default:
			summary.Skipped++
		}
	}

	log.Infow("budget alert run complete",
		"processed", summary.Processed,
		"sent", summary.Sent,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (s *budgetAlertService) evaluate(ctx context.Context, budget *models.Budget, now time.Time) (bool, error) {
	db := s.db.WithContext(ctx)

	var account models.Account
	err := db.Where("user_id = ? AND is_default = ?", budget.UserID, true).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	spent, err := monthExpenses(db, budget.UserID, account.ID, now)
	if err != nil {
		return false, err
	}

	pct := money.Percentage(spent, budget.Amount)
	if !ShouldAlert(pct, s.threshold, budget.LastAlertSent, now) {
		return false, nil
	}

	var user models.User
	if err := db.Where("id = ?", budget.UserID).First(&user).Error; err != nil {
		return false, err
	}

	// Rendered before the claim so a failure here leaves the alert pending.
	msg, err := s.render(user.Email, email.BudgetAlertData{
		UserName:       user.Name,
		AccountName:    account.Name,
		PercentageUsed: pct.StringFixed(1),
		BudgetAmount:   money.Format(budget.Amount),
		TotalExpenses:  money.Format(spent),
		Remaining:      money.Format(budget.Amount - spent),
	})
	if err != nil {
		return false, err
	}

	// Claim the alert before sending so overlapping runs cannot both send it.
	claim := db.Model(&models.Budget{}).Where("id = ?", budget.ID)
	if budget.LastAlertSent == nil {
		claim = claim.Where("last_alert_sent IS NULL")
	} else {
		claim = claim.Where("last_alert_sent = ?", *budget.LastAlertSent)
	}
	res := claim.Update("last_alert_sent", now)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		logger.Get().Warnw("budget alert email failed", "user_id", user.ID, "error", err)
	}
	return true, nil
}

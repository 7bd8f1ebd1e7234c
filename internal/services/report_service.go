package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"welth/internal/ai"
	"welth/internal/email"
	apperrors "welth/internal/errors"
	"welth/internal/logger"
	"welth/internal/models"
	"welth/internal/money"
	"welth/internal/recurrence"
)

// FallbackInsights replace model output when insight generation fails.
var FallbackInsights = []string{
	"Your highest expense category this month might need attention.",
	"Consider setting up a budget for better financial management.",
	"Track your recurring expenses to identify potential savings.",
}

// reportService aggregates monthly activity and mails reports.
type reportService struct {
	db          *gorm.DB
	generator   ai.Generator
	sender      email.Sender
	concurrency int
}

// NewReportService creates a new ReportServicer. concurrency bounds how many
// users are reported on at once.
func NewReportService(db *gorm.DB, generator ai.Generator, sender email.Sender, concurrency int) ReportServicer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &reportService{
		db:          db,
		generator:   generator,
		sender:      sender,
		concurrency: concurrency,
	}
}

// GetMonthlyStats folds the user's transactions dated within month's calendar
// month. Expenses count toward their category; income only toward the total.
// Recurring templates are left out; their occurrences are counted.
func (s *reportService) GetMonthlyStats(userID string, month time.Time) (*MonthlyStats, error) {
	start, end := recurrence.MonthBounds(month)

	var transactions []models.Transaction
	if err := s.db.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Where("is_recurring = ?", false).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &MonthlyStats{
		Month:            start,
		ByCategory:       make(map[string]int64),
		TransactionCount: len(transactions),
	}
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeExpense:
			stats.TotalExpenses += t.Amount
			stats.ByCategory[t.Category] += t.Amount
		case models.TransactionTypeIncome:
			stats.TotalIncome += t.Amount
		}
	}
	return stats, nil
}

// GenerateMonthlyReports sends every user a report covering the month before
// now. Each user is an independent unit; failures are counted and logged.
func (s *reportService) GenerateMonthlyReports(ctx context.Context, now time.Time) (*JobSummary, error) {
	log := logger.Named("monthly-reports")

	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	month := recurrence.PreviousMonth(now)
	summary := &JobSummary{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range users {
		user := users[i]
		g.Go(func() error {
			err := s.reportUser(gctx, &user, month)

			mu.Lock()
			defer mu.Unlock()
			summary.Processed++
			if err != nil {
				summary.Failed++
				log.Errorw("monthly report failed", "user_id", user.ID, "error", err)
				return nil
			}
			summary.Sent++
			return nil
		})
	}
	_ = g.Wait()

	log.Infow("monthly report run complete",
		"month", month.Format("2006-01"),
		"processed", summary.Processed,
		"sent", summary.Sent,
		"failed", summary.Failed,
	)
	return summary, ctx.Err()
}

func (s *reportService) reportUser(ctx context.Context, user *models.User, month time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stats, err := s.GetMonthlyStats(user.ID, month)
	if err != nil {
		return err
	}

	monthName := month.Format("January")
	insights := s.insights(ctx, stats, monthName)

	msg, err := email.MonthlyReport(user.Email, email.MonthlyReportData{
		UserName:      user.Name,
		Month:         monthName,
		TotalIncome:   money.Format(stats.TotalIncome),
		TotalExpenses: money.Format(stats.TotalExpenses),
		Net:           money.Format(stats.TotalIncome - stats.TotalExpenses),
		ByCategory:    categoryLines(stats.ByCategory),
		Insights:      insights,
	})
	if err != nil {
		return err
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		logger.Get().Warnw("monthly report email failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// insights asks the model for three tips, falling back to FallbackInsights on
// any failure so the report always goes out.
func (s *reportService) insights(ctx context.Context, stats *MonthlyStats, monthName string) []string {
	if s.generator == nil {
		return FallbackInsights
	}

	text, err := s.generator.Generate(ctx, insightPrompt(stats, monthName))
	if err != nil {
		logger.Get().Warnw("insight generation failed, using fallback", "error", err)
		return FallbackInsights
	}

	var out []string
	if err := json.Unmarshal([]byte(ai.CleanJSON(text)), &out); err != nil || len(out) == 0 {
		logger.Get().Warnw("insight response unusable, using fallback", "error", err)
		return FallbackInsights
	}
	return out
}

func insightPrompt(stats *MonthlyStats, monthName string) string {
	lines := categoryLines(stats.ByCategory)
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprintf("%s: $%s", l.Category, l.Amount)
	}

	var b strings.Builder
	b.WriteString("Analyze this financial data and provide 3 concise, actionable insights.\n")
	b.WriteString("Focus on spending patterns and practical advice.\n")
	b.WriteString("Keep it friendly and conversational.\n\n")
	fmt.Fprintf(&b, "Financial Data for %s:\n", monthName)
	fmt.Fprintf(&b, "- Total Income: $%s\n", money.Format(stats.TotalIncome))
	fmt.Fprintf(&b, "- Total Expenses: $%s\n", money.Format(stats.TotalExpenses))
	fmt.Fprintf(&b, "- Net Income: $%s\n", money.Format(stats.TotalIncome-stats.TotalExpenses))
	fmt.Fprintf(&b, "- Expense Categories: %s\n\n", strings.Join(parts, ", "))
	b.WriteString("Format the response as a JSON array of strings, like this:\n")
	b.WriteString(`["insight 1", "insight 2", "insight 3"]`)
	return b.String()
}

// categoryLines sorts categories by amount, largest first.
func categoryLines(byCategory map[string]int64) []email.CategoryLine {
	keys := make([]string, 0, len(byCategory))
	for k := range byCategory {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if byCategory[keys[i]] != byCategory[keys[j]] {
			return byCategory[keys[i]] > byCategory[keys[j]]
		}
		return keys[i] < keys[j]
	})

	lines := make([]email.CategoryLine, len(keys))
	for i, k := range keys {
		lines[i] = email.CategoryLine{Category: k, Amount: money.Format(byCategory[k])}
	}
	return lines
}

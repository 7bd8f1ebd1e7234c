// Package app assembles the services and collaborators shared by the API
// server and the background worker.
package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"welth/internal/ai"
	"welth/internal/config"
	"welth/internal/email"
	"welth/internal/jobs"
	"welth/internal/logger"
	"welth/internal/ratelimit"
	"welth/internal/services"
)

// Services bundles every service built over one database handle.
type Services struct {
	Users        services.UserServicer
	Accounts     services.AccountServicer
	Transactions services.TransactionServicer
	Recurrence   services.RecurrenceServicer
	Budgets      services.BudgetServicer
	BudgetAlerts services.BudgetAlertServicer
	Reports      services.ReportServicer
	Receipts     services.ReceiptServicer
	Audit        services.AuditServicer
}

// NewServices wires the services to their collaborators.
func NewServices(db *gorm.DB, cfg *config.Config, generator ai.Generator, sender email.Sender) *Services {
	accounts := services.NewAccountService(db)
	return &Services{
		Users:        services.NewUserService(db),
		Accounts:     accounts,
		Transactions: services.NewTransactionService(db, accounts),
		Recurrence:   services.NewRecurrenceService(db, accounts),
		Budgets:      services.NewBudgetService(db, accounts),
		BudgetAlerts: services.NewBudgetAlertService(db, sender, cfg.BudgetAlertThreshold),
		Reports:      services.NewReportService(db, generator, sender, cfg.JobConcurrency),
		Receipts:     services.NewReceiptService(generator),
		Audit:        services.NewAuditService(db),
	}
}

// NewGenerator returns the Gemini client, or ai.Disabled when no key is set.
func NewGenerator(ctx context.Context, cfg *config.Config) (ai.Generator, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Get().Warn("GEMINI_API_KEY not set, receipt scanning and report insights are disabled")
		return ai.Disabled{}, nil
	}
	client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewSender returns the Resend sender, or a LogSender when no key is set.
func NewSender(cfg *config.Config) email.Sender {
	if cfg.ResendAPIKey == "" {
		logger.Get().Warn("RESEND_API_KEY not set, emails will only be logged")
		return email.LogSender{}
	}
	return email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
}

// NewRecurringProcessor builds the per-user throttled event processor.
func NewRecurringProcessor(cfg *config.Config, svc *Services) *jobs.Processor {
	limiter := ratelimit.NewKeyed(cfg.RecurringPerUserLimit, cfg.RecurringPerUserWindow)
	return jobs.NewProcessor(svc.Recurrence, limiter)
}

// Dispatcher is a jobs.Dispatcher that may own a broker connection.
type Dispatcher interface {
	jobs.Dispatcher
	Close() error
}

type inlineCloser struct{ *jobs.InlineDispatcher }

func (inlineCloser) Close() error { return nil }

// NewDispatcher publishes to RabbitMQ when AMQP_URL is set and otherwise
// processes events in-process.
func NewDispatcher(cfg *config.Config, svc *Services) (Dispatcher, error) {
	if cfg.AMQPURL == "" {
		logger.Get().Info("AMQP_URL not set, recurring events are processed inline")
		return inlineCloser{jobs.NewInlineDispatcher(NewRecurringProcessor(cfg, svc))}, nil
	}
	client, err := jobs.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return client, nil
}

// NewRunner builds the job runner used by the scheduler and HTTP triggers.
func NewRunner(svc *Services, dispatcher jobs.Dispatcher) *jobs.Runner {
	return &jobs.Runner{
		Recurrence:   svc.Recurrence,
		BudgetAlerts: svc.BudgetAlerts,
		Reports:      svc.Reports,
		Dispatcher:   dispatcher,
	}
}

// Schedules reads the cron expressions from cfg.
func Schedules(cfg *config.Config) jobs.Schedules {
	return jobs.Schedules{
		BudgetAlerts:   cfg.BudgetAlertSchedule,
		Recurring:      cfg.RecurringSchedule,
		MonthlyReports: cfg.MonthlyReportSchedule,
	}
}

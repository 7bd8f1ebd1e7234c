package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("applies_defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BudgetAlertThreshold != 80 {
			t.Errorf("expected threshold 80, got %v", cfg.BudgetAlertThreshold)
		}
		if cfg.RecurringPerUserLimit != 10 {
			t.Errorf("expected per-user limit 10, got %d", cfg.RecurringPerUserLimit)
		}
		if cfg.RecurringPerUserWindow != time.Minute {
			t.Errorf("expected 1m window, got %s", cfg.RecurringPerUserWindow)
		}
		if cfg.BudgetAlertSchedule != "0 */6 * * *" {
			t.Errorf("unexpected budget alert schedule %q", cfg.BudgetAlertSchedule)
		}
	})

	t.Run("reads_environment_overrides", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		t.Setenv("BUDGET_ALERT_THRESHOLD", "90")
		t.Setenv("RECURRING_PER_USER_WINDOW", "30s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "9999" {
			t.Errorf("expected port 9999, got %s", cfg.Port)
		}
		if cfg.BudgetAlertThreshold != 90 {
			t.Errorf("expected threshold 90, got %v", cfg.BudgetAlertThreshold)
		}
		if cfg.RecurringPerUserWindow != 30*time.Second {
			t.Errorf("expected 30s window, got %s", cfg.RecurringPerUserWindow)
		}
	})

	t.Run("falls_back_on_bad_durations", func(t *testing.T) {
		t.Setenv("TRANSACTION_CREATE_WINDOW", "soon")

		cfg, _ := Load()
		if cfg.TransactionCreateWindow != time.Hour {
			t.Errorf("expected 1h fallback, got %s", cfg.TransactionCreateWindow)
		}
	})
}

package jobs

import (
	"context"
	"testing"
	"time"

	"welth/internal/services"
)

type fakeAlerts struct{ calls int }

func (f *fakeAlerts) CheckBudgetAlerts(_ context.Context, _ time.Time) (*services.JobSummary, error) {
	f.calls++
	return &services.JobSummary{}, nil
}

type fakeReports struct{ now time.Time }

func (f *fakeReports) GetMonthlyStats(string, time.Time) (*services.MonthlyStats, error) {
	return &services.MonthlyStats{}, nil
}

func (f *fakeReports) GenerateMonthlyReports(_ context.Context, now time.Time) (*services.JobSummary, error) {
	f.now = now
	return &services.JobSummary{}, nil
}

func TestNewScheduler(t *testing.T) {
	runner := &Runner{
		Recurrence:   &fakeRecurrence{},
		BudgetAlerts: &fakeAlerts{},
		Reports:      &fakeReports{},
		Dispatcher:   &recordingDispatcher{},
	}

	t.Run("registers_every_job", func(t *testing.T) {
		s, err := NewScheduler(context.Background(), runner, DefaultSchedules, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Entries() != 3 {
			t.Errorf("expected 3 entries, got %d", s.Entries())
		}
	})

	t.Run("rejects_a_bad_expression", func(t *testing.T) {
		bad := DefaultSchedules
		bad.MonthlyReports = "every month"
		if _, err := NewScheduler(context.Background(), runner, bad, nil); err == nil {
			t.Error("expected error for invalid cron expression")
		}
	})
}

func TestRunnerUsesClock(t *testing.T) {
	fixed := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	reports := &fakeReports{}
	runner := &Runner{Reports: reports, Now: func() time.Time { return fixed }}

	if _, err := runner.GenerateMonthlyReports(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reports.now.Equal(fixed) {
		t.Errorf("expected %v, got %v", fixed, reports.now)
	}
}

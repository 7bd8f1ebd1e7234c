package email

import (
	"context"
	"strings"
	"testing"
)

func TestBudgetAlert(t *testing.T) {
	msg, err := BudgetAlert("ana@example.com", BudgetAlertData{
		UserName:       "Ana",
		AccountName:    "Everyday",
		PercentageUsed: "82.0",
		BudgetAmount:   "500.00",
		TotalExpenses:  "410.00",
		Remaining:      "90.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.To != "ana@example.com" {
		t.Errorf("unexpected recipient %q", msg.To)
	}
	if msg.Subject != "Budget Alert for Everyday" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{"Hello Ana", "82.0%", "$500.00", "$410.00", "$90.00"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestMonthlyReport(t *testing.T) {
	t.Run("renders_categories_and_insights", func(t *testing.T) {
		msg, err := MonthlyReport("ana@example.com", MonthlyReportData{
			UserName:      "Ana",
			Month:         "January",
			TotalIncome:   "3000.00",
			TotalExpenses: "1200.00",
			Net:           "1800.00",
			ByCategory:    []CategoryLine{{Category: "groceries", Amount: "400.00"}},
			Insights:      []string{"Spend less on <b>coffee</b>."},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg.Subject != "Your Monthly Financial Report for January" {
			t.Errorf("unexpected subject %q", msg.Subject)
		}
		if !strings.Contains(msg.HTML, "groceries") {
			t.Error("body missing category")
		}
		if strings.Contains(msg.HTML, "<b>coffee</b>") {
			t.Error("insight text must be escaped")
		}
	})

	t.Run("omits_empty_sections", func(t *testing.T) {
		msg, err := MonthlyReport("ana@example.com", MonthlyReportData{UserName: "Ana", Month: "March"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(msg.HTML, "Expenses by Category") {
			t.Error("expected no category section")
		}
	})
}

func TestLogSender(t *testing.T) {
	if err := (LogSender{}).Send(context.Background(), Message{To: "x@example.com", Subject: "hi"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

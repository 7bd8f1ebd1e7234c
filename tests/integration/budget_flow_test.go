package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestBudgetFlow_AlertOncePerMonth(t *testing.T) {
	app := setupApp(t)
	bearer := token(t, "user_budget", "budget@test.com")
	accountID := app.createAccount(t, bearer, "Everyday", 0)

	rec := app.request(http.MethodGet, "/api/v1/budget", "", bearer)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before a budget exists, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request(http.MethodPut, "/api/v1/budget", `{"amount":100000}`, bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert failed: %d %s", rec.Code, rec.Body.String())
	}
	budgetID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"]

	rec = app.request(http.MethodPut, "/api/v1/budget", `{"amount":50000}`, bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("second upsert failed: %d %s", rec.Code, rec.Body.String())
	}
	if id := parseJSON(t, rec)["budget"].(map[string]interface{})["id"]; id != budgetID {
		t.Errorf("expected upsert to keep budget %v, got %v", budgetID, id)
	}

	app.createTransaction(t, bearer,
		fmt.Sprintf(`{"account_id":%q,"type":"EXPENSE","amount":41000,"category":"groceries"}`, accountID))

	rec = app.request(http.MethodGet, "/api/v1/budget", "", bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("get budget failed: %d %s", rec.Code, rec.Body.String())
	}
	status := parseJSON(t, rec)
	if status["current_expenses"].(float64) != 41000 {
		t.Errorf("expected 41000 spent, got %v", status["current_expenses"])
	}
	if status["percentage_used"].(float64) != 82 {
		t.Errorf("expected 82%% used, got %v", status["percentage_used"])
	}

	summary := app.job(t, "budget-alerts")
	if summary["sent"].(float64) != 1 {
		t.Fatalf("expected one alert, got %v", summary)
	}
	mail := app.Mail.sent()
	if len(mail) != 1 || mail[0].To != "budget@test.com" || !strings.Contains(mail[0].HTML, "82.0") {
		t.Fatalf("unexpected alert email %+v", mail)
	}

	summary = app.job(t, "budget-alerts")
	if summary["sent"].(float64) != 0 {
		t.Errorf("expected no second alert this month, got %v", summary)
	}
	if len(app.Mail.sent()) != 1 {
		t.Error("expected mailbox to still hold one email")
	}
}

func TestBudgetFlow_MonthlyReports(t *testing.T) {
	app := setupApp(t)
	for _, sub := range []string{"user_r1", "user_r2"} {
		bearer := token(t, sub, sub+"@test.com")
		app.createAccount(t, bearer, "Main", 0)
	}

	summary := app.job(t, "monthly-reports")
	if summary["sent"].(float64) != 2 {
		t.Errorf("expected 2 reports, got %v", summary)
	}
	for _, m := range app.Mail.sent() {
		if !strings.Contains(m.HTML, "Consider setting up a budget") {
			t.Error("expected fallback insights when no model is configured")
		}
	}
}

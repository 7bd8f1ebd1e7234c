package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// BudgetAlertData feeds the budget alert template. Amounts are preformatted.
type BudgetAlertData struct {
	UserName       string
	AccountName    string
	PercentageUsed string
	BudgetAmount   string
	TotalExpenses  string
	Remaining      string
}

// CategoryLine is one row of the monthly expense breakdown.
type CategoryLine struct {
	Category string
	Amount   string
}

// MonthlyReportData feeds the monthly report template.
type MonthlyReportData struct {
	UserName      string
	Month         string
	TotalIncome   string
	TotalExpenses string
	Net           string
	ByCategory    []CategoryLine
	Insights      []string
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<body style="background-color:#f6f9fc;font-family:-apple-system,'Segoe UI',sans-serif;">
<div style="background-color:#ffffff;margin:0 auto;padding:20px;border-radius:5px;max-width:560px;">
<h1 style="color:#1f2937;font-size:28px;text-align:center;">{{template "title" .}}</h1>
<p style="color:#4b5563;font-size:16px;">Hello {{.UserName}},</p>
{{template "body" .}}
<p style="color:#6b7280;font-size:14px;">Thank you for using Welth. Keep tracking your finances for better financial health!</p>
</div>
</body>
</html>{{end}}`

const budgetAlertBody = `{{define "title"}}Budget Alert{{end}}
{{define "body"}}
<p style="color:#4b5563;font-size:16px;">You&#39;ve used {{.PercentageUsed}}% of your monthly budget on {{.AccountName}}.</p>
<table style="width:100%;padding:20px;background-color:#f9fafb;border-radius:5px;">
<tr><td>Budget Amount</td><td style="text-align:right;">${{.BudgetAmount}}</td></tr>
<tr><td>Spent So Far</td><td style="text-align:right;">${{.TotalExpenses}}</td></tr>
<tr><td>Remaining</td><td style="text-align:right;">${{.Remaining}}</td></tr>
</table>
{{end}}`

const monthlyReportBody = `{{define "title"}}Monthly Financial Report{{end}}
{{define "body"}}
<p style="color:#4b5563;font-size:16px;">Here&#39;s your financial summary for {{.Month}}:</p>
<table style="width:100%;padding:20px;background-color:#f9fafb;border-radius:5px;">
<tr><td>Total Income</td><td style="text-align:right;">${{.TotalIncome}}</td></tr>
<tr><td>Total Expenses</td><td style="text-align:right;">${{.TotalExpenses}}</td></tr>
<tr><td>Net</td><td style="text-align:right;">${{.Net}}</td></tr>
</table>
{{if .ByCategory}}
<h2 style="color:#1f2937;font-size:20px;">Expenses by Category</h2>
<table style="width:100%;">
{{range .ByCategory}}<tr><td>{{.Category}}</td><td style="text-align:right;">${{.Amount}}</td></tr>
{{end}}</table>
{{end}}
{{if .Insights}}
<h2 style="color:#1f2937;font-size:20px;">Welth Insights</h2>
<ul>
{{range .Insights}}<li style="color:#4b5563;">{{.}}</li>
{{end}}</ul>
{{end}}
{{end}}`

var (
	budgetAlertTmpl   = template.Must(template.Must(template.New("budget-alert").Parse(layout)).Parse(budgetAlertBody))
	monthlyReportTmpl = template.Must(template.Must(template.New("monthly-report").Parse(layout)).Parse(monthlyReportBody))
)

// BudgetAlert renders the budget alert email for accountName.
func BudgetAlert(to string, data BudgetAlertData) (Message, error) {
	html, err := render(budgetAlertTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Budget Alert for %s", data.AccountName),
		HTML:    html,
	}, nil
}

// MonthlyReport renders the monthly report email.
func MonthlyReport(to string, data MonthlyReportData) (Message, error) {
	html, err := render(monthlyReportTmpl, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your Monthly Financial Report for %s", data.Month),
		HTML:    html,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("email: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

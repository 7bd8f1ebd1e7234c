// Package categories is the fixed catalogue of transaction categories.
package categories

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"welth/internal/models"
)

// Category is one catalogue entry.
type Category struct {
	ID    string                 `json:"id"`
	Name  string                 `json:"name"`
	Type  models.TransactionType `json:"type"`
	Color string                 `json:"color"`
}

// OtherExpense is the fallback for receipts whose category cannot be matched.
const OtherExpense = "other-expense"

var catalogue = []Category{
	{ID: "salary", Name: "Salary", Type: models.TransactionTypeIncome, Color: "#22c55e"},
	{ID: "freelance", Name: "Freelance", Type: models.TransactionTypeIncome, Color: "#06b6d4"},
	{ID: "investments", Name: "Investments", Type: models.TransactionTypeIncome, Color: "#6366f1"},
	{ID: "business", Name: "Business", Type: models.TransactionTypeIncome, Color: "#ec4899"},
	{ID: "rental", Name: "Rental", Type: models.TransactionTypeIncome, Color: "#f59e0b"},
	{ID: "other-income", Name: "Other Income", Type: models.TransactionTypeIncome, Color: "#64748b"},

	{ID: "housing", Name: "Housing", Type: models.TransactionTypeExpense, Color: "#ef4444"},
	{ID: "transportation", Name: "Transportation", Type: models.TransactionTypeExpense, Color: "#f97316"},
	{ID: "groceries", Name: "Groceries", Type: models.TransactionTypeExpense, Color: "#84cc16"},
	{ID: "utilities", Name: "Utilities", Type: models.TransactionTypeExpense, Color: "#06b6d4"},
	{ID: "entertainment", Name: "Entertainment", Type: models.TransactionTypeExpense, Color: "#8b5cf6"},
	{ID: "food", Name: "Food", Type: models.TransactionTypeExpense, Color: "#f43f5e"},
	{ID: "shopping", Name: "Shopping", Type: models.TransactionTypeExpense, Color: "#ec4899"},
	{ID: "healthcare", Name: "Healthcare", Type: models.TransactionTypeExpense, Color: "#14b8a6"},
	{ID: "education", Name: "Education", Type: models.TransactionTypeExpense, Color: "#6366f1"},
	{ID: "personal", Name: "Personal Care", Type: models.TransactionTypeExpense, Color: "#d946ef"},
	{ID: "travel", Name: "Travel", Type: models.TransactionTypeExpense, Color: "#0ea5e9"},
	{ID: "insurance", Name: "Insurance", Type: models.TransactionTypeExpense, Color: "#64748b"},
	{ID: "gifts", Name: "Gifts & Donations", Type: models.TransactionTypeExpense, Color: "#f472b6"},
	{ID: "bills", Name: "Bills & Fees", Type: models.TransactionTypeExpense, Color: "#fb7185"},
	{ID: OtherExpense, Name: "Other Expenses", Type: models.TransactionTypeExpense, Color: "#94a3b8"},
}

// All returns a copy of the catalogue.
func All() []Category {
	out := make([]Category, len(catalogue))
	copy(out, catalogue)
	return out
}

// ByType returns the catalogue entries of type t.
func ByType(t models.TransactionType) []Category {
	var out []Category
	for _, c := range catalogue {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Valid reports whether id is a category of type t.
func Valid(id string, t models.TransactionType) bool {
	for _, c := range catalogue {
		if c.ID == id && c.Type == t {
			return true
		}
	}
	return false
}

// maxSnapDistance bounds how far a free-text suggestion may be from a category id.
const maxSnapDistance = 3

// SnapExpense maps a free-text category suggestion onto the closest expense
// category id by edit distance. A suggestion of at least four letters that
// prefixes a category counts as distance one. Unrecognisable input falls back
// to OtherExpense.
func SnapExpense(suggestion string) string {
	s := strings.ToLower(strings.TrimSpace(suggestion))
	if s == "" {
		return OtherExpense
	}

	best, bestDist := OtherExpense, maxSnapDistance+1
	for _, c := range catalogue {
		if c.Type != models.TransactionTypeExpense {
			continue
		}
		for _, candidate := range []string{c.ID, strings.ToLower(c.Name)} {
			d := levenshtein.ComputeDistance(s, candidate)
			if len(s) >= 4 && strings.HasPrefix(candidate, s) && d > 1 {
				d = 1
			}
			if d < bestDist {
				best, bestDist = c.ID, d
			}
		}
	}
	return best
}

// Package money holds the sign convention for ledger amounts and the
// conversions between stored minor units and display values.
//
// Amounts are int64 minor units (cents). A transaction stores a non-negative
// magnitude plus a type; the sign is applied only here.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"welth/internal/models"
)

// Operation is a ledger mutation kind.
type Operation string

const (
	OpCreate Operation = "CREATE"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// minorUnitExp is the decimal exponent of one minor unit.
const minorUnitExp = 2

var hundred = decimal.NewFromInt(100)

// SignedDelta returns the balance effect of a transaction amount:
// -amount for EXPENSE, +amount for INCOME.
func SignedDelta(amount int64, t models.TransactionType) int64 {
	if t == models.TransactionTypeExpense {
		return -amount
	}
	return amount
}

// LedgerEffect returns the balance effect of t as stored. A recurring
// template only schedules occurrences and has no effect of its own.
func LedgerEffect(t models.Transaction) int64 {
	if t.IsRecurring {
		return 0
	}
	return SignedDelta(t.Amount, t.Type)
}

// NetChange returns the amount to add to an account balance for op.
// previous is required for OpUpdate and holds the values captured before the write.
func NetChange(op Operation, current models.Transaction, previous *models.Transaction) (int64, error) {
	switch op {
	case OpCreate:
		return LedgerEffect(current), nil
	case OpDelete:
		return -LedgerEffect(current), nil
	case OpUpdate:
		if previous == nil {
			return 0, fmt.Errorf("money: update requires the previous transaction")
		}
		return LedgerEffect(current) - LedgerEffect(*previous), nil
	default:
		return 0, fmt.Errorf("money: unknown operation %q", op)
	}
}

// GroupReversals sums the delete deltas of txns per account id. Applying one
// update per key yields the same balances as deleting the rows one by one.
// Templates contribute nothing and add no key.
func GroupReversals(txns []models.Transaction) map[string]int64 {
	out := make(map[string]int64, len(txns))
	for i := range txns {
		if txns[i].IsRecurring {
			continue
		}
		out[txns[i].AccountID] -= SignedDelta(txns[i].Amount, txns[i].Type)
	}
	return out
}

// FromDecimal converts a major-unit decimal (e.g. 12.34) to minor units,
// rounding half away from zero at the cent.
func FromDecimal(d decimal.Decimal) int64 {
	return d.Round(minorUnitExp).Shift(minorUnitExp).IntPart()
}

// ParseAmount parses a major-unit string such as "150.00".
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("money: parse %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// ToDecimal converts minor units to a major-unit decimal.
func ToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -minorUnitExp)
}

// Format renders minor units as a fixed two-place string, e.g. 1050 -> "10.50".
func Format(minor int64) string {
	return ToDecimal(minor).StringFixed(minorUnitExp)
}

// Percentage returns part/whole*100. A non-positive whole yields zero.
func Percentage(part, whole int64) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole))
}

package analytics

import (
	"github.com/shopspring/decimal"

	"spendlens/internal/expense"
)

// groupBy folds expenses into per-key groups. It also returns the keys in
// first-seen order so callers can tie-break deterministically: the input
// arrives sorted ascending by date, and every sort downstream is stable
// with first-seen group order as the baseline.
func groupBy[K comparable](expenses []*expense.Expense, key func(*expense.Expense) K) (map[K][]*expense.Expense, []K) {
	groups := make(map[K][]*expense.Expense)
	order := make([]K, 0)
	for _, e := range expenses {
		k := key(e)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}
	return groups, order
}

// sumTotals adds up the Total of every expense in the group.
func sumTotals(expenses []*expense.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Total)
	}
	return sum
}

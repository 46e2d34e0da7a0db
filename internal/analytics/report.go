package analytics

import (
	"github.com/shopspring/decimal"

	"spendlens/internal/expense"
)

// Summary holds the headline numbers for the active currency.
type Summary struct {
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	ReceiptCount   int             `json:"receiptCount"`
	AverageExpense decimal.Decimal `json:"averageExpense"`
	BiggestExpense decimal.Decimal `json:"biggestExpense"`
}

// CurrencyTotal is one row of the per-currency breakdown.
type CurrencyTotal struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	Category expense.Category `json:"category"`
	Total    decimal.Decimal  `json:"total"`
}

// DailyTotal is one day's spending, keyed by UTC calendar date.
type DailyTotal struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
}

// MerchantTotal is one row of the top-merchant ranking.
type MerchantTotal struct {
	Merchant string          `json:"merchant"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// RecentExpense is a trimmed-down expense for the recent activity feed.
// The total is the raw stored amount, not rounded.
type RecentExpense struct {
	ID       string           `json:"id"`
	Merchant string           `json:"merchant"`
	Total    decimal.Decimal  `json:"total"`
	Currency string           `json:"currency"`
	Category expense.Category `json:"category"`
	Date     string           `json:"date"` // RFC 3339
}

// Report is the full analytics result for one request. It is computed
// fresh from the store every time and never persisted.
//
// Summary, CategoryBreakdown, DailyTrend and TopMerchants cover only the
// active currency. Currencies, CurrencyBreakdown and RecentExpenses cover
// the whole windowed set regardless of currency: the currency picker needs
// totals per currency, and recent activity should show cross-currency
// history.
type Report struct {
	Summary           Summary         `json:"summary"`
	Currencies        []string        `json:"currencies"`
	ActiveCurrency    string          `json:"activeCurrency"`
	CurrencyBreakdown []CurrencyTotal `json:"currencyBreakdown"`
	CategoryBreakdown []CategoryTotal `json:"categoryBreakdown"`
	DailyTrend        []DailyTotal    `json:"dailyTrend"`
	TopMerchants      []MerchantTotal `json:"topMerchants"`
	RecentExpenses    []RecentExpense `json:"recentExpenses"`
	Period            Period          `json:"period"`
}

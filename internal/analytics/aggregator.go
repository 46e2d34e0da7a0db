package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"spendlens/internal/expense"
)

const (
	// fallbackCurrency scopes the report when the window holds no records
	// and the caller did not ask for a specific currency.
	fallbackCurrency = "NGN"

	topMerchantLimit = 7
	recentLimit      = 5
)

// Source provides the point-in-time snapshot of expenses a report is
// computed from. Records must be ordered ascending by date and include
// their line items.
type Source interface {
	FindInRange(ctx context.Context, start, end time.Time) ([]*expense.Expense, error)
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Aggregator computes spending analytics over an expense source. It is a
// pure read/transform: it never mutates the source, raises no domain
// errors of its own, and each call works on a private snapshot.
type Aggregator struct {
	source     Source
	timeSource TimeSource
}

// NewAggregator creates a new Aggregator backed by the given source
func NewAggregator(source Source) *Aggregator {
	return &Aggregator{
		source:     source,
		timeSource: &defaultTimeSource{},
	}
}

// NewAggregatorWithDeps creates a new Aggregator with a custom time source for testing
func NewAggregatorWithDeps(source Source, timeSource TimeSource) *Aggregator {
	return &Aggregator{
		source:     source,
		timeSource: timeSource,
	}
}

// Aggregate computes the full analytics report for the given period and
// optional currency filter (empty string means no filter). An empty
// windowed set yields an all-zero report, never an error; a source failure
// propagates with no partial result.
func (a *Aggregator) Aggregate(ctx context.Context, period Period, currency string) (*Report, error) {
	start, end := period.Window(a.timeSource.Now())

	windowed, err := a.source.FindInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching expenses: %w", err)
	}

	// The currency inventory always reflects the whole window, even when
	// the caller asked for a single currency.
	currencies, active := resolveCurrencies(windowed, currency)

	filtered := make([]*expense.Expense, 0, len(windowed))
	for _, e := range windowed {
		if e.Currency == active {
			filtered = append(filtered, e)
		}
	}

	report := &Report{
		Currencies:     currencies,
		ActiveCurrency: active,
		Period:         period,
	}

	// The breakdowns are independent reductions over the same immutable
	// snapshot, so they can run concurrently without coordination.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { report.Summary = summarize(filtered); return nil })
	g.Go(func() error { report.CurrencyBreakdown = currencyBreakdown(windowed); return nil })
	g.Go(func() error { report.CategoryBreakdown = categoryBreakdown(filtered); return nil })
	g.Go(func() error { report.DailyTrend = dailyTrend(filtered); return nil })
	g.Go(func() error { report.TopMerchants = topMerchants(filtered); return nil })
	g.Go(func() error { report.RecentExpenses = recentExpenses(windowed); return nil })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}

// resolveCurrencies returns the distinct currencies of the windowed set in
// first-seen order, and the active currency for the request: an explicit
// filter wins; otherwise the most frequent currency in the window, with
// ties broken by first encounter; otherwise the fallback.
func resolveCurrencies(windowed []*expense.Expense, requested string) (currencies []string, active string) {
	counts := make(map[string]int)
	currencies = make([]string, 0)
	for _, e := range windowed {
		if counts[e.Currency] == 0 {
			currencies = append(currencies, e.Currency)
		}
		counts[e.Currency]++
	}

	if requested != "" {
		return currencies, requested
	}

	active = fallbackCurrency
	best := 0
	for _, c := range currencies {
		if counts[c] > best {
			best = counts[c]
			active = c
		}
	}
	return currencies, active
}

// summarize computes the headline numbers over the filtered subset.
// Sums and the average are carried at full precision and rounded half-up
// to 2 decimal places only at the end, so rounding error never compounds.
func summarize(filtered []*expense.Expense) Summary {
	total := sumTotals(filtered)
	count := len(filtered)

	average := decimal.Zero
	if count > 0 {
		average = total.Div(decimal.NewFromInt(int64(count)))
	}

	biggest := decimal.Zero
	for _, e := range filtered {
		if e.Total.GreaterThan(biggest) {
			biggest = e.Total
		}
	}

	return Summary{
		TotalSpent:     total.Round(2),
		ReceiptCount:   count,
		AverageExpense: average.Round(2),
		BiggestExpense: biggest.Round(2),
	}
}

// currencyBreakdown groups the full windowed set by currency and sorts the
// rows descending by record count. The sort is stable over first-seen
// group order.
func currencyBreakdown(windowed []*expense.Expense) []CurrencyTotal {
	groups, order := groupBy(windowed, func(e *expense.Expense) string { return e.Currency })

	rows := make([]CurrencyTotal, 0, len(order))
	for _, currency := range order {
		group := groups[currency]
		rows = append(rows, CurrencyTotal{
			Currency: currency,
			Total:    sumTotals(group).Round(2),
			Count:    len(group),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

// categoryBreakdown groups the filtered subset by category, descending by
// total. A record carrying a value outside the closed category set folds
// into Other; well-formed input never does.
func categoryBreakdown(filtered []*expense.Expense) []CategoryTotal {
	groups, order := groupBy(filtered, func(e *expense.Expense) expense.Category {
		if !e.Category.Valid() {
			return expense.CategoryOther
		}
		return e.Category
	})

	rows := make([]CategoryTotal, 0, len(order))
	for _, category := range order {
		rows = append(rows, CategoryTotal{
			Category: category,
			Total:    sumTotals(groups[category]).Round(2),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total.GreaterThan(rows[j].Total) })
	return rows
}

// dailyTrend buckets the filtered subset by UTC calendar day so the same
// record always lands in the same bucket regardless of the machine's local
// zone. Ascending lexicographic order on the date string is chronological
// order for ISO dates.
func dailyTrend(filtered []*expense.Expense) []DailyTotal {
	groups, order := groupBy(filtered, func(e *expense.Expense) string {
		return e.Date.UTC().Format("2006-01-02")
	})

	rows := make([]DailyTotal, 0, len(order))
	for _, day := range order {
		rows = append(rows, DailyTotal{
			Date:  day,
			Total: sumTotals(groups[day]).Round(2),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

// topMerchants ranks the filtered subset by merchant (exact string match),
// descending by total, truncated to the top 7.
func topMerchants(filtered []*expense.Expense) []MerchantTotal {
	groups, order := groupBy(filtered, func(e *expense.Expense) string { return e.Merchant })

	rows := make([]MerchantTotal, 0, len(order))
	for _, merchant := range order {
		group := groups[merchant]
		rows = append(rows, MerchantTotal{
			Merchant: merchant,
			Total:    sumTotals(group).Round(2),
			Count:    len(group),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total.GreaterThan(rows[j].Total) })
	if len(rows) > topMerchantLimit {
		rows = rows[:topMerchantLimit]
	}
	return rows
}

// recentExpenses returns the most recent records across all currencies,
// newest first, truncated to 5. Totals are the raw stored amounts.
func recentExpenses(windowed []*expense.Expense) []RecentExpense {
	recent := make([]*expense.Expense, len(windowed))
	copy(recent, windowed)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	rows := make([]RecentExpense, 0, len(recent))
	for _, e := range recent {
		rows = append(rows, RecentExpense{
			ID:       e.ID,
			Merchant: e.Merchant,
			Total:    e.Total,
			Currency: e.Currency,
			Category: e.Category,
			Date:     e.Date.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

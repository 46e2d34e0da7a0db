package analytics

import "time"

// Period selects the date window a report is computed over.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod maps a raw query value onto a known period. Unrecognized
// values fall back to the month window; that is the documented default,
// not an error.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(s)
	default:
		return PeriodMonth
	}
}

// Window returns the inclusive date range covered by the period, anchored
// at now. Taking now as a parameter keeps window resolution deterministic
// under test.
func (p Period) Window(now time.Time) (start, end time.Time) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), now
	case PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now
	case PeriodAll:
		// Far enough in the past to cover any realistic record
		return time.Date(2000, time.January, 1, 0, 0, 0, 0, now.Location()), now
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now
	}
}

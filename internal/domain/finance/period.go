package finance

import (
	"fmt"
	"time"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/shared"
)

// DefaultReportingTimezone is used for calendar computations when none is configured
const DefaultReportingTimezone = "Asia/Ho_Chi_Minh"

// Period is a half-open time interval [From, To)
type Period struct {
	From time.Time
	To   time.Time
}

// NewPeriod creates a period, rejecting empty or inverted intervals
func NewPeriod(from, to time.Time) (Period, error) {
	if !to.After(from) {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Period end must be after period start")
	}
	return Period{From: from, To: to}, nil
}

// Contains reports whether t falls inside the period
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

// Overlaps reports whether [from, to) shares at least one instant with the period
func (p Period) Overlaps(from, to time.Time) bool {
	return from.Before(p.To) && p.From.Before(to)
}

// Month is a calendar month in a specific year
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth validates and returns a Month
func NewMonth(year, month int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, shared.NewDomainError("INVALID_MONTH", fmt.Sprintf("Month must be between 1 and 12, got %d", month))
	}
	if year < 1 {
		return Month{}, shared.NewDomainError("INVALID_YEAR", fmt.Sprintf("Year must be positive, got %d", year))
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// MonthOf returns the Month in which t occurs in loc
func MonthOf(t time.Time, loc *time.Location) Month {
	year, month, _ := t.In(loc).Date()
	return Month{Year: year, Month: month}
}

// PreviousMonth returns the calendar month before the one containing now in loc
func PreviousMonth(now time.Time, loc *time.Location) Month {
	return MonthOf(now, loc).AddMonths(-1)
}

// AddMonths returns the month n months later (or earlier for negative n)
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Period returns [first instant of month, first instant of next month) in loc
func (m Month) Period(loc *time.Location) Period {
	from := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
	return Period{From: from, To: from.AddDate(0, 1, 0)}
}

// String returns the month formatted as YYYY-MM
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// SameDay reports whether a and b fall on the same calendar day in loc
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// LoadLocation resolves a timezone name, defaulting to DefaultReportingTimezone
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultReportingTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

package domain

import (
	"fmt"
	"time"
)

// Period is one calendar month inside the forecast horizon.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodFrom returns the period containing t.
func PeriodFrom(t time.Time) Period {
	t = t.UTC()
	return Period{Year: t.Year(), Month: t.Month()}
}

// Key renders the period in YYYY-MM form.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label renders a human-readable month label, e.g. "Mar 2026".
func (p Period) Label() string {
	return p.Start().Format("Jan 2006")
}

// Start returns midnight UTC on the first day of the month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the last day of the month.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// Days returns the number of days in the month.
func (p Period) Days() int {
	return p.End().Day()
}

// MonthIndex returns the zero-based count of calendar months since year zero,
// used for interval-distance arithmetic between periods.
func (p Period) MonthIndex() int {
	return p.Year*12 + int(p.Month) - 1
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	return PeriodFrom(p.Start().AddDate(0, 1, 0))
}

// Periods generates n consecutive periods starting with the month of start.
func Periods(start time.Time, n int) []Period {
	if n <= 0 {
		return nil
	}
	out := make([]Period, 0, n)
	p := PeriodFrom(start)
	for i := 0; i < n; i++ {
		out = append(out, p)
		p = p.Next()
	}
	return out
}

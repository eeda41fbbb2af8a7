package domain

import (
	"testing"
	"time"
)

func TestPeriodKeyAndLabel(t *testing.T) {
	p := Period{Year: 2026, Month: time.March}
	if p.Key() != "2026-03" {
		t.Fatalf("expected key 2026-03, got %q", p.Key())
	}
	if p.Label() != "Mar 2026" {
		t.Fatalf("expected label Mar 2026, got %q", p.Label())
	}
}

func TestPeriodDays(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		days  int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2024, time.February, 29},
		{2026, time.April, 30},
	}
	for _, tc := range tests {
		p := Period{Year: tc.year, Month: tc.month}
		if p.Days() != tc.days {
			t.Fatalf("%s: expected %d days, got %d", p.Key(), tc.days, p.Days())
		}
	}
}

func TestPeriodsCrossesYearBoundary(t *testing.T) {
	start := time.Date(2026, time.November, 14, 9, 30, 0, 0, time.UTC)
	periods := Periods(start, 4)
	if len(periods) != 4 {
		t.Fatalf("expected 4 periods, got %d", len(periods))
	}
	want := []string{"2026-11", "2026-12", "2027-01", "2027-02"}
	for i, p := range periods {
		if p.Key() != want[i] {
			t.Fatalf("period %d: expected %s, got %s", i, want[i], p.Key())
		}
	}
}

func TestPeriodsEmptyHorizon(t *testing.T) {
	if got := Periods(time.Now(), 0); got != nil {
		t.Fatalf("expected nil for zero horizon, got %v", got)
	}
}

package recurrence

import (
	"testing"
	"time"

	"github.com/jcorreia/practiva/internal/forecast/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlyTask() domain.RecurringTask {
	return domain.RecurringTask{
		ID:                 "task-1",
		EstimatedHours:     4,
		RecurrenceType:     domain.RecurrenceMonthly,
		RecurrenceInterval: 1,
		DayOfMonth:         15,
		DueDate:            date(2024, time.January, 15),
	}
}

func TestMonthlyDueEveryMonthInRange(t *testing.T) {
	task := monthlyTask()
	end := date(2024, time.June, 30)
	task.EndDate = &end

	p := domain.Period{Year: 2024, Month: time.January}
	for i := 0; i < 6; i++ {
		if got := OccurrencesInMonth(task, p); got != 1 {
			t.Fatalf("%s: expected 1 occurrence, got %d", p.Key(), got)
		}
		p = p.Next()
	}
	// July is past the end date.
	if got := OccurrencesInMonth(task, p); got != 0 {
		t.Fatalf("%s: expected 0 past end date, got %d", p.Key(), got)
	}
	// December 2023 is before the anchor.
	before := domain.Period{Year: 2023, Month: time.December}
	if got := OccurrencesInMonth(task, before); got != 0 {
		t.Fatalf("expected 0 before anchor, got %d", got)
	}
}

func TestMonthlyIntervalSkipsMonths(t *testing.T) {
	task := monthlyTask()
	task.RecurrenceInterval = 3

	tests := []struct {
		month time.Month
		want  int
	}{
		{time.January, 1},
		{time.February, 0},
		{time.March, 0},
		{time.April, 1},
		{time.July, 1},
	}
	for _, tc := range tests {
		p := domain.Period{Year: 2024, Month: tc.month}
		if got := OccurrencesInMonth(task, p); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", p.Key(), tc.want, got)
		}
	}
}

func TestMonthlyDayMissingFromShortMonth(t *testing.T) {
	task := monthlyTask()
	task.DayOfMonth = 31
	task.DueDate = date(2024, time.January, 31)

	if got := OccurrencesInMonth(task, domain.Period{Year: 2024, Month: time.February}); got != 0 {
		t.Fatalf("expected day 31 not due in February, got %d", got)
	}
	if got := OccurrencesInMonth(task, domain.Period{Year: 2024, Month: time.March}); got != 1 {
		t.Fatalf("expected day 31 due in March, got %d", got)
	}
}

func TestQuarterlyAlignment(t *testing.T) {
	task := domain.RecurringTask{
		EstimatedHours:     10,
		RecurrenceType:     domain.RecurrenceQuarterly,
		RecurrenceInterval: 1,
		DueDate:            date(2024, time.March, 15),
	}

	dueMonths := map[time.Month]bool{
		time.March: true, time.June: true, time.September: true, time.December: true,
	}
	for m := time.January; m <= time.December; m++ {
		p := domain.Period{Year: 2025, Month: m}
		want := 0
		if dueMonths[m] {
			want = 1
		}
		if got := OccurrencesInMonth(task, p); got != want {
			t.Fatalf("%s: expected %d, got %d", p.Key(), want, got)
		}
	}
}

func TestQuarterlyIntervalTwoIsEverySixMonths(t *testing.T) {
	task := domain.RecurringTask{
		EstimatedHours:     10,
		RecurrenceType:     domain.RecurrenceQuarterly,
		RecurrenceInterval: 2,
		DueDate:            date(2024, time.March, 15),
	}

	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.March, 1},
		{2024, time.June, 0},
		{2024, time.September, 1},
		{2024, time.December, 0},
		{2025, time.March, 1},
	}
	for _, tc := range tests {
		p := domain.Period{Year: tc.year, Month: tc.month}
		if got := OccurrencesInMonth(task, p); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", p.Key(), tc.want, got)
		}
	}
}

func TestAnnualUsesMonthOfYearAnchor(t *testing.T) {
	task := domain.RecurringTask{
		EstimatedHours:     40,
		RecurrenceType:     domain.RecurrenceAnnually,
		RecurrenceInterval: 1,
		MonthOfYear:        4,
		DueDate:            date(2024, time.January, 10),
	}

	if got := OccurrencesInMonth(task, domain.Period{Year: 2025, Month: time.April}); got != 1 {
		t.Fatalf("expected annual task due in April, got %d", got)
	}
	if got := OccurrencesInMonth(task, domain.Period{Year: 2025, Month: time.January}); got != 0 {
		t.Fatalf("expected annual task not due in January, got %d", got)
	}
}

func TestWeeklyCountsMatchingWeekdays(t *testing.T) {
	// June 2026 has four Mondays (1, 8, 15, 22, 29 — five) and four Wednesdays.
	task := domain.RecurringTask{
		EstimatedHours:     2,
		RecurrenceType:     domain.RecurrenceWeekly,
		RecurrenceInterval: 1,
		Weekdays:           []int{1}, // Monday
		DueDate:            date(2026, time.January, 5),
	}
	p := domain.Period{Year: 2026, Month: time.June}
	if got := OccurrencesInMonth(task, p); got != 5 {
		t.Fatalf("expected 5 Mondays in June 2026, got %d", got)
	}

	task.RecurrenceInterval = 2
	if got := OccurrencesInMonth(task, p); got != 2 {
		t.Fatalf("expected biweekly to halve the count, got %d", got)
	}
}

func TestWeeklyFallsBackToAnchorWeekday(t *testing.T) {
	task := domain.RecurringTask{
		EstimatedHours:     2,
		RecurrenceType:     domain.RecurrenceWeekly,
		RecurrenceInterval: 1,
		DueDate:            date(2026, time.June, 5), // a Friday
	}
	p := domain.Period{Year: 2026, Month: time.June}
	if got := OccurrencesInMonth(task, p); got != 4 {
		t.Fatalf("expected 4 Fridays from anchor onward, got %d", got)
	}
}

func TestDailyScaledByInterval(t *testing.T) {
	task := domain.RecurringTask{
		EstimatedHours:     1,
		RecurrenceType:     domain.RecurrenceDaily,
		RecurrenceInterval: 1,
		DueDate:            date(2026, time.January, 1),
	}
	p := domain.Period{Year: 2026, Month: time.April}
	if got := OccurrencesInMonth(task, p); got != 30 {
		t.Fatalf("expected 30 daily occurrences, got %d", got)
	}
	task.RecurrenceInterval = 2
	if got := OccurrencesInMonth(task, p); got != 15 {
		t.Fatalf("expected 15 every-other-day occurrences, got %d", got)
	}
}

func TestDailyClampedToAnchorAndEnd(t *testing.T) {
	end := date(2026, time.April, 20)
	task := domain.RecurringTask{
		EstimatedHours:     1,
		RecurrenceType:     domain.RecurrenceDaily,
		RecurrenceInterval: 1,
		DueDate:            date(2026, time.April, 11),
		EndDate:            &end,
	}
	p := domain.Period{Year: 2026, Month: time.April}
	if got := OccurrencesInMonth(task, p); got != 10 {
		t.Fatalf("expected 10 days between anchor and end, got %d", got)
	}
}

func TestZeroAnchorDateYieldsNothing(t *testing.T) {
	task := monthlyTask()
	task.DueDate = time.Time{}
	if got := OccurrencesInMonth(task, domain.Period{Year: 2024, Month: time.May}); got != 0 {
		t.Fatalf("expected missing anchor to yield 0, got %d", got)
	}
}

func TestHoursInMonth(t *testing.T) {
	task := monthlyTask()
	p := domain.Period{Year: 2024, Month: time.May}
	if got := HoursInMonth(task, p); got != 4 {
		t.Fatalf("expected 4 hours, got %v", got)
	}
	task.RecurrenceType = domain.RecurrenceDaily
	if got := HoursInMonth(task, p); got != 4*31 {
		t.Fatalf("expected %v hours for daily, got %v", 4*31, got)
	}
}

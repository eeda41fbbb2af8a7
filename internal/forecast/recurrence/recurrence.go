// Package recurrence computes how many times a recurring task falls due
// inside a forecast period and how many hours that contributes.
package recurrence

import (
	"time"

	"github.com/jcorreia/practiva/internal/forecast/domain"
)

// OccurrencesInMonth returns the number of due-date events for task inside
// the target period. It never fails: a task with no usable anchor date, an
// end date before the period, or a pattern that skips the period yields zero.
func OccurrencesInMonth(task domain.RecurringTask, p domain.Period) int {
	if task.DueDate.IsZero() {
		return 0
	}
	if task.EndDate != nil && task.EndDate.Before(p.Start()) {
		return 0
	}
	if task.DueDate.After(p.End()) {
		return 0
	}

	interval := task.RecurrenceInterval
	if interval <= 0 {
		interval = 1
	}

	switch task.RecurrenceType {
	case domain.RecurrenceDaily:
		return dailyOccurrences(task, p, interval)
	case domain.RecurrenceWeekly:
		return weeklyOccurrences(task, p, interval)
	case domain.RecurrenceMonthly:
		return monthlyOccurrences(task, p, interval)
	case domain.RecurrenceQuarterly:
		return anchoredOccurrences(task, p, 3*interval)
	case domain.RecurrenceAnnually:
		return anchoredOccurrences(task, p, 12*interval)
	}
	return 0
}

// HoursInMonth returns the task's demand contribution for the period.
func HoursInMonth(task domain.RecurringTask, p domain.Period) float64 {
	occurrences := OccurrencesInMonth(task, p)
	if occurrences == 0 {
		return 0
	}
	return float64(occurrences) * task.EstimatedHours
}

// activeRange clamps the period to the task's [DueDate, EndDate] window.
// The second return is false when the window misses the period entirely.
func activeRange(task domain.RecurringTask, p domain.Period) (time.Time, time.Time, bool) {
	from := p.Start()
	to := p.End()
	anchor := task.DueDate.UTC().Truncate(24 * time.Hour)
	if anchor.After(from) {
		from = anchor
	}
	if task.EndDate != nil {
		end := task.EndDate.UTC().Truncate(24 * time.Hour)
		if end.Before(to) {
			to = end
		}
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func dailyOccurrences(task domain.RecurringTask, p domain.Period, interval int) int {
	from, to, ok := activeRange(task, p)
	if !ok {
		return 0
	}
	days := int(to.Sub(from).Hours()/24) + 1
	return days / interval
}

func weeklyOccurrences(task domain.RecurringTask, p domain.Period, interval int) int {
	from, to, ok := activeRange(task, p)
	if !ok {
		return 0
	}
	weekdays := task.Weekdays
	if len(weekdays) == 0 {
		weekdays = []int{int(task.DueDate.UTC().Weekday())}
	}
	wanted := map[int]bool{}
	for _, d := range weekdays {
		wanted[d] = true
	}
	matches := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if wanted[int(day.Weekday())] {
			matches++
		}
	}
	return matches / interval
}

func monthlyOccurrences(task domain.RecurringTask, p domain.Period, interval int) int {
	day := task.DayOfMonth
	if day <= 0 {
		day = task.DueDate.UTC().Day()
	}
	// A day-of-month that does not exist in the target month is not due,
	// rather than clamped to the month end.
	if day > p.Days() {
		return 0
	}
	diff := p.MonthIndex() - domain.PeriodFrom(task.DueDate).MonthIndex()
	if diff < 0 || diff%interval != 0 {
		return 0
	}
	if !withinEnd(task, p, day) {
		return 0
	}
	return 1
}

// anchoredOccurrences handles quarterly and annual patterns: the target month
// is due iff its calendar-month distance from the anchor month is a
// non-negative multiple of step.
func anchoredOccurrences(task domain.RecurringTask, p domain.Period, step int) int {
	anchor := domain.PeriodFrom(task.DueDate)
	if task.MonthOfYear >= 1 && task.MonthOfYear <= 12 {
		anchor.Month = time.Month(task.MonthOfYear)
	}
	diff := p.MonthIndex() - anchor.MonthIndex()
	if diff < 0 || diff%step != 0 {
		return 0
	}
	day := task.DayOfMonth
	if day <= 0 {
		day = task.DueDate.UTC().Day()
	}
	if day > p.Days() {
		day = p.Days()
	}
	if !withinEnd(task, p, day) {
		return 0
	}
	return 1
}

func withinEnd(task domain.RecurringTask, p domain.Period, day int) bool {
	if task.EndDate == nil {
		return true
	}
	due := time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.UTC)
	return !due.After(task.EndDate.UTC())
}

// Package demand aggregates validated recurring tasks into per-cell demand
// figures and the per-client breakdown rows behind them.
package demand

import (
	"log"
	"sort"

	"github.com/jcorreia/practiva/internal/forecast/domain"
	"github.com/jcorreia/practiva/internal/forecast/recurrence"
)

// Totals is the aggregate demand for one (skill, period) cell.
type Totals struct {
	Hours   float64
	Tasks   int
	Clients int
}

// ForSkillPeriod sums demand across tasks that carry skill and are due in p.
// Client count dedups raw client ids; canonical dedup by resolved display
// name happens later in the breakdown and matrix totals.
func ForSkillPeriod(skill string, p domain.Period, tasks []domain.RecurringTask) Totals {
	var totals Totals
	clients := map[string]bool{}
	for _, task := range tasks {
		if !task.HasSkill(skill) {
			continue
		}
		hours := safeHoursInMonth(task, p)
		if hours <= 0 {
			continue
		}
		totals.Hours += hours
		totals.Tasks++
		if !clients[task.ClientID] {
			clients[task.ClientID] = true
			totals.Clients++
		}
	}
	return totals
}

// Breakdown returns one ClientTaskDemand row per task carrying skill and due
// in p. clientNames holds batch-resolved display names; a missing entry
// falls back to the joined name on the task, then to the raw id.
//
// The preferred-staff fields are an exact pass-through from the task. Earlier
// revisions of this system silently remapped them between storage and output
// field names; the contract here is byte-for-byte copy, nil included.
func Breakdown(skill string, p domain.Period, tasks []domain.RecurringTask, clientNames map[string]string) []domain.ClientTaskDemand {
	var rows []domain.ClientTaskDemand
	for _, task := range tasks {
		if !task.HasSkill(skill) {
			continue
		}
		frequency := safeOccurrences(task, p)
		if frequency == 0 {
			continue
		}
		hours := float64(frequency) * task.EstimatedHours
		if hours <= 0 {
			continue
		}
		rows = append(rows, domain.ClientTaskDemand{
			ClientID:           task.ClientID,
			ClientName:         clientDisplayName(task, clientNames),
			RecurringTaskID:    task.ID,
			TaskName:           task.Name,
			SkillType:          skill,
			EstimatedHours:     task.EstimatedHours,
			RecurrenceType:     task.RecurrenceType,
			RecurrenceInterval: task.RecurrenceInterval,
			MonthlyFrequency:   frequency,
			MonthlyHours:       hours,
			PreferredStaffID:   task.PreferredStaffID,
			PreferredStaffName: task.PreferredStaffName,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ClientName != rows[j].ClientName {
			return rows[i].ClientName < rows[j].ClientName
		}
		return rows[i].RecurringTaskID < rows[j].RecurringTaskID
	})
	return rows
}

// SkillsOf collects the deduplicated, sorted skill set across tasks.
func SkillsOf(tasks []domain.RecurringTask) []string {
	seen := map[string]bool{}
	var out []string
	for _, task := range tasks {
		for _, skill := range task.Skills {
			if !seen[skill] {
				seen[skill] = true
				out = append(out, skill)
			}
		}
	}
	sort.Strings(out)
	return out
}

func clientDisplayName(task domain.RecurringTask, clientNames map[string]string) string {
	if name, ok := clientNames[task.ClientID]; ok && name != "" {
		return name
	}
	if task.ClientName != "" {
		return task.ClientName
	}
	return task.ClientID
}

// safeOccurrences guards the per-task calculation: one bad record must never
// abort the whole matrix.
func safeOccurrences(task domain.RecurringTask, p domain.Period) (n int) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("demand: recurrence for task %s in %s: %v", task.ID, p.Key(), r)
			n = 0
		}
	}()
	return recurrence.OccurrencesInMonth(task, p)
}

func safeHoursInMonth(task domain.RecurringTask, p domain.Period) (hours float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("demand: hours for task %s in %s: %v", task.ID, p.Key(), r)
			hours = 0
		}
	}()
	return recurrence.HoursInMonth(task, p)
}

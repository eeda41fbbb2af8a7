package domain

import "time"

// RecurrenceType describes how often a recurring task is due.
type RecurrenceType string

const (
	RecurrenceDaily     RecurrenceType = "daily"
	RecurrenceWeekly    RecurrenceType = "weekly"
	RecurrenceMonthly   RecurrenceType = "monthly"
	RecurrenceQuarterly RecurrenceType = "quarterly"
	RecurrenceAnnually  RecurrenceType = "annually"
)

// ParseRecurrenceType maps a stored recurrence value to its enum form.
func ParseRecurrenceType(value string) (RecurrenceType, bool) {
	switch RecurrenceType(value) {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceQuarterly, RecurrenceAnnually:
		return RecurrenceType(value), true
	}
	return "", false
}

// TaskRecord is a raw recurring task row as loaded from the backing store.
// Fields are loosely typed; the validator turns records into RecurringTask
// values before any calculation touches them.
type TaskRecord struct {
	ID                 string
	ClientID           string
	ClientName         string
	TemplateID         string
	Name               string
	EstimatedHours     float64
	RequiredSkills     []string
	Priority           string
	Category           string
	RecurrenceType     string
	RecurrenceInterval int
	Weekdays           []int
	DayOfMonth         int
	MonthOfYear        int
	DueDate            string
	EndDate            string
	IsActive           bool
	PreferredStaffID   *string
	PreferredStaffName string
}

// RecurringTask is a validated recurring task definition. Skills holds the
// resolved display names; Refs keeps the classified source references.
type RecurringTask struct {
	ID                 string
	ClientID           string
	ClientName         string
	TemplateID         string
	Name               string
	EstimatedHours     float64
	Skills             []string
	Refs               []SkillReference
	Priority           string
	Category           string
	RecurrenceType     RecurrenceType
	RecurrenceInterval int
	Weekdays           []int
	DayOfMonth         int
	MonthOfYear        int
	DueDate            time.Time
	EndDate            *time.Time
	PreferredStaffID   *string
	PreferredStaffName string
}

// HasSkill reports whether the task's resolved skill set contains name.
func (t RecurringTask) HasSkill(name string) bool {
	for _, s := range t.Skills {
		if s == name {
			return true
		}
	}
	return false
}

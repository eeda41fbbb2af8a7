// Package validate screens raw recurring task records before any demand
// calculation. Validation is the only place loosely typed store rows become
// typed domain tasks; everything downstream assumes that already happened.
package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/jcorreia/practiva/internal/forecast/diagnostics"
	"github.com/jcorreia/practiva/internal/forecast/domain"
	"github.com/jcorreia/practiva/internal/forecast/skills"
)

const (
	maxEstimatedHours     = 1000
	maxRecurrenceInterval = 100
)

// Issue is one validation problem on a task record.
type Issue struct {
	Field   string
	Message string
}

// TaskError pairs a rejected record with everything wrong about it.
type TaskError struct {
	Task   domain.TaskRecord
	Issues []Issue
}

// Result is the validation outcome for a batch of records.
type Result struct {
	// Valid holds tasks that passed (or were retained in permissive mode).
	Valid []domain.RecurringTask
	// Invalid pairs each failing record with its issues. In permissive mode
	// a task can appear in both Valid and Invalid.
	Invalid []TaskError
	// ResolvedIDs lists tasks whose skill set changed during resolution,
	// for downstream cache invalidation and auditing.
	ResolvedIDs []string
}

// Validator screens task records, resolving skill references inline.
type Validator struct {
	resolver *skills.Resolver
	diag     *diagnostics.Emitter
}

// New creates a validator. The diagnostics emitter may be nil.
func New(resolver *skills.Resolver, diag *diagnostics.Emitter) *Validator {
	return &Validator{resolver: resolver, diag: diag}
}

// Validate screens records. In strict mode (permissive=false) tasks with any
// issue are excluded; permissive mode keeps them, degraded, so a matrix stays
// populated even over partially malformed data.
func (v *Validator) Validate(ctx context.Context, records []domain.TaskRecord, permissive bool) (Result, error) {
	var out Result
	for _, record := range records {
		task, issues, resolved, err := v.screen(ctx, record)
		if err != nil {
			// Resolver infrastructure failure, not a data problem.
			return Result{}, err
		}
		if resolved {
			out.ResolvedIDs = append(out.ResolvedIDs, record.ID)
		}
		if len(issues) > 0 {
			out.Invalid = append(out.Invalid, TaskError{Task: record, Issues: issues})
			v.diag.Emit(ctx, diagnostics.SeverityWarn, "validate", issues[0].Message, record.ID)
			if !permissive {
				continue
			}
		}
		out.Valid = append(out.Valid, task)
	}
	return out, nil
}

func (v *Validator) screen(ctx context.Context, record domain.TaskRecord) (domain.RecurringTask, []Issue, bool, error) {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if record.ID == "" {
		add("id", "task id is required")
	}
	if record.ClientID == "" {
		add("clientId", "client id is required")
	}
	if record.Name == "" {
		add("name", "task name is required")
	}
	if record.EstimatedHours <= 0 || record.EstimatedHours > maxEstimatedHours {
		add("estimatedHours", fmt.Sprintf("estimated hours must be in (0, %d]", maxEstimatedHours))
	}

	recurrenceType, ok := domain.ParseRecurrenceType(record.RecurrenceType)
	if !ok {
		add("recurrenceType", fmt.Sprintf("unknown recurrence type %q", record.RecurrenceType))
	}
	interval := record.RecurrenceInterval
	if interval == 0 {
		interval = 1
	}
	if interval < 1 || interval > maxRecurrenceInterval {
		add("recurrenceInterval", fmt.Sprintf("recurrence interval must be in [1, %d]", maxRecurrenceInterval))
		interval = 1
	}
	for _, d := range record.Weekdays {
		if d < 0 || d > 6 {
			add("weekdays", fmt.Sprintf("weekday %d out of range [0, 6]", d))
			break
		}
	}
	if record.DayOfMonth != 0 && (record.DayOfMonth < 1 || record.DayOfMonth > 31) {
		add("dayOfMonth", "day of month must be in [1, 31]")
	}
	if record.MonthOfYear != 0 && (record.MonthOfYear < 1 || record.MonthOfYear > 12) {
		add("monthOfYear", "month of year must be in [1, 12]")
	}

	dueDate, err := parseDate(record.DueDate)
	if err != nil {
		add("dueDate", fmt.Sprintf("unparseable due date %q", record.DueDate))
	}
	var endDate *time.Time
	if record.EndDate != "" {
		end, err := parseDate(record.EndDate)
		if err != nil {
			add("endDate", fmt.Sprintf("unparseable end date %q", record.EndDate))
		} else {
			endDate = &end
		}
	}

	refs := make([]domain.SkillReference, 0, len(record.RequiredSkills))
	for _, raw := range record.RequiredSkills {
		refs = append(refs, domain.ParseSkillReference(raw))
	}

	var skillNames []string
	resolvedChanged := false
	if len(record.RequiredSkills) == 0 {
		add("requiredSkills", "required skills must be a non-empty list")
	} else {
		res, err := v.resolver.ResolveReferences(ctx, record.RequiredSkills)
		if err != nil {
			return domain.RecurringTask{}, nil, false, err
		}
		skillNames = res.Valid
		resolvedChanged = res.Changed
		for _, invalid := range res.Invalid {
			v.diag.Emit(ctx, diagnostics.SeverityWarn, "skills", "unresolvable skill reference", invalid)
		}
		if len(res.Valid) == 0 {
			add("requiredSkills", "no skill reference resolved")
		}
	}

	task := domain.RecurringTask{
		ID:                 record.ID,
		ClientID:           record.ClientID,
		ClientName:         record.ClientName,
		TemplateID:         record.TemplateID,
		Name:               record.Name,
		EstimatedHours:     record.EstimatedHours,
		Skills:             skillNames,
		Refs:               refs,
		Priority:           record.Priority,
		Category:           record.Category,
		RecurrenceType:     recurrenceType,
		RecurrenceInterval: interval,
		Weekdays:           record.Weekdays,
		DayOfMonth:         record.DayOfMonth,
		MonthOfYear:        record.MonthOfYear,
		DueDate:            dueDate,
		EndDate:            endDate,
		PreferredStaffID:   record.PreferredStaffID,
		PreferredStaffName: record.PreferredStaffName,
	}
	return task, issues, resolvedChanged, nil
}

// parseDate accepts the two date shapes the store produces.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

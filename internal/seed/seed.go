// Package seed loads YAML fixtures into a forecast SQLite store.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jcorreia/practiva/internal/forecast/domain"
	"github.com/jcorreia/practiva/internal/forecast/storage"
	"github.com/jcorreia/practiva/internal/forecast/storage/sqlite"
)

// Fixture is the root document of a seed file.
type Fixture struct {
	Skills   []SkillFixture   `yaml:"skills"`
	Clients  []ClientFixture  `yaml:"clients"`
	Staff    []StaffFixture   `yaml:"staff"`
	FeeRates []FeeRateFixture `yaml:"fee_rates"`
	Tasks    []TaskFixture    `yaml:"tasks"`
}

// SkillFixture seeds one skill.
type SkillFixture struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// ClientFixture seeds one client and its expected monthly revenue.
type ClientFixture struct {
	ID                     string  `yaml:"id"`
	Name                   string  `yaml:"name"`
	ExpectedMonthlyRevenue float64 `yaml:"expected_monthly_revenue"`
}

// StaffFixture seeds one staff member.
type StaffFixture struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// FeeRateFixture seeds one skill fee rate.
type FeeRateFixture struct {
	Skill      string  `yaml:"skill"`
	HourlyRate float64 `yaml:"hourly_rate"`
}

// TaskFixture seeds one recurring task. Fields mirror the raw task row;
// validation happens at generation time, so fixtures may carry flawed tasks
// on purpose.
type TaskFixture struct {
	ID                 string   `yaml:"id"`
	ClientID           string   `yaml:"client_id"`
	TemplateID         string   `yaml:"template_id"`
	Name               string   `yaml:"name"`
	EstimatedHours     float64  `yaml:"estimated_hours"`
	RequiredSkills     []string `yaml:"required_skills"`
	Priority           string   `yaml:"priority"`
	Category           string   `yaml:"category"`
	RecurrenceType     string   `yaml:"recurrence_type"`
	RecurrenceInterval int      `yaml:"recurrence_interval"`
	Weekdays           []int    `yaml:"weekdays"`
	DayOfMonth         int      `yaml:"day_of_month"`
	MonthOfYear        int      `yaml:"month_of_year"`
	DueDate            string   `yaml:"due_date"`
	EndDate            string   `yaml:"end_date"`
	Inactive           bool     `yaml:"inactive"`
	PreferredStaffID   string   `yaml:"preferred_staff_id"`
}

// Summary reports how many rows of each kind were applied.
type Summary struct {
	Skills   int
	Clients  int
	Staff    int
	FeeRates int
	Tasks    int
}

// LoadFile reads and parses a fixture document from path.
func LoadFile(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a fixture document. Unknown keys are rejected so typos in
// hand-written fixtures fail loudly.
func Parse(raw []byte) (Fixture, error) {
	var fixture Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixture); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return fixture, nil
}

// Apply upserts the fixture's rows into store in dependency order: reference
// data first, then tasks.
func Apply(ctx context.Context, store *sqlite.Store, fixture Fixture) (Summary, error) {
	if store == nil {
		return Summary{}, fmt.Errorf("store is required")
	}
	var summary Summary

	for _, skill := range fixture.Skills {
		err := store.UpsertSkill(ctx, storage.Skill{ID: skill.ID, Name: skill.Name})
		if err != nil {
			return summary, fmt.Errorf("seed skill %q: %w", skill.ID, err)
		}
		summary.Skills++
	}
	for _, client := range fixture.Clients {
		err := store.UpsertClient(ctx, storage.Client{ID: client.ID, Name: client.Name}, client.ExpectedMonthlyRevenue)
		if err != nil {
			return summary, fmt.Errorf("seed client %q: %w", client.ID, err)
		}
		summary.Clients++
	}
	for _, member := range fixture.Staff {
		err := store.UpsertStaffMember(ctx, storage.StaffMember{ID: member.ID, Name: member.Name})
		if err != nil {
			return summary, fmt.Errorf("seed staff %q: %w", member.ID, err)
		}
		summary.Staff++
	}
	for _, rate := range fixture.FeeRates {
		if err := store.UpsertSkillFeeRate(ctx, rate.Skill, rate.HourlyRate); err != nil {
			return summary, fmt.Errorf("seed fee rate %q: %w", rate.Skill, err)
		}
		summary.FeeRates++
	}
	for _, task := range fixture.Tasks {
		if err := store.UpsertRecurringTask(ctx, taskRecord(task)); err != nil {
			return summary, fmt.Errorf("seed task %q: %w", task.ID, err)
		}
		summary.Tasks++
	}
	return summary, nil
}

func taskRecord(task TaskFixture) domain.TaskRecord {
	record := domain.TaskRecord{
		ID:                 task.ID,
		ClientID:           task.ClientID,
		TemplateID:         task.TemplateID,
		Name:               task.Name,
		EstimatedHours:     task.EstimatedHours,
		RequiredSkills:     task.RequiredSkills,
		Priority:           task.Priority,
		Category:           task.Category,
		RecurrenceType:     task.RecurrenceType,
		RecurrenceInterval: task.RecurrenceInterval,
		Weekdays:           task.Weekdays,
		DayOfMonth:         task.DayOfMonth,
		MonthOfYear:        task.MonthOfYear,
		DueDate:            task.DueDate,
		EndDate:            task.EndDate,
		IsActive:           !task.Inactive,
	}
	if task.PreferredStaffID != "" {
		id := task.PreferredStaffID
		record.PreferredStaffID = &id
	}
	return record
}

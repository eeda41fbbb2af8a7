package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jcorreia/practiva/internal/forecast/domain"
	"github.com/jcorreia/practiva/internal/forecast/storage"
)

// UpsertSkill inserts or updates one skill record.
func (s *Store) UpsertSkill(ctx context.Context, skill storage.Skill) error {
	if err := s.ready(); err != nil {
		return err
	}
	if skill.ID == "" || skill.Name == "" {
		return fmt.Errorf("skill id and name are required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO skills (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		skill.ID, skill.Name)
	if err != nil {
		return fmt.Errorf("upsert skill: %w", err)
	}
	return nil
}

// UpsertClient inserts or updates one client with its expected monthly revenue.
func (s *Store) UpsertClient(ctx context.Context, client storage.Client, expectedMonthlyRevenue float64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if client.ID == "" || client.Name == "" {
		return fmt.Errorf("client id and name are required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO clients (id, name, expected_monthly_revenue) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   expected_monthly_revenue = excluded.expected_monthly_revenue`,
		client.ID, client.Name, expectedMonthlyRevenue)
	if err != nil {
		return fmt.Errorf("upsert client: %w", err)
	}
	return nil
}

// UpsertStaffMember inserts or updates one staff record.
func (s *Store) UpsertStaffMember(ctx context.Context, member storage.StaffMember) error {
	if err := s.ready(); err != nil {
		return err
	}
	if member.ID == "" || member.Name == "" {
		return fmt.Errorf("staff id and name are required")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO staff (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		member.ID, member.Name)
	if err != nil {
		return fmt.Errorf("upsert staff member: %w", err)
	}
	return nil
}

// UpsertSkillFeeRate inserts or updates one skill fee rate.
func (s *Store) UpsertSkillFeeRate(ctx context.Context, skillName string, hourlyRate float64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if skillName == "" {
		return fmt.Errorf("skill name is required")
	}
	if hourlyRate <= 0 {
		return fmt.Errorf("hourly rate must be greater than zero")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO skill_fee_rates (skill_name, hourly_rate) VALUES (?, ?)
		 ON CONFLICT(skill_name) DO UPDATE SET hourly_rate = excluded.hourly_rate`,
		skillName, hourlyRate)
	if err != nil {
		return fmt.Errorf("upsert fee rate: %w", err)
	}
	return nil
}

// UpsertRecurringTask inserts or updates one raw recurring task row.
// The row is stored as-is; validation happens at generation time.
func (s *Store) UpsertRecurringTask(ctx context.Context, record domain.TaskRecord) error {
	if err := s.ready(); err != nil {
		return err
	}
	if record.ID == "" {
		return fmt.Errorf("task id is required")
	}
	now := s.clock().UTC().UnixMilli()
	active := 0
	if record.IsActive {
		active = 1
	}
	var preferredStaffID any
	if record.PreferredStaffID != nil && *record.PreferredStaffID != "" {
		preferredStaffID = *record.PreferredStaffID
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO recurring_tasks (
		   id, client_id, template_id, name, estimated_hours, required_skills,
		   priority, category, recurrence_type, recurrence_interval, weekdays,
		   day_of_month, month_of_year, due_date, end_date, is_active,
		   preferred_staff_id, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   client_id = excluded.client_id,
		   template_id = excluded.template_id,
		   name = excluded.name,
		   estimated_hours = excluded.estimated_hours,
		   required_skills = excluded.required_skills,
		   priority = excluded.priority,
		   category = excluded.category,
		   recurrence_type = excluded.recurrence_type,
		   recurrence_interval = excluded.recurrence_interval,
		   weekdays = excluded.weekdays,
		   day_of_month = excluded.day_of_month,
		   month_of_year = excluded.month_of_year,
		   due_date = excluded.due_date,
		   end_date = excluded.end_date,
		   is_active = excluded.is_active,
		   preferred_staff_id = excluded.preferred_staff_id,
		   updated_at = excluded.updated_at`,
		record.ID, record.ClientID, record.TemplateID, record.Name,
		record.EstimatedHours, joinCSV(record.RequiredSkills),
		record.Priority, record.Category, record.RecurrenceType,
		record.RecurrenceInterval, joinIntCSV(record.Weekdays),
		record.DayOfMonth, record.MonthOfYear, record.DueDate,
		nullableString(record.EndDate), active, preferredStaffID, now, now)
	if err != nil {
		return fmt.Errorf("upsert recurring task: %w", err)
	}
	return nil
}

func joinCSV(values []string) string {
	return strings.Join(values, ",")
}

func joinIntCSV(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

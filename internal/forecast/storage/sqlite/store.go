// Package sqlite provides a SQLite-backed forecast storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jcorreia/practiva/internal/forecast/domain"
	"github.com/jcorreia/practiva/internal/forecast/storage"
	"github.com/jcorreia/practiva/internal/forecast/storage/sqlite/migrations"
	sqlitemigrate "github.com/jcorreia/practiva/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store persists forecast reference data and diagnostics in SQLite.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

// Open opens a SQLite forecast store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, clock: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// ListActiveRecurringTasks returns raw active task rows with joined client
// and staff display names.
func (s *Store) ListActiveRecurringTasks(ctx context.Context) ([]domain.TaskRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT t.id, t.client_id, COALESCE(c.name, ''),
		       COALESCE(t.template_id, ''), t.name, t.estimated_hours,
		       t.required_skills, COALESCE(t.priority, ''), COALESCE(t.category, ''),
		       t.recurrence_type, t.recurrence_interval,
		       COALESCE(t.weekdays, ''), t.day_of_month, t.month_of_year,
		       t.due_date, COALESCE(t.end_date, ''),
		       t.preferred_staff_id, COALESCE(st.name, '')
		  FROM recurring_tasks t
		  LEFT JOIN clients c ON c.id = t.client_id
		  LEFT JOIN staff st ON st.id = t.preferred_staff_id
		 WHERE t.is_active = 1
		 ORDER BY t.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list recurring tasks: %w", err)
	}
	defer rows.Close()

	var records []domain.TaskRecord
	for rows.Next() {
		var record domain.TaskRecord
		var skillsCSV, weekdaysCSV string
		var preferredStaffID sql.NullString
		if err := rows.Scan(
			&record.ID,
			&record.ClientID,
			&record.ClientName,
			&record.TemplateID,
			&record.Name,
			&record.EstimatedHours,
			&skillsCSV,
			&record.Priority,
			&record.Category,
			&record.RecurrenceType,
			&record.RecurrenceInterval,
			&weekdaysCSV,
			&record.DayOfMonth,
			&record.MonthOfYear,
			&record.DueDate,
			&record.EndDate,
			&preferredStaffID,
			&record.PreferredStaffName,
		); err != nil {
			return nil, fmt.Errorf("list recurring tasks: %w", err)
		}
		record.RequiredSkills = splitCSV(skillsCSV)
		record.Weekdays = splitIntCSV(weekdaysCSV)
		record.IsActive = true
		if preferredStaffID.Valid && preferredStaffID.String != "" {
			id := preferredStaffID.String
			record.PreferredStaffID = &id
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recurring tasks: %w", err)
	}
	return records, nil
}

// ListSkills returns every skill record.
func (s *Store) ListSkills(ctx context.Context) ([]storage.Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, name FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var skills []storage.Skill
	for rows.Next() {
		var skill storage.Skill
		if err := rows.Scan(&skill.ID, &skill.Name); err != nil {
			return nil, fmt.Errorf("list skills: %w", err)
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

// ResolveClientIDs returns display names for the given client ids. Missing
// ids are simply absent from the result.
func (s *Store) ResolveClientIDs(ctx context.Context, ids []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name FROM clients WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve client ids: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("resolve client ids: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve client ids: %w", err)
	}
	return names, nil
}

// SkillFeeRates returns the configured hourly rate per skill name.
func (s *Store) SkillFeeRates(ctx context.Context) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT skill_name, hourly_rate FROM skill_fee_rates`)
	if err != nil {
		return nil, fmt.Errorf("list fee rates: %w", err)
	}
	defer rows.Close()

	rates := map[string]float64{}
	for rows.Next() {
		var name string
		var rate float64
		if err := rows.Scan(&name, &rate); err != nil {
			return nil, fmt.Errorf("list fee rates: %w", err)
		}
		rates[name] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fee rates: %w", err)
	}
	return rates, nil
}

// ClientsWithExpectedRevenue returns expected monthly revenue keyed by
// client id, for clients that have one configured.
func (s *Store) ClientsWithExpectedRevenue(ctx context.Context) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, expected_monthly_revenue FROM clients WHERE expected_monthly_revenue > 0`)
	if err != nil {
		return nil, fmt.Errorf("list expected revenue: %w", err)
	}
	defer rows.Close()

	expected := map[string]float64{}
	for rows.Next() {
		var id string
		var amount float64
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("list expected revenue: %w", err)
		}
		expected[id] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expected revenue: %w", err)
	}
	return expected, nil
}

// AppendDiagnostic stores one diagnostic record.
func (s *Store) AppendDiagnostic(ctx context.Context, d storage.Diagnostic) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	ts := d.Timestamp
	if ts.IsZero() {
		ts = s.clock()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO diagnostics (component, severity, reason, subject, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.Component, d.Severity, d.Reason, d.Subject, ts.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("append diagnostic: %w", err)
	}
	return nil
}

// ListDiagnostics returns the most recent diagnostics, newest first.
func (s *Store) ListDiagnostics(ctx context.Context, limit int) ([]storage.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT component, severity, reason, COALESCE(subject, ''), created_at
		   FROM diagnostics ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list diagnostics: %w", err)
	}
	defer rows.Close()

	var diags []storage.Diagnostic
	for rows.Next() {
		var d storage.Diagnostic
		var createdAt int64
		if err := rows.Scan(&d.Component, &d.Severity, &d.Reason, &d.Subject, &createdAt); err != nil {
			return nil, fmt.Errorf("list diagnostics: %w", err)
		}
		d.Timestamp = time.UnixMilli(createdAt).UTC()
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list diagnostics: %w", err)
	}
	return diags, nil
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func splitIntCSV(value string) []int {
	var out []int
	for _, part := range splitCSV(value) {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

var (
	_ storage.TaskStore          = (*Store)(nil)
	_ storage.SkillStore         = (*Store)(nil)
	_ storage.ClientStore        = (*Store)(nil)
	_ storage.FeeRateStore       = (*Store)(nil)
	_ storage.ClientRevenueStore = (*Store)(nil)
	_ storage.DiagnosticsStore   = (*Store)(nil)
)

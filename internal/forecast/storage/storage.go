// Package storage defines the store interfaces the forecasting core consumes.
// Implementations live in subpackages; the core treats them as external
// collaborators and degrades gracefully when they fail.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jcorreia/practiva/internal/forecast/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Skill is a skill reference record.
type Skill struct {
	ID   string
	Name string
}

// Client is a client reference record.
type Client struct {
	ID   string
	Name string
}

// StaffMember is a staff reference record.
type StaffMember struct {
	ID   string
	Name string
}

// Diagnostic is one out-of-band record of dropped or degraded data.
type Diagnostic struct {
	Component string    `json:"component"`
	Severity  string    `json:"severity"`
	Reason    string    `json:"reason"`
	Subject   string    `json:"subject,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskStore loads recurring task definitions with joined display data.
type TaskStore interface {
	ListActiveRecurringTasks(ctx context.Context) ([]domain.TaskRecord, error)
}

// SkillStore lists skill records for resolver cache population.
type SkillStore interface {
	ListSkills(ctx context.Context) ([]Skill, error)
}

// ClientStore resolves client ids to display names in batch.
type ClientStore interface {
	ResolveClientIDs(ctx context.Context, ids []string) (map[string]string, error)
}

// FeeRateStore returns the configured hourly fee rate per skill name.
type FeeRateStore interface {
	SkillFeeRates(ctx context.Context) (map[string]float64, error)
}

// ClientRevenueStore returns expected monthly revenue keyed by client id.
type ClientRevenueStore interface {
	ClientsWithExpectedRevenue(ctx context.Context) (map[string]float64, error)
}

// DiagnosticsStore persists and lists diagnostic records.
type DiagnosticsStore interface {
	AppendDiagnostic(ctx context.Context, d Diagnostic) error
	ListDiagnostics(ctx context.Context, limit int) ([]Diagnostic, error)
}

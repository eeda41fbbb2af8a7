package domain

// AggregationStrategy is the grouping axis for matrix data points.
type AggregationStrategy string

const (
	StrategySkillBased AggregationStrategy = "skill-based"
	StrategyStaffBased AggregationStrategy = "staff-based"
)

// Mode identifies what the generated matrix represents. Demand-only is the
// default; callers may define further modes and the cache keys on the value.
type Mode string

// ModeDemandOnly is the standard demand forecast.
const ModeDemandOnly Mode = "demand-only"

// Filters narrows a generation pass.
type Filters struct {
	Skills            []string `json:"skills,omitempty"`
	PreferredStaff    []string `json:"preferredStaff,omitempty"`
	IncludeUnassigned bool     `json:"includeUnassigned,omitempty"`
}

// Strategy applies the aggregation decision rule: any non-empty preferred
// staff identifier selects staff-based grouping. Pure function of the input.
func (f Filters) Strategy() AggregationStrategy {
	for _, id := range f.PreferredStaff {
		if id != "" {
			return StrategyStaffBased
		}
	}
	return StrategySkillBased
}

// WantsSkill reports whether the skill filter admits name. An empty filter
// admits everything.
func (f Filters) WantsSkill(name string) bool {
	if len(f.Skills) == 0 {
		return true
	}
	for _, s := range f.Skills {
		if s == name {
			return true
		}
	}
	return false
}

// ClientTaskDemand is one task's contribution to a matrix cell.
type ClientTaskDemand struct {
	ClientID           string         `json:"clientId"`
	ClientName         string         `json:"clientName"`
	RecurringTaskID    string         `json:"recurringTaskId"`
	TaskName           string         `json:"taskName"`
	SkillType          string         `json:"skillType"`
	EstimatedHours     float64        `json:"estimatedHours"`
	RecurrenceType     RecurrenceType `json:"recurrenceType"`
	RecurrenceInterval int            `json:"recurrenceInterval"`
	MonthlyFrequency   int            `json:"monthlyFrequency"`
	MonthlyHours       float64        `json:"monthlyHours"`
	PreferredStaffID   *string        `json:"preferredStaffId"`
	PreferredStaffName string         `json:"preferredStaffName"`
}

// DataPoint is one (month, skill) or (month, staff) matrix cell.
type DataPoint struct {
	SkillType             string             `json:"skillType"`
	Month                 string             `json:"month"`
	MonthLabel            string             `json:"monthLabel"`
	DemandHours           float64            `json:"demandHours"`
	TaskCount             int                `json:"taskCount"`
	ClientCount           int                `json:"clientCount"`
	Breakdown             []ClientTaskDemand `json:"taskBreakdown"`
	SuggestedRevenue      float64            `json:"suggestedRevenue"`
	ExpectedLessSuggested float64            `json:"expectedLessSuggested"`

	// Staff-based aggregation only.
	IsStaffSpecific     bool   `json:"isStaffSpecific,omitempty"`
	ActualStaffID       string `json:"actualStaffId,omitempty"`
	ActualStaffName     string `json:"actualStaffName,omitempty"`
	UnderlyingSkillType string `json:"underlyingSkillType,omitempty"`
	IsUnassigned        bool   `json:"isUnassigned,omitempty"`
}

// SkillSummary is the per-skill rollup across the whole horizon.
type SkillSummary struct {
	TotalHours            float64 `json:"totalHours"`
	TaskCount             int     `json:"taskCount"`
	ClientCount           int     `json:"clientCount"`
	SuggestedRevenue      float64 `json:"suggestedRevenue"`
	ExpectedLessSuggested float64 `json:"expectedLessSuggested"`
}

// MonthInfo is one column header of the matrix.
type MonthInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// RevenueTotals is the matrix-level revenue rollup, summed from the
// client-level rollups rather than the raw data points.
type RevenueTotals struct {
	TotalSuggested             float64 `json:"totalSuggestedRevenue"`
	TotalExpected              float64 `json:"totalExpectedRevenue"`
	TotalExpectedLessSuggested float64 `json:"totalExpectedLessSuggested"`
}

// MatrixData is the assembled forecast matrix.
type MatrixData struct {
	Months                      []MonthInfo             `json:"months"`
	Skills                      []string                `json:"skills"`
	DataPoints                  []DataPoint             `json:"dataPoints"`
	TotalDemand                 float64                 `json:"totalDemand"`
	TotalTasks                  int                     `json:"totalTasks"`
	TotalClients                int                     `json:"totalClients"`
	SkillSummary                map[string]SkillSummary `json:"skillSummary"`
	ClientTotals                map[string]float64      `json:"clientTotals"`
	ClientRevenue               map[string]float64      `json:"clientRevenue"`
	ClientHourlyRates           map[string]float64      `json:"clientHourlyRates"`
	ClientSuggestedRevenue      map[string]float64      `json:"clientSuggestedRevenue"`
	ClientExpectedLessSuggested map[string]float64      `json:"clientExpectedLessSuggested"`
	RevenueTotals               RevenueTotals           `json:"revenueTotals"`
	AggregationStrategy         AggregationStrategy     `json:"aggregationStrategy"`
}

// EmptyMatrix returns the minimal valid matrix used as the degradation
// fallback: empty slices and maps, zero totals, skill-based strategy.
func EmptyMatrix() MatrixData {
	return MatrixData{
		Months:                      []MonthInfo{},
		Skills:                      []string{},
		DataPoints:                  []DataPoint{},
		SkillSummary:                map[string]SkillSummary{},
		ClientTotals:                map[string]float64{},
		ClientRevenue:               map[string]float64{},
		ClientHourlyRates:           map[string]float64{},
		ClientSuggestedRevenue:      map[string]float64{},
		ClientExpectedLessSuggested: map[string]float64{},
		AggregationStrategy:         StrategySkillBased,
	}
}

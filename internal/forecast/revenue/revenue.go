// Package revenue computes suggested revenue and expected-vs-suggested
// deltas at data-point, skill, client, and matrix granularity.
package revenue

import (
	"context"
	"log"
	"math"

	"github.com/jcorreia/practiva/internal/forecast/diagnostics"
	"github.com/jcorreia/practiva/internal/forecast/domain"
)

// DefaultFallbackRate is the hourly rate applied when a skill has no
// configured fee rate. It is the single fallback point in the codebase;
// every use is logged and recorded as a diagnostic.
const DefaultFallbackRate = 75.0

// Calculator enriches a matrix with revenue figures.
type Calculator struct {
	rates        map[string]float64
	expected     map[string]float64
	fallbackRate float64
	diag         *diagnostics.Emitter
	warned       map[string]bool
}

// NewCalculator creates a revenue calculator. rates maps skill name to
// hourly fee rate; expected maps client id to expected monthly revenue.
// A non-positive fallbackRate selects DefaultFallbackRate.
func NewCalculator(rates, expected map[string]float64, fallbackRate float64, diag *diagnostics.Emitter) *Calculator {
	if fallbackRate <= 0 {
		fallbackRate = DefaultFallbackRate
	}
	return &Calculator{
		rates:        rates,
		expected:     expected,
		fallbackRate: fallbackRate,
		diag:         diag,
		warned:       map[string]bool{},
	}
}

// Rate returns the fee rate for skill, falling back to the configured
// default. The fallback is logged once per skill per calculator.
func (c *Calculator) Rate(ctx context.Context, skill string) float64 {
	if rate, ok := c.rates[skill]; ok && rate > 0 {
		return rate
	}
	if !c.warned[skill] {
		c.warned[skill] = true
		log.Printf("revenue: no fee rate for skill %q, using fallback %.2f/hr", skill, c.fallbackRate)
		c.diag.Emit(ctx, diagnostics.SeverityInfo, "revenue", "fee rate fallback used", skill)
	}
	return c.fallbackRate
}

// ExpectedMonthly returns the expected monthly revenue configured for a
// client, zero when absent. Absence is expected, not an error.
func (c *Calculator) ExpectedMonthly(clientID string) float64 {
	return c.expected[clientID]
}

// Apply fills in the revenue overlay of an assembled matrix: per data point
// suggested revenue and expected delta, client and skill rollups, and matrix
// totals. Matrix totals sum the client rollups, not the raw data points, so
// a task spanning several breakdown rows is not double counted.
//
// Expected revenue apportionment: a client's expected monthly revenue
// spreads over the client's cells in a month proportionally to hours.
func (c *Calculator) Apply(ctx context.Context, m *domain.MatrixData, horizonMonths int) {
	// Month-wide hours per client, for apportioning expected revenue.
	clientMonthHours := map[string]map[string]float64{}
	clientIDByName := map[string]string{}
	for _, point := range m.DataPoints {
		for _, row := range point.Breakdown {
			byClient := clientMonthHours[point.Month]
			if byClient == nil {
				byClient = map[string]float64{}
				clientMonthHours[point.Month] = byClient
			}
			byClient[row.ClientName] += row.MonthlyHours
			clientIDByName[row.ClientName] = row.ClientID
		}
	}

	skillClients := map[string]map[string]bool{}
	for i := range m.DataPoints {
		point := &m.DataPoints[i]
		skill := pointSkill(*point)
		rate := c.Rate(ctx, skill)
		point.SuggestedRevenue = round2(point.DemandHours * rate)

		var cellExpected float64
		cellClientHours := map[string]float64{}
		for _, row := range point.Breakdown {
			cellClientHours[row.ClientName] += row.MonthlyHours

			m.ClientTotals[row.ClientName] += row.MonthlyHours
			m.ClientSuggestedRevenue[row.ClientName] += row.MonthlyHours * c.Rate(ctx, row.SkillType)

			clients := skillClients[skill]
			if clients == nil {
				clients = map[string]bool{}
				skillClients[skill] = clients
			}
			clients[row.ClientName] = true
		}
		for name, hours := range cellClientHours {
			monthTotal := clientMonthHours[point.Month][name]
			if monthTotal <= 0 {
				continue
			}
			expected := c.ExpectedMonthly(clientIDByName[name])
			cellExpected += expected * (hours / monthTotal)
		}
		point.ExpectedLessSuggested = round2(cellExpected - point.SuggestedRevenue)

		summary := m.SkillSummary[skill]
		summary.TotalHours += point.DemandHours
		summary.TaskCount += point.TaskCount
		summary.SuggestedRevenue += point.SuggestedRevenue
		summary.ExpectedLessSuggested += point.ExpectedLessSuggested
		summary.ClientCount = len(skillClients[skill])
		m.SkillSummary[skill] = summary
	}

	for name, total := range m.ClientTotals {
		suggested := round2(m.ClientSuggestedRevenue[name])
		m.ClientSuggestedRevenue[name] = suggested
		expected := round2(c.ExpectedMonthly(clientIDByName[name]) * float64(horizonMonths))
		m.ClientRevenue[name] = expected
		m.ClientExpectedLessSuggested[name] = round2(expected - suggested)
		if total > 0 {
			m.ClientHourlyRates[name] = round2(suggested / total)
		}
	}

	var totals domain.RevenueTotals
	for name := range m.ClientTotals {
		totals.TotalSuggested += m.ClientSuggestedRevenue[name]
		totals.TotalExpected += m.ClientRevenue[name]
	}
	totals.TotalSuggested = round2(totals.TotalSuggested)
	totals.TotalExpected = round2(totals.TotalExpected)
	totals.TotalExpectedLessSuggested = round2(totals.TotalExpected - totals.TotalSuggested)
	m.RevenueTotals = totals
}

// pointSkill returns the fee-rate key for a data point: staff-grouped points
// bill by the underlying skill, not the staff display name.
func pointSkill(point domain.DataPoint) string {
	if point.IsStaffSpecific && point.UnderlyingSkillType != "" {
		return point.UnderlyingSkillType
	}
	return point.SkillType
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

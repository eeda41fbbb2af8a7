package matrix

import (
	"sort"

	"github.com/jcorreia/practiva/internal/forecast/domain"
)

// assemble composes data points into the final matrix structure: month
// columns, deduplicated sorted skill rows, and demand totals. Revenue fields
// are filled afterwards by the revenue calculator.
func assemble(periods []domain.Period, points []domain.DataPoint, strategy domain.AggregationStrategy) domain.MatrixData {
	m := domain.EmptyMatrix()
	m.AggregationStrategy = strategy
	m.DataPoints = append(m.DataPoints, points...)

	for _, p := range periods {
		m.Months = append(m.Months, domain.MonthInfo{Key: p.Key(), Label: p.Label()})
	}

	skillSet := map[string]bool{}
	clientSet := map[string]bool{}
	for _, point := range points {
		if !skillSet[point.SkillType] {
			skillSet[point.SkillType] = true
			m.Skills = append(m.Skills, point.SkillType)
		}
		m.TotalDemand += point.DemandHours
		m.TotalTasks += point.TaskCount
		for _, row := range point.Breakdown {
			clientSet[row.ClientName] = true
		}
	}
	sort.Strings(m.Skills)
	m.TotalClients = len(clientSet)
	return m
}

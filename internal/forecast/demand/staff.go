package demand

import (
	"sort"

	"github.com/jcorreia/practiva/internal/forecast/domain"
)

// unassignedKey buckets tasks without a preferred staff member.
const unassignedKey = "\x00unassigned"

// StaffDataPoints produces staff-grouped data points for one period. Tasks
// group by (preferred staff, underlying skill); tasks with no preferred
// staff land in a synthetic unassigned bucket when the filter enables it.
// The display skill type becomes the staff name so skill-shaped consumers
// render staff rows untouched; the real skill rides along separately.
func StaffDataPoints(p domain.Period, tasks []domain.RecurringTask, filters domain.Filters, clientNames map[string]string) []domain.DataPoint {
	wanted := map[string]bool{}
	for _, id := range filters.PreferredStaff {
		if id != "" {
			wanted[id] = true
		}
	}

	type bucket struct {
		staffID   string
		staffName string
		skill     string
		tasks     []domain.RecurringTask
	}
	buckets := map[string]*bucket{}
	for _, task := range tasks {
		staffID := unassignedKey
		staffName := "Unassigned"
		if task.PreferredStaffID != nil && *task.PreferredStaffID != "" {
			staffID = *task.PreferredStaffID
			staffName = task.PreferredStaffName
			if staffName == "" {
				staffName = staffID
			}
			if len(wanted) > 0 && !wanted[staffID] {
				continue
			}
		} else if !filters.IncludeUnassigned {
			continue
		}
		for _, skill := range task.Skills {
			key := staffID + "\x00" + skill
			b, ok := buckets[key]
			if !ok {
				b = &bucket{staffID: staffID, staffName: staffName, skill: skill}
				buckets[key] = b
			}
			b.tasks = append(b.tasks, task)
		}
	}

	var points []domain.DataPoint
	for _, b := range buckets {
		rows := Breakdown(b.skill, p, b.tasks, clientNames)
		if len(rows) == 0 {
			continue
		}
		var hours float64
		clients := map[string]bool{}
		for _, row := range rows {
			hours += row.MonthlyHours
			clients[row.ClientName] = true
		}
		point := domain.DataPoint{
			SkillType:           b.staffName,
			Month:               p.Key(),
			MonthLabel:          p.Label(),
			DemandHours:         hours,
			TaskCount:           len(rows),
			ClientCount:         len(clients),
			Breakdown:           rows,
			IsStaffSpecific:     true,
			ActualStaffName:     b.staffName,
			UnderlyingSkillType: b.skill,
		}
		if b.staffID == unassignedKey {
			point.IsUnassigned = true
		} else {
			point.ActualStaffID = b.staffID
		}
		points = append(points, point)
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].SkillType != points[j].SkillType {
			return points[i].SkillType < points[j].SkillType
		}
		return points[i].UnderlyingSkillType < points[j].UnderlyingSkillType
	})
	return points
}

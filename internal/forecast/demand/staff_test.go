package demand

import (
	"testing"

	"github.com/jcorreia/practiva/internal/forecast/domain"
)

func staffTask(id, clientID, staffID, staffName string, hours float64, skills ...string) domain.RecurringTask {
	task := monthly(id, clientID, hours, skills...)
	if staffID != "" {
		task.PreferredStaffID = &staffID
		task.PreferredStaffName = staffName
	}
	return task
}

func TestStaffDataPointsGroupByStaffAndSkill(t *testing.T) {
	tasks := []domain.RecurringTask{
		staffTask("t1", "c1", "staff-1", "Dana", 5, "Audit"),
		staffTask("t2", "c2", "staff-1", "Dana", 3, "Audit"),
		staffTask("t3", "c1", "staff-2", "Lee", 2, "Tax"),
	}

	points := StaffDataPoints(march, tasks, domain.Filters{PreferredStaff: []string{"staff-1", "staff-2"}}, nil)
	if len(points) != 2 {
		t.Fatalf("expected 2 data points, got %d", len(points))
	}
	dana := points[0]
	if dana.SkillType != "Dana" || dana.ActualStaffID != "staff-1" {
		t.Fatalf("unexpected first point: %+v", dana)
	}
	if !dana.IsStaffSpecific {
		t.Fatalf("expected staff-specific tag")
	}
	if dana.UnderlyingSkillType != "Audit" {
		t.Fatalf("expected underlying skill Audit, got %s", dana.UnderlyingSkillType)
	}
	if dana.DemandHours != 8 || dana.TaskCount != 2 {
		t.Fatalf("unexpected dana totals: %+v", dana)
	}
}

func TestStaffFilterNarrowsStaff(t *testing.T) {
	tasks := []domain.RecurringTask{
		staffTask("t1", "c1", "staff-1", "Dana", 5, "Audit"),
		staffTask("t2", "c2", "staff-2", "Lee", 3, "Audit"),
	}
	points := StaffDataPoints(march, tasks, domain.Filters{PreferredStaff: []string{"staff-2"}}, nil)
	if len(points) != 1 {
		t.Fatalf("expected 1 data point, got %d", len(points))
	}
	if points[0].ActualStaffID != "staff-2" {
		t.Fatalf("expected staff-2, got %s", points[0].ActualStaffID)
	}
}

func TestUnassignedBucket(t *testing.T) {
	tasks := []domain.RecurringTask{
		staffTask("t1", "c1", "staff-1", "Dana", 5, "Audit"),
		staffTask("t2", "c2", "", "", 3, "Audit"),
	}

	without := StaffDataPoints(march, tasks, domain.Filters{PreferredStaff: []string{"staff-1"}}, nil)
	if len(without) != 1 {
		t.Fatalf("expected unassigned excluded by default, got %d points", len(without))
	}

	with := StaffDataPoints(march, tasks, domain.Filters{PreferredStaff: []string{"staff-1"}, IncludeUnassigned: true}, nil)
	if len(with) != 2 {
		t.Fatalf("expected unassigned bucket included, got %d points", len(with))
	}
	var unassigned *domain.DataPoint
	for i := range with {
		if with[i].IsUnassigned {
			unassigned = &with[i]
		}
	}
	if unassigned == nil {
		t.Fatalf("expected an unassigned data point")
	}
	if unassigned.SkillType != "Unassigned" || unassigned.ActualStaffID != "" {
		t.Fatalf("unexpected unassigned point: %+v", unassigned)
	}
}

func TestStaffDataPointsDeterministicOrder(t *testing.T) {
	tasks := []domain.RecurringTask{
		staffTask("t1", "c1", "staff-2", "Lee", 2, "Tax"),
		staffTask("t2", "c1", "staff-1", "Dana", 5, "Audit", "Tax"),
	}
	points := StaffDataPoints(march, tasks, domain.Filters{PreferredStaff: []string{"staff-1", "staff-2"}}, nil)
	if len(points) != 3 {
		t.Fatalf("expected 3 data points, got %d", len(points))
	}
	if points[0].SkillType != "Dana" || points[0].UnderlyingSkillType != "Audit" {
		t.Fatalf("unexpected order: %+v", points[0])
	}
	if points[1].SkillType != "Dana" || points[1].UnderlyingSkillType != "Tax" {
		t.Fatalf("unexpected order: %+v", points[1])
	}
	if points[2].SkillType != "Lee" {
		t.Fatalf("unexpected order: %+v", points[2])
	}
}

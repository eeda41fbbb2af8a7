package domain

import "testing"

func TestIsSkillUUID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"canonical uuid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"uppercase uuid", "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", true},
		{"display name", "Senior Tax Review", false},
		{"empty", "", false},
		{"braced form rejected", "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}", false},
		{"urn form rejected", "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"right length wrong chars", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz", false},
	}
	for _, tc := range tests {
		if got := IsSkillUUID(tc.raw); got != tc.want {
			t.Fatalf("%s: IsSkillUUID(%q) = %v, want %v", tc.name, tc.raw, got, tc.want)
		}
	}
}

func TestParseSkillReference(t *testing.T) {
	ref := ParseSkillReference("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if ref.Kind != SkillRefUUID {
		t.Fatalf("expected uuid kind, got %v", ref.Kind)
	}
	ref = ParseSkillReference("Bookkeeping")
	if ref.Kind != SkillRefName {
		t.Fatalf("expected name kind, got %v", ref.Kind)
	}
	if ref.Value != "Bookkeeping" {
		t.Fatalf("expected value preserved, got %q", ref.Value)
	}
}

func TestFiltersStrategy(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    AggregationStrategy
	}{
		{"no filters", Filters{}, StrategySkillBased},
		{"skill filter only", Filters{Skills: []string{"Audit"}}, StrategySkillBased},
		{"staff filter", Filters{PreferredStaff: []string{"staff-1"}}, StrategyStaffBased},
		{"blank staff entries ignored", Filters{PreferredStaff: []string{"", ""}}, StrategySkillBased},
		{"mixed blank and real", Filters{PreferredStaff: []string{"", "staff-2"}}, StrategyStaffBased},
	}
	for _, tc := range tests {
		if got := tc.filters.Strategy(); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

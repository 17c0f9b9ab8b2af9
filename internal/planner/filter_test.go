package planner

import (
	"reflect"
	"strings"
	"testing"

	"diet-planner/internal/catalog"
)

func TestParseAllergies(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"Empty", "", nil},
		{"Blank", "   ", nil},
		{"Single", "Nuts", []string{"nuts"}},
		{"TrimAndLower", " Peanut Butter ,  MILK", []string{"peanut butter", "milk"}},
		{"StrayCommas", "eggs,, ,soy,", []string{"eggs", "soy"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseAllergies(tc.raw); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEligible(t *testing.T) {
	records := testMeals()

	t.Run("MatchesActivityAndGoal", func(t *testing.T) {
		got := Eligible(records, moderateLose())
		if len(got) != 12 {
			t.Fatalf("Expected 12 eligible records, got %d", len(got))
		}
		for _, r := range got {
			if r.ActivityLevel != catalog.ActivityModerate || r.WeightGoal != catalog.GoalLose {
				t.Errorf("Record %q does not match the profile", r.Description)
			}
		}
	})

	t.Run("ExcludesAllergensCaseInsensitive", func(t *testing.T) {
		p := moderateLose()
		p.Allergies = []string{"nuts"}
		got := Eligible(records, p)
		// "walnuts" contains "nuts" as a substring and is dropped too.
		if len(got) != 9 {
			t.Fatalf("Expected 9 eligible records, got %d", len(got))
		}
		for _, r := range got {
			if strings.Contains(strings.ToLower(r.Description), "nuts") {
				t.Errorf("Record %q should have been excluded", r.Description)
			}
		}
	})

	t.Run("AnyAllergenExcludes", func(t *testing.T) {
		p := moderateLose()
		p.Allergies = []string{"eggs", "salmon"}
		for _, r := range Eligible(records, p) {
			desc := strings.ToLower(r.Description)
			if strings.Contains(desc, "eggs") || strings.Contains(desc, "salmon") {
				t.Errorf("Record %q should have been excluded", r.Description)
			}
		}
	})

	t.Run("NoMatch", func(t *testing.T) {
		p := moderateLose()
		p.ActivityLevel = catalog.ActivityLevel("Sedentary")
		if got := Eligible(records, p); len(got) != 0 {
			t.Errorf("Expected no records for an unknown level, got %d", len(got))
		}
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		before := testMeals()
		p := moderateLose()
		p.Allergies = []string{"nuts"}
		_ = Eligible(records, p)
		if !reflect.DeepEqual(records, before) {
			t.Error("Eligible should not modify its input")
		}
	})
}

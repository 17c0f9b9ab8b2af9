package planner

import (
	"strings"

	"diet-planner/internal/catalog"
)

// Eligible returns the records matching the profile's activity level and
// weight goal whose description contains none of the profile's allergens.
// The result carries no ordering guarantee.
func Eligible(records []catalog.MealRecord, p Profile) []catalog.MealRecord {
	var out []catalog.MealRecord
	for _, rec := range records {
		if rec.ActivityLevel != p.ActivityLevel || rec.WeightGoal != p.WeightGoal {
			continue
		}
		if containsAllergen(rec.Description, p.Allergies) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func containsAllergen(description string, allergens []string) bool {
	if len(allergens) == 0 {
		return false
	}
	desc := strings.ToLower(description)
	for _, a := range allergens {
		if strings.Contains(desc, a) {
			return true
		}
	}
	return false
}

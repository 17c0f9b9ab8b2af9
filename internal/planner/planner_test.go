package planner

import (
	"math/rand/v2"
	"strings"
	"testing"

	"diet-planner/internal/catalog"
)

func assertPlanInvariants(t *testing.T, plan MealPlan, p Profile, records []catalog.MealRecord) {
	t.Helper()

	known := map[string]catalog.MealRecord{}
	for _, r := range records {
		known[r.Description] = r
	}

	for _, mt := range catalog.MealTypes {
		for _, item := range plan.Meals(mt) {
			if mt == catalog.Breakfast && p.WantsTea && item.Description == TeaDescription {
				continue
			}
			rec, ok := known[item.Description]
			if !ok {
				t.Fatalf("Item %q is not from the catalog", item.Description)
			}
			if rec.ActivityLevel != p.ActivityLevel || rec.WeightGoal != p.WeightGoal || rec.MealType != mt {
				t.Errorf("Item %q does not match the profile", item.Description)
			}
			for _, a := range p.Allergies {
				if strings.Contains(strings.ToLower(item.Description), a) {
					t.Errorf("Item %q contains allergen %q", item.Description, a)
				}
			}
		}
	}

	want := sumItems(plan)
	if cal, ok := FruitCalories[p.Fruit]; ok {
		want += cal
	}
	if plan.TotalCalories != want {
		t.Errorf("Expected total %v, got %v", want, plan.TotalCalories)
	}
}

func TestGeneratePlan(t *testing.T) {
	cat := catalog.New(testMeals(), nil)

	t.Run("Scenario", func(t *testing.T) {
		p := moderateLose()
		p.Allergies = ParseAllergies("nuts")
		p.WantsTea = true
		p.Fruit = "Mango"

		planner := NewPlanner(cat, WithRandFactory(func() *rand.Rand { return seeded(7) }))
		plan := planner.GeneratePlan(p)

		tea := plan.Breakfast[len(plan.Breakfast)-1]
		if tea.Description != "Cup of tea" || tea.Calories != 150 {
			t.Errorf("Expected a tea row at the end of breakfast, got %+v", tea)
		}
		if plan.Fruit == nil || plan.Fruit.Calories != 60 {
			t.Errorf("Expected Mango with 60 calories, got %+v", plan.Fruit)
		}
		if plan.TotalCalories != sumItems(plan)+60 {
			t.Errorf("Expected total to include tea and mango, got %v", plan.TotalCalories)
		}
		assertPlanInvariants(t, plan, p, testMeals())
	})

	t.Run("Regeneration", func(t *testing.T) {
		p := moderateLose()
		p.Allergies = []string{"chicken"}
		planner := NewPlanner(cat)

		distinct := map[string]bool{}
		for i := 0; i < 30; i++ {
			plan := planner.GeneratePlan(p)
			assertPlanInvariants(t, plan, p, testMeals())
			var key strings.Builder
			for _, item := range plan.Lunch {
				key.WriteString(item.Description + "|")
			}
			distinct[key.String()] = true
		}
		if len(distinct) < 2 {
			t.Error("Expected regenerated plans to vary")
		}
	})

	t.Run("SameSeedSamePlan", func(t *testing.T) {
		p := moderateLose()
		a := Generate(seeded(3), cat.Meals(), p)
		b := Generate(seeded(3), cat.Meals(), p)
		if a.TotalCalories != b.TotalCalories || len(a.Dinner) != len(b.Dinner) {
			t.Error("Expected identical plans for identical seeds")
		}
	})

	t.Run("NoEligibleMeals", func(t *testing.T) {
		p := moderateLose()
		p.WeightGoal = catalog.GoalMaintain
		p.WantsTea = true
		plan := NewPlanner(cat).GeneratePlan(p)
		if len(plan.Lunch) != 0 || len(plan.Dinner) != 0 {
			t.Error("Expected empty lunch and dinner")
		}
		if len(plan.Breakfast) != 1 || plan.TotalCalories != 150 {
			t.Errorf("Expected only the tea row, got %+v", plan)
		}
	})

	t.Run("NilCatalog", func(t *testing.T) {
		plan := NewPlanner(nil).GeneratePlan(moderateLose())
		if plan.TotalCalories != 0 {
			t.Errorf("Expected an empty plan, got %+v", plan)
		}
	})

	t.Run("CatalogUntouched", func(t *testing.T) {
		before := cat.Meals()
		planner := NewPlanner(cat)
		for i := 0; i < 10; i++ {
			planner.GeneratePlan(moderateLose())
		}
		after := cat.Meals()
		for i := range before {
			if before[i] != after[i] {
				t.Fatal("Generating plans should not reorder the catalog")
			}
		}
	})
}

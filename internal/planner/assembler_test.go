package planner

import (
	"testing"

	"diet-planner/internal/catalog"
)

func sumItems(plan MealPlan) float64 {
	var total float64
	for _, mt := range catalog.MealTypes {
		for _, item := range plan.Meals(mt) {
			total += item.Calories
		}
	}
	return total
}

func TestAssemble(t *testing.T) {
	m, l := catalog.ActivityModerate, catalog.GoalLose
	sel := Selection{
		Breakfast: []catalog.MealRecord{meal(m, l, catalog.Breakfast, "Oatmeal", 250)},
		Lunch:     []catalog.MealRecord{meal(m, l, catalog.Lunch, "Soup", 300), meal(m, l, catalog.Lunch, "Salad", 200)},
		Dinner:    []catalog.MealRecord{meal(m, l, catalog.Dinner, "Curry", 450)},
	}

	t.Run("Plain", func(t *testing.T) {
		plan := Assemble(sel, false, "")
		if plan.TotalCalories != 1200 {
			t.Errorf("Expected 1200 calories, got %v", plan.TotalCalories)
		}
		if len(plan.Breakfast) != 1 || plan.Tea || plan.Fruit != nil {
			t.Errorf("Unexpected extras: %+v", plan)
		}
		if len(plan.Notes()) != 0 {
			t.Errorf("Expected no notes, got %v", plan.Notes())
		}
	})

	t.Run("TeaAppendedToBreakfast", func(t *testing.T) {
		plan := Assemble(sel, true, "")
		if len(plan.Breakfast) != 2 {
			t.Fatalf("Expected 2 breakfast rows, got %d", len(plan.Breakfast))
		}
		last := plan.Breakfast[len(plan.Breakfast)-1]
		if last.Description != "Cup of tea" || last.Calories != 150 {
			t.Errorf("Expected tea row last, got %+v", last)
		}
		if plan.TotalCalories != 1350 {
			t.Errorf("Expected 1350 calories, got %v", plan.TotalCalories)
		}
		if plan.TotalCalories != sumItems(plan) {
			t.Error("Tea should be counted as a regular row")
		}
	})

	t.Run("KnownFruitAddsCaloriesNotRows", func(t *testing.T) {
		plan := Assemble(sel, false, "Banana")
		if plan.TotalCalories != 1289 {
			t.Errorf("Expected 1289 calories, got %v", plan.TotalCalories)
		}
		if plan.Fruit == nil || plan.Fruit.Name != "Banana" || plan.Fruit.Calories != 89 {
			t.Errorf("Unexpected fruit: %+v", plan.Fruit)
		}
		if sumItems(plan) != 1200 {
			t.Error("Fruit should not appear as a row")
		}
		notes := plan.Notes()
		if len(notes) != 1 || notes[0] != "Banana (Calories: 89) will be included in the meal plan." {
			t.Errorf("Unexpected notes: %v", notes)
		}
	})

	t.Run("FruitMatchIsCaseSensitive", func(t *testing.T) {
		for _, fruit := range []string{"banana", "BANANA", "Kiwi", " "} {
			plan := Assemble(sel, false, fruit)
			if plan.TotalCalories != 1200 || plan.Fruit != nil {
				t.Errorf("%q should contribute nothing, got total %v", fruit, plan.TotalCalories)
			}
			if len(plan.Notes()) != 0 {
				t.Errorf("%q should produce no note", fruit)
			}
		}
	})

	t.Run("AllFruits", func(t *testing.T) {
		for name, cal := range FruitCalories {
			plan := Assemble(Selection{}, false, name)
			if plan.TotalCalories != cal {
				t.Errorf("%s: expected %v, got %v", name, cal, plan.TotalCalories)
			}
		}
		if len(FruitCalories) != 10 {
			t.Errorf("Expected 10 fruits, got %d", len(FruitCalories))
		}
	})

	t.Run("EmptySelection", func(t *testing.T) {
		plan := Assemble(Selection{}, true, "Mango")
		if len(plan.Lunch) != 0 || len(plan.Dinner) != 0 {
			t.Error("Expected empty lunch and dinner")
		}
		if plan.TotalCalories != 210 {
			t.Errorf("Expected 210 calories, got %v", plan.TotalCalories)
		}
		if len(plan.Notes()) != 2 {
			t.Errorf("Expected fruit and tea notes, got %v", plan.Notes())
		}
	})
}

func TestFruitNames(t *testing.T) {
	names := FruitNames()
	if len(names) != len(FruitCalories) {
		t.Fatalf("Expected %d fruits, got %d", len(FruitCalories), len(names))
	}
	if names[0] != "Apple" || names[len(names)-1] != "Watermelon" {
		t.Errorf("Expected alphabetical order, got %v", names)
	}
}

package planner

import (
	"math/rand/v2"

	"diet-planner/internal/catalog"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func meal(level catalog.ActivityLevel, goal catalog.WeightGoal, mt catalog.MealType, desc string, cal float64) catalog.MealRecord {
	return catalog.MealRecord{ActivityLevel: level, WeightGoal: goal, MealType: mt, Description: desc, Calories: cal}
}

// testMeals has four records per meal type for Moderate/Lose, some of which
// mention nuts, plus decoys for other profiles.
func testMeals() []catalog.MealRecord {
	m, l := catalog.ActivityModerate, catalog.GoalLose
	return []catalog.MealRecord{
		meal(m, l, catalog.Breakfast, "Oatmeal with berries", 250),
		meal(m, l, catalog.Breakfast, "Greek yogurt with Nuts", 300),
		meal(m, l, catalog.Breakfast, "Scrambled eggs on toast", 320),
		meal(m, l, catalog.Breakfast, "Fruit smoothie", 210),
		meal(m, l, catalog.Lunch, "Grilled chicken salad", 400),
		meal(m, l, catalog.Lunch, "Quinoa bowl with walnuts", 450),
		meal(m, l, catalog.Lunch, "Lentil soup", 350),
		meal(m, l, catalog.Lunch, "Turkey wrap", 420),
		meal(m, l, catalog.Dinner, "Baked salmon with vegetables", 500),
		meal(m, l, catalog.Dinner, "Stir-fried tofu with cashew NUTS", 480),
		meal(m, l, catalog.Dinner, "Vegetable curry", 430),
		meal(m, l, catalog.Dinner, "Chicken breast with rice", 520),
		meal(catalog.ActivityHigh, l, catalog.Lunch, "Steak and potatoes", 900),
		meal(m, catalog.GoalGain, catalog.Dinner, "Double cheeseburger", 1100),
	}
}

func moderateLose() Profile {
	return Profile{
		Age:           30,
		HeightCm:      170,
		WeightKg:      70,
		ActivityLevel: catalog.ActivityModerate,
		WeightGoal:    catalog.GoalLose,
	}
}

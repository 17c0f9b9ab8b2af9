package planner

import "diet-planner/internal/catalog"

// Assemble turns a selection into a MealPlan. Tea is appended to breakfast
// after sampling. A fruit is matched case-sensitively against FruitCalories;
// a match adds to the total without adding a row, anything else adds nothing.
func Assemble(sel Selection, wantsTea bool, fruit string) MealPlan {
	plan := MealPlan{
		Breakfast: toItems(sel.Breakfast),
		Lunch:     toItems(sel.Lunch),
		Dinner:    toItems(sel.Dinner),
		Tea:       wantsTea,
	}
	if wantsTea {
		plan.Breakfast = append(plan.Breakfast, MealItem{Description: TeaDescription, Calories: TeaCalories})
	}

	var total float64
	for _, mt := range catalog.MealTypes {
		for _, item := range plan.Meals(mt) {
			total += item.Calories
		}
	}

	if cal, ok := FruitCalories[fruit]; ok {
		plan.Fruit = &FruitPortion{Name: fruit, Calories: cal}
		total += cal
	}

	plan.TotalCalories = total
	return plan
}

func toItems(recs []catalog.MealRecord) []MealItem {
	items := make([]MealItem, 0, len(recs)+1)
	for _, r := range recs {
		items = append(items, MealItem{Description: r.Description, Calories: r.Calories})
	}
	return items
}

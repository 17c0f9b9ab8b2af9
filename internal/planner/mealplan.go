package planner

import (
	"fmt"
	"maps"
	"slices"

	"diet-planner/internal/catalog"
)

// TeaDescription and TeaCalories describe the optional breakfast tea row.
const (
	TeaDescription = "Cup of tea"
	TeaCalories    = 150.0
)

// FruitCalories lists the fruits a plan can include, keyed by canonical name.
var FruitCalories = map[string]float64{
	"Apple":        52,
	"Banana":       89,
	"Orange":       62,
	"Grapes":       69,
	"Strawberries": 32,
	"Mango":        60,
	"Pineapple":    50,
	"Watermelon":   30,
	"Peach":        59,
	"Pear":         57,
}

// FruitNames returns the recognized fruits in alphabetical order.
func FruitNames() []string {
	return slices.Sorted(maps.Keys(FruitCalories))
}

// MealItem is one row of a meal table.
type MealItem struct {
	Description string  `json:"description"`
	Calories    float64 `json:"calories"`
}

// FruitPortion is a recognized fruit counted in the daily total.
type FruitPortion struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// MealPlan is a single day's recommendation. It is rebuilt on every request
// and has no identity of its own.
type MealPlan struct {
	Breakfast     []MealItem    `json:"breakfast"`
	Lunch         []MealItem    `json:"lunch"`
	Dinner        []MealItem    `json:"dinner"`
	Tea           bool          `json:"tea"`
	Fruit         *FruitPortion `json:"fruit,omitempty"`
	TotalCalories float64       `json:"total_calories"`
}

// Meals returns the items of one meal type.
func (p MealPlan) Meals(mt catalog.MealType) []MealItem {
	switch mt {
	case catalog.Breakfast:
		return p.Breakfast
	case catalog.Lunch:
		return p.Lunch
	case catalog.Dinner:
		return p.Dinner
	}
	return nil
}

// Notes returns the user-facing remarks about extras in the plan.
func (p MealPlan) Notes() []string {
	var notes []string
	if p.Fruit != nil {
		notes = append(notes, fmt.Sprintf("%s (Calories: %g) will be included in the meal plan.", p.Fruit.Name, p.Fruit.Calories))
	}
	if p.Tea {
		notes = append(notes, "A cup of tea will be included in the meal plan.")
	}
	return notes
}

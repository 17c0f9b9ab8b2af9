package catalog

import (
	"slices"
	"strings"
)

// ActivityLevel is how physically active a user is.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "Low"
	ActivityModerate ActivityLevel = "Moderate"
	ActivityHigh     ActivityLevel = "High"
)

// ActivityLevels lists the accepted activity levels in display order.
var ActivityLevels = []ActivityLevel{ActivityLow, ActivityModerate, ActivityHigh}

// WeightGoal is what the user wants to do with their weight.
type WeightGoal string

const (
	GoalLose     WeightGoal = "Lose"
	GoalGain     WeightGoal = "Gain"
	GoalMaintain WeightGoal = "Maintain"
)

// WeightGoals lists the accepted weight goals in display order.
var WeightGoals = []WeightGoal{GoalLose, GoalGain, GoalMaintain}

// MealType partitions the catalog for sampling.
type MealType string

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
)

// MealTypes lists the meal types in the order they appear in a plan.
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

// ParseActivityLevel matches s against the known activity levels.
func ParseActivityLevel(s string) (ActivityLevel, bool) {
	level := ActivityLevel(strings.TrimSpace(s))
	return level, slices.Contains(ActivityLevels, level)
}

// ParseWeightGoal matches s against the known weight goals.
func ParseWeightGoal(s string) (WeightGoal, bool) {
	goal := WeightGoal(strings.TrimSpace(s))
	return goal, slices.Contains(WeightGoals, goal)
}

// MealRecord is one row of the meal table.
type MealRecord struct {
	ActivityLevel ActivityLevel `json:"activity_level"`
	WeightGoal    WeightGoal    `json:"weight_goal"`
	MealType      MealType      `json:"meal_type"`
	Description   string        `json:"description"`
	Calories      float64       `json:"calories"`
}

// SubstituteRecord maps a food item to a recommended alternative.
type SubstituteRecord struct {
	FoodItem   string `json:"food_item"`
	Substitute string `json:"substitute"`
}

// Catalog holds the meal and substitute tables. It is built once at startup
// and never modified afterwards, so it is safe for concurrent readers.
type Catalog struct {
	meals       []MealRecord
	substitutes []SubstituteRecord
}

// New creates a Catalog owning copies of the given tables.
func New(meals []MealRecord, substitutes []SubstituteRecord) *Catalog {
	return &Catalog{
		meals:       slices.Clone(meals),
		substitutes: slices.Clone(substitutes),
	}
}

// Meals returns a copy of the meal table. A nil Catalog has no meals.
func (c *Catalog) Meals() []MealRecord {
	if c == nil {
		return nil
	}
	return slices.Clone(c.meals)
}

// Substitutes returns a copy of the substitute table.
func (c *Catalog) Substitutes() []SubstituteRecord {
	if c == nil {
		return nil
	}
	return slices.Clone(c.substitutes)
}

// Len reports the number of meal records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.meals)
}

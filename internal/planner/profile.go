package planner

import (
	"fmt"
	"strconv"
	"strings"

	"diet-planner/internal/catalog"
)

// Input bounds enforced before a Profile reaches the engine.
const (
	MinAge      = 1
	MaxAge      = 150
	MinHeightCm = 50.0
	MaxHeightCm = 300.0
	MinWeightKg = 1.0
	MaxWeightKg = 500.0
)

// Profile describes the user a plan is generated for. It lives for a single request.
type Profile struct {
	Age           int
	HeightCm      float64
	WeightKg      float64
	ActivityLevel catalog.ActivityLevel
	WeightGoal    catalog.WeightGoal
	// Allergies holds lowercase, trimmed allergen tokens.
	Allergies []string
	WantsTea  bool
	// Fruit is optional; empty means no fruit.
	Fruit string
}

// ProfileInput carries raw form values as typed by the user.
type ProfileInput struct {
	Age           string `json:"age"`
	HeightCm      string `json:"height_cm"`
	WeightKg      string `json:"weight_kg"`
	ActivityLevel string `json:"activity_level"`
	WeightGoal    string `json:"weight_goal"`
	Allergies     string `json:"allergies"`
	Tea           string `json:"tea"`
	Fruit         string `json:"fruit"`
}

// DefaultProfileInput mirrors the defaults the form starts with.
func DefaultProfileInput() ProfileInput {
	return ProfileInput{
		Age:           "25",
		HeightCm:      "170",
		WeightKg:      "60",
		ActivityLevel: string(catalog.ActivityLow),
		WeightGoal:    string(catalog.GoalLose),
	}
}

// ParseProfile validates raw input and builds a Profile. Blank numeric fields
// fall back to the defaults; values outside the accepted ranges are rejected.
func ParseProfile(in ProfileInput) (Profile, error) {
	def := DefaultProfileInput()

	age, err := strconv.Atoi(orDefault(in.Age, def.Age))
	if err != nil {
		return Profile{}, fmt.Errorf("age must be a whole number, got %q", in.Age)
	}
	if age < MinAge || age > MaxAge {
		return Profile{}, fmt.Errorf("age must be between %d and %d", MinAge, MaxAge)
	}

	height, err := parseBounded("height", orDefault(in.HeightCm, def.HeightCm), MinHeightCm, MaxHeightCm)
	if err != nil {
		return Profile{}, err
	}
	weight, err := parseBounded("weight", orDefault(in.WeightKg, def.WeightKg), MinWeightKg, MaxWeightKg)
	if err != nil {
		return Profile{}, err
	}

	level, ok := catalog.ParseActivityLevel(orDefault(in.ActivityLevel, def.ActivityLevel))
	if !ok {
		return Profile{}, fmt.Errorf("activity level must be one of %v, got %q", catalog.ActivityLevels, in.ActivityLevel)
	}
	goal, ok := catalog.ParseWeightGoal(orDefault(in.WeightGoal, def.WeightGoal))
	if !ok {
		return Profile{}, fmt.Errorf("weight goal must be one of %v, got %q", catalog.WeightGoals, in.WeightGoal)
	}

	return Profile{
		Age:           age,
		HeightCm:      height,
		WeightKg:      weight,
		ActivityLevel: level,
		WeightGoal:    goal,
		Allergies:     ParseAllergies(in.Allergies),
		WantsTea:      parseYes(in.Tea),
		Fruit:         strings.TrimSpace(in.Fruit),
	}, nil
}

// ParseAllergies splits a comma-separated allergy list into lowercase tokens.
// Blank entries are dropped, so an empty string yields no tokens.
func ParseAllergies(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tokens []string
	for _, part := range strings.Split(raw, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func parseBounded(name, raw string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be between %g and %g", name, lo, hi)
	}
	return v, nil
}

func parseYes(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "y", "yes", "true", "on":
		return true
	}
	return false
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

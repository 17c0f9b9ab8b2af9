package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const colFood = "Food"

// FoodCalorie is one row of the calorie table used for photo labels.
type FoodCalorie struct {
	Food     string  `json:"food"`
	Calories float64 `json:"calories"`
}

// CalorieTable resolves a food label to its calorie value.
type CalorieTable struct {
	rows  []FoodCalorie
	index map[string]int
}

// NewCalorieTable indexes rows by lowercased food name. The first row wins
// when a name repeats.
func NewCalorieTable(rows []FoodCalorie) *CalorieTable {
	t := &CalorieTable{
		rows:  make([]FoodCalorie, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	copy(t.rows, rows)
	for i, row := range t.rows {
		key := strings.ToLower(strings.TrimSpace(row.Food))
		if _, seen := t.index[key]; !seen {
			t.index[key] = i
		}
	}
	return t
}

// LoadCalorieTable reads the Food/Calories table from a CSV file.
func LoadCalorieTable(path string) (*CalorieTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calorie table %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCalorieTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read calorie table %s: %w", path, err)
	}
	return t, nil
}

// ReadCalorieTable parses the Food/Calories table from CSV.
func ReadCalorieTable(r io.Reader) (*CalorieTable, error) {
	rows, idx, err := readTable(r, colFood, colCalories)
	if err != nil {
		return nil, err
	}

	foods := make([]FoodCalorie, 0, len(rows))
	for i, row := range rows {
		calories, err := parseCalories(row[idx[colCalories]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		foods = append(foods, FoodCalorie{
			Food:     strings.TrimSpace(row[idx[colFood]]),
			Calories: calories,
		})
	}
	return NewCalorieTable(foods), nil
}

// Lookup finds a food by name, ignoring case and surrounding whitespace.
func (t *CalorieTable) Lookup(name string) (FoodCalorie, bool) {
	if t == nil {
		return FoodCalorie{}, false
	}
	i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return FoodCalorie{}, false
	}
	return t.rows[i], true
}

// Foods returns every known food name in table order.
func (t *CalorieTable) Foods() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		names = append(names, row.Food)
	}
	return names
}

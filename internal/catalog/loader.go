package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column headers of the meal table.
const (
	colActivityLevel   = "Activity Level"
	colWeightGoal      = "Weight Goal"
	colMealType        = "Meal Type"
	colMealDescription = "Meal Description"
	colCalories        = "Calories"
)

// Column headers of the substitute table.
const (
	colFoodItem   = "Food Item"
	colSubstitute = "Substitute"
)

// Load reads both tables from disk and returns the resulting Catalog.
func Load(mealsPath, substitutesPath string) (*Catalog, error) {
	meals, err := LoadMeals(mealsPath)
	if err != nil {
		return nil, err
	}
	subs, err := LoadSubstitutes(substitutesPath)
	if err != nil {
		return nil, err
	}
	return New(meals, subs), nil
}

// LoadMeals reads the meal table from a CSV file.
func LoadMeals(path string) ([]MealRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open meal table %s: %w", path, err)
	}
	defer f.Close()

	meals, err := ReadMeals(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read meal table %s: %w", path, err)
	}
	return meals, nil
}

// ReadMeals parses meal records from CSV. Columns are located by header name,
// so extra columns and any column order are accepted.
func ReadMeals(r io.Reader) ([]MealRecord, error) {
	rows, idx, err := readTable(r, colActivityLevel, colWeightGoal, colMealType, colMealDescription, colCalories)
	if err != nil {
		return nil, err
	}

	meals := make([]MealRecord, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // header is line 1
		calories, err := parseCalories(row[idx[colCalories]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		meals = append(meals, MealRecord{
			ActivityLevel: ActivityLevel(strings.TrimSpace(row[idx[colActivityLevel]])),
			WeightGoal:    WeightGoal(strings.TrimSpace(row[idx[colWeightGoal]])),
			MealType:      MealType(strings.TrimSpace(row[idx[colMealType]])),
			Description:   strings.TrimSpace(row[idx[colMealDescription]]),
			Calories:      calories,
		})
	}
	return meals, nil
}

// LoadSubstitutes reads the substitute table from a CSV file.
func LoadSubstitutes(path string) ([]SubstituteRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open substitute table %s: %w", path, err)
	}
	defer f.Close()

	subs, err := ReadSubstitutes(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read substitute table %s: %w", path, err)
	}
	return subs, nil
}

// ReadSubstitutes parses substitute records from CSV.
func ReadSubstitutes(r io.Reader) ([]SubstituteRecord, error) {
	rows, idx, err := readTable(r, colFoodItem, colSubstitute)
	if err != nil {
		return nil, err
	}

	subs := make([]SubstituteRecord, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, SubstituteRecord{
			FoodItem:   strings.TrimSpace(row[idx[colFoodItem]]),
			Substitute: strings.TrimSpace(row[idx[colSubstitute]]),
		})
	}
	return subs, nil
}

// readTable reads a headed CSV and returns the data rows together with the
// position of every required column.
func readTable(r io.Reader, required ...string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("missing header row")
		}
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		// Spreadsheet exports sometimes prefix the first cell with a BOM.
		name = strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF")
		idx[name] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, idx, nil
}

func parseCalories(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid calories %q: %w", raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative calories %v", v)
	}
	return v, nil
}

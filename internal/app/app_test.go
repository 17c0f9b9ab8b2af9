package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"diet-planner/internal/catalog"
	"diet-planner/internal/config"
	"diet-planner/internal/database"
	"diet-planner/internal/llm"
	"diet-planner/internal/metrics"
	"diet-planner/internal/planner"
	"diet-planner/internal/shared"
	"diet-planner/internal/substitute"
)

type mockClassifier struct {
	label  string
	err    error
	labels []string
}

func (m *mockClassifier) ClassifyFood(ctx context.Context, image []byte, mimeType string, labels []string) (llm.Classification, error) {
	m.labels = labels
	if m.err != nil {
		return llm.Classification{}, m.err
	}
	return llm.Classification{
		Label: m.label,
		Meta: shared.CallMeta{
			Operation: metrics.OpClassifyPhoto,
			Usage:     shared.TokenUsage{Model: "mock", PromptTokens: 100, CompletionTokens: 3},
			Latency:   20 * time.Millisecond,
		},
	}, nil
}

func newTestApp(t *testing.T, classifier llm.FoodClassifier) *App {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m, l := catalog.ActivityModerate, catalog.GoalLose
	cat := catalog.New(
		[]catalog.MealRecord{
			{ActivityLevel: m, WeightGoal: l, MealType: catalog.Breakfast, Description: "Oatmeal", Calories: 250},
			{ActivityLevel: m, WeightGoal: l, MealType: catalog.Lunch, Description: "Peanut noodles", Calories: 500},
			{ActivityLevel: m, WeightGoal: l, MealType: catalog.Lunch, Description: "Chicken salad", Calories: 400},
			{ActivityLevel: m, WeightGoal: l, MealType: catalog.Dinner, Description: "Fish and greens", Calories: 450},
		},
		[]catalog.SubstituteRecord{{FoodItem: "Sugar", Substitute: "Honey"}},
	)
	calories := catalog.NewCalorieTable([]catalog.FoodCalorie{{Food: "Pizza", Calories: 266}})

	return NewApp(planner.NewPlanner(cat), substitute.NewResolver(cat), calories, classifier, metrics.NewStore(db.SQL))
}

func TestApp(t *testing.T) {
	classifier := &mockClassifier{label: "pizza"}
	a := newTestApp(t, classifier)

	t.Run("GeneratePlan", func(t *testing.T) {
		plan := a.GeneratePlan(planner.Profile{
			ActivityLevel: catalog.ActivityModerate,
			WeightGoal:    catalog.GoalLose,
			Allergies:     []string{"peanut"},
			WantsTea:      true,
			Fruit:         "Pear",
		})
		if len(plan.Lunch) != 1 || plan.Lunch[0].Description != "Chicken salad" {
			t.Errorf("Expected only the peanut-free lunch, got %+v", plan.Lunch)
		}
		if plan.TotalCalories != 250+150+400+450+57 {
			t.Errorf("Unexpected total %v", plan.TotalCalories)
		}
	})

	t.Run("ComputeMetrics", func(t *testing.T) {
		m := a.ComputeMetrics(80, 200, catalog.ActivityHigh)
		if m.BMI != 20 {
			t.Errorf("Expected BMI 20, got %v", m.BMI)
		}
	})

	t.Run("ResolveSubstitute", func(t *testing.T) {
		if got := a.ResolveSubstitute("SUGAR").String(); got != "Honey" {
			t.Errorf("Expected 'Honey', got '%s'", got)
		}
		if got := a.ResolveSubstitute("Salt").String(); got != "Substitute not found" {
			t.Errorf("Expected not found, got '%s'", got)
		}
	})

	t.Run("EstimatePhoto", func(t *testing.T) {
		est, err := a.EstimatePhoto(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !est.Known || est.Label != "Pizza" || est.Calories != 266 {
			t.Errorf("Unexpected estimate: %+v", est)
		}
		if est.Message() != "Detected Pizza. Calories: 266" {
			t.Errorf("Unexpected message '%s'", est.Message())
		}
		if len(classifier.labels) != 1 || classifier.labels[0] != "Pizza" {
			t.Errorf("Expected known labels to be passed to the classifier, got %v", classifier.labels)
		}
	})

	t.Run("UsageRecorded", func(t *testing.T) {
		usage, err := a.UsageReport(1)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(usage) != 1 {
			t.Fatalf("Expected one day of usage, got %d", len(usage))
		}
		// plan + metrics + two lookups + photo
		if usage[0].TotalExecution != 5 {
			t.Errorf("Expected 5 executions, got %d", usage[0].TotalExecution)
		}
		if usage[0].TotalPrompt != 100 {
			t.Errorf("Expected 100 prompt tokens, got %d", usage[0].TotalPrompt)
		}
	})
}

func TestEstimatePhoto(t *testing.T) {
	t.Run("UnknownLabel", func(t *testing.T) {
		a := newTestApp(t, &mockClassifier{label: "Ramen"})
		est, err := a.EstimatePhoto(context.Background(), []byte{1}, "image/png")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if est.Known {
			t.Error("Expected Ramen to be unknown")
		}
		if est.Message() != "Detected Ramen, but no calorie data is available for it." {
			t.Errorf("Unexpected message '%s'", est.Message())
		}
	})

	t.Run("ClassifierError", func(t *testing.T) {
		a := newTestApp(t, &mockClassifier{err: errors.New("quota exceeded")})
		_, err := a.EstimatePhoto(context.Background(), []byte{1}, "image/png")
		if err == nil || err.Error() != "failed to classify photo: quota exceeded" {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		a := newTestApp(t, nil)
		_, err := a.EstimatePhoto(context.Background(), []byte{1}, "image/png")
		if !errors.Is(err, ErrClassifierDisabled) {
			t.Errorf("Expected ErrClassifierDisabled, got %v", err)
		}
	})

	t.Run("EmptyImage", func(t *testing.T) {
		a := newTestApp(t, &mockClassifier{label: "Pizza"})
		if _, err := a.EstimatePhoto(context.Background(), nil, "image/png"); err == nil {
			t.Error("Expected an error for an empty image")
		}
	})
}

func TestAppWithoutStore(t *testing.T) {
	cat := catalog.New(nil, nil)
	a := NewApp(planner.NewPlanner(cat), substitute.NewResolver(cat), nil, nil, nil)

	plan := a.GeneratePlan(planner.Profile{WantsTea: true})
	if plan.TotalCalories != 150 {
		t.Errorf("Expected only tea, got %v", plan.TotalCalories)
	}
	usage, err := a.UsageReport(7)
	if err != nil || usage != nil {
		t.Errorf("Expected no usage without a store, got %v, %v", usage, err)
	}
}

func TestBootstrap(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	cfg := &config.Config{
		FoodCSVPath:         write("food.csv", "Activity Level,Weight Goal,Meal Type,Meal Description,Calories\nLow,Gain,Dinner,Pasta,700\n"),
		SubstitutesCSVPath:  write("food_substitutes.csv", "Food Item,Substitute\nPasta,Zucchini noodles\n"),
		FoodCaloriesCSVPath: write("food_dataset.csv", "Food,Calories\nPasta,131\n"),
		DatabasePath:        filepath.Join(dir, "db", "test.db"),
	}

	t.Run("Success", func(t *testing.T) {
		rt, err := Bootstrap(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		defer rt.Close()

		plan := rt.App.GeneratePlan(planner.Profile{ActivityLevel: catalog.ActivityLow, WeightGoal: catalog.GoalGain})
		if len(plan.Dinner) != 1 || plan.TotalCalories != 700 {
			t.Errorf("Unexpected plan: %+v", plan)
		}
		if got := rt.App.ResolveSubstitute("pasta").String(); got != "Zucchini noodles" {
			t.Errorf("Expected 'Zucchini noodles', got '%s'", got)
		}
		if fc, ok := rt.App.LookupCalories("PASTA"); !ok || fc.Calories != 131 {
			t.Errorf("Unexpected calorie lookup: %+v %v", fc, ok)
		}
	})

	t.Run("MissingMealTable", func(t *testing.T) {
		bad := *cfg
		bad.FoodCSVPath = filepath.Join(dir, "missing.csv")
		if _, err := Bootstrap(context.Background(), &bad); err == nil {
			t.Fatal("Expected an error for a missing meal table, got nil")
		}
	})
}

func TestAppCollector(t *testing.T) {
	collector := metrics.NewCollector()
	a := newTestApp(t, &mockClassifier{label: "Pizza"}).WithCollector(collector)

	a.ResolveSubstitute("Sugar")
	if _, err := a.EstimatePhoto(context.Background(), []byte{1}, "image/png"); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`diet_planner_operations_total{operation="resolve_substitute"} 1`,
		`diet_planner_operations_total{operation="classify_photo"} 1`,
		`diet_planner_model_tokens_total{kind="prompt",model="mock"} 100`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Missing %q in metrics output", want)
		}
	}
}

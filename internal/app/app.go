package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"diet-planner/internal/catalog"
	"diet-planner/internal/health"
	"diet-planner/internal/llm"
	"diet-planner/internal/metrics"
	"diet-planner/internal/planner"
	"diet-planner/internal/substitute"
)

// ErrClassifierDisabled is returned for photo requests when no classifier is configured.
var ErrClassifierDisabled = errors.New("photo classification is not configured")

// App holds the application's dependencies. Every front-end (CLI, web,
// Telegram) goes through it so invocations are recorded the same way.
type App struct {
	mealPlanner  *planner.Planner
	resolver     *substitute.Resolver
	calories     *catalog.CalorieTable
	classifier   llm.FoodClassifier
	metricsStore *metrics.Store
	collector    *metrics.Collector
}

// NewApp creates and initializes a new App instance. classifier and
// metricsStore may be nil.
func NewApp(
	mealPlanner *planner.Planner,
	resolver *substitute.Resolver,
	calories *catalog.CalorieTable,
	classifier llm.FoodClassifier,
	metricsStore *metrics.Store,
) *App {
	return &App{
		mealPlanner:  mealPlanner,
		resolver:     resolver,
		calories:     calories,
		classifier:   classifier,
		metricsStore: metricsStore,
	}
}

// WithCollector mirrors every recorded execution into c.
func (a *App) WithCollector(c *metrics.Collector) *App {
	a.collector = c
	return a
}

// ComputeMetrics returns BMI and water intake for the given body measurements.
func (a *App) ComputeMetrics(weightKg, heightCm float64, level catalog.ActivityLevel) health.Metrics {
	start := time.Now()
	m := health.Compute(weightKg, heightCm, level)
	a.record(metrics.OpComputeMetrics, time.Since(start))
	return m
}

// GeneratePlan builds a fresh plan for the profile.
func (a *App) GeneratePlan(p planner.Profile) planner.MealPlan {
	start := time.Now()
	plan := a.mealPlanner.GeneratePlan(p)
	a.record(metrics.OpGeneratePlan, time.Since(start))
	return plan
}

// ResolveSubstitute looks up a substitute for item.
func (a *App) ResolveSubstitute(item string) substitute.Result {
	start := time.Now()
	res := a.resolver.Resolve(item)
	if res.Status == substitute.Failed {
		log.Printf("Warning: substitute lookup for %q failed: %v", item, res.Err)
	}
	a.record(metrics.OpResolveSubstitute, time.Since(start))
	return res
}

// LookupCalories finds the calorie value of a food label.
func (a *App) LookupCalories(label string) (catalog.FoodCalorie, bool) {
	return a.calories.Lookup(label)
}

// PhotoEstimate is the outcome of classifying a food photo.
type PhotoEstimate struct {
	Label    string
	Calories float64
	// Known is false when the label has no row in the calorie table.
	Known bool
}

// Message renders the estimate for display.
func (e PhotoEstimate) Message() string {
	if !e.Known {
		return fmt.Sprintf("Detected %s, but no calorie data is available for it.", e.Label)
	}
	return fmt.Sprintf("Detected %s. Calories: %g", e.Label, e.Calories)
}

// EstimatePhoto classifies a food photo and looks up the label's calories.
func (a *App) EstimatePhoto(ctx context.Context, image []byte, mimeType string) (PhotoEstimate, error) {
	if a.classifier == nil {
		return PhotoEstimate{}, ErrClassifierDisabled
	}
	if len(image) == 0 {
		return PhotoEstimate{}, fmt.Errorf("empty image")
	}

	result, err := a.classifier.ClassifyFood(ctx, image, mimeType, a.calories.Foods())
	if err != nil {
		return PhotoEstimate{}, fmt.Errorf("failed to classify photo: %w", err)
	}
	a.observe(metrics.MapUsage(result.Meta.Operation, result.Meta.Usage, result.Meta.Latency))

	estimate := PhotoEstimate{Label: result.Label}
	if fc, ok := a.calories.Lookup(result.Label); ok {
		estimate.Label = fc.Food
		estimate.Calories = fc.Calories
		estimate.Known = true
	}
	return estimate, nil
}

// UsageReport returns per-day usage for the last days.
func (a *App) UsageReport(days int) ([]metrics.DailyUsage, error) {
	if a.metricsStore == nil {
		return nil, nil
	}
	return a.metricsStore.GetDailyUsage(days)
}

func (a *App) record(operation string, latency time.Duration) {
	a.observe(metrics.ExecutionMetric{Operation: operation, LatencyMS: latency.Milliseconds()})
}

func (a *App) observe(m metrics.ExecutionMetric) {
	a.collector.Observe(m)
	if a.metricsStore == nil {
		return
	}
	if err := a.metricsStore.Record(m); err != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", m.Operation, err)
	}
}

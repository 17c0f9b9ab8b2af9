package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"diet-planner/internal/catalog"
	"diet-planner/internal/config"
	"diet-planner/internal/database"
	"diet-planner/internal/llm"
	"diet-planner/internal/metrics"
	"diet-planner/internal/planner"
	"diet-planner/internal/substitute"
)

// Runtime bundles an App with the resources it owns.
type Runtime struct {
	App       *App
	DB        *database.DB
	Catalog   *catalog.Catalog
	Collector *metrics.Collector
	closers   []func() error
}

// Close releases everything the runtime opened.
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			log.Printf("Warning: failed to close resource: %v", err)
		}
	}
}

// Bootstrap loads the tables, opens the database and wires the App.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	cat, err := catalog.Load(cfg.FoodCSVPath, cfg.SubstitutesCSVPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load food tables: %w", err)
	}
	log.Printf("Loaded %d meals and %d substitutes", cat.Len(), len(cat.Substitutes()))

	rt := &Runtime{Catalog: cat}

	calories := catalog.NewCalorieTable(nil)
	if _, statErr := os.Stat(cfg.FoodCaloriesCSVPath); statErr == nil {
		calories, err = catalog.LoadCalorieTable(cfg.FoodCaloriesCSVPath)
		if err != nil {
			return nil, err
		}
	} else {
		log.Printf("Warning: calorie table %s not found, photo estimates will have no calorie data", cfg.FoodCaloriesCSVPath)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	rt.DB = db
	rt.closers = append(rt.closers, db.Close)

	var classifier llm.FoodClassifier
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			rt.Close()
			return nil, err
		}
		classifier = gemini
		rt.closers = append(rt.closers, gemini.Close)
	} else {
		log.Println("GEMINI_API_KEY not set, photo classification disabled")
	}

	rt.Collector = metrics.NewCollector()
	rt.App = NewApp(
		planner.NewPlanner(cat),
		substitute.NewResolver(cat),
		calories,
		classifier,
		metrics.NewStore(db.SQL),
	).WithCollector(rt.Collector)
	return rt, nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"diet-planner/internal/app"
	"diet-planner/internal/catalog"
	"diet-planner/internal/config"
	"diet-planner/internal/metrics"
	"diet-planner/internal/planner"
	"diet-planner/internal/telegram"
	"diet-planner/internal/web"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Token issuing needs neither the tables nor the database.
	if os.Args[1] == "admin-token" {
		runAdminToken(cfg, os.Args[2:])
		return
	}

	ctx := context.Background()
	rt, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer rt.Close()

	switch os.Args[1] {
	case "plan":
		runPlan(rt.App, os.Args[2:])
	case "metrics":
		runMetrics(rt.App, os.Args[2:])
	case "substitute":
		item := strings.Join(os.Args[2:], " ")
		if strings.TrimSpace(item) == "" {
			log.Fatalf("Usage: diet-planner substitute <food item>")
		}
		fmt.Println(rt.App.ResolveSubstitute(item))
	case "calories":
		label := strings.Join(os.Args[2:], " ")
		fc, ok := rt.App.LookupCalories(label)
		if !ok {
			fmt.Printf("No calorie data for %q\n", label)
			os.Exit(1)
		}
		fmt.Printf("%s: %g calories\n", fc.Food, fc.Calories)
	case "classify":
		runClassify(ctx, rt.App, os.Args[2:])
	case "serve":
		runServe(cfg, rt)
	case "usage-report":
		reportCmd := flag.NewFlagSet("usage-report", flag.ExitOnError)
		days := reportCmd.Int("days", 7, "Report the last N days")
		reportCmd.Parse(os.Args[2:])

		usage, err := rt.App.UsageReport(*days)
		if err != nil {
			log.Fatalf("Failed to fetch usage: %v", err)
		}
		printUsageReport(os.Stdout, usage, metrics.GetSysHealth(cfg.DataDir))
	case "usage-cleanup":
		cleanupCmd := flag.NewFlagSet("usage-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metrics.NewStore(rt.DB.SQL).Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)

		sessions, err := telegram.NewSessionRepository(rt.DB.SQL).CleanupExpired(ctx, time.Now())
		if err != nil {
			log.Fatalf("Session cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d expired sessions.\n", sessions)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runPlan(a *app.App, args []string) {
	def := planner.DefaultProfileInput()
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	age := planCmd.String("age", def.Age, "Age in years")
	height := planCmd.String("height", def.HeightCm, "Height in cm")
	weight := planCmd.String("weight", def.WeightKg, "Weight in kg")
	activity := planCmd.String("activity", def.ActivityLevel, "Activity level (Low, Moderate, High)")
	goal := planCmd.String("goal", def.WeightGoal, "Weight goal (Lose, Gain, Maintain)")
	allergies := planCmd.String("allergies", "", "Comma-separated allergens")
	tea := planCmd.Bool("tea", false, "Include a cup of tea")
	fruit := planCmd.String("fruit", "", "Fruit to include")
	asJSON := planCmd.Bool("json", false, "Print the plan as JSON")
	planCmd.Parse(args)

	in := planner.ProfileInput{
		Age:           *age,
		HeightCm:      *height,
		WeightKg:      *weight,
		ActivityLevel: *activity,
		WeightGoal:    *goal,
		Allergies:     *allergies,
		Fruit:         *fruit,
	}
	if *tea {
		in.Tea = "yes"
	}

	profile, err := planner.ParseProfile(in)
	if err != nil {
		log.Fatalf("Invalid profile: %v", err)
	}

	m := a.ComputeMetrics(profile.WeightKg, profile.HeightCm, profile.ActivityLevel)
	plan := a.GeneratePlan(profile)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			BMI               float64          `json:"bmi"`
			WaterIntakeLiters float64          `json:"water_intake_liters"`
			Plan              planner.MealPlan `json:"plan"`
			Notes             []string         `json:"notes"`
		}{m.BMI, m.WaterIntakeLiters, plan, plan.Notes()}); err != nil {
			log.Fatalf("Failed to encode plan: %v", err)
		}
		return
	}
	printPlan(os.Stdout, m, plan)
}

func runMetrics(a *app.App, args []string) {
	def := planner.DefaultProfileInput()
	metricsCmd := flag.NewFlagSet("metrics", flag.ExitOnError)
	height := metricsCmd.String("height", def.HeightCm, "Height in cm")
	weight := metricsCmd.String("weight", def.WeightKg, "Weight in kg")
	activity := metricsCmd.String("activity", def.ActivityLevel, "Activity level (Low, Moderate, High)")
	metricsCmd.Parse(args)

	in := def
	in.HeightCm, in.WeightKg, in.ActivityLevel = *height, *weight, *activity
	profile, err := planner.ParseProfile(in)
	if err != nil {
		log.Fatalf("Invalid input: %v", err)
	}

	m := a.ComputeMetrics(profile.WeightKg, profile.HeightCm, profile.ActivityLevel)
	fmt.Printf("BMI: %.2f\n", m.BMI)
	fmt.Printf("Recommended water intake: %.2f liters\n", m.WaterIntakeLiters)
}

func runClassify(ctx context.Context, a *app.App, args []string) {
	if len(args) != 1 {
		log.Fatalf("Usage: diet-planner classify <image file>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("Failed to read image: %v", err)
	}

	estimate, err := a.EstimatePhoto(ctx, data, http.DetectContentType(data))
	if err != nil {
		log.Fatalf("Failed to estimate calories: %v", err)
	}
	fmt.Println(estimate.Message())
}

func runServe(cfg *config.Config, rt *app.Runtime) {
	srvWeb, err := web.NewServer(rt.App, cfg.AdminTokenSecret, cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize web server: %v", err)
	}
	srvWeb.WithMetricsHandler(rt.Collector.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srvWeb.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Diet Planner listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}

func runAdminToken(cfg *config.Config, args []string) {
	tokenCmd := flag.NewFlagSet("admin-token", flag.ExitOnError)
	subject := tokenCmd.String("subject", "admin", "Token subject")
	ttl := tokenCmd.Duration("ttl", 24*time.Hour, "Token lifetime")
	tokenCmd.Parse(args)

	token, err := web.NewAdminToken(cfg.AdminTokenSecret, *subject, *ttl)
	if err != nil {
		log.Fatalf("Failed to create admin token: %v", err)
	}
	fmt.Println(token)
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Printf("Usage: %s <command> [arguments]\n", name)
	fmt.Println("\nCommands:")
	fmt.Println("  plan            Generate a daily meal plan")
	fmt.Println("  metrics         Compute BMI and water intake")
	fmt.Println("  substitute      Find a substitute for a food item")
	fmt.Println("  calories        Look up the calories of a food")
	fmt.Println("  classify        Estimate the calories of a food photo")
	fmt.Println("  serve           Start the web front-end")
	fmt.Println("  usage-report    Show recent usage and system health")
	fmt.Println("  usage-cleanup   Remove old usage records and expired sessions")
	fmt.Println("  admin-token     Issue a token for the admin routes")
	fmt.Printf("\nActivity levels: %v, weight goals: %v\n", catalog.ActivityLevels, catalog.WeightGoals)
}

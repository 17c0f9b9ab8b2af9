package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"diet-planner/internal/catalog"
	"diet-planner/internal/health"
	"diet-planner/internal/metrics"
	"diet-planner/internal/planner"
)

func printPlan(w io.Writer, m health.Metrics, plan planner.MealPlan) {
	fmt.Fprintf(w, "BMI: %.2f\n", m.BMI)
	fmt.Fprintf(w, "Recommended water intake: %.2f liters\n", m.WaterIntakeLiters)

	for _, mt := range catalog.MealTypes {
		fmt.Fprintf(w, "\n%s\n", mt)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tMeal Description\tCalories")
		for i, item := range plan.Meals(mt) {
			fmt.Fprintf(tw, "%d\t%s\t%g\n", i+1, item.Description, item.Calories)
		}
		tw.Flush()
	}

	if notes := plan.Notes(); len(notes) > 0 {
		fmt.Fprintln(w)
		for _, note := range notes {
			fmt.Fprintln(w, note)
		}
	}
	fmt.Fprintf(w, "\nTotal calories: %g\n", plan.TotalCalories)
}

func printUsageReport(w io.Writer, usage []metrics.DailyUsage, sys metrics.SysHealth) {
	fmt.Fprintln(w, "Recent activity")
	if len(usage) == 0 {
		fmt.Fprintln(w, "  no data yet")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range usage {
		fmt.Fprintf(tw, "  %s\t%d execs\t%d tokens\t%dms avg\n", d.Date, d.TotalExecution, d.TotalPrompt+d.TotalCompletion, d.AvgLatencyMS)
	}
	tw.Flush()

	fmt.Fprintln(w, "\nSystem health")
	fmt.Fprintf(w, "  RAM: %dMB (Alloc) / %dMB (Sys)\n", sys.AllocMB, sys.SysMB)
	fmt.Fprintf(w, "  Goroutines: %d\n", sys.Goroutines)
	fmt.Fprintf(w, "  Disk Data: %s\n", sys.DataDiskSize)
}

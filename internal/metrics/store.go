package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"diet-planner/internal/database"
	"diet-planner/internal/shared"
)

// Operation names recorded in the usage log.
const (
	OpGeneratePlan      = "generate_plan"
	OpResolveSubstitute = "resolve_substitute"
	OpComputeMetrics    = "compute_metrics"
	OpClassifyPhoto     = "classify_photo"
)

// ExecutionMetric records metadata for a single invocation. It never holds
// the content of a plan or lookup.
type ExecutionMetric struct {
	Operation        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO execution_metrics (operation, model, prompt_tokens, completion_tokens, latency_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.Operation, m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMS, database.FormatTime(ts),
	)
	if err != nil {
		return fmt.Errorf("failed to insert execution metric: %w", err)
	}
	return nil
}

// DailyUsage represents totals for a single day.
type DailyUsage struct {
	Date            string `json:"date"`
	TotalPrompt     int    `json:"total_prompt_tokens"`
	TotalCompletion int    `json:"total_completion_tokens"`
	TotalExecution  int    `json:"total_executions"`
	AvgLatencyMS    int64  `json:"avg_latency_ms"`
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := database.FormatTime(time.Now().AddDate(0, 0, -days))
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT date(timestamp) AS day,
		        COUNT(*),
		        COALESCE(SUM(prompt_tokens), 0),
		        COALESCE(SUM(completion_tokens), 0),
		        COALESCE(AVG(latency_ms), 0)
		   FROM execution_metrics
		  WHERE timestamp >= ?
		  GROUP BY day
		  ORDER BY day DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var (
			day        sql.NullString
			u          DailyUsage
			avgLatency float64
		)
		if err := rows.Scan(&day, &u.TotalExecution, &u.TotalPrompt, &u.TotalCompletion, &avgLatency); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		u.Date = "Unknown"
		if day.Valid {
			u.Date = day.String
		}
		u.AvgLatencyMS = int64(avgLatency)
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := database.FormatTime(time.Now().AddDate(0, 0, -olderThanDays))
	res, err := s.db.ExecContext(context.Background(),
		`DELETE FROM execution_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up execution metrics: %w", err)
	}
	return res.RowsAffected()
}

// MapUsage converts a token usage into an ExecutionMetric.
func MapUsage(operation string, usage shared.TokenUsage, latency time.Duration) ExecutionMetric {
	return ExecutionMetric{
		Operation:        operation,
		Model:            usage.Model,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
		Timestamp:        time.Now().UTC(),
	}
}

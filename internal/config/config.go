package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	FoodCSVPath         string
	SubstitutesCSVPath  string
	FoodCaloriesCSVPath string
	DatabasePath        string
	DataDir             string

	GeminiAPIKey string
	GeminiModel  string

	AdminTokenSecret string

	Port       string
	SessionTTL time.Duration

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// LoadDotEnv loads variables from a .env file in the working directory, if
// there is one. Variables already set in the environment take precedence.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	foodCSVPath := os.Getenv("FOOD_CSV_PATH")
	if foodCSVPath == "" {
		return nil, fmt.Errorf("FOOD_CSV_PATH environment variable not set")
	}

	substitutesCSVPath := os.Getenv("SUBSTITUTES_CSV_PATH")
	if substitutesCSVPath == "" {
		return nil, fmt.Errorf("SUBSTITUTES_CSV_PATH environment variable not set")
	}

	sessionTTLMinutes := 60
	if raw := os.Getenv("SESSION_TTL_MINUTES"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("SESSION_TTL_MINUTES must be a positive integer, got %q", raw)
		}
		sessionTTLMinutes = v
	}

	allowedIDs, err := parseIDList(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	var adminID int64
	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		adminID, err = strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID must be a number, got %q", raw)
		}
	}

	return &Config{
		FoodCSVPath:            foodCSVPath,
		SubstitutesCSVPath:     substitutesCSVPath,
		FoodCaloriesCSVPath:    getEnv("FOOD_CALORIES_CSV_PATH", "data/food_dataset.csv"),
		DatabasePath:           getEnv("DATABASE_PATH", "data/diet-planner.db"),
		DataDir:                getEnv("DATA_DIR", "data"),
		GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		GeminiModel:            os.Getenv("GEMINI_MODEL"),
		AdminTokenSecret:       os.Getenv("ADMIN_TOKEN_SECRET"),
		Port:                   getEnv("PORT", "8080"),
		SessionTTL:             time.Duration(sessionTTLMinutes) * time.Minute,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
	}, nil
}

// RequireTelegram checks the settings the Telegram bot cannot run without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

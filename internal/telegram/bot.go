package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"diet-planner/internal/app"
	"diet-planner/internal/catalog"
	"diet-planner/internal/config"
	"diet-planner/internal/health"
	"diet-planner/internal/metrics"
	"diet-planner/internal/planner"
	"diet-planner/internal/substitute"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `🥗 *Diet Planner*

/plan age=30 height=175 weight=70 activity=Moderate goal=Lose allergies=nuts,milk tea=yes fruit=Mango
Generates a daily plan. Every argument is optional.

/regenerate
Draws a new plan for your last profile.

/substitute <food item>
Finds a substitute for an ingredient.

Send a food photo to estimate its calories.`

// Bot wraps the Telegram API around the planner application.
type Bot struct {
	api      *tgbotapi.BotAPI
	app      *app.App
	sessions *SessionRepository
	cfg      *config.Config
	client   *http.Client
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, a *app.App, sessions *SessionRepository) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:      bot,
		app:      a,
		sessions: sessions,
		cfg:      cfg,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !isAllowed(b.cfg.TelegramAllowedUserIDs, update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func isAllowed(allowed []int64, userID int64) bool {
	return slices.Contains(allowed, userID)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	if len(msg.Photo) > 0 {
		b.handlePhoto(msg)
		return
	}

	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID, helpText)
	case "plan":
		b.handlePlan(msg)
	case "regenerate":
		b.handleRegenerate(msg)
	case "substitute":
		b.handleSubstitute(msg)
	case "metrics":
		b.handleMetricsRequest(msg)
	default:
		b.reply(msg.Chat.ID, "🤔 I did not understand that. Send /help to see what I can do.")
	}
}

func (b *Bot) handlePlan(msg *tgbotapi.Message) {
	in, err := parseCommandArgs(msg.CommandArguments())
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ %s\n\nSend /help for the expected format.", escapeMarkdown(err.Error())))
		return
	}

	profile, err := planner.ParseProfile(in)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ "+escapeMarkdown(err.Error()))
		return
	}

	ctx := context.Background()
	userID := strconv.FormatInt(msg.From.ID, 10)
	if _, err := b.sessions.Create(ctx, userID, SessionTypePlan, "active", SessionContextData{Profile: in}, b.cfg.SessionTTL); err != nil {
		log.Printf("Warning: failed to save session for user %s: %v", userID, err)
	}

	b.sendPlan(msg.Chat.ID, profile)
}

func (b *Bot) handleRegenerate(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := strconv.FormatInt(msg.From.ID, 10)

	session, err := b.sessions.GetActive(ctx, userID, time.Now())
	if err != nil {
		log.Printf("Error loading session for user %s: %v", userID, err)
		b.reply(msg.Chat.ID, "❌ Error loading your last profile.")
		return
	}
	if session == nil || session.SessionType != SessionTypePlan {
		b.reply(msg.Chat.ID, "🗓️ No recent plan found. Send /plan first.")
		return
	}

	data, err := session.GetContextData()
	if err != nil {
		log.Printf("Error decoding session %d: %v", session.ID, err)
		b.reply(msg.Chat.ID, "❌ Error loading your last profile.")
		return
	}
	profile, err := planner.ParseProfile(data.Profile)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ "+escapeMarkdown(err.Error()))
		return
	}

	if err := b.sessions.Update(ctx, session.ID, "regenerated", data); err != nil {
		log.Printf("Warning: failed to update session %d: %v", session.ID, err)
	}
	b.sendPlan(msg.Chat.ID, profile)
}

func (b *Bot) sendPlan(chatID int64, profile planner.Profile) {
	m := b.app.ComputeMetrics(profile.WeightKg, profile.HeightCm, profile.ActivityLevel)
	plan := b.app.GeneratePlan(profile)
	b.reply(chatID, formatPlanMarkdown(m, plan))
}

func (b *Bot) handleSubstitute(msg *tgbotapi.Message) {
	item := strings.TrimSpace(msg.CommandArguments())
	if item == "" {
		b.reply(msg.Chat.ID, "Usage: /substitute <food item>")
		return
	}

	res := b.app.ResolveSubstitute(item)
	switch res.Status {
	case substitute.Found:
		b.reply(msg.Chat.ID, fmt.Sprintf("🔁 *%s* → %s", escapeMarkdown(res.Item), escapeMarkdown(res.Substitute)))
	case substitute.NotFound:
		b.reply(msg.Chat.ID, "🤷 "+substitute.NotFoundMessage)
	default:
		b.reply(msg.Chat.ID, "❌ "+escapeMarkdown(res.String()))
		b.sendAdminAlert(fmt.Sprintf("⚠️ *Substitute lookup failed*\nItem: %s\nError: %s", escapeMarkdown(item), escapeMarkdown(res.Err.Error())))
	}
}

func (b *Bot) handlePhoto(msg *tgbotapi.Message) {
	// Telegram lists the sizes smallest first.
	photo := msg.Photo[len(msg.Photo)-1]

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	data, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.reply(msg.Chat.ID, "❌ Error downloading your photo.")
		return
	}

	estimate, err := b.app.EstimatePhoto(ctx, data, "image/jpeg")
	if err != nil {
		if errors.Is(err, app.ErrClassifierDisabled) {
			b.reply(msg.Chat.ID, "📷 Photo estimates are not enabled.")
			return
		}
		log.Printf("Error estimating photo: %v", err)
		b.reply(msg.Chat.ID, "❌ Error analyzing your photo.")
		return
	}
	b.reply(msg.Chat.ID, "📷 "+escapeMarkdown(estimate.Message()))
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code downloading file: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}
	b.handleMetricsCommand(msg.Chat.ID)
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.app.UsageReport(7)
	if err != nil {
		b.reply(chatID, "❌ Error fetching metrics.")
		return
	}
	b.reply(chatID, formatUsageMarkdown(usage, metrics.GetSysHealth(b.cfg.DataDir)))
}

func (b *Bot) sendAdminAlert(text string) {
	if b.cfg.AdminTelegramID == 0 {
		return
	}
	b.reply(b.cfg.AdminTelegramID, text)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to %d: %v", chatID, err)
	}
}

// parseCommandArgs reads "key=value" pairs separated by spaces. Keys not
// given keep their form defaults.
func parseCommandArgs(args string) (planner.ProfileInput, error) {
	in := planner.DefaultProfileInput()
	for _, field := range strings.Fields(args) {
		key, value, ok := strings.Cut(field, "=")
		if !ok || value == "" {
			return planner.ProfileInput{}, fmt.Errorf("expected key=value, got %q", field)
		}
		switch strings.ToLower(key) {
		case "age":
			in.Age = value
		case "height":
			in.HeightCm = value
		case "weight":
			in.WeightKg = value
		case "activity":
			in.ActivityLevel = value
		case "goal":
			in.WeightGoal = value
		case "allergies":
			in.Allergies = value
		case "tea":
			in.Tea = value
		case "fruit":
			in.Fruit = value
		default:
			return planner.ProfileInput{}, fmt.Errorf("unknown argument %q", key)
		}
	}
	return in, nil
}

func formatPlanMarkdown(m health.Metrics, plan planner.MealPlan) string {
	var sb strings.Builder
	sb.WriteString("🥗 *Your Daily Meal Plan*\n\n")
	sb.WriteString(fmt.Sprintf("⚖️ BMI: %.2f\n", m.BMI))
	sb.WriteString(fmt.Sprintf("💧 Water: %.2f liters\n", m.WaterIntakeLiters))

	for _, mt := range catalog.MealTypes {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", mt))
		items := plan.Meals(mt)
		if len(items) == 0 {
			sb.WriteString("_No matching meals_\n")
		}
		for i, item := range items {
			sb.WriteString(fmt.Sprintf("%d. %s (%g kcal)\n", i+1, escapeMarkdown(item.Description), item.Calories))
		}
	}

	if notes := plan.Notes(); len(notes) > 0 {
		sb.WriteString("\n")
		for _, note := range notes {
			sb.WriteString(fmt.Sprintf("_%s_\n", escapeMarkdown(note)))
		}
	}

	sb.WriteString(fmt.Sprintf("\n🔥 *Total Calories:* %g", plan.TotalCalories))
	return sb.String()
}

func formatUsageMarkdown(usage []metrics.DailyUsage, sys metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d execs, %d tokens, %dms avg\n", d.Date, d.TotalExecution, d.TotalPrompt+d.TotalCompletion, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", sys.AllocMB, sys.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", sys.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", sys.DataDiskSize))
	return sb.String()
}

// escapeMarkdown escapes the characters legacy Telegram Markdown treats as markup.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

package llm

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"diet-planner/internal/config"
	"diet-planner/internal/metrics"
	"diet-planner/internal/shared"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when GEMINI_MODEL is not set.
const DefaultGeminiModel = "gemini-1.5-flash"

//go:embed classifier_prompt.md
var classifierPrompt string

var classifierTmpl = template.Must(template.New("classifier").Parse(classifierPrompt))

// GeminiClient classifies food photos with the Google Gemini API.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := cfg.GeminiModel
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &GeminiClient{client: client, model: model, modelName: modelName}, nil
}

// ClassifyFood sends the photo together with the list of known labels and
// returns the label the model picked.
func (c *GeminiClient) ClassifyFood(ctx context.Context, image []byte, mimeType string, labels []string) (Classification, error) {
	start := time.Now()

	prompt, err := buildClassifierPrompt(labels)
	if err != nil {
		return Classification{}, err
	}

	resp, err := c.model.GenerateContent(ctx, genai.ImageData(imageFormat(mimeType), image), genai.Text(prompt))
	if err != nil {
		return Classification{}, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Classification{}, fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return Classification{}, fmt.Errorf("generated content is not text")
	}

	usage := shared.TokenUsage{Model: c.modelName}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return Classification{
		Label: NormalizeLabel(string(text)),
		Meta: shared.CallMeta{
			Operation: metrics.OpClassifyPhoto,
			Usage:     usage,
			Latency:   time.Since(start),
		},
	}, nil
}

// Close closes the underlying Gemini client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func buildClassifierPrompt(labels []string) (string, error) {
	var buf bytes.Buffer
	if err := classifierTmpl.Execute(&buf, struct{ Labels []string }{labels}); err != nil {
		return "", fmt.Errorf("failed to render classifier prompt: %w", err)
	}
	return buf.String(), nil
}

// imageFormat turns a MIME type such as "image/png" into the short format
// name genai expects. Unknown types are sent as JPEG.
func imageFormat(mimeType string) string {
	format := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
	switch format {
	case "jpg", "":
		return "jpeg"
	case "jpeg", "png", "webp", "heic", "heif":
		return format
	}
	return "jpeg"
}

// NormalizeLabel keeps the first line of a model answer and strips quotes,
// markdown emphasis and trailing punctuation.
func NormalizeLabel(raw string) string {
	label := strings.TrimSpace(raw)
	if i := strings.IndexByte(label, '\n'); i >= 0 {
		label = label[:i]
	}
	label = strings.TrimPrefix(strings.TrimSpace(label), "-")
	label = strings.Trim(label, " \t\"'`*.")
	return strings.TrimSpace(label)
}

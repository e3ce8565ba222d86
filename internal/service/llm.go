package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/pageza/menubebe/backend/config"
)

// GenerationOptions are the decoding parameters of a generation call
type GenerationOptions struct {
	Model           string
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// DefaultGenerationOptions returns the parameters the meal plan prompt was tuned with
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		Model:           "gemini-1.5-flash-latest",
		Temperature:     0.7,
		TopK:            1,
		TopP:            1,
		MaxOutputTokens: 2048,
		Timeout:         60 * time.Second,
	}
}

// GenerationOptionsFromConfig converts the gemini config section
func GenerationOptionsFromConfig(cfg config.GeminiConfig) GenerationOptions {
	return GenerationOptions{
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		TopK:            cfg.TopK,
		TopP:            cfg.TopP,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Timeout:         cfg.Timeout,
	}
}

// safetyCategories are blocked at medium severity and above on every call
var safetyCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

func safetySettings() []*genai.SafetySetting {
	settings := make([]*genai.SafetySetting, 0, len(safetyCategories))
	for _, category := range safetyCategories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return settings
}

func generateContentConfig(opts GenerationOptions) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		TopK:            genai.Ptr(opts.TopK),
		TopP:            genai.Ptr(opts.TopP),
		MaxOutputTokens: opts.MaxOutputTokens,
		SafetySettings:  safetySettings(),
	}
}

// GeminiGenerator talks to the Gemini API through the genai SDK
type GeminiGenerator struct {
	baseURL    string
	httpClient *http.Client
}

// GeminiOption configures a GeminiGenerator
type GeminiOption func(*GeminiGenerator)

// WithBaseURL points the generator at a different API endpoint
func WithBaseURL(baseURL string) GeminiOption {
	return func(g *GeminiGenerator) {
		g.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for API calls
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(g *GeminiGenerator) {
		g.httpClient = client
	}
}

// NewGeminiGenerator creates a new GeminiGenerator instance
func NewGeminiGenerator(opts ...GeminiOption) *GeminiGenerator {
	g := &GeminiGenerator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate starts a chat with no history and sends prompt as its only message.
// A client is built per call because the key may rotate between requests.
func (g *GeminiGenerator) Generate(ctx context.Context, apiKey, prompt string, opts GenerationOptions) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	chat, err := client.Chats.Create(ctx, opts.Model, generateContentConfig(opts), nil)
	if err != nil {
		return "", fmt.Errorf("failed to start chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text in model response")
	}

	return text, nil
}

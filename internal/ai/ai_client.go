package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/challasumanth64/assist-respond-ai/internal/config"
	"github.com/challasumanth64/assist-respond-ai/internal/logger"
	"github.com/challasumanth64/assist-respond-ai/internal/model"
	"github.com/challasumanth64/assist-respond-ai/internal/service"
)

const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
	ProviderBedrock  = "bedrock"
)

const (
	classifyTemperature = 0.3
	classifyMaxTokens   = 800
	generateTemperature = 0.7
	generateMaxTokens   = 1000
)

var ErrEmptyCompletion = errors.New("empty completion")

// completionRequest is the provider-neutral shape of one chat completion.
type completionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	JSON        bool
}

type completer interface {
	Complete(ctx context.Context, req completionRequest) (string, error)
}

type aiClient struct {
	completer completer
	provider  string
	logger    *logger.Logger
}

func NewAIClient(ctx context.Context, cfg *config.Config, logger *logger.Logger) (service.AIClient, error) {
	modelName := cfg.AIModel
	if modelName == "" {
		modelName = defaultModel(cfg.AIProvider)
	}

	var (
		c   completer
		err error
	)
	switch cfg.AIProvider {
	case ProviderOpenAI, ProviderDeepSeek:
		c = newOpenAICompleter(cfg.AIKey, baseURL(cfg.AIProvider, cfg.AIBaseURL), modelName)
	case ProviderGemini:
		c, err = newGeminiCompleter(ctx, cfg.AIKey, modelName)
	case ProviderBedrock:
		c, err = newBedrockCompleter(ctx, cfg.AWSRegion, modelName)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.AIProvider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("AI client ready, provider:", cfg.AIProvider, "model:", modelName)
	return newClient(c, cfg.AIProvider, logger), nil
}

func newClient(c completer, provider string, logger *logger.Logger) *aiClient {
	return &aiClient{completer: c, provider: provider, logger: logger}
}

// Close releases the provider client when it holds a connection.
func (c *aiClient) Close() error {
	if closer, ok := c.completer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderDeepSeek:
		return "deepseek-chat"
	case ProviderGemini:
		return "gemini-2.0-flash-lite"
	case ProviderBedrock:
		return "anthropic.claude-3-haiku-20240307-v1:0"
	default:
		return "gpt-4o-mini"
	}
}

func baseURL(provider, override string) string {
	if override != "" {
		return override
	}
	if provider == ProviderDeepSeek {
		return "https://api.deepseek.com/v1"
	}
	return "https://api.openai.com/v1"
}

func (c *aiClient) ClassifyEmail(ctx context.Context, subject, body string) (*model.Classification, error) {
	text, err := c.completer.Complete(ctx, completionRequest{
		System:      "You are an email analysis AI. Always return valid JSON.",
		User:        classificationPrompt(subject, body),
		Temperature: classifyTemperature,
		MaxTokens:   classifyMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}

	result, err := ParseClassification(text)
	if err != nil {
		c.logger.Debugf("unparseable classification from %s: %q", c.provider, text)
		return nil, err
	}
	return result, nil
}

func (c *aiClient) GenerateResponse(ctx context.Context, subject, body string, sentiment model.Sentiment, info model.ExtractedInfo) (string, error) {
	user, err := generationPrompt(subject, body, info)
	if err != nil {
		return "", err
	}

	text, err := c.completer.Complete(ctx, completionRequest{
		System:      generationSystemPrompt(sentiment),
		User:        user,
		Temperature: generateTemperature,
		MaxTokens:   generateMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func classificationPrompt(subject, body string) string {
	return fmt.Sprintf(`Analyze this email for customer support:

Subject: %s
Body: %s

Please analyze and return a JSON response with:
1. sentiment: "positive", "negative", or "neutral"
2. priority: "urgent" or "normal" (urgent if contains keywords like immediately, critical, cannot access, urgent, emergency, asap)
3. category: a short label for the type of request (e.g. "account access", "billing", "technical")
4. urgencyKeywords: array of the urgency keywords found in the email
5. extractedInfo: object with any requirements, contact details or product names mentioned

Return only valid JSON.`, subject, body)
}

func generationSystemPrompt(sentiment model.Sentiment) string {
	var b strings.Builder
	b.WriteString("You are a professional customer support assistant. Generate a helpful, empathetic response to this customer email.\n\n")
	b.WriteString("Guidelines:\n")
	b.WriteString("- Be professional and friendly\n")
	b.WriteString("- Acknowledge the customer's concern\n")
	b.WriteString("- Provide helpful information or next steps\n")
	b.WriteString("- Keep a supportive tone\n")
	b.WriteString("- Be concise but complete\n")
	if sentiment == model.SentimentNegative {
		b.WriteString("- The customer seems frustrated - acknowledge their frustration empathetically\n")
		b.WriteString("- Use phrases like \"I understand your concern\" or \"I apologize for the inconvenience\"\n")
	}
	return b.String()
}

func generationPrompt(subject, body string, info model.ExtractedInfo) (string, error) {
	if info == nil {
		info = model.ExtractedInfo{}
	}
	customer, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to encode customer context: %w", err)
	}
	return fmt.Sprintf("Original Email Subject: %s\nOriginal Email Body: %s\n\nCustomer Context: %s\n\nPlease generate a professional response email.",
		subject, body, customer), nil
}

type rawClassification struct {
	Sentiment       string          `json:"sentiment"`
	Priority        string          `json:"priority"`
	Category        string          `json:"category"`
	UrgencyKeywords []interface{}   `json:"urgencyKeywords"`
	ExtractedInfo   json.RawMessage `json:"extractedInfo"`
}

// ParseClassification decodes model output, tolerating prose around the JSON
// object. Missing or invalid fields take their default values.
func ParseClassification(text string) (*model.Classification, error) {
	var raw rawClassification
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object in model output: %w", err)
		}
		raw = rawClassification{}
		if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON in model output: %w", err)
		}
	}

	c := model.DefaultClassification()
	c.Sentiment = model.NormalizeSentiment(strings.ToLower(strings.TrimSpace(raw.Sentiment)))
	c.Priority = model.NormalizePriority(strings.ToLower(strings.TrimSpace(raw.Priority)))
	if cat := strings.TrimSpace(raw.Category); cat != "" {
		c.Category = cat
	}
	for _, kw := range raw.UrgencyKeywords {
		if s, ok := kw.(string); ok && s != "" {
			c.UrgencyKeywords = append(c.UrgencyKeywords, s)
		}
	}
	if len(raw.ExtractedInfo) > 0 {
		var info model.ExtractedInfo
		if err := json.Unmarshal(raw.ExtractedInfo, &info); err == nil && info != nil {
			c.ExtractedInfo = info
		}
	}
	return &c, nil
}

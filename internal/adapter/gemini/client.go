package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
	"github.com/couchcryptid/cyclone-risk-service/internal/observability"
	openai "github.com/sashabaranov/go-openai"
)

const (
	temperature  = 0.7
	systemPrompt = "You are a meteorology assistant for a cyclone risk dashboard. " +
		"Answer questions about cyclone risks, patterns and predictions clearly and briefly. " +
		"The dashboard's risk score is a simple heuristic, not a forecast model; say so when it matters."
)

// Client implements domain.TextGenerator against Gemini's OpenAI-compatible endpoint.
type Client struct {
	api     *openai.Client
	model   string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a Gemini text generation client.
func NewClient(apiKey, baseURL, model string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   model,
		metrics: metrics,
		logger:  logger,
	}
}

// Generate sends the prompt as a single user turn and returns the reply text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	c.metrics.InsightAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.InsightRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("gemini chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.metrics.InsightRequests.WithLabelValues("empty").Inc()
		c.logger.Warn("gemini returned no text", "model", c.model, "choices", len(resp.Choices))
		return "", domain.ErrEmptyReply
	}

	c.metrics.InsightRequests.WithLabelValues("success").Inc()
	return resp.Choices[0].Message.Content, nil
}

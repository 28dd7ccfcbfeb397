package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/exceptions"
	"kitchenwise.dev/api/internal/provider"
	"kitchenwise.dev/api/internal/secrets"
)

const (
	DEFAULT_BASE_URL = "https://api.openai.com/v1"
	DEFAULT_MODEL    = "gpt-3.5-turbo"
	MAX_TOKENS       = 500
	TEMPERATURE      = 0.7
	TIMEOUT          = 30 * time.Second
	SYSTEM_PROMPT    = "You are KitchenWise, a recipe generator. Follow only the user's constraint and pantry list."
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type Choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}

type ChatResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

type Client struct {
	BaseURL     string
	Model       string
	Credentials provider.CredentialProvider
	HTTPClient  *http.Client
	Breaker     *gobreaker.CircuitBreaker
	Logger      *zap.Logger
}

// NewClient guards the chat endpoint with a circuit breaker; while it is
// open calls fail fast as rate limited.
func NewClient(baseURL string, model string, credentials provider.CredentialProvider, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DEFAULT_BASE_URL
	}
	if model == "" {
		model = DEFAULT_MODEL
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			var gfe *exceptions.GenerationFailedError
			if errors.As(err, &gfe) {
				return gfe.Reason == exceptions.MALFORMED_OUTPUT || gfe.Reason == exceptions.INVALID_CREDENTIALS
			}
			return err == nil
		},
	})
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Model:       model,
		Credentials: credentials,
		HTTPClient:  &http.Client{Timeout: TIMEOUT},
		Breaker:     breaker,
		Logger:      logger,
	}
}

func BuildPrompt(constraint string, items []provider.PantryItemSummary) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("• %s (%d)", item.Name, item.Quantity)
	}
	return fmt.Sprintf(`Here are my pantry items:
%s

Constraint: %s

Using only these ingredients, generate a single popular (not too niche) recipe that fits the given constraint. Return your answer exactly in this format:

Title: <Recipe Name>

Description: <A brief paragraph (1–2 sentences) describing the dish, no step-by-step instructions>`, strings.Join(lines, "\n"), constraint)
}

// ParseRecipe reads the "Title:" and "Description:" lines of a completion.
func ParseRecipe(content string) (provider.GeneratedRecipe, error) {
	var recipe provider.GeneratedRecipe
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Title:") {
			recipe.Title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
		} else if strings.HasPrefix(line, "Description:") {
			recipe.Description = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		}
	}
	if recipe.Title == "" || recipe.Description == "" {
		return recipe, exceptions.GenerationFailed(exceptions.MALFORMED_OUTPUT, fmt.Errorf("invalid recipe format: %q", content))
	}
	return recipe, nil
}

func (c *Client) Generate(ctx context.Context, constraint string, items []provider.PantryItemSummary) (provider.GeneratedRecipe, error) {
	result, err := c.Breaker.Execute(func() (interface{}, error) {
		return c._generate(ctx, constraint, items)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return provider.GeneratedRecipe{}, exceptions.GenerationFailed(exceptions.RATE_LIMITED, err)
		}
		c.Logger.Error("Recipe generation failed", zap.Error(err))
		return provider.GeneratedRecipe{}, err
	}
	return result.(provider.GeneratedRecipe), nil
}

func (c *Client) _generate(ctx context.Context, constraint string, items []provider.PantryItemSummary) (provider.GeneratedRecipe, error) {
	apiKey, err := c.Credentials.APIKey(ctx, secrets.OPENAI_API_KEY)
	if err != nil {
		return provider.GeneratedRecipe{}, exceptions.GenerationFailed(exceptions.INVALID_CREDENTIALS, err)
	}
	payload, err := json.Marshal(ChatRequest{
		Model: c.Model,
		Messages: []Message{
			{Role: "system", Content: SYSTEM_PROMPT},
			{Role: "user", Content: BuildPrompt(constraint, items)},
		},
		MaxTokens:   MAX_TOKENS,
		Temperature: TEMPERATURE,
	})
	if err != nil {
		return provider.GeneratedRecipe{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return provider.GeneratedRecipe{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return provider.GeneratedRecipe{}, exceptions.GenerationFailed(exceptions.UPSTREAM_REJECTED, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return provider.GeneratedRecipe{}, exceptions.GenerationFailed(exceptions.UPSTREAM_REJECTED, err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return provider.GeneratedRecipe{}, exceptions.GenerationFailed(exceptions.RATE_LIMITED, fmt.Errorf("status %d: %s", resp.StatusCode, body))
	case resp.StatusCode == http.StatusUnauthorized:
		return provider.GeneratedRecipe{}, exceptions.GenerationFailed(exceptions.INVALID_CREDENTIALS, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return provider.GeneratedRecipe{}, exceptions.GenerationFailed(exceptions.UPSTREAM_REJECTED, fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}
	var chat ChatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return provider.GeneratedRecipe{}, exceptions.GenerationFailed(exceptions.MALFORMED_OUTPUT, err)
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return provider.GeneratedRecipe{}, exceptions.GenerationFailed(exceptions.MALFORMED_OUTPUT, errors.New("no content received"))
	}
	return ParseRecipe(chat.Choices[0].Message.Content)
}

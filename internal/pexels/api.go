package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/provider"
	"kitchenwise.dev/api/internal/secrets"
)

const (
	DEFAULT_BASE_URL = "https://api.pexels.com/v1"
	TIMEOUT          = 10 * time.Second
)

var (
	fillerWords  = regexp.MustCompile(`(?i)\b(recipe|dish|meal|food|cooking|kitchen)\b`)
	nonWord      = regexp.MustCompile(`[^\w\s]`)
	whitespace   = regexp.MustCompile(`\s+`)
	stopWords    = map[string]bool{"with": true, "and": true, "the": true, "for": true, "from": true}
	mainDishWords = []string{
		"chicken", "beef", "pork", "fish", "salmon", "shrimp", "pasta",
		"rice", "quinoa", "salad", "soup", "stew", "curry", "stir-fry",
		"pizza", "burger", "sandwich", "taco", "burrito", "lasagna",
		"noodles", "bread", "cake", "cookie", "pie", "smoothie",
	}
)

type PexelsAPI struct {
	BaseURL     string
	Credentials provider.CredentialProvider
	Client      *http.Client
	Logger      *zap.Logger
}

func NewPexelsAPI(baseURL string, credentials provider.CredentialProvider, logger *zap.Logger) *PexelsAPI {
	if baseURL == "" {
		baseURL = DEFAULT_BASE_URL
	}
	return &PexelsAPI{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Credentials: credentials,
		Client:      &http.Client{Timeout: TIMEOUT},
		Logger:      logger,
	}
}

func CleanTitle(title string) string {
	cleaned := fillerWords.ReplaceAllString(title, "")
	cleaned = nonWord.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(cleaned, " "))
}

// MainIngredient picks a known dish word from the title, else its first significant word.
func MainIngredient(title string) string {
	words := strings.Fields(strings.ToLower(title))
	for _, word := range words {
		for _, known := range mainDishWords {
			if word == known {
				return word
			}
		}
	}
	for _, word := range words {
		if len(word) > 3 && !stopWords[word] {
			return word
		}
	}
	return ""
}

// SearchImage returns the large2x URL of the first landscape photo, or "".
func (pa *PexelsAPI) SearchImage(ctx context.Context, query string) (string, error) {
	apiKey, err := pa.Credentials.APIKey(ctx, secrets.PEXELS_API_KEY)
	if err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/search?%s", pa.BaseURL, params.Encode()), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", apiKey)
	resp, err := pa.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pexels search failed with status %d", resp.StatusCode)
	}
	var search SearchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return "", err
	}
	if len(search.Photos) == 0 {
		return "", nil
	}
	return search.Photos[0].Src.Large2x, nil
}

// SearchRecipeImage searches the cleaned title, then falls back to the main ingredient.
func (pa *PexelsAPI) SearchRecipeImage(ctx context.Context, title string) (string, error) {
	query := CleanTitle(title)
	imageUrl, err := pa.SearchImage(ctx, query)
	if imageUrl != "" {
		return imageUrl, nil
	}
	if err != nil {
		pa.Logger.Warn("Image search failed", zap.String("query", query), zap.Error(err))
	}
	simplified := MainIngredient(title)
	if simplified == "" || simplified == query {
		return "", err
	}
	return pa.SearchImage(ctx, simplified)
}

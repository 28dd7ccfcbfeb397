package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Environment string
	LogLevel    string

	PantryTable     string
	RecipesTable    string
	PantryItemIndex string

	TokenSecret string

	SecretId        string
	SecretsCacheTTL time.Duration

	OpenAIApiKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	PexelsApiKey  string
	PexelsBaseURL string

	AuthPoolURL string
}

// Read collects the environment without validating it.
func Read() *Config {
	return &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		PantryTable:     getEnv("PANTRY_TABLE", ""),
		RecipesTable:    getEnv("RECIPES_TABLE", ""),
		PantryItemIndex: getEnv("PANTRY_ITEM_INDEX", ""),
		TokenSecret:     getEnv("TOKEN_SECRET", ""),
		SecretId:        getEnv("SECRET_ID", "kitchenwise-api-keys"),
		SecretsCacheTTL: getEnvDuration("SECRETS_CACHE_TTL", 5*time.Minute),
		OpenAIApiKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		PexelsApiKey:    getEnv("PEXELS_API_KEY", ""),
		PexelsBaseURL:   getEnv("PEXELS_BASE_URL", "https://api.pexels.com/v1"),
		AuthPoolURL:     getEnv("AUTH_POOL_URL", ""),
	}
}

// Load reads the environment, applying defaults for optional values, and
// fails on missing required values.
func Load() (*Config, error) {
	cfg := Read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.PantryTable == "" {
		missing = append(missing, "PANTRY_TABLE")
	}
	if c.RecipesTable == "" {
		missing = append(missing, "RECIPES_TABLE")
	}
	if c.TokenSecret == "" {
		missing = append(missing, "TOKEN_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.SecretsCacheTTL <= 0 {
		return fmt.Errorf("SECRETS_CACHE_TTL must be positive, got %s", c.SecretsCacheTTL)
	}
	return nil
}

// APIKeyOverrides are environment values that take precedence over the secret.
func (c *Config) APIKeyOverrides() map[string]string {
	return map[string]string{
		"OPENAI_API_KEY": c.OpenAIApiKey,
		"PEXELS_API_KEY": c.PexelsApiKey,
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}

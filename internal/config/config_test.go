package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("PANTRY_TABLE", "Pantry")
		t.Setenv("RECIPES_TABLE", "Recipes")
		t.Setenv("TOKEN_SECRET", "shh")
		t.Setenv("SECRETS_CACHE_TTL", "")
		t.Setenv("OPENAI_MODEL", "")
		t.Setenv("SECRET_ID", "")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "Pantry", cfg.PantryTable)
		assert.Equal(t, 5*time.Minute, cfg.SecretsCacheTTL)
		assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
		assert.Equal(t, "kitchenwise-api-keys", cfg.SecretId)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("PANTRY_TABLE", "Pantry")
		t.Setenv("RECIPES_TABLE", "Recipes")
		t.Setenv("TOKEN_SECRET", "shh")
		t.Setenv("SECRETS_CACHE_TTL", "30s")
		t.Setenv("ENVIRONMENT", "production")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.SecretsCacheTTL)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("MissingRequired", func(t *testing.T) {
		t.Setenv("PANTRY_TABLE", "")
		t.Setenv("RECIPES_TABLE", "")
		t.Setenv("TOKEN_SECRET", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PANTRY_TABLE")
		assert.Contains(t, err.Error(), "RECIPES_TABLE")
		assert.Contains(t, err.Error(), "TOKEN_SECRET")
	})
}

func TestRead(t *testing.T) {
	t.Setenv("PANTRY_TABLE", "")
	t.Setenv("AUTH_POOL_URL", "https://auth.example.com")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("PEXELS_API_KEY", "")
	cfg := Read()
	assert.Equal(t, "https://auth.example.com", cfg.AuthPoolURL)
	assert.Error(t, cfg.Validate())
	assert.Equal(t, map[string]string{
		"OPENAI_API_KEY": "sk-env",
		"PEXELS_API_KEY": "",
	}, cfg.APIKeyOverrides())
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/chatagent/utils"
)

func TestNewConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.Model)
		assert.Equal(t, 0.7, cfg.Temperature)
		assert.Equal(t, 1024, cfg.MaxTokens)
		assert.Equal(t, 5, cfg.MaxFunctionRounds)
		assert.False(t, cfg.TolerateRetrieverErrors)
		assert.Equal(t, 1000, cfg.MemoryBudget.ShortTermTokens)
		assert.Equal(t, 1000, cfg.MemoryBudget.LongTermTokens)
		assert.Equal(t, 2000, cfg.MemoryBudget.ExternalKnowledgeTokens)
		assert.Equal(t, 6334, cfg.Qdrant.Port)
	})

	t.Run("Options override defaults", func(t *testing.T) {
		cfg := NewConfig(
			SetProvider("mock"),
			SetModel("test-model"),
			SetTemperature(0.1),
			SetMaxTokens(64),
			SetTimeout(5*time.Second),
			SetMaxRetries(0),
			SetRequestsPerSecond(2),
			SetMaxFunctionRounds(2),
			SetTolerateRetrieverErrors(true),
			SetAPIKey("mock", "test-key"),
			SetLogLevel(utils.LogLevelDebug),
		)

		assert.Equal(t, "mock", cfg.Provider)
		assert.Equal(t, "test-model", cfg.Model)
		assert.Equal(t, 0.1, cfg.Temperature)
		assert.Equal(t, 64, cfg.MaxTokens)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Zero(t, cfg.MaxRetries)
		assert.Equal(t, 2.0, cfg.RequestsPerSecond)
		assert.Equal(t, 2, cfg.MaxFunctionRounds)
		assert.True(t, cfg.TolerateRetrieverErrors)
		assert.Equal(t, "test-key", cfg.APIKeys["mock"])
	})

	t.Run("Validate rejects out-of-range values", func(t *testing.T) {
		cfg := NewConfig(SetTemperature(3.5))
		assert.Error(t, cfg.Validate())

		cfg = NewConfig(SetMaxTokens(0))
		assert.Error(t, cfg.Validate())

		assert.NoError(t, NewConfig().Validate())
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("CHATAGENT_PROVIDER", "mock")
		t.Setenv("CHATAGENT_MODEL", "env-model")
		t.Setenv("CHATAGENT_TEMPERATURE", "0.2")
		t.Setenv("CHATAGENT_MAX_FUNCTION_ROUNDS", "7")
		t.Setenv("CHATAGENT_TOLERATE_RETRIEVER_ERRORS", "true")
		t.Setenv("CHATAGENT_SHORT_TERM_TOKENS", "500")
		t.Setenv("QDRANT_HOST", "qdrant.internal")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "mock", cfg.Provider)
		assert.Equal(t, "env-model", cfg.Model)
		assert.Equal(t, 0.2, cfg.Temperature)
		assert.Equal(t, 7, cfg.MaxFunctionRounds)
		assert.True(t, cfg.TolerateRetrieverErrors)
		assert.Equal(t, 500, cfg.MemoryBudget.ShortTermTokens)
		assert.Equal(t, "qdrant.internal", cfg.Qdrant.Host)
	})

	t.Run("API keys are picked up by provider prefix", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("MISTRAL_API_KEY", "mk-test")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "sk-test", cfg.APIKeys["openai"])
		assert.Equal(t, "mk-test", cfg.APIKeys["mistral"])
	})

	t.Run("Invalid environment values fail", func(t *testing.T) {
		t.Setenv("CHATAGENT_TEMPERATURE", "9.9")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

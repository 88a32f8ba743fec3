package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresProviderCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ONBO_MODEL", "")
	t.Setenv("ONBO_REASONING_EFFORT", "")
	t.Setenv("ENRICH_BASE_URL", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("PORT", "")
	t.Setenv("ONBO_AUTO_ENRICH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, defaultModel, cfg.Model)
	assert.Equal(t, defaultReasoningEffort, cfg.ReasoningEffort)
	assert.Equal(t, defaultEnrichBaseURL, cfg.EnrichBaseURL)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.AutoEnrich)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ONBO_MODEL", "gpt-5")
	t.Setenv("ONBO_CONVERSATION_ID", "conv_abc")
	t.Setenv("ENRICH_API_KEY", "enrich-key")
	t.Setenv("ONBO_AUTO_ENRICH", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-5", cfg.Model)
	assert.Equal(t, "conv_abc", cfg.ConversationID)
	assert.Equal(t, "enrich-key", cfg.EnrichAPIKey)
	assert.True(t, cfg.AutoEnrich)
}

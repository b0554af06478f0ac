package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("PERPLEXITY_API_KEY", "")

	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "chatvault.db", cfg.DatabasePath)
	assert.Equal(t, "openai", cfg.DefaultProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.DefaultModel)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.Equal(t, "https://api.perplexity.ai", cfg.PerplexityBaseURL)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Empty(t, cfg.AnthropicKey)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-d", "/tmp/alt.db", "-m", "gpt-4o", "-t", "0.2"}

	cfg := LoadConfig()
	assert.Equal(t, "/tmp/alt.db", cfg.DatabasePath)
	assert.Equal(t, "gpt-4o", cfg.DefaultModel)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-9)
	// Untouched fields keep their defaults.
	assert.Equal(t, "openai", cfg.DefaultProvider)
}

func TestLoadConfig_JsonThenFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	f, err := os.CreateTemp(t.TempDir(), "conf-*.json")
	require.NoError(t, err)
	_, err = f.WriteString(`{"default_provider": "anthropic", "default_model": "claude-3-5-haiku-latest", "temperature": 0.5}`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// Flags win over the JSON file for the model, JSON wins over defaults
	// for the rest.
	os.Args = []string{"testbin", "-c", f.Name(), "-m", "claude-3-7-sonnet-latest"}

	cfg := LoadConfig()
	assert.Equal(t, "anthropic", cfg.DefaultProvider)
	assert.Equal(t, "claude-3-7-sonnet-latest", cfg.DefaultModel)
	assert.InDelta(t, 0.5, cfg.Temperature, 1e-9)
}

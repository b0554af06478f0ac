package config

import "os"

// Config holds runtime settings for the ChatVault CLI.
//
// Fields:
//   - DatabasePath: path of the local SQLite file backing the key-value store.
//   - DefaultProvider / DefaultModel: provider and model preselected for new
//     messages ("openai", "anthropic", "perplexity" or "simulated").
//   - Temperature: sampling temperature passed to providers.
//   - OpenAIKey / AnthropicKey / PerplexityKey: API keys, normally supplied
//     through the environment (a .env file is loaded by the binary).
//   - PerplexityBaseURL: OpenAI-compatible endpoint used for Perplexity.
type Config struct {
	DatabasePath      string
	DefaultProvider   string
	DefaultModel      string
	Temperature       float64
	OpenAIKey         string
	AnthropicKey      string
	PerplexityKey     string
	PerplexityBaseURL string
}

// LoadDefaults populates c with sensible defaults. API keys come from the
// environment so they never land in config files.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "chatvault.db"
	c.DefaultProvider = "openai"
	c.DefaultModel = "gpt-4o-mini"
	c.Temperature = 0.7
	c.PerplexityBaseURL = "https://api.perplexity.ai"
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	c.PerplexityKey = os.Getenv("PERPLEXITY_API_KEY")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

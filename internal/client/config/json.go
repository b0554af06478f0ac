package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/chatvault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// distinguish "absent" from "zero", so a config file only overrides the keys
// it actually sets.
type JsonConfig struct {
	DatabasePath      *string  `json:"database_path"`
	DefaultProvider   *string  `json:"default_provider"`
	DefaultModel      *string  `json:"default_model"`
	Temperature       *float64 `json:"temperature"`
	PerplexityBaseURL *string  `json:"perplexity_base_url"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when neither is given, nothing is
// loaded. Intended usage is: defaults -> parseJson -> parseFlags, where later
// stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFilePath()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.DefaultProvider != nil {
		cfg.DefaultProvider = *jc.DefaultProvider
	}
	if jc.DefaultModel != nil {
		cfg.DefaultModel = *jc.DefaultModel
	}
	if jc.Temperature != nil {
		cfg.Temperature = *jc.Temperature
	}
	if jc.PerplexityBaseURL != nil {
		cfg.PerplexityBaseURL = *jc.PerplexityBaseURL
	}
}

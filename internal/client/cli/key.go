package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/chatvault/internal/client/provider"
)

// SetKey prompts for an API key without echo and registers a sender for the
// named provider. The key lives only in process memory; restarting the client
// falls back to the environment.
func (a *App) SetKey(ctx context.Context, providerName string) error {
	switch providerName {
	case "openai", "anthropic", "perplexity":
	default:
		printlnFn("Unknown provider:", providerName, "(use openai, anthropic, or perplexity)")
		return nil
	}

	key, err := GetSecret(fmt.Sprintf("Enter %s API key", providerName), os.Stdout)
	if err != nil {
		return err
	}

	var s provider.Sender
	switch providerName {
	case "openai":
		s, err = provider.NewOpenAISender(key, "")
	case "anthropic":
		s, err = provider.NewAnthropicSender(key, "")
	case "perplexity":
		s, err = provider.NewOpenAISender(key, a.config.PerplexityBaseURL)
	}
	if err != nil {
		printlnFn("Could not set key:", err.Error())
		return err
	}

	a.router.Register(providerName, s)
	printlnFn("Key set for", providerName)
	return nil
}

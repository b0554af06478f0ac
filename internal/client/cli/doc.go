// Package cli provides the interactive ChatVault command-line client.
//
// It wires configuration, the local key-value store, conversation and folder
// stores, the archive engine, usage analytics, and the provider router into an
// interactive REPL. Typical flow: load config, open the database, start a
// usage session, and execute user commands against the active conversation.
//
// Key features:
//   - Create / open / list / search conversations
//   - Send messages to OpenAI, Anthropic, Perplexity, or a simulated provider
//   - Organize: rename, favorite, pin, tag, move into folders
//   - Export / import the whole history as a JSON archive
//   - Aggregate conversation stats and usage analytics
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli

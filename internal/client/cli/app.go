package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/chatvault/internal/client/analytics"
	"github.com/dmitrijs2005/chatvault/internal/client/archive"
	"github.com/dmitrijs2005/chatvault/internal/client/config"
	"github.com/dmitrijs2005/chatvault/internal/client/conversations"
	"github.com/dmitrijs2005/chatvault/internal/client/events"
	"github.com/dmitrijs2005/chatvault/internal/client/folders"
	"github.com/dmitrijs2005/chatvault/internal/client/provider"
	"github.com/dmitrijs2005/chatvault/internal/client/storage"
	"github.com/dmitrijs2005/chatvault/internal/logging"
)

type App struct {
	config    *config.Config
	kv        storage.Store
	bus       *events.Bus
	log       logging.Logger
	conv      *conversations.Store
	folders   *folders.Store
	archive   *archive.Engine
	analytics *analytics.Recorder
	router    *provider.Router
	reader    *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	kv, err := storage.NewSQLiteStore(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	bus := events.NewBus()
	conv := conversations.NewStore(kv, bus, log)
	fold := folders.NewStore(kv, bus, log).WithDetacher(conv)
	arch := archive.NewEngine(kv, conv, bus, log)
	rec := analytics.NewRecorder(kv, log)

	a := &App{
		config:    c,
		kv:        kv,
		bus:       bus,
		log:       log,
		conv:      conv,
		folders:   fold,
		archive:   arch,
		analytics: rec,
		router:    provider.NewRouter(),
		reader:    bufio.NewReader(os.Stdin),
	}
	a.registerSenders(ctx)

	if _, err := rec.StartSession(ctx); err != nil {
		log.Warn(ctx, "could not start usage session", "error", err)
	}

	return a, nil
}

// registerSenders wires one sender per configured API key. A missing key only
// disables that provider; simulated sends always work.
func (a *App) registerSenders(ctx context.Context) {
	if s, err := provider.NewOpenAISender(a.config.OpenAIKey, ""); err == nil {
		a.router.Register("openai", s)
	} else {
		a.log.Warn(ctx, "openai disabled", "error", err)
	}
	if s, err := provider.NewAnthropicSender(a.config.AnthropicKey, ""); err == nil {
		a.router.Register("anthropic", s)
	} else {
		a.log.Warn(ctx, "anthropic disabled", "error", err)
	}
	if s, err := provider.NewOpenAISender(a.config.PerplexityKey, a.config.PerplexityBaseURL); err == nil {
		a.router.Register("perplexity", s)
	} else {
		a.log.Warn(ctx, "perplexity disabled", "error", err)
	}
}

// getStatus renders the prompt suffix: the active conversation's title, if any.
func (a *App) getStatus(ctx context.Context) string {
	id := a.conv.Current(ctx)
	if id == "" {
		return ""
	}
	c, err := a.conv.Get(ctx, id)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("(%s)", c.Title)
}

func (a *App) Run(ctx context.Context) {
	defer a.kv.Close()

	printlnFn("Welcome to ChatVault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, scanner)
}

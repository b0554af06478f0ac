package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/chatvault/internal/client/analytics"
	"github.com/dmitrijs2005/chatvault/internal/client/models"
	"github.com/dmitrijs2005/chatvault/internal/client/provider"
	"github.com/google/uuid"
)

// Send appends the user's text to the active conversation (creating one if
// needed), asks the configured provider for a reply, persists both messages,
// and records a usage metric. A provider failure leaves the user message
// saved so the exchange can be retried.
func (a *App) Send(ctx context.Context, text string) error {
	conv, err := a.conv.GetOrCreate(ctx, text)
	if err != nil {
		a.log.Error(ctx, "error resolving conversation", "error", err)
		return err
	}

	model := models.ModelInfo{
		ID:       a.config.DefaultModel,
		Provider: a.config.DefaultProvider,
		Name:     a.config.DefaultModel,
	}
	simulated := a.config.DefaultProvider == "simulated"

	msgs := a.conv.Messages(ctx, conv.ID)
	userMsg := models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}
	msgs = append(msgs, userMsg)

	history := make([]provider.ApiMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, provider.ApiMessage{Role: m.Role, Content: m.Content})
	}

	req := provider.Request{
		Message:          text,
		Model:            model,
		Temperature:      a.config.Temperature,
		SimulateResponse: simulated,
		History:          history,
	}

	started := time.Now()
	reply, err := a.router.Send(ctx, req)
	elapsed := time.Since(started)

	if err != nil {
		a.log.Error(ctx, "send failed", "provider", model.Provider, "error", err)
		if _, saveErr := a.conv.Save(ctx, *conv, msgs); saveErr != nil {
			a.log.Error(ctx, "could not save conversation", "error", saveErr)
		}
		return err
	}

	msgs = append(msgs, models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
		Model:     &model,
	})

	if _, err := a.conv.Save(ctx, *conv, msgs); err != nil {
		a.log.Error(ctx, "could not save conversation", "error", err)
		return err
	}

	if err := a.analytics.Record(ctx, analytics.MessageMetric{
		Timestamp:      time.Now(),
		Model:          model.ID,
		Provider:       model.Provider,
		MessageLength:  len(text),
		ResponseLength: len(reply),
		ResponseTimeMs: elapsed.Milliseconds(),
		Temperature:    a.config.Temperature,
		Simulated:      simulated,
	}); err != nil {
		a.log.Warn(ctx, "could not record usage metric", "error", err)
	}

	printlnFn(reply)
	return nil
}

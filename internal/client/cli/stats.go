package cli

import (
	"context"
	"fmt"
)

func (a *App) Stats(ctx context.Context) error {
	s := a.conv.AggregateStats(ctx)
	printlnFn(fmt.Sprintf("Conversations: %d, messages: %d", s.TotalConversations, s.TotalMessages))
	if s.OldestConversation != nil {
		printlnFn("Oldest:", s.OldestConversation.Format("2006-01-02 15:04"))
	}
	if s.NewestConversation != nil {
		printlnFn("Newest:", s.NewestConversation.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *App) Usage(ctx context.Context) error {
	u := a.analytics.CalculateUsageStats(ctx)
	printlnFn(fmt.Sprintf("Messages: %d (%d simulated, %d regenerated)",
		u.TotalMessages, u.SimulatedMessages, u.RegeneratedCount))
	printlnFn(fmt.Sprintf("Avg lengths: prompt %.0f, response %.0f; avg response time %.0f ms",
		u.AvgMessageLength, u.AvgResponseLength, u.AvgResponseTimeMs))
	for name, n := range u.MessagesByProvider {
		printlnFn(fmt.Sprintf("  %-12s %d", name, n))
	}
	for _, m := range u.MessagesByModel {
		printlnFn(fmt.Sprintf("  %-24s %d", m.Model, m.Messages))
	}
	if sess := a.analytics.CurrentSession(ctx); sess != nil {
		printlnFn(fmt.Sprintf("Session %s: %d messages since %s",
			sess.ID, sess.MessageCount, sess.StartedAt.Format("15:04:05")))
	}
	return nil
}

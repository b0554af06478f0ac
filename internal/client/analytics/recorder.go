// Package analytics keeps the append-only usage log and derives statistics
// from it. The log lives next to the chat data in the same key-value store
// but never mixes with it: losing analytics must never endanger history.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/chatvault/internal/client/models"
	"github.com/dmitrijs2005/chatvault/internal/client/storage"
	"github.com/dmitrijs2005/chatvault/internal/common"
	"github.com/dmitrijs2005/chatvault/internal/logging"
	"github.com/google/uuid"
)

const (
	LogKey     = "usage-analytics"
	SessionKey = "current-session"

	// maxEntries caps the log; the oldest entries are evicted first.
	maxEntries = 10_000

	// histogramDays is the span of the daily histogram.
	histogramDays = 30
)

// MessageMetric is one exchange with a provider.
type MessageMetric struct {
	Timestamp      time.Time `json:"timestamp"`
	Model          string    `json:"model"`
	Provider       string    `json:"provider"`
	MessageLength  int       `json:"message_length"`
	ResponseLength int       `json:"response_length"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	Temperature    float64   `json:"temperature"`
	Regenerated    bool      `json:"regenerated,omitempty"`
	Simulated      bool      `json:"simulated,omitempty"`
}

// ModelUsage aggregates one model's share of the log.
type ModelUsage struct {
	Model    string
	Provider string
	Messages int
}

// DailyUsage is one bucket of the last-30-days histogram.
type DailyUsage struct {
	Date     string // "2006-01-02"
	Messages int
}

// UsageStats is recomputed on demand by a full scan of the capped log.
type UsageStats struct {
	TotalMessages      int
	SimulatedMessages  int
	RegeneratedCount   int
	AvgMessageLength   float64
	AvgResponseLength  float64
	AvgResponseTimeMs  float64
	MessagesByProvider map[string]int
	MessagesByModel    map[string]ModelUsage
	Daily              []DailyUsage
}

// Recorder appends metrics and maintains the current session record.
type Recorder struct {
	kv  storage.Store
	log logging.Logger

	now   func() time.Time
	newID func() string
}

func NewRecorder(kv storage.Store, log logging.Logger) *Recorder {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Recorder{kv: kv, log: log, now: time.Now, newID: uuid.NewString}
}

// Record appends one metric, evicting the oldest entries beyond the cap, and
// bumps the current session's message count when a session is open.
func (r *Recorder) Record(ctx context.Context, m MessageMetric) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = r.now()
	}

	metrics := append(r.Metrics(ctx), m)
	if n := len(metrics) - maxEntries; n > 0 {
		metrics = metrics[n:]
	}

	data, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	if err := r.kv.Set(ctx, LogKey, data); err != nil {
		return fmt.Errorf("failed to persist metrics: %w", err)
	}

	if sess := r.CurrentSession(ctx); sess != nil {
		sess.MessageCount++
		if err := r.writeSession(ctx, sess); err != nil {
			r.log.Warn(ctx, "failed to update session", "error", err)
		}
	}
	return nil
}

// Metrics returns the whole log, oldest first. Fail-soft: corrupt data
// degrades to an empty log.
func (r *Recorder) Metrics(ctx context.Context) []MessageMetric {
	data, err := r.kv.Get(ctx, LogKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			r.log.Error(ctx, "failed to read usage log", "error", err)
		}
		return nil
	}

	var metrics []MessageMetric
	if err := json.Unmarshal(data, &metrics); err != nil {
		r.log.Error(ctx, "corrupt usage log, treating as empty", "error", err)
		return nil
	}
	return metrics
}

// CalculateUsageStats derives the aggregate view. Never cached; the capped
// log keeps the scan small.
func (r *Recorder) CalculateUsageStats(ctx context.Context) UsageStats {
	stats := UsageStats{
		MessagesByProvider: make(map[string]int),
		MessagesByModel:    make(map[string]ModelUsage),
	}

	cutoff := r.now().AddDate(0, 0, -histogramDays)
	daily := make(map[string]int)

	var msgChars, respChars, respTime int64
	for _, m := range r.Metrics(ctx) {
		stats.TotalMessages++
		if m.Simulated {
			stats.SimulatedMessages++
		}
		if m.Regenerated {
			stats.RegeneratedCount++
		}
		msgChars += int64(m.MessageLength)
		respChars += int64(m.ResponseLength)
		respTime += m.ResponseTimeMs

		stats.MessagesByProvider[m.Provider]++
		mu := stats.MessagesByModel[m.Model]
		mu.Model = m.Model
		mu.Provider = m.Provider
		mu.Messages++
		stats.MessagesByModel[m.Model] = mu

		if m.Timestamp.After(cutoff) {
			daily[m.Timestamp.Format("2006-01-02")]++
		}
	}

	if stats.TotalMessages > 0 {
		n := float64(stats.TotalMessages)
		stats.AvgMessageLength = float64(msgChars) / n
		stats.AvgResponseLength = float64(respChars) / n
		stats.AvgResponseTimeMs = float64(respTime) / n
	}

	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		stats.Daily = append(stats.Daily, DailyUsage{Date: d, Messages: daily[d]})
	}
	return stats
}

// StartSession opens a fresh session record, replacing any previous one.
func (r *Recorder) StartSession(ctx context.Context) (*models.UsageSession, error) {
	sess := &models.UsageSession{ID: r.newID(), StartedAt: r.now()}
	if err := r.writeSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// CurrentSession returns the open session or nil.
func (r *Recorder) CurrentSession(ctx context.Context) *models.UsageSession {
	data, err := r.kv.Get(ctx, SessionKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			r.log.Error(ctx, "failed to read session", "error", err)
		}
		return nil
	}

	var sess models.UsageSession
	if err := json.Unmarshal(data, &sess); err != nil {
		r.log.Error(ctx, "corrupt session record, discarding", "error", err)
		return nil
	}
	return &sess
}

func (r *Recorder) writeSession(ctx context.Context, sess *models.UsageSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.kv.Set(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

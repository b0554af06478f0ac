// Package archive implements the portable export/import of the whole chat
// history: a single JSON snapshot of every conversation and its messages,
// and the merge logic applied when a snapshot is imported over an existing
// store.
//
// Import never writes before the snapshot passed structural validation, and
// writes everything through one storage batch with a single update event at
// the end, so subscribers re-read once instead of once per conversation.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"context"

	"github.com/dmitrijs2005/chatvault/internal/client/conversations"
	"github.com/dmitrijs2005/chatvault/internal/client/events"
	"github.com/dmitrijs2005/chatvault/internal/client/models"
	"github.com/dmitrijs2005/chatvault/internal/client/storage"
	"github.com/dmitrijs2005/chatvault/internal/common"
	"github.com/dmitrijs2005/chatvault/internal/logging"
	"github.com/google/uuid"
)

// Version identifies the current export file format.
const Version = "2.0"

// Snapshot is the export file. A legacy file carrying only the conversations
// and messages keys is accepted on import.
type Snapshot struct {
	Version       string                      `json:"version"`
	ExportDate    time.Time                   `json:"exportDate"`
	Conversations []models.Conversation       `json:"conversations"`
	Messages      map[string][]models.Message `json:"messages"`
	Metadata      Metadata                    `json:"metadata"`
}

type Metadata struct {
	TotalConversations int `json:"totalConversations"`
	TotalMessages      int `json:"totalMessages"`
}

// Strategy decides what happens to conversations whose id already exists in
// the store.
type Strategy string

const (
	// StrategySkip drops conflicting ids; only new ids are added.
	StrategySkip Strategy = "skip"
	// StrategyReplace overwrites the existing conversation and its messages.
	StrategyReplace Strategy = "replace"
	// StrategyRename imports conflicting conversations under fresh ids, so
	// both versions survive.
	StrategyRename Strategy = "rename"
)

// Result reports what an import did. Imported counts brand-new ids only.
type Result struct {
	Imported int
	Skipped  int
	Replaced int
	Renamed  int
}

// Engine produces and consumes snapshots against a conversation store.
type Engine struct {
	kv   storage.Store
	conv *conversations.Store
	bus  *events.Bus
	log  logging.Logger

	now   func() time.Time
	newID func() string
}

func NewEngine(kv storage.Store, conv *conversations.Store, bus *events.Bus, log logging.Logger) *Engine {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Engine{
		kv:    kv,
		conv:  conv,
		bus:   bus,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Export materializes the full store into a snapshot. The whole history is
// held in memory; this is a personal archive, not a multi-tenant export.
func (e *Engine) Export(ctx context.Context) *Snapshot {
	index := e.conv.List(ctx)

	snap := &Snapshot{
		Version:       Version,
		ExportDate:    e.now(),
		Conversations: index,
		Messages:      make(map[string][]models.Message, len(index)),
	}

	total := 0
	for _, c := range index {
		msgs := e.conv.Messages(ctx, c.ID)
		if msgs == nil {
			msgs = []models.Message{}
		}
		snap.Messages[c.ID] = msgs
		total += len(msgs)
	}

	snap.Metadata = Metadata{
		TotalConversations: len(index),
		TotalMessages:      total,
	}
	return snap
}

// ExportToFile writes the snapshot as indented JSON.
func (e *Engine) ExportToFile(ctx context.Context, path string) error {
	data, err := json.MarshalIndent(e.Export(ctx), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Parse validates and decodes an uploaded snapshot. The only structural
// requirement is the presence of the conversations and messages keys; any
// other shape is rejected before a single write happens.
func Parse(data []byte) (*Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInvalidArchive, err)
	}
	if _, ok := probe["conversations"]; !ok {
		return nil, fmt.Errorf("%w: missing conversations", common.ErrorInvalidArchive)
	}
	if _, ok := probe["messages"]; !ok {
		return nil, fmt.Errorf("%w: missing messages", common.ErrorInvalidArchive)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInvalidArchive, err)
	}
	return &snap, nil
}

// Conflicts returns the conversation ids present both in the snapshot and in
// the existing store. An empty result means the import degenerates to a pure
// merge and needs no strategy decision from the user.
func (e *Engine) Conflicts(ctx context.Context, snap *Snapshot) []string {
	existing := e.indexIDs(ctx)
	var out []string
	for _, c := range snap.Conversations {
		if _, ok := existing[c.ID]; ok {
			out = append(out, c.ID)
		}
	}
	return out
}

// Import merges the snapshot into the store using the given strategy. All
// writes land in one batch; exactly one ConversationUpdated event follows.
func (e *Engine) Import(ctx context.Context, snap *Snapshot, strategy Strategy) (Result, error) {
	var res Result

	index := e.conv.List(ctx)
	position := make(map[string]int, len(index))
	for i, c := range index {
		position[c.ID] = i
	}

	batch := storage.NewBatch()

	for _, c := range snap.Conversations {
		msgs := snap.Messages[c.ID]

		at, conflict := position[c.ID]
		if conflict {
			switch strategy {
			case StrategyReplace:
				index[at] = c
				res.Replaced++
			case StrategyRename:
				c.ID = e.newID()
				index = append(index, c)
				res.Renamed++
			default:
				res.Skipped++
				continue
			}
		} else {
			index = append(index, c)
			position[c.ID] = len(index) - 1
			res.Imported++
		}

		data, err := models.EncodeMessages(msgs)
		if err != nil {
			return Result{}, fmt.Errorf("failed to encode messages: %w", err)
		}
		batch.Set(conversations.MessagesKey(c.ID), data)
	}

	conversations.SortByRecency(index)
	indexData, err := models.EncodeConversations(index)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode index: %w", err)
	}
	batch.Set(conversations.IndexKey, indexData)

	if err := e.kv.Apply(ctx, batch); err != nil {
		return Result{}, fmt.Errorf("failed to apply import: %w", err)
	}

	e.log.Info(ctx, "import applied",
		"imported", res.Imported, "skipped", res.Skipped,
		"replaced", res.Replaced, "renamed", res.Renamed)
	if e.bus != nil {
		e.bus.Publish(events.Event{Kind: events.ConversationUpdated})
	}
	return res, nil
}

// ImportFromFile reads, parses and imports a snapshot file.
func (e *Engine) ImportFromFile(ctx context.Context, path string, strategy Strategy) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read file: %w", err)
	}
	snap, err := Parse(data)
	if err != nil {
		return Result{}, err
	}
	return e.Import(ctx, snap, strategy)
}

func (e *Engine) indexIDs(ctx context.Context) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, c := range e.conv.List(ctx) {
		ids[c.ID] = struct{}{}
	}
	return ids
}

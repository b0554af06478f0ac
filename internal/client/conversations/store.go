// Package conversations implements the conversation store: CRUD over the
// conversation index and the per-conversation message blobs, the current
// conversation pointer, search, and stats.
//
// The index and a conversation's messages are always written through one
// storage batch, so the two keys cannot diverge on a torn write. Every
// mutation publishes an event; subscribers re-read the store in response.
package conversations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatvault/internal/client/events"
	"github.com/dmitrijs2005/chatvault/internal/client/models"
	"github.com/dmitrijs2005/chatvault/internal/client/storage"
	"github.com/dmitrijs2005/chatvault/internal/common"
	"github.com/dmitrijs2005/chatvault/internal/logging"
	"github.com/google/uuid"
)

// Persisted keys. The message list of a conversation lives under its own
// key, separate from the index.
const (
	IndexKey          = "conversations"
	CurrentKey        = "current-conversation"
	messagesKeyPrefix = "messages-"
)

// MessagesKey returns the storage key of a conversation's message blob.
func MessagesKey(conversationID string) string {
	return messagesKeyPrefix + conversationID
}

// previewRunes caps the denormalized last-message preview kept in the index.
const previewRunes = 100

// Stats is the aggregate view over the whole index.
type Stats struct {
	TotalConversations int
	TotalMessages      int
	OldestConversation *time.Time
	NewestConversation *time.Time
}

// Store owns the conversations collection. All reads go straight to the
// key-value store; there is no in-memory cache.
type Store struct {
	kv  storage.Store
	bus *events.Bus
	log logging.Logger

	now   func() time.Time
	newID func() string
}

func NewStore(kv storage.Store, bus *events.Bus, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{
		kv:    kv,
		bus:   bus,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// List returns every conversation, newest activity first. It never fails:
// corrupt or unreadable data degrades to an empty list and a log line.
func (s *Store) List(ctx context.Context) []models.Conversation {
	return s.readIndex(ctx)
}

// Get returns the index entry for id or common.ErrorNotFound.
func (s *Store) Get(ctx context.Context, id string) (*models.Conversation, error) {
	for _, c := range s.readIndex(ctx) {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

// Messages returns the ordered message list of a conversation, or an empty
// list when none is stored. Same fail-soft contract as List.
func (s *Store) Messages(ctx context.Context, conversationID string) []models.Message {
	data, err := s.kv.Get(ctx, MessagesKey(conversationID))
	if err != nil {
		if !isNotFound(err) {
			s.log.Error(ctx, "failed to read messages", "conversation_id", conversationID, "error", err)
		}
		return nil
	}

	msgs, err := models.DecodeMessages(data)
	if err != nil {
		s.log.Error(ctx, "corrupt message blob, treating as empty", "conversation_id", conversationID, "error", err)
		return nil
	}
	return msgs
}

// Create allocates a new conversation, inserts it at the front of the index,
// makes it current, and publishes ConversationCreated. With initial text the
// title is derived from it; otherwise the placeholder is used.
func (s *Store) Create(ctx context.Context, initialText string) (*models.Conversation, error) {
	now := s.now()
	conv := models.Conversation{
		ID:        s.newID(),
		Title:     DeriveTitle(initialText),
		CreatedAt: now,
		UpdatedAt: now,
	}

	index := append([]models.Conversation{conv}, s.readIndex(ctx)...)

	data, err := models.EncodeConversations(index)
	if err != nil {
		return nil, fmt.Errorf("failed to encode index: %w", err)
	}

	batch := storage.NewBatch().
		Set(IndexKey, data).
		Set(CurrentKey, []byte(conv.ID))
	if err := s.kv.Apply(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to persist conversation: %w", err)
	}

	s.publish(events.Event{Kind: events.ConversationCreated, ConversationID: conv.ID})
	return &conv, nil
}

// Save upserts the conversation and its full message list. Denormalized
// fields are recomputed here; the title is re-derived from the first user
// message while it still carries the placeholder. This is the only write
// path for message content.
func (s *Store) Save(ctx context.Context, conv models.Conversation, msgs []models.Message) (*models.Conversation, error) {
	conv.MessageCount = len(msgs)
	conv.LastMessage = ""
	conv.LastMessageAt = nil
	if len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		conv.LastMessage = preview(last.Content)
		at := last.Timestamp
		conv.LastMessageAt = &at
	}

	if conv.Title == DefaultTitle {
		for _, m := range msgs {
			if m.Role == models.RoleUser {
				conv.Title = DeriveTitle(m.Content)
				break
			}
		}
	}

	conv.UpdatedAt = s.now()

	index := s.readIndex(ctx)
	replaced := false
	for i := range index {
		if index[i].ID == conv.ID {
			index[i] = conv
			replaced = true
			break
		}
	}
	if !replaced {
		index = append(index, conv)
	}
	SortByRecency(index)

	indexData, err := models.EncodeConversations(index)
	if err != nil {
		return nil, fmt.Errorf("failed to encode index: %w", err)
	}
	msgData, err := models.EncodeMessages(msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode messages: %w", err)
	}

	batch := storage.NewBatch().
		Set(IndexKey, indexData).
		Set(MessagesKey(conv.ID), msgData)
	if err := s.kv.Apply(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to persist conversation: %w", err)
	}

	s.publish(events.Event{Kind: events.ConversationUpdated, ConversationID: conv.ID})
	return &conv, nil
}

// Delete removes the conversation and its message blob. When the deleted
// conversation was current, the pointer moves to the most recently updated
// remaining conversation (or is cleared); the replacement id travels in the
// event payload so subscribers can switch views without a re-query.
func (s *Store) Delete(ctx context.Context, id string) error {
	index := s.readIndex(ctx)
	remaining := make([]models.Conversation, 0, len(index))
	for _, c := range index {
		if c.ID != id {
			remaining = append(remaining, c)
		}
	}

	data, err := models.EncodeConversations(remaining)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	batch := storage.NewBatch().
		Set(IndexKey, data).
		Delete(MessagesKey(id))

	replacement := ""
	if s.Current(ctx) == id {
		if len(remaining) > 0 {
			replacement = remaining[0].ID
			batch.Set(CurrentKey, []byte(replacement))
		} else {
			batch.Delete(CurrentKey)
		}
	}

	if err := s.kv.Apply(ctx, batch); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	s.publish(events.Event{Kind: events.ConversationDeleted, ConversationID: id, Data: replacement})
	return nil
}

// DeleteAll removes every conversation, every message blob and the current
// pointer, then publishes ConversationsCleared.
func (s *Store) DeleteAll(ctx context.Context) error {
	batch := storage.NewBatch()
	for _, c := range s.readIndex(ctx) {
		batch.Delete(MessagesKey(c.ID))
	}
	batch.Delete(IndexKey).Delete(CurrentKey)

	if err := s.kv.Apply(ctx, batch); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}

	s.publish(events.Event{Kind: events.ConversationsCleared})
	return nil
}

// Rename sets a new title regardless of the placeholder rule.
func (s *Store) Rename(ctx context.Context, id, title string) (*models.Conversation, error) {
	return s.updateOne(ctx, id, func(c *models.Conversation) bool {
		c.Title = title
		return true
	})
}

// ToggleFavorite flips the favorite flag.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (*models.Conversation, error) {
	return s.updateOne(ctx, id, func(c *models.Conversation) bool {
		c.IsFavorite = !c.IsFavorite
		return true
	})
}

// TogglePin flips the pinned flag.
func (s *Store) TogglePin(ctx context.Context, id string) (*models.Conversation, error) {
	return s.updateOne(ctx, id, func(c *models.Conversation) bool {
		c.IsPinned = !c.IsPinned
		return true
	})
}

// AddTag adds a tag once; adding a tag the conversation already has changes
// nothing and publishes nothing.
func (s *Store) AddTag(ctx context.Context, id, tag string) (*models.Conversation, error) {
	return s.updateOne(ctx, id, func(c *models.Conversation) bool {
		for _, t := range c.Tags {
			if t == tag {
				return false
			}
		}
		c.Tags = append(c.Tags, tag)
		return true
	})
}

// RemoveTag removes a tag; removing an absent tag is a no-op.
func (s *Store) RemoveTag(ctx context.Context, id, tag string) (*models.Conversation, error) {
	return s.updateOne(ctx, id, func(c *models.Conversation) bool {
		for i, t := range c.Tags {
			if t == tag {
				c.Tags = append(c.Tags[:i], c.Tags[i+1:]...)
				return true
			}
		}
		return false
	})
}

// MoveToFolder files the conversation under folderID; empty means root.
func (s *Store) MoveToFolder(ctx context.Context, id, folderID string) (*models.Conversation, error) {
	return s.updateOne(ctx, id, func(c *models.Conversation) bool {
		c.FolderID = folderID
		return true
	})
}

// DetachFolder clears FolderID on every conversation filed under folderID.
// Used as the repair step when a folder is deleted. Returns the number of
// conversations touched; a single ConversationUpdated event covers them all.
func (s *Store) DetachFolder(ctx context.Context, folderID string) (int, error) {
	index := s.readIndex(ctx)
	touched := 0
	now := s.now()
	for i := range index {
		if index[i].FolderID == folderID {
			index[i].FolderID = ""
			index[i].UpdatedAt = now
			touched++
		}
	}
	if touched == 0 {
		return 0, nil
	}
	SortByRecency(index)

	if err := s.writeIndex(ctx, index); err != nil {
		return 0, err
	}
	s.publish(events.Event{Kind: events.ConversationUpdated})
	return touched, nil
}

// Current returns the id of the active conversation, or "" when none is set.
func (s *Store) Current(ctx context.Context) string {
	data, err := s.kv.Get(ctx, CurrentKey)
	if err != nil {
		if !isNotFound(err) {
			s.log.Error(ctx, "failed to read current pointer", "error", err)
		}
		return ""
	}
	return string(data)
}

// SetCurrent switches the active conversation. Setting the already-current
// id neither writes nor publishes; otherwise ConversationSwitched carries
// the previous id in the payload.
func (s *Store) SetCurrent(ctx context.Context, id string) error {
	prev := s.Current(ctx)
	if prev == id {
		return nil
	}
	if err := s.kv.Set(ctx, CurrentKey, []byte(id)); err != nil {
		return fmt.Errorf("failed to set current conversation: %w", err)
	}
	s.publish(events.Event{Kind: events.ConversationSwitched, ConversationID: id, Data: prev})
	return nil
}

// GetOrCreate returns the current conversation if it still exists, and
// creates a fresh one otherwise. This is the single entry point used before
// sending a message, so every message lands in some conversation.
func (s *Store) GetOrCreate(ctx context.Context, initialText string) (*models.Conversation, error) {
	if cur := s.Current(ctx); cur != "" {
		if conv, err := s.Get(ctx, cur); err == nil {
			return conv, nil
		}
	}
	return s.Create(ctx, initialText)
}

// Search returns conversations whose title or id contains the query,
// case-insensitively. No ranking; callers order results themselves.
func (s *Store) Search(ctx context.Context, query string) []models.Conversation {
	q := strings.ToLower(query)
	var out []models.Conversation
	for _, c := range s.readIndex(ctx) {
		if strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(c.ID), q) {
			out = append(out, c)
		}
	}
	return out
}

// AggregateStats computes totals by a full index scan. Message totals come
// from the denormalized counts, so no blob is loaded.
func (s *Store) AggregateStats(ctx context.Context) Stats {
	var st Stats
	for _, c := range s.readIndex(ctx) {
		st.TotalConversations++
		st.TotalMessages += c.MessageCount
		created := c.CreatedAt
		if st.OldestConversation == nil || created.Before(*st.OldestConversation) {
			t := created
			st.OldestConversation = &t
		}
		if st.NewestConversation == nil || created.After(*st.NewestConversation) {
			t := created
			st.NewestConversation = &t
		}
	}
	return st
}

// updateOne locates a conversation, applies mutate, and persists when mutate
// reports a change. UpdatedAt is bumped and the index re-sorted on change.
func (s *Store) updateOne(ctx context.Context, id string, mutate func(*models.Conversation) bool) (*models.Conversation, error) {
	index := s.readIndex(ctx)
	for i := range index {
		if index[i].ID != id {
			continue
		}
		if !mutate(&index[i]) {
			c := index[i]
			return &c, nil
		}
		index[i].UpdatedAt = s.now()
		updated := index[i]
		SortByRecency(index)

		if err := s.writeIndex(ctx, index); err != nil {
			return nil, err
		}
		s.publish(events.Event{Kind: events.ConversationUpdated, ConversationID: id})
		return &updated, nil
	}
	return nil, common.ErrorNotFound
}

func (s *Store) readIndex(ctx context.Context) []models.Conversation {
	data, err := s.kv.Get(ctx, IndexKey)
	if err != nil {
		if !isNotFound(err) {
			s.log.Error(ctx, "failed to read conversation index", "error", err)
		}
		return nil
	}

	index, err := models.DecodeConversations(data)
	if err != nil {
		s.log.Error(ctx, "corrupt conversation index, treating as empty", "error", err)
		return nil
	}
	SortByRecency(index)
	return index
}

func (s *Store) writeIndex(ctx context.Context, index []models.Conversation) error {
	data, err := models.EncodeConversations(index)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := s.kv.Set(ctx, IndexKey, data); err != nil {
		return fmt.Errorf("failed to persist index: %w", err)
	}
	return nil
}

func (s *Store) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// SortByRecency orders index entries newest activity first. The archive
// engine reuses it after a merge.
func SortByRecency(index []models.Conversation) {
	sort.SliceStable(index, func(i, j int) bool {
		return index[i].UpdatedAt.After(index[j].UpdatedAt)
	})
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewRunes {
		return content
	}
	return string(runes[:previewRunes]) + "..."
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}

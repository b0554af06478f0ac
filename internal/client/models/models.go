// Package models defines the client-side data models persisted by the
// ChatVault stores, plus the JSON codec used at every storage boundary.
package models

import "time"

// Message roles. System messages carry client-side error notices, not
// provider system prompts.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ModelInfo is a snapshot of the AI model a message was produced with. It is
// persisted with the message so history stays readable even after the model
// disappears from the catalog.
type ModelInfo struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

// Attachment is a file attached to a message. Attachments ride along in the
// message blob; nothing in the stores interprets them.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Data     []byte `json:"data,omitempty"`
}

// Message is a single chat message. Messages are stored as an ordered array
// per conversation; array position is the conversation order.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	Model             *ModelInfo   `json:"model,omitempty"`
	RegenerationCount int          `json:"regeneration_count,omitempty"`
	Attachments       []Attachment `json:"attachments,omitempty"`
}

// Conversation is an index entry. The message list lives in a separate blob
// keyed by the conversation id; MessageCount, LastMessage and LastMessageAt
// are denormalized at save time so list views never load the full blob.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FolderID    string   `json:"folder_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IsFavorite  bool     `json:"is_favorite"`
	IsPinned    bool     `json:"is_pinned"`
	Description string   `json:"description,omitempty"`
	Color       string   `json:"color,omitempty"`

	MessageCount  int        `json:"message_count"`
	LastMessage   string     `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// Folder groups conversations. ParentID allows nesting; IsExpanded is UI
// state persisted for convenience.
type Folder struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
	IsExpanded  bool   `json:"is_expanded"`
}

// UsageSession is the record kept under the current-session key.
type UsageSession struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	MessageCount int       `json:"message_count"`
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_ConversationRoundTrip(t *testing.T) {
	lastAt := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	in := []Conversation{
		{
			ID:            "c1",
			Title:         "Explain recursion",
			CreatedAt:     time.Date(2025, 3, 14, 9, 26, 53, 123_000_000, time.UTC),
			UpdatedAt:     lastAt,
			FolderID:      "f1",
			Tags:          []string{"go", "interview"},
			IsFavorite:    true,
			IsPinned:      false,
			MessageCount:  4,
			LastMessage:   "Sure, a function that calls itself…",
			LastMessageAt: &lastAt,
		},
		{ID: "c2", Title: "New conversation", CreatedAt: lastAt, UpdatedAt: lastAt},
	}

	data, err := EncodeConversations(in)
	require.NoError(t, err)

	out, err := DecodeConversations(data)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.Equal(t, in[0].Tags, out[0].Tags)
	assert.True(t, in[0].CreatedAt.Equal(out[0].CreatedAt), "created_at must survive to the millisecond")
	require.NotNil(t, out[0].LastMessageAt)
	assert.True(t, lastAt.Equal(*out[0].LastMessageAt))
	assert.Equal(t, in[1], out[1])
}

func TestCodec_MessageRoundTrip(t *testing.T) {
	in := []Message{
		{
			ID:        "m1",
			Role:      RoleUser,
			Content:   "hello",
			Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 678_000_000, time.UTC),
		},
		{
			ID:                "m2",
			Role:              RoleAssistant,
			Content:           "hi",
			Timestamp:         time.Date(2025, 1, 2, 3, 4, 9, 0, time.UTC),
			Model:             &ModelInfo{ID: "gpt-4o-mini", Provider: "openai", Name: "GPT-4o mini"},
			RegenerationCount: 2,
			Attachments:       []Attachment{{Name: "notes.txt", MimeType: "text/plain", Size: 12}},
		},
	}

	data, err := EncodeMessages(in)
	require.NoError(t, err)

	out, err := DecodeMessages(data)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, in[0].Timestamp.Equal(out[0].Timestamp))
	assert.Equal(t, in[1].Model, out[1].Model)
	assert.Equal(t, in[1].Attachments, out[1].Attachments)
	assert.Equal(t, 2, out[1].RegenerationCount)
}

func TestCodec_NilEncodesAsEmptyArray(t *testing.T) {
	data, err := EncodeFolders(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCodec_EmptyInputDecodesAsNil(t *testing.T) {
	out, err := DecodeMessages(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCodec_CorruptInputReturnsError(t *testing.T) {
	_, err := DecodeConversations([]byte(`{"not":"an array"`))
	assert.Error(t, err)
}

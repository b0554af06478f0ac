package models

import "encoding/json"

// The codec keeps every collection at rest as a plain JSON array. time.Time
// fields round-trip through RFC 3339 with full fractional seconds, so
// timestamps survive to the millisecond and beyond.

func encodeList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func decodeList[T any](data []byte) ([]T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func EncodeConversations(items []Conversation) ([]byte, error) { return encodeList(items) }
func DecodeConversations(data []byte) ([]Conversation, error)  { return decodeList[Conversation](data) }

func EncodeMessages(items []Message) ([]byte, error) { return encodeList(items) }
func DecodeMessages(data []byte) ([]Message, error)  { return decodeList[Message](data) }

func EncodeFolders(items []Folder) ([]byte, error) { return encodeList(items) }
func DecodeFolders(data []byte) ([]Folder, error)  { return decodeList[Folder](data) }

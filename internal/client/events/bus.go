// Package events implements the in-process notification channel the stores
// publish to and UI components subscribe to.
//
// Delivery is synchronous and best-effort: no queueing, no replay for late
// subscribers, nothing survives a restart. Subscribers treat the payload as
// a hint to re-read the store, never as the authoritative new state.
package events

import "sync"

// Kind names one notification channel. Conversation and folder events are
// distinct channels.
type Kind string

const (
	ConversationCreated  Kind = "conversation.created"
	ConversationUpdated  Kind = "conversation.updated"
	ConversationDeleted  Kind = "conversation.deleted"
	ConversationSwitched Kind = "conversation.switched"
	ConversationsCleared Kind = "conversation.cleared"

	FolderCreated  Kind = "folder.created"
	FolderUpdated  Kind = "folder.updated"
	FolderDeleted  Kind = "folder.deleted"
	FolderExpanded Kind = "folder.expanded"
)

// Event is the payload handed to subscribers. ConversationID and Data are
// advisory context; subscribers must tolerate both being empty.
type Event struct {
	Kind           Kind
	ConversationID string
	Data           any
}

type Handler func(Event)

// Bus is an explicit, injectable publish/subscribe object. A zero number of
// subscribers is fine; publishing is then a no-op.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Kind]map[int]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Kind]map[int]Handler)}
}

// Subscribe registers h for the given kind and returns a function that
// removes the subscription. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(kind Kind, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[kind] == nil {
		b.subs[kind] = make(map[int]Handler)
	}
	b.subs[kind][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[kind], id)
	}
}

// Publish invokes every handler subscribed to e.Kind, synchronously, on the
// caller's goroutine. The handler list is snapshotted first, so handlers may
// subscribe or unsubscribe during delivery.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[e.Kind]))
	for _, h := range b.subs[e.Kind] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}

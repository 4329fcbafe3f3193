package core

import "github.com/vodachat/voda-server/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRegistered confirms a successful registration.
	EventRegistered EventKind = iota
	// EventLoginSuccess confirms a successful login.
	EventLoginSuccess
	// EventUserFound answers a search for an existing user.
	EventUserFound
	// EventUserNotFound answers a search for an unknown id.
	EventUserNotFound
	// EventNewMessage delivers a relayed message to sender and recipient.
	EventNewMessage
	// EventHistory delivers a conversation replay.
	EventHistory
	// EventOnlineList delivers a presence snapshot.
	EventOnlineList
	// EventError notifies the client about a request-level fault.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	User     *store.User
	Message  *store.Message
	Messages []*store.Message // for EventHistory
	Online   []string         // for EventOnlineList
	Error    *CoreError       // for EventError
}

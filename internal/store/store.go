package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a lookup misses.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when inserting a user whose id already exists.
	ErrDuplicateID = errors.New("duplicate user id")
)

// User is a directory record. The id is immutable once assigned.
type User struct {
	ID          string
	DisplayName string
	Photo       string
	CreatedAt   time.Time
}

// Message is one entry of the append-only message log.
type Message struct {
	ID        int64
	From      string
	To        string
	Body      string
	CreatedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser inserts a new user record. Returns ErrDuplicateID if the id
	// is already taken.
	CreateUser(ctx context.Context, id, displayName, photo string) (*User, error)

	// GetUserByID retrieves a user. Returns ErrNotFound for unknown ids.
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// MessageStore handles the message log.
type MessageStore interface {
	// AppendMessage assigns the next id, persists the message and returns it.
	// Id assignment and append are atomic with respect to concurrent senders.
	AppendMessage(ctx context.Context, from, to, body string) (*Message, error)

	// Conversation returns every message exchanged between a and b, in both
	// directions, ascending by id. No history yields an empty slice.
	Conversation(ctx context.Context, a, b string) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}

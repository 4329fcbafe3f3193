package core

// Client is one connected session as seen by the core layer.
//
// UserID is owned by the hub loop: it is empty while the session is
// unauthenticated and set exactly once on register or login. Transports must
// not touch it.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
	UserID   string
}

// NewClient constructs a client with initialized channels. queueSize bounds
// the outbound event queue; events beyond it are dropped rather than allowed
// to stall the hub.
func NewClient(id string, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = 32
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, queueSize),
	}
}

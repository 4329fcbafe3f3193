package core

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"
	"github.com/vodachat/voda-server/internal/directory"
	"github.com/vodachat/voda-server/internal/store"
)

// Hub owns every piece of shared session state: the presence set, the
// binding of sessions to user ids, and all fan-out. A single goroutine
// (Run) processes registrations, disconnects and client commands, so no
// handler ever observes presence mid-mutation.
type Hub struct {
	dir      *directory.Service
	messages store.MessageStore
	log      zerolog.Logger

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	done       chan struct{}

	clients map[*Client]struct{}
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// NewHub creates a hub over the given directory and message log.
func NewHub(dir *directory.Service, messages store.MessageStore, logger *zerolog.Logger) *Hub {
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Hub{
		dir:        dir,
		messages:   messages,
		log:        lg,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}
}

// RegisterClient hands a freshly connected session to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient runs the disconnect transition. Safe to call more than
// once; repeated calls are no-ops.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Run processes hub traffic until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			go h.pump(c)
		case c := <-h.unregister:
			h.drop(c)
		case cc := <-h.commands:
			if _, ok := h.clients[cc.client]; ok {
				h.handle(ctx, cc.client, cc.cmd)
			}
		}
	}
}

// pump forwards one client's commands into the hub loop.
func (h *Hub) pump(c *Client) {
	for cmd := range c.Commands {
		select {
		case h.commands <- clientCommand{client: c, cmd: cmd}:
		case <-h.done:
			return
		}
	}
}

// drop removes a session. Idempotent: a session already removed is ignored,
// so concurrent close paths cannot double-broadcast.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Events)

	identified := c.UserID != ""
	h.log.Debug().Str("client_id", c.ID).Str("user_id", c.UserID).Msg("client disconnected")
	if identified {
		h.broadcastOnline()
	}
}

func (h *Hub) handle(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandRegister:
		h.handleRegister(ctx, c, cmd)
	case CommandLogin:
		h.handleLogin(ctx, c, cmd)
	case CommandSearchUser:
		h.handleSearchUser(ctx, c, cmd)
	case CommandSendMessage:
		h.handleSendMessage(ctx, c, cmd)
	case CommandGetMessages:
		h.handleGetMessages(ctx, c, cmd)
	default:
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeValidation, "unknown command")})
	}
}

func (h *Hub) handleRegister(ctx context.Context, c *Client, cmd *Command) {
	if c.UserID != "" {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeValidation, "session already identified")})
		return
	}

	user, err := h.dir.Register(ctx, cmd.Name, cmd.Surname)
	if err != nil {
		h.log.Error().Err(err).Str("client_id", c.ID).Msg("register failed")
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeStorage, "registration failed")})
		return
	}

	c.UserID = user.ID
	h.send(c, &Event{Kind: EventRegistered, User: user})
	h.log.Info().Str("user_id", user.ID).Str("name", user.DisplayName).Msg("user registered")
	h.broadcastOnline()
}

func (h *Hub) handleLogin(ctx context.Context, c *Client, cmd *Command) {
	if c.UserID != "" {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeValidation, "session already identified")})
		return
	}

	user, err := h.dir.Lookup(ctx, cmd.UserID)
	if errors.Is(err, directory.ErrNotFound) {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeNotFound, "unknown user id")})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("client_id", c.ID).Msg("login lookup failed")
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeStorage, "login failed")})
		return
	}

	c.UserID = user.ID
	h.send(c, &Event{Kind: EventLoginSuccess, User: user})
	h.log.Info().Str("user_id", user.ID).Msg("user logged in")
	h.broadcastOnline()
}

func (h *Hub) handleSearchUser(ctx context.Context, c *Client, cmd *Command) {
	user, err := h.dir.Lookup(ctx, cmd.UserID)
	if errors.Is(err, directory.ErrNotFound) {
		h.send(c, &Event{Kind: EventUserNotFound})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("client_id", c.ID).Msg("search lookup failed")
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeStorage, "search failed")})
		return
	}
	h.send(c, &Event{Kind: EventUserFound, User: user})
}

func (h *Hub) handleSendMessage(ctx context.Context, c *Client, cmd *Command) {
	if c.UserID == "" {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeAuthRequired, "not authenticated")})
		return
	}

	// Durability before delivery: the message is persisted, then pushed.
	msg, err := h.messages.AppendMessage(ctx, c.UserID, cmd.To, cmd.Text)
	if err != nil {
		h.log.Error().Err(err).Str("from", c.UserID).Msg("append message failed")
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeStorage, "message not stored")})
		return
	}

	ev := &Event{Kind: EventNewMessage, Message: msg}
	for client := range h.clients {
		if client.UserID != "" && (client.UserID == msg.From || client.UserID == msg.To) {
			h.send(client, ev)
		}
	}
}

func (h *Hub) handleGetMessages(ctx context.Context, c *Client, cmd *Command) {
	if c.UserID == "" {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeAuthRequired, "not authenticated")})
		return
	}

	msgs, err := h.messages.Conversation(ctx, c.UserID, cmd.With)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", c.UserID).Msg("conversation query failed")
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeStorage, "history unavailable")})
		return
	}
	h.send(c, &Event{Kind: EventHistory, Messages: msgs})
}

// broadcastOnline pushes a full presence snapshot to every identified
// session. Snapshot fan-out over diffs is a deliberate simplicity choice.
func (h *Hub) broadcastOnline() {
	seen := make(map[string]struct{})
	online := make([]string, 0, len(h.clients))
	for client := range h.clients {
		if client.UserID == "" {
			continue
		}
		if _, dup := seen[client.UserID]; dup {
			continue
		}
		seen[client.UserID] = struct{}{}
		online = append(online, client.UserID)
	}
	sort.Strings(online)

	ev := &Event{Kind: EventOnlineList, Online: online}
	for client := range h.clients {
		if client.UserID != "" {
			h.send(client, ev)
		}
	}
}

// send enqueues an event, dropping it if the client's queue is full so one
// slow peer never stalls delivery to the others.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("client_id", c.ID).Msg("event queue full, dropping event")
	}
}

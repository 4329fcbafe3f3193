package proto

// The wire format is one flat JSON object per line. Every record carries a
// "type" discriminator; the remaining fields depend on the type.

const (
	// Requests (client -> server).
	TypeRegister    = "register"
	TypeLogin       = "login"
	TypeSearchUser  = "search_user"
	TypeSendMessage = "send_message"
	TypeGetMessages = "get_messages"

	// Replies and events (server -> client).
	TypeRegistered      = "registered"
	TypeLoginSuccess    = "login_success"
	TypeUserFound       = "user_found"
	TypeUserNotFound    = "user_not_found"
	TypeNewMessage      = "new_message"
	TypeMessagesHistory = "messages_history"
	TypeOnlineList      = "online_list"
	TypeError           = "error"
)

// Request is the inbound envelope. Fields beyond Type are populated
// depending on the request type.
type Request struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	To      string `json:"to,omitempty"`
	Message string `json:"message,omitempty"`
	With    string `json:"with,omitempty"`
}

// UserInfo is the public shape of a directory record.
type UserInfo struct {
	Name      string `json:"name"`
	Photo     string `json:"photo"`
	CreatedAt string `json:"created_at"`
}

// MessageInfo is the wire shape of a stored message.
type MessageInfo struct {
	ID        int64  `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Registered confirms a successful registration.
type Registered struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// LoginSuccess confirms a successful login.
type LoginSuccess struct {
	Type   string   `json:"type"`
	User   UserInfo `json:"user"`
	UserID string   `json:"user_id"`
}

// UserFound answers a search_user request for an existing user.
type UserFound struct {
	Type   string   `json:"type"`
	User   UserInfo `json:"user"`
	UserID string   `json:"user_id"`
}

// UserNotFound answers a search_user request for an unknown id.
type UserNotFound struct {
	Type string `json:"type"`
}

// NewMessage is pushed to the sender and the recipient of a delivered message.
type NewMessage struct {
	Type    string      `json:"type"`
	Message MessageInfo `json:"message"`
}

// MessagesHistory answers a get_messages request.
type MessagesHistory struct {
	Type     string        `json:"type"`
	Messages []MessageInfo `json:"messages"`
}

// OnlineList is pushed to every identified session on any presence change.
type OnlineList struct {
	Type   string   `json:"type"`
	Online []string `json:"online"`
}

// Error describes a request-level fault. The connection stays open.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// ErrorEvent is the outbound envelope for request-level faults.
type ErrorEvent struct {
	Type  string `json:"type"`
	Error Error  `json:"error"`
}

package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandRegister creates a new user identity and binds the session to it.
	CommandRegister CommandKind = iota
	// CommandLogin binds the session to an existing user identity.
	CommandLogin
	// CommandSearchUser looks up a user by id.
	CommandSearchUser
	// CommandSendMessage persists and relays a direct message.
	CommandSendMessage
	// CommandGetMessages replays the conversation with another user.
	CommandGetMessages
)

// Command represents an action requested by a client. Fields beyond Kind are
// populated depending on the kind.
type Command struct {
	Kind    CommandKind
	Name    string // register
	Surname string // register
	UserID  string // login, search_user
	To      string // send_message
	Text    string // send_message
	With    string // get_messages
}

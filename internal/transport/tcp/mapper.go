package tcp

import (
	"time"

	"github.com/vodachat/voda-server/internal/core"
	"github.com/vodachat/voda-server/internal/proto"
	"github.com/vodachat/voda-server/internal/store"
)

// commandFromRequest validates a decoded request and maps it to a hub
// command. A missing required field or unknown type yields a proto.Error
// and no command; the connection stays open.
func commandFromRequest(req *proto.Request) (*core.Command, *proto.Error) {
	switch req.Type {
	case proto.TypeRegister:
		if req.Name == "" {
			return nil, validationError("name is required")
		}
		return &core.Command{Kind: core.CommandRegister, Name: req.Name, Surname: req.Surname}, nil
	case proto.TypeLogin:
		if req.UserID == "" {
			return nil, validationError("user_id is required")
		}
		return &core.Command{Kind: core.CommandLogin, UserID: req.UserID}, nil
	case proto.TypeSearchUser:
		if req.UserID == "" {
			return nil, validationError("user_id is required")
		}
		return &core.Command{Kind: core.CommandSearchUser, UserID: req.UserID}, nil
	case proto.TypeSendMessage:
		if req.To == "" {
			return nil, validationError("to is required")
		}
		if req.Message == "" {
			return nil, validationError("message is required")
		}
		return &core.Command{Kind: core.CommandSendMessage, To: req.To, Text: req.Message}, nil
	case proto.TypeGetMessages:
		if req.With == "" {
			return nil, validationError("with is required")
		}
		return &core.Command{Kind: core.CommandGetMessages, With: req.With}, nil
	default:
		return nil, validationError("unknown request type")
	}
}

func validationError(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeValidation, Msg: msg}
}

// outboundFromEvent maps a hub event to its wire record.
func outboundFromEvent(ev *core.Event) any {
	switch ev.Kind {
	case core.EventRegistered:
		return proto.Registered{
			Type:   proto.TypeRegistered,
			UserID: ev.User.ID,
			Name:   ev.User.DisplayName,
		}
	case core.EventLoginSuccess:
		return proto.LoginSuccess{
			Type:   proto.TypeLoginSuccess,
			User:   userInfo(ev.User),
			UserID: ev.User.ID,
		}
	case core.EventUserFound:
		return proto.UserFound{
			Type:   proto.TypeUserFound,
			User:   userInfo(ev.User),
			UserID: ev.User.ID,
		}
	case core.EventUserNotFound:
		return proto.UserNotFound{Type: proto.TypeUserNotFound}
	case core.EventNewMessage:
		return proto.NewMessage{
			Type:    proto.TypeNewMessage,
			Message: messageInfo(ev.Message),
		}
	case core.EventHistory:
		msgs := make([]proto.MessageInfo, 0, len(ev.Messages))
		for _, m := range ev.Messages {
			msgs = append(msgs, messageInfo(m))
		}
		return proto.MessagesHistory{Type: proto.TypeMessagesHistory, Messages: msgs}
	case core.EventOnlineList:
		return proto.OnlineList{Type: proto.TypeOnlineList, Online: ev.Online}
	case core.EventError:
		return proto.ErrorEvent{
			Type:  proto.TypeError,
			Error: proto.Error{Code: ev.Error.Code, Msg: ev.Error.Message},
		}
	default:
		return proto.ErrorEvent{
			Type:  proto.TypeError,
			Error: proto.Error{Code: core.ErrCodeValidation, Msg: "unmapped event"},
		}
	}
}

func userInfo(u *store.User) proto.UserInfo {
	return proto.UserInfo{
		Name:      u.DisplayName,
		Photo:     u.Photo,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func messageInfo(m *store.Message) proto.MessageInfo {
	return proto.MessageInfo{
		ID:        m.ID,
		From:      m.From,
		To:        m.To,
		Message:   m.Body,
		Timestamp: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

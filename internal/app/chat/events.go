package chat

import (
	"encoding/json"

	"relaychat/internal/app/message"
)

// Inbound event names. Each maps to exactly one payload shape, validated
// before dispatch.
const (
	EvtSendMessage    = "send_message"
	EvtEditMessage    = "edit_message"
	EvtDeleteMessage  = "delete_message"
	EvtAddReaction    = "add_reaction"
	EvtRemoveReaction = "remove_reaction"
	EvtTypingStart    = "typing_start"
	EvtTypingStop     = "typing_stop"
	EvtUpdateStatus   = "update_status"
	EvtPrivateMessage = "private_message"
)

// Outbound event names.
const (
	EvtNewMessage        = "new_message"
	EvtMessageEdited     = "message_edited"
	EvtMessageDeleted    = "message_deleted"
	EvtReactionAdded     = "reaction_added"
	EvtReactionRemoved   = "reaction_removed"
	EvtUserConnected     = "user_connected"
	EvtUserDisconnected  = "user_disconnected"
	EvtUserTyping        = "user_typing"
	EvtUserStoppedTyping = "user_stopped_typing"
	EvtUserStatusChanged = "user_status_changed"
	EvtOnlineUsers       = "online_users"
	EvtMessageSent       = "message_sent"
	EvtError             = "error"
)

// Inbound is the envelope every client frame must decode to.
type Inbound struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound is the envelope for every server frame.
type Outbound struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// EncodeEvent marshals an outbound frame.
func EncodeEvent(event string, payload any) ([]byte, error) {
	return json.Marshal(Outbound{Event: event, Payload: payload})
}

// SendPayload is the body of send_message.
type SendPayload struct {
	Content     string               `json:"content"`
	Kind        message.Kind         `json:"kind,omitempty"`
	Attachments []message.Attachment `json:"attachments,omitempty"`
	ReplyTo     string               `json:"replyTo,omitempty"`
}

// EditPayload is the body of edit_message.
type EditPayload struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// TargetPayload is the body of delete_message and remove_reaction, and of the
// outbound message_deleted.
type TargetPayload struct {
	ID string `json:"id"`
}

// ReactionPayload is the body of add_reaction.
type ReactionPayload struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
}

// PrivatePayload is the body of private_message.
type PrivatePayload struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

// StatusPayload is the body of update_status.
type StatusPayload struct {
	Status string `json:"status"`
}

// PresencePayload announces connect/disconnect/typing/status for one user.
// It is also the roster entry shape for online_users: identity fields only,
// never the full account record.
type PresencePayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Status string `json:"status,omitempty"`
}

// ReactionsPayload carries the full reaction list for a message after a
// reaction mutation.
type ReactionsPayload struct {
	ID        string             `json:"id"`
	Reactions []message.Reaction `json:"reactions"`
}

// ErrorPayload mirrors the REST failure envelope on the live channel.
type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

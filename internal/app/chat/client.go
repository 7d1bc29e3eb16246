package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"relaychat/internal/app/message"
	"relaychat/internal/app/user"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
)

const (
	// writeWait bounds a single write to the WebSocket connection.
	writeWait = 10 * time.Second

	// pongWait is how long the server waits for a pong before dropping the
	// connection; pings go out at pingPeriod.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxFrameSize caps an inbound frame in bytes.
	maxFrameSize = 8192

	// sendQueueSize is the per-client outbound buffer.
	sendQueueSize = 256

	// CloseCodeSessionReplaced signals that a newer connection from the same
	// user displaced this one.
	CloseCodeSessionReplaced = 4001
)

// Client is one gate-validated WebSocket connection bound to a user.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	user user.User

	send      chan []byte
	closeOnce sync.Once

	logger zerolog.Logger
}

// NewClient wraps an upgraded connection. The caller starts WritePump in a
// goroutine, registers the client with the hub, and then runs ReadPump.
func NewClient(hub *Hub, conn *websocket.Conn, u user.User) *Client {
	clientLogger := logx.Logger().With().
		Str("user_id", u.ID).
		Str("room", RoomName).
		Logger()

	return &Client{
		hub:    hub,
		conn:   conn,
		user:   u,
		send:   make(chan []byte, sendQueueSize),
		logger: clientLogger,
	}
}

// User returns the identity this connection is bound to.
func (c *Client) User() user.User {
	return c.user
}

// ReadPump reads frames until the connection drops, dispatching each one.
// It requests unregistration and closes the connection on exit.
func (c *Client) ReadPump() {
	defer c.cleanup()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Connection closed unexpectedly")
			}
			break
		}

		c.dispatch(raw)
	}
}

func (c *Client) cleanup() {
	select {
	case c.hub.unregister <- c:
	default:
		c.logger.Warn().Msg("Hub unregister channel blocked during cleanup.")
	}

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error")
	}
}

// dispatch validates the envelope and routes to the handler for its event.
// Failures of any kind go back to this connection only; the room never sees
// a failed operation.
func (c *Client) dispatch(raw []byte) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON frame")
		c.sendError(errs.New(errs.ErrInvalidJSON))
		return
	}

	ctx := context.Background()

	switch in.Event {
	case EvtSendMessage:
		c.handleSend(ctx, in.Payload)
	case EvtEditMessage:
		c.handleEdit(ctx, in.Payload)
	case EvtDeleteMessage:
		c.handleDelete(ctx, in.Payload)
	case EvtAddReaction:
		c.handleAddReaction(ctx, in.Payload)
	case EvtRemoveReaction:
		c.handleRemoveReaction(ctx, in.Payload)
	case EvtTypingStart:
		c.broadcastPresence(EvtUserTyping, "")
	case EvtTypingStop:
		c.broadcastPresence(EvtUserStoppedTyping, "")
	case EvtUpdateStatus:
		c.handleUpdateStatus(in.Payload)
	case EvtPrivateMessage:
		c.handlePrivate(ctx, in.Payload)
	default:
		c.logger.Warn().Str("event", in.Event).Msg("Client sent unknown event")
		c.sendError(errs.New(errs.ErrInvalidParams))
	}
}

func (c *Client) handleSend(ctx context.Context, payload json.RawMessage) {
	var p SendPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(errs.New(errs.ErrInvalidJSON))
		return
	}

	m, customErr := c.hub.messages.Send(ctx, c.user, message.SendInput{
		Content:     p.Content,
		Kind:        p.Kind,
		Attachments: p.Attachments,
		ReplyTo:     p.ReplyTo,
	})
	if customErr != nil {
		c.sendError(customErr)
		return
	}

	c.hub.Broadcast(EvtNewMessage, m, "")
	c.sendEvent(EvtMessageSent, m)
}

func (c *Client) handleEdit(ctx context.Context, payload json.RawMessage) {
	var p EditPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(errs.New(errs.ErrInvalidJSON))
		return
	}

	m, customErr := c.hub.messages.Edit(ctx, c.user, p.ID, p.Content)
	if customErr != nil {
		c.sendError(customErr)
		return
	}

	// Room-wide, sender included, so the editor's other views stay in sync.
	c.hub.Broadcast(EvtMessageEdited, m, "")
}

func (c *Client) handleDelete(ctx context.Context, payload json.RawMessage) {
	var p TargetPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(errs.New(errs.ErrInvalidJSON))
		return
	}

	if customErr := c.hub.messages.SoftDelete(ctx, c.user, p.ID); customErr != nil {
		c.sendError(customErr)
		return
	}

	c.hub.Broadcast(EvtMessageDeleted, TargetPayload{ID: p.ID}, "")
}

func (c *Client) handleAddReaction(ctx context.Context, payload json.RawMessage) {
	var p ReactionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(errs.New(errs.ErrInvalidJSON))
		return
	}

	m, customErr := c.hub.messages.AddReaction(ctx, c.user, p.ID, p.Emoji)
	if customErr != nil {
		c.sendError(customErr)
		return
	}

	c.hub.Broadcast(EvtReactionAdded, ReactionsPayload{ID: m.ID, Reactions: m.Reactions}, "")
}

func (c *Client) handleRemoveReaction(ctx context.Context, payload json.RawMessage) {
	var p TargetPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(errs.New(errs.ErrInvalidJSON))
		return
	}

	m, customErr := c.hub.messages.RemoveReaction(ctx, c.user, p.ID)
	if customErr != nil {
		c.sendError(customErr)
		return
	}

	c.hub.Broadcast(EvtReactionRemoved, ReactionsPayload{ID: m.ID, Reactions: m.Reactions}, "")
}

func (c *Client) handleUpdateStatus(payload json.RawMessage) {
	var p StatusPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(errs.New(errs.ErrInvalidJSON))
		return
	}

	c.broadcastPresence(EvtUserStatusChanged, p.Status)
}

func (c *Client) handlePrivate(ctx context.Context, payload json.RawMessage) {
	var p PrivatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.sendError(errs.New(errs.ErrInvalidJSON))
		return
	}

	if p.RecipientID == "" {
		c.sendError(errs.New(errs.ErrInvalidParams))
		return
	}

	m, customErr := c.hub.messages.Send(ctx, c.user, message.SendInput{
		Content:     p.Content,
		RecipientID: p.RecipientID,
	})
	if customErr != nil {
		c.sendError(customErr)
		return
	}

	// Best effort: an offline recipient gets nothing beyond the stored row.
	c.hub.SendTo(p.RecipientID, EvtNewMessage, m)
	c.sendEvent(EvtMessageSent, m)
}

// broadcastPresence emits a fire-and-forget signal to everyone but this
// connection's user.
func (c *Client) broadcastPresence(event, status string) {
	c.hub.Broadcast(event, PresencePayload{
		UserID: c.user.ID,
		Name:   c.user.Name,
		Status: status,
	}, c.user.ID)
}

// WritePump drains the send queue to the connection and keeps the heartbeat
// alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

// sendEvent queues an encoded event for this connection only.
func (c *Client) sendEvent(event string, payload any) error {
	data, err := EncodeEvent(event, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Failed to encode event")
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Send queue full, dropping event")
		return fmt.Errorf("client send queue full")
	}
}

// sendError reports a failed operation to this connection only.
func (c *Client) sendError(customErr *errs.CustomError) {
	c.sendEvent(EvtError, ErrorPayload{
		Error:   customErr.Label,
		Message: customErr.Message,
	})
}

// closeSend closes the outbound queue exactly once, ending WritePump.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Kick closes the connection with the session-replaced close code.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", CloseCodeSessionReplaced).
		Str("reason", reason).
		Msg("Kicking connection.")

	closeMessage := websocket.FormatCloseMessage(CloseCodeSessionReplaced, reason)

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to send close frame.")
	}

	c.closeSend()
}

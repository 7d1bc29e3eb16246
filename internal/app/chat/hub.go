package chat

import (
	"github.com/rs/zerolog"

	"relaychat/internal/app/message"
	"relaychat/internal/pkg/logx"
)

// RoomName is the single shared room every gate-validated connection joins.
const RoomName = "general"

const broadcastBuffer = 1024

// frame is one encoded event queued for fan-out. An empty exclude fans out
// room-wide; otherwise that user's connection is skipped.
type frame struct {
	data    []byte
	exclude string
}

// Hub is the broadcast room. Its Run loop owns client registration,
// deregistration, and fan-out; the registry it maintains doubles as the
// session registry for presence and private delivery.
type Hub struct {
	registry *Registry
	messages *message.Service

	register   chan *Client
	unregister chan *Client
	broadcast  chan frame
	stopChan   chan struct{}

	logger zerolog.Logger
}

// NewHub returns a Hub over the given message service. Call Run in its own
// goroutine before registering clients.
func NewHub(messages *message.Service) *Hub {
	hubLogger := logx.Logger().With().
		Str("component", "hub").
		Str("room", RoomName).
		Logger()

	return &Hub{
		registry:   NewRegistry(),
		messages:   messages,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan frame, broadcastBuffer),
		stopChan:   make(chan struct{}),
		logger:     hubLogger,
	}
}

// Registry exposes the session registry for handlers that need presence.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Run is the hub's event loop. It exits on Shutdown.
func (h *Hub) Run() {
	defer func() {
		h.registry.each(func(c *Client) {
			c.closeSend()
		})
		h.logger.Info().Msg("Hub run loop stopped.")
	}()

	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case f := <-h.broadcast:
			h.fanOut(f)

		case <-h.stopChan:
			return
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	if displaced := h.registry.Bind(client.user.ID, client); displaced != nil {
		h.logger.Warn().
			Str("user_id", client.user.ID).
			Msg("User already connected. Kicking old connection.")
		displaced.Kick("Session replaced by a new connection.")
	}

	h.logger.Info().
		Str("user_id", client.user.ID).
		Int("online", h.registry.Len()).
		Msg("Client joined room.")

	// The new client gets the current roster; everyone else learns about the
	// new arrival.
	client.sendEvent(EvtOnlineUsers, h.registry.ActiveUsers())

	h.Broadcast(EvtUserConnected, PresencePayload{
		UserID: client.user.ID,
		Name:   client.user.Name,
	}, client.user.ID)
}

func (h *Hub) handleUnregister(client *Client) {
	if !h.registry.Unbind(client) {
		h.logger.Debug().
			Str("user_id", client.user.ID).
			Msg("Ignoring unregister for stale or unknown connection.")
		return
	}

	client.closeSend()

	h.logger.Info().
		Str("user_id", client.user.ID).
		Int("online", h.registry.Len()).
		Msg("Client left room.")

	h.Broadcast(EvtUserDisconnected, PresencePayload{
		UserID: client.user.ID,
		Name:   client.user.Name,
	}, client.user.ID)
}

func (h *Hub) fanOut(f frame) {
	h.registry.each(func(c *Client) {
		if f.exclude != "" && c.user.ID == f.exclude {
			return
		}

		select {
		case c.send <- f.data:
		default:
			h.logger.Warn().
				Str("user_id", c.user.ID).
				Msg("Client send queue full, scheduling unregister.")

			select {
			case h.unregister <- c:
			default:
				h.logger.Warn().Msg("Unregister channel full, skipping client cleanup.")
			}
		}
	})
}

// Broadcast queues an event for fan-out. exclude names a user to skip
// (presence and typing signals exclude their sender); pass "" for room-wide
// delivery (message lifecycle events).
func (h *Hub) Broadcast(event string, payload any, exclude string) {
	data, err := EncodeEvent(event, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to encode broadcast event.")
		return
	}

	select {
	case h.broadcast <- frame{data: data, exclude: exclude}:
	default:
		h.logger.Warn().Str("event", event).Msg("Broadcast channel full, dropping event.")
	}
}

// SendTo delivers an event to one user's active connection. Returns false
// when the user is offline or their queue is full; delivery is best-effort.
func (h *Hub) SendTo(userID, event string, payload any) bool {
	c := h.registry.Lookup(userID)
	if c == nil {
		return false
	}
	return c.sendEvent(event, payload) == nil
}

// RegisterClient queues a gate-validated client for registration.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopChan:
	}
}

// Shutdown stops the run loop and closes every client's send queue.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down hub...")
	close(h.stopChan)
}

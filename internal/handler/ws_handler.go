/*
Package handler: WebSocket connection gate.

HandleWebSocket validates the presented credential end to end before the
protocol upgrade. A connection that fails the gate never touches the session
registry and never produces a presence broadcast.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"relaychat/internal/app/chat"
	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/limiter"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection
// requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.Get(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.Error(w, errs.New(errs.ErrRateLimited))
			return
		}

		// Full credential validation happens here, while the request is still
		// plain HTTP. Failures respond with the REST error envelope.
		u, customErr := jwt.Resolve(r.Context(), jwt.BearerToken(r), deps.Config.JWTSecret, deps.Users)
		if customErr != nil {
			logx.Warn("WebSocket connection rejected at gate", "error", customErr.Label, "ip", ip)
			resp.Error(w, customErr)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Hub, conn, *u)

		go client.WritePump()

		logx.Info("WebSocket connection established and client registered",
			"user_id", u.ID, "room", chat.RoomName)

		deps.Hub.RegisterClient(client)

		client.ReadPump()
	}
}

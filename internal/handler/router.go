/*
Package handler provides the HTTP handlers and routing setup for the chat
server.

This file defines the main Router, applying middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers
(REST API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/limiter"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/resp"
)

const (
	AuthRate     = 0.2
	AuthBurst    = 5
	ConnectRate  = 0.5
	ConnectBurst = 10
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global
// and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.Success(w, map[string]any{
			"status":  "ok",
			"service": "relaychat",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.With(authLimiter.Middleware).Post("/register", HandleRegister(deps))
			auth.With(authLimiter.Middleware).Post("/login", HandleLogin(deps))

			auth.With(jwt.Require(deps.Config.JWTSecret, deps.Users)).
				Get("/me", HandleMe(deps))
		})

		api.Route("/messages", func(msg chi.Router) {
			// Reads are public; a presented-but-invalid credential just
			// degrades to anonymous.
			msg.Group(func(pub chi.Router) {
				pub.Use(jwt.Optional(deps.Config.JWTSecret, deps.Users))
				pub.Get("/", HandleListMessages(deps))
				pub.Get("/search", HandleSearchMessages(deps))
			})

			msg.Group(func(priv chi.Router) {
				priv.Use(jwt.Require(deps.Config.JWTSecret, deps.Users))
				priv.Post("/", HandleSendMessage(deps))
				priv.Put("/{id}", HandleEditMessage(deps))
				priv.Delete("/{id}", HandleDeleteMessage(deps))
				priv.Post("/{id}/reactions", HandleAddReaction(deps))
				priv.Delete("/{id}/reactions", HandleRemoveReaction(deps))
				priv.Get("/stats", HandleMessageStats(deps))
				priv.Post("/private", HandleSendPrivate(deps))
			})
		})

		if deps.Storage != nil {
			api.Group(func(files chi.Router) {
				files.Use(jwt.Require(deps.Config.JWTSecret, deps.Users))
				files.Post("/files/presign", HandlePresignUploadURL(deps))
				files.Get("/files/download", HandlePresignDownloadURL(deps))
				files.Delete("/files", HandleDeleteFile(deps))
			})
		}

		if deps.Weather != nil {
			api.Get("/weather", HandleWeather(deps))
		}
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}

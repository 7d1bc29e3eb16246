package handler

import (
	"relaychat/internal/app/chat"
	"relaychat/internal/app/message"
	"relaychat/internal/app/storage"
	"relaychat/internal/app/user"
	"relaychat/internal/app/weather"
	"relaychat/internal/configs"
)

// AppDeps bundles everything the handlers need. Storage and Weather are nil
// when their configuration is absent; the router skips those routes.
type AppDeps struct {
	Hub      *chat.Hub
	Config   *configs.AppConfig
	Users    user.Store
	Messages *message.Service
	Storage  storage.Service
	Weather  *weather.Client
}

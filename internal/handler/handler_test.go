package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"relaychat/internal/app/chat"
	"relaychat/internal/app/message"
	"relaychat/internal/app/message/messagetest"
	"relaychat/internal/app/user"
	"relaychat/internal/app/user/usertest"
	"relaychat/internal/configs"
	"relaychat/internal/handler"
	"relaychat/internal/pkg/auth/jwt"
)

const testSecret = "handler-test-secret"

// env bundles a fully wired router and its fakes for one test.
type env struct {
	router   http.Handler
	users    *usertest.MemStore
	messages *messagetest.MemStore
	hub      *chat.Hub
}

func newEnv(t *testing.T) *env {
	t.Helper()

	users := usertest.NewMemStore()
	store := messagetest.NewMemStore()
	svc := message.NewService(store, users)
	hub := chat.NewHub(svc)

	deps := &handler.AppDeps{
		Hub:      hub,
		Users:    users,
		Messages: svc,
		Config: &configs.AppConfig{
			Environment:    "development",
			Port:           8080,
			JWTSecret:      testSecret,
			AllowedOrigins: []string{},
		},
	}

	return &env{
		router:   handler.Router(deps),
		users:    users,
		messages: store,
		hub:      hub,
	}
}

func (e *env) addUser(t *testing.T, name string, role user.Role) (user.User, string) {
	t.Helper()

	u := e.users.Add(user.User{
		Email:  name + "@example.com",
		Name:   name,
		Role:   role,
		Active: true,
	})
	e.messages.SetSender(u.ID, u.Name, u.Avatar)

	token, err := jwt.Generate(&u, testSecret, time.Hour)
	require.NoError(t, err)
	return u, token
}

// mustToken signs a credential for u without touching the store.
func mustToken(t *testing.T, u user.User) string {
	t.Helper()

	token, err := jwt.Generate(&u, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// do runs one request against the router and decodes the JSON body.
func (e *env) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)

	decoded := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), "body: %s", w.Body.String())
	}
	return w.Code, decoded
}

// sendMessage seeds one message through the REST surface and returns its ID.
func (e *env) sendMessage(t *testing.T, token, content string) string {
	t.Helper()

	status, body := e.do(t, http.MethodPost, "/api/messages", token, map[string]any{
		"content": content,
	})
	require.Equal(t, http.StatusCreated, status, "seed message: %v", body)

	m := body["message"].(map[string]any)
	return m["id"].(string)
}

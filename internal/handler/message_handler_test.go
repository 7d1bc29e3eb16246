package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/internal/app/user"
)

func TestListMessagesAnonymous(t *testing.T) {
	e := newEnv(t)
	_, token := e.addUser(t, "alice", user.RoleUser)

	e.sendMessage(t, token, "first")
	e.sendMessage(t, token, "second")

	status, body := e.do(t, http.MethodGet, "/api/messages", "", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["messages"], 2)
}

func TestSendMessageRequiresAuth(t *testing.T) {
	e := newEnv(t)

	status, body := e.do(t, http.MethodPost, "/api/messages", "", map[string]any{
		"content": "hi",
	})

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "credential_required", body["error"])
	assert.NotContains(t, body, "success")
}

func TestSendMessage(t *testing.T) {
	e := newEnv(t)
	alice, token := e.addUser(t, "alice", user.RoleUser)

	status, body := e.do(t, http.MethodPost, "/api/messages", token, map[string]any{
		"content": "hello @bob",
	})

	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	m := body["message"].(map[string]any)
	assert.Equal(t, alice.ID, m["userId"])
	assert.Equal(t, "hello @bob", m["content"])
	assert.Equal(t, "alice", m["senderName"])
	assert.Equal(t, []any{"bob"}, m["mentions"])
}

func TestSendMessageValidation(t *testing.T) {
	e := newEnv(t)
	_, token := e.addUser(t, "alice", user.RoleUser)

	t.Run("empty content", func(t *testing.T) {
		status, body := e.do(t, http.MethodPost, "/api/messages", token, map[string]any{
			"content": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "content_empty", body["error"])
	})

	t.Run("unknown field", func(t *testing.T) {
		status, body := e.do(t, http.MethodPost, "/api/messages", token, map[string]any{
			"content": "hi",
			"bogus":   true,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "invalid_json", body["error"])
	})

	t.Run("unknown reply target", func(t *testing.T) {
		status, body := e.do(t, http.MethodPost, "/api/messages", token, map[string]any{
			"content": "re",
			"replyTo": "00000000-0000-0000-0000-000000000000",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "reply_target_not_found", body["error"])
	})
}

func TestEditMessageAuthorization(t *testing.T) {
	e := newEnv(t)
	_, aliceToken := e.addUser(t, "alice", user.RoleUser)
	_, bobToken := e.addUser(t, "bob", user.RoleUser)
	_, adminToken := e.addUser(t, "root", user.RoleAdmin)

	id := e.sendMessage(t, aliceToken, "v1")

	t.Run("stranger forbidden", func(t *testing.T) {
		status, body := e.do(t, http.MethodPut, "/api/messages/"+id, bobToken, map[string]any{
			"content": "hijack",
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "forbidden", body["error"])
	})

	t.Run("owner edits", func(t *testing.T) {
		status, body := e.do(t, http.MethodPut, "/api/messages/"+id, aliceToken, map[string]any{
			"content": "v2",
		})
		require.Equal(t, http.StatusOK, status)
		m := body["message"].(map[string]any)
		assert.Equal(t, "v2", m["content"])
		assert.Equal(t, true, m["edited"])
	})

	t.Run("admin edits", func(t *testing.T) {
		status, _ := e.do(t, http.MethodPut, "/api/messages/"+id, adminToken, map[string]any{
			"content": "moderated",
		})
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("unknown id", func(t *testing.T) {
		status, body := e.do(t, http.MethodPut, "/api/messages/does-not-exist", aliceToken, map[string]any{
			"content": "x",
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "message_not_found", body["error"])
	})
}

func TestDeleteMessage(t *testing.T) {
	e := newEnv(t)
	_, aliceToken := e.addUser(t, "alice", user.RoleUser)
	_, bobToken := e.addUser(t, "bob", user.RoleUser)

	id := e.sendMessage(t, aliceToken, "going away")

	status, body := e.do(t, http.MethodDelete, "/api/messages/"+id, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["error"])

	status, body = e.do(t, http.MethodDelete, "/api/messages/"+id, aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, id, body["id"])

	// Gone from listings but edits still resolve ownership (404 vs 403
	// distinction preserved).
	status, body = e.do(t, http.MethodGet, "/api/messages", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["messages"])
}

func TestReactionEndpoints(t *testing.T) {
	e := newEnv(t)
	_, aliceToken := e.addUser(t, "alice", user.RoleUser)
	bob, bobToken := e.addUser(t, "bob", user.RoleUser)

	id := e.sendMessage(t, aliceToken, "react away")

	status, body := e.do(t, http.MethodPost, "/api/messages/"+id+"/reactions", bobToken, map[string]any{
		"emoji": "👍",
	})
	require.Equal(t, http.StatusOK, status)

	m := body["message"].(map[string]any)
	reactions := m["reactions"].([]any)
	require.Len(t, reactions, 1)
	first := reactions[0].(map[string]any)
	assert.Equal(t, bob.ID, first["userId"])
	assert.Equal(t, "👍", first["emoji"])

	// Reacting again replaces rather than appends.
	status, body = e.do(t, http.MethodPost, "/api/messages/"+id+"/reactions", bobToken, map[string]any{
		"emoji": "🎉",
	})
	require.Equal(t, http.StatusOK, status)
	m = body["message"].(map[string]any)
	reactions = m["reactions"].([]any)
	require.Len(t, reactions, 1)
	assert.Equal(t, "🎉", reactions[0].(map[string]any)["emoji"])

	status, body = e.do(t, http.MethodDelete, "/api/messages/"+id+"/reactions", bobToken, nil)
	require.Equal(t, http.StatusOK, status)
	m = body["message"].(map[string]any)
	assert.Empty(t, m["reactions"])
}

func TestSearchEndpoint(t *testing.T) {
	e := newEnv(t)
	alice, aliceToken := e.addUser(t, "alice", user.RoleUser)
	_, bobToken := e.addUser(t, "bob", user.RoleUser)

	e.sendMessage(t, aliceToken, "Deploy finished")
	e.sendMessage(t, bobToken, "deploy broke everything")
	e.sendMessage(t, bobToken, "lunch?")

	status, body := e.do(t, http.MethodGet, "/api/messages/search?q=deploy", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["messages"], 2)

	status, body = e.do(t, http.MethodGet, "/api/messages/search?q=deploy&userId="+alice.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["messages"], 1)

	status, body = e.do(t, http.MethodGet, "/api/messages/search?q=", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_request", body["error"])
}

func TestListSearchParam(t *testing.T) {
	e := newEnv(t)
	_, token := e.addUser(t, "alice", user.RoleUser)

	e.sendMessage(t, token, "needle in here")
	e.sendMessage(t, token, "just hay")

	status, body := e.do(t, http.MethodGet, "/api/messages?search=needle", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["messages"], 1)
}

func TestStatsRoleGate(t *testing.T) {
	e := newEnv(t)
	_, userToken := e.addUser(t, "alice", user.RoleUser)
	_, modToken := e.addUser(t, "mod", user.RoleModerator)
	_, adminToken := e.addUser(t, "root", user.RoleAdmin)

	id := e.sendMessage(t, userToken, "counted")
	status, _ := e.do(t, http.MethodPost, "/api/messages/"+id+"/reactions", modToken, map[string]any{
		"emoji": "👍",
	})
	require.Equal(t, http.StatusOK, status)

	t.Run("anonymous is 401", func(t *testing.T) {
		status, body := e.do(t, http.MethodGet, "/api/messages/stats", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "credential_required", body["error"])
	})

	t.Run("plain user is 403", func(t *testing.T) {
		status, body := e.do(t, http.MethodGet, "/api/messages/stats", userToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "forbidden", body["error"])
	})

	for name, token := range map[string]string{"moderator": modToken, "admin": adminToken} {
		t.Run(name+" sees stats", func(t *testing.T) {
			status, body := e.do(t, http.MethodGet, "/api/messages/stats", token, nil)
			require.Equal(t, http.StatusOK, status)

			stats := body["stats"].(map[string]any)
			assert.Equal(t, float64(1), stats["totalMessages"])
			assert.Equal(t, float64(1), stats["totalReactions"])
			assert.Equal(t, float64(1), stats["messagesWithReactions"])
			assert.Equal(t, float64(1), stats["avgReactionsPerMessage"])
		})
	}
}

func TestPrivateMessageEndpoint(t *testing.T) {
	e := newEnv(t)
	_, aliceToken := e.addUser(t, "alice", user.RoleUser)
	bob, _ := e.addUser(t, "bob", user.RoleUser)

	t.Run("unknown recipient", func(t *testing.T) {
		status, body := e.do(t, http.MethodPost, "/api/messages/private", aliceToken, map[string]any{
			"recipientId": "00000000-0000-0000-0000-000000000000",
			"content":     "psst",
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "user_not_found", body["error"])
	})

	t.Run("persists as private kind", func(t *testing.T) {
		status, body := e.do(t, http.MethodPost, "/api/messages/private", aliceToken, map[string]any{
			"recipientId": bob.ID,
			"content":     "psst",
		})
		require.Equal(t, http.StatusCreated, status)

		m := body["message"].(map[string]any)
		assert.Equal(t, "private", m["kind"])
		assert.Equal(t, bob.ID, m["recipientId"])
		assert.Equal(t, false, body["delivered"], "recipient has no live connection")
	})

	t.Run("invisible to the public room history", func(t *testing.T) {
		status, body := e.do(t, http.MethodGet, "/api/messages", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["messages"], "direct messages never show in the anonymous listing")

		status, body = e.do(t, http.MethodGet, "/api/messages/search?q=psst", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["messages"])
	})
}

func TestListPagination(t *testing.T) {
	e := newEnv(t)
	_, token := e.addUser(t, "alice", user.RoleUser)

	for i := 0; i < 12; i++ {
		e.sendMessage(t, token, fmt.Sprintf("msg %02d", i))
	}

	status, body := e.do(t, http.MethodGet, "/api/messages?page=1&limit=10", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["messages"], 10)
	assert.Equal(t, float64(10), body["count"])

	status, body = e.do(t, http.MethodGet, "/api/messages?page=2&limit=10", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["messages"], 2)
}

func TestHealth(t *testing.T) {
	e := newEnv(t)

	status, body := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["status"])
}

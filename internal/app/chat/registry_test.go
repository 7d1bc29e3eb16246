package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/internal/app/user"
)

func testClient(u user.User) *Client {
	return NewClient(nil, nil, u)
}

func TestRegistryBind(t *testing.T) {
	r := NewRegistry()
	alice := user.User{ID: "u1", Name: "Alice"}

	c1 := testClient(alice)

	assert.Nil(t, r.Bind(alice.ID, c1), "first bind displaces nothing")
	assert.Same(t, c1, r.Lookup(alice.ID))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryBindOverwrites(t *testing.T) {
	r := NewRegistry()
	alice := user.User{ID: "u1", Name: "Alice"}

	c1 := testClient(alice)
	c2 := testClient(alice)

	r.Bind(alice.ID, c1)
	displaced := r.Bind(alice.ID, c2)

	require.Same(t, c1, displaced, "second connection displaces the first")
	assert.Same(t, c2, r.Lookup(alice.ID), "registry now points at the new connection")
	assert.Equal(t, 1, r.Len(), "one user still means one entry")
}

func TestRegistryRebindSameClient(t *testing.T) {
	r := NewRegistry()
	alice := user.User{ID: "u1"}

	c1 := testClient(alice)
	r.Bind(alice.ID, c1)

	assert.Nil(t, r.Bind(alice.ID, c1), "rebinding the same connection displaces nothing")
}

func TestRegistryUnbind(t *testing.T) {
	r := NewRegistry()
	alice := user.User{ID: "u1"}

	c1 := testClient(alice)
	r.Bind(alice.ID, c1)

	assert.True(t, r.Unbind(c1))
	assert.Nil(t, r.Lookup(alice.ID))
	assert.Equal(t, 0, r.Len())

	assert.False(t, r.Unbind(c1), "second unbind is a no-op")
}

// A kicked connection's deferred cleanup must not unbind its replacement.
func TestRegistryStaleUnbindIgnored(t *testing.T) {
	r := NewRegistry()
	alice := user.User{ID: "u1"}

	c1 := testClient(alice)
	c2 := testClient(alice)

	r.Bind(alice.ID, c1)
	r.Bind(alice.ID, c2)

	assert.False(t, r.Unbind(c1), "displaced connection may not unbind the new one")
	assert.Same(t, c2, r.Lookup(alice.ID))
}

func TestRegistryActiveUsers(t *testing.T) {
	r := NewRegistry()

	r.Bind("u1", testClient(user.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}))
	r.Bind("u2", testClient(user.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}))

	entries := r.ActiveUsers()
	require.Len(t, entries, 2)

	names := map[string]string{}
	for _, e := range entries {
		names[e.UserID] = e.Name
	}
	assert.Equal(t, "Alice", names["u1"])
	assert.Equal(t, "Bob", names["u2"])
}

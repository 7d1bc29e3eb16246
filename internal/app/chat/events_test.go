package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent(t *testing.T) {
	data, err := EncodeEvent(EvtUserConnected, PresencePayload{UserID: "u1", Name: "Alice"})
	require.NoError(t, err)

	var out struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, EvtUserConnected, out.Event)

	var p PresencePayload
	require.NoError(t, json.Unmarshal(out.Payload, &p))
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "Alice", p.Name)
	assert.Empty(t, p.Status)
}

func TestEncodeEventOmitsEmptyPayload(t *testing.T) {
	data, err := EncodeEvent(EvtUserDisconnected, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"user_disconnected"}`, string(data))
}

func TestInboundDecode(t *testing.T) {
	raw := []byte(`{"event":"edit_message","payload":{"id":"m1","content":"fixed"}}`)

	var in Inbound
	require.NoError(t, json.Unmarshal(raw, &in))
	assert.Equal(t, EvtEditMessage, in.Event)

	var p EditPayload
	require.NoError(t, json.Unmarshal(in.Payload, &p))
	assert.Equal(t, "m1", p.ID)
	assert.Equal(t, "fixed", p.Content)
}

func TestErrorPayloadMirrorsRESTEnvelope(t *testing.T) {
	data, err := EncodeEvent(EvtError, ErrorPayload{Error: "forbidden", Message: "You do not have permission to perform this action."})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"event":"error","payload":{"error":"forbidden","message":"You do not have permission to perform this action."}}`,
		string(data))
}

package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/internal/pkg/errs"
)

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, map[string]any{"count": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(3), body["count"])
}

func TestSuccessNilPayload(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, nil)

	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestCreatedStatus(t *testing.T) {
	w := httptest.NewRecorder()

	Created(w, map[string]any{"id": "m1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, errs.New(errs.ErrMessageNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "message_not_found", body["error"])
	assert.NotEmpty(t, body["message"])
	assert.NotContains(t, w.Body.String(), "success")
}

func TestErrorNilFallsBackToInternal(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

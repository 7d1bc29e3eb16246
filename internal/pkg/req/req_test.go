package req

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/internal/pkg/errs"
)

type payload struct {
	Name string `json:"name"`
}

func bind(t *testing.T, contentType, body string) (*payload, *errs.CustomError) {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()

	var dst payload
	return &dst, BindJSON(w, r, &dst)
}

func TestBindJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		dst, customErr := bind(t, "application/json", `{"name":"alice"}`)
		require.Nil(t, customErr)
		assert.Equal(t, "alice", dst.Name)
	})

	t.Run("charset suffix accepted", func(t *testing.T) {
		_, customErr := bind(t, "application/json; charset=utf-8", `{"name":"alice"}`)
		assert.Nil(t, customErr)
	})

	t.Run("wrong content type", func(t *testing.T) {
		_, customErr := bind(t, "text/plain", `{"name":"alice"}`)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrUnsupportedMediaType, customErr.Label)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, customErr := bind(t, "application/json", `{"name":`)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrInvalidJSON, customErr.Label)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, customErr := bind(t, "application/json", `{"name":"alice","extra":1}`)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrInvalidJSON, customErr.Label)
	})

	t.Run("trailing document rejected", func(t *testing.T) {
		_, customErr := bind(t, "application/json", `{"name":"alice"}{"name":"bob"}`)
		require.NotNil(t, customErr)
		assert.Equal(t, errs.ErrInvalidJSON, customErr.Label)
	})
}

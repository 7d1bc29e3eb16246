/*
Package req binds HTTP request bodies to structs.

Binding is strict: the Content-Type must be application/json, unknown fields
are rejected, and trailing content after the JSON document is an error.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"relaychat/internal/pkg/errs"
)

// MaxBodyBytes caps the size of any JSON request body.
const MaxBodyBytes int64 = 1 << 20 // 1 MB

// BindJSON decodes the request body into dst.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.New(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.New(errs.ErrInvalidJSON)
	}

	if decoder.More() {
		return errs.New(errs.ErrInvalidJSON)
	}

	return nil
}

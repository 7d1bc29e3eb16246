/*
Package resp writes the uniform JSON envelope used by every REST endpoint.

Successful responses are the payload map with "success": true merged in.
Failures are {"error": <label>, "message": <description>} with the status
registered for the label.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
)

// errorBody is the failure envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON sets headers and writes the marshaled payload.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	body, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "failed to encode JSON response", "http_status", status)
		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	w.Write(body)
}

// Success sends HTTP 200 with the given payload fields plus "success": true.
// A nil payload produces a bare {"success": true}.
func Success(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// Created behaves like Success but responds with HTTP 201.
func Created(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusCreated, body)
}

// Error sends the failure envelope for the given CustomError.
func Error(w http.ResponseWriter, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.New(errs.ErrInternal)
	}

	writeJSON(w, customErr.Status, errorBody{
		Error:   customErr.Label,
		Message: customErr.Message,
	})
}

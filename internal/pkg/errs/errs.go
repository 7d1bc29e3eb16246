/*
Package errs defines the application error type and the catalog of error
labels returned to clients.

A CustomError carries a short machine-readable label, a human-readable
message, and the HTTP status it maps to. Handlers build errors exclusively
through New so that every label resolves to a known message and status.
*/
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"relaychat/internal/pkg/logx"
)

// CustomError is the error shape used across REST handlers and the live
// channel. Label and Message are what clients see; internal causes are logged
// server-side only.
type CustomError struct {
	// Label is the stable machine-readable error identifier (see labels.go).
	Label string

	// Message is the client-facing description.
	Message string

	// Status is the HTTP status code this error maps to.
	Status int
}

// Error implements the error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("%s (HTTP %d): %s", e.Label, e.Status, e.Message)
}

// New returns the CustomError registered for the given label. Optional
// details are applied printf-style when the registered message carries
// placeholders. Unknown labels fall back to ErrInternal.
func New(label string, details ...any) *CustomError {
	template, ok := errorMap[label]

	if !ok {
		logx.Error(
			fmt.Errorf("unregistered error label %q", label),
			"errs.New called with unknown label",
		)
		internal := errorMap[ErrInternal]
		return &internal
	}

	customErr := template

	if customErr.Status == 0 {
		customErr.Status = http.StatusBadRequest
	}

	if len(details) > 0 {
		if label == ErrInternal {
			if cause, ok := details[0].(error); ok {
				logx.Error(cause, "internal error surfaced to client")
			}
		} else if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		}
	}

	return &customErr
}

package errs

import "net/http"

// errorMap registers the message and HTTP status for every error label.
var errorMap = map[string]CustomError{
	ErrInvalidParams:        {Label: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrInvalidJSON:          {Label: ErrInvalidJSON, Message: "Request body must be valid JSON.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Label: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrContentEmpty:         {Label: ErrContentEmpty, Message: "Message content cannot be empty.", Status: http.StatusBadRequest},
	ErrContentTooLong:       {Label: ErrContentTooLong, Message: "Message content cannot exceed %d characters.", Status: http.StatusBadRequest},
	ErrInvalidAttachment:    {Label: ErrInvalidAttachment, Message: "Invalid attachment.", Status: http.StatusBadRequest},
	ErrReplyTargetNotFound:  {Label: ErrReplyTargetNotFound, Message: "The message being replied to does not exist.", Status: http.StatusBadRequest},
	ErrInvalidEmail:         {Label: ErrInvalidEmail, Message: "Invalid email address.", Status: http.StatusBadRequest},
	ErrInvalidPassword:      {Label: ErrInvalidPassword, Message: "Password must be between 6 and 72 characters.", Status: http.StatusBadRequest},

	ErrCredentialRequired: {Label: ErrCredentialRequired, Message: "Authentication credential required.", Status: http.StatusUnauthorized},
	ErrAuthFailed:         {Label: ErrAuthFailed, Message: "Authentication failed.", Status: http.StatusUnauthorized},
	ErrInvalidCredentials: {Label: ErrInvalidCredentials, Message: "Incorrect email or password.", Status: http.StatusUnauthorized},

	ErrForbidden: {Label: ErrForbidden, Message: "You do not have permission to perform this action.", Status: http.StatusForbidden},

	ErrMessageNotFound: {Label: ErrMessageNotFound, Message: "Message not found.", Status: http.StatusNotFound},
	ErrUserNotFound:    {Label: ErrUserNotFound, Message: "User not found.", Status: http.StatusNotFound},

	ErrEmailTaken: {Label: ErrEmailTaken, Message: "An account with this email already exists.", Status: http.StatusConflict},

	ErrRateLimited: {Label: ErrRateLimited, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	ErrInternal: {Label: ErrInternal, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrUpstream: {Label: ErrUpstream, Message: "Upstream service unavailable.", Status: http.StatusBadGateway},
}

package errs

// Validation errors (400).
const (
	// ErrInvalidParams indicates malformed or missing request parameters.
	ErrInvalidParams = "invalid_request"

	// ErrInvalidJSON indicates a request body that is not well-formed JSON.
	ErrInvalidJSON = "invalid_json"

	// ErrUnsupportedMediaType indicates a Content-Type other than application/json.
	ErrUnsupportedMediaType = "unsupported_media_type"

	// ErrContentEmpty indicates message content that is empty after trimming.
	ErrContentEmpty = "content_empty"

	// ErrContentTooLong indicates message content above the length limit.
	ErrContentTooLong = "content_too_long"

	// ErrInvalidAttachment indicates an attachment descriptor that failed validation.
	ErrInvalidAttachment = "invalid_attachment"

	// ErrReplyTargetNotFound indicates a reply reference to a message that does not exist.
	ErrReplyTargetNotFound = "reply_target_not_found"

	// ErrInvalidEmail indicates an email address that failed validation.
	ErrInvalidEmail = "invalid_email"

	// ErrInvalidPassword indicates a password outside the accepted length range.
	ErrInvalidPassword = "invalid_password"
)

// Authentication errors (401).
const (
	// ErrCredentialRequired indicates a request or connection with no bearer credential.
	ErrCredentialRequired = "credential_required"

	// ErrAuthFailed indicates a malformed, expired, or badly signed credential,
	// or a credential whose subject is missing or deactivated.
	ErrAuthFailed = "authentication_failed"

	// ErrInvalidCredentials indicates a failed email/password login.
	ErrInvalidCredentials = "invalid_credentials"
)

// Authorization errors (403).
const (
	// ErrForbidden indicates an operation the acting user is not allowed to perform.
	ErrForbidden = "forbidden"
)

// Not-found errors (404).
const (
	// ErrMessageNotFound indicates an unknown message identifier.
	ErrMessageNotFound = "message_not_found"

	// ErrUserNotFound indicates an unknown user identifier.
	ErrUserNotFound = "user_not_found"
)

// Conflict errors (409).
const (
	// ErrEmailTaken indicates a registration attempt with an email already in use.
	ErrEmailTaken = "email_taken"
)

// Throttling (429).
const (
	// ErrRateLimited indicates the per-IP request budget was exceeded.
	ErrRateLimited = "rate_limited"
)

// Upstream and internal errors (5xx).
const (
	// ErrInternal is the generic server failure; the cause is logged, never returned.
	ErrInternal = "internal_error"

	// ErrUpstream indicates a failure in an external collaborator (storage, weather).
	ErrUpstream = "upstream_error"
)
